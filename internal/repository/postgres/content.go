package postgres

import (
	"alcyxob/fitness-admin/internal/domain"
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryRepository implements repository.CategoryRepository.
type CategoryRepository struct{ pool *pgxpool.Pool }

const categoryColumns = `id, name, description, created_at, updated_at`

func scanCategory(row pgx.CollectableRow) (domain.Category, error) {
	var c domain.Category
	var id string
	if err := row.Scan(&id, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return c, err
	}
	var err error
	c.ID, err = parseID(id)
	return c, err
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (primitive.ObjectID, error) {
	if category.Name == "" {
		return primitive.NilObjectID, errors.New("category name is required")
	}
	category.ID = primitive.NewObjectID()
	category.CreatedAt = now()
	category.UpdatedAt = category.CreatedAt
	_, err := r.pool.Exec(ctx, `INSERT INTO categories (`+categoryColumns+`) VALUES ($1,$2,$3,$4,$5)`,
		category.ID.Hex(), category.Name, category.Description, category.CreatedAt, category.UpdatedAt)
	if err != nil {
		return primitive.NilObjectID, mapErr(err)
	}
	return category.ID, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id=$1`, id.Hex())
	if err != nil {
		return nil, err
	}
	c, err := pgx.CollectExactlyOneRow(rows, scanCategory)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanCategory)
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if category.Name == "" {
		return errors.New("category name cannot be empty")
	}
	category.UpdatedAt = now()
	return execOne(ctx, r.pool, `UPDATE categories SET name=$2, description=$3, updated_at=$4 WHERE id=$1`,
		category.ID.Hex(), category.Name, category.Description, category.UpdatedAt)
}

func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return execOne(ctx, r.pool, `DELETE FROM categories WHERE id=$1`, id.Hex())
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.pool, "categories")
}

// ExerciseRepository implements repository.ExerciseRepository.
type ExerciseRepository struct{ pool *pgxpool.Pool }

const exerciseColumns = `id, name, description, preview_url, recommended_sets, recommended_reps, recommended_rest_seconds, created_at, updated_at`

func scanExercise(row pgx.CollectableRow) (domain.Exercise, error) {
	var e domain.Exercise
	var id string
	if err := row.Scan(&id, &e.Name, &e.Description, &e.PreviewURL,
		&e.RecommendedSets, &e.RecommendedReps, &e.RecommendedRestSeconds,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		return e, err
	}
	var err error
	e.ID, err = parseID(id)
	return e, err
}

func (r *ExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" {
		return primitive.NilObjectID, errors.New("exercise name is required")
	}
	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = now()
	exercise.UpdatedAt = exercise.CreatedAt
	_, err := r.pool.Exec(ctx, `INSERT INTO exercises (`+exerciseColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		exercise.ID.Hex(), exercise.Name, exercise.Description, exercise.PreviewURL,
		exercise.RecommendedSets, exercise.RecommendedReps, exercise.RecommendedRestSeconds,
		exercise.CreatedAt, exercise.UpdatedAt)
	if err != nil {
		return primitive.NilObjectID, mapErr(err)
	}
	return exercise.ID, nil
}

func (r *ExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE id=$1`, id.Hex())
	if err != nil {
		return nil, err
	}
	e, err := pgx.CollectExactlyOneRow(rows, scanExercise)
	if err != nil {
		return nil, mapErr(err)
	}
	return &e, nil
}

func (r *ExerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+exerciseColumns+` FROM exercises ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanExercise)
}

func (r *ExerciseRepository) ListOptions(ctx context.Context) ([]domain.ExerciseOption, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM exercises ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ExerciseOption, error) {
		var o domain.ExerciseOption
		var id string
		if err := row.Scan(&id, &o.Name); err != nil {
			return o, err
		}
		var err error
		o.ID, err = parseID(id)
		return o, err
	})
}

func (r *ExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.Name == "" {
		return errors.New("exercise name cannot be empty")
	}
	exercise.UpdatedAt = now()
	return execOne(ctx, r.pool, `UPDATE exercises SET name=$2, description=$3, preview_url=$4,
        recommended_sets=$5, recommended_reps=$6, recommended_rest_seconds=$7, updated_at=$8 WHERE id=$1`,
		exercise.ID.Hex(), exercise.Name, exercise.Description, exercise.PreviewURL,
		exercise.RecommendedSets, exercise.RecommendedReps, exercise.RecommendedRestSeconds,
		exercise.UpdatedAt)
}

// Delete removes the exercise; links referencing it go with it via ON DELETE CASCADE.
func (r *ExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return execOne(ctx, r.pool, `DELETE FROM exercises WHERE id=$1`, id.Hex())
}

func (r *ExerciseRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.pool, "exercises")
}

// VideoRepository implements repository.VideoRepository.
type VideoRepository struct{ pool *pgxpool.Pool }

const videoColumns = `id, title, description, url, created_at, updated_at`

func scanVideo(row pgx.CollectableRow) (domain.Video, error) {
	var v domain.Video
	var id string
	if err := row.Scan(&id, &v.Title, &v.Description, &v.URL, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return v, err
	}
	var err error
	v.ID, err = parseID(id)
	return v, err
}

func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) (primitive.ObjectID, error) {
	if video.Title == "" || video.URL == "" {
		return primitive.NilObjectID, errors.New("video title and url are required")
	}
	video.ID = primitive.NewObjectID()
	video.CreatedAt = now()
	video.UpdatedAt = video.CreatedAt
	_, err := r.pool.Exec(ctx, `INSERT INTO videos (`+videoColumns+`) VALUES ($1,$2,$3,$4,$5,$6)`,
		video.ID.Hex(), video.Title, video.Description, video.URL, video.CreatedAt, video.UpdatedAt)
	if err != nil {
		return primitive.NilObjectID, mapErr(err)
	}
	return video.ID, nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Video, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+videoColumns+` FROM videos WHERE id=$1`, id.Hex())
	if err != nil {
		return nil, err
	}
	v, err := pgx.CollectExactlyOneRow(rows, scanVideo)
	if err != nil {
		return nil, mapErr(err)
	}
	return &v, nil
}

func (r *VideoRepository) List(ctx context.Context) ([]domain.Video, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+videoColumns+` FROM videos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanVideo)
}

func (r *VideoRepository) Update(ctx context.Context, video *domain.Video) error {
	if video.Title == "" || video.URL == "" {
		return errors.New("video title and url cannot be empty")
	}
	video.UpdatedAt = now()
	return execOne(ctx, r.pool, `UPDATE videos SET title=$2, description=$3, url=$4, updated_at=$5 WHERE id=$1`,
		video.ID.Hex(), video.Title, video.Description, video.URL, video.UpdatedAt)
}

func (r *VideoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return execOne(ctx, r.pool, `DELETE FROM videos WHERE id=$1`, id.Hex())
}

func (r *VideoRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.pool, "videos")
}
