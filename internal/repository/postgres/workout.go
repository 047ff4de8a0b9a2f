package postgres

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutRepository implements repository.WorkoutRepository.
type WorkoutRepository struct{ pool *pgxpool.Pool }

const workoutColumns = `id, name, description, is_public, user_id, created_at, updated_at`

func scanWorkout(row pgx.CollectableRow) (domain.Workout, error) {
	var w domain.Workout
	var id string
	var userID *string
	if err := row.Scan(&id, &w.Name, &w.Description, &w.IsPublic, &userID, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return w, err
	}
	var err error
	if w.ID, err = parseID(id); err != nil {
		return w, err
	}
	if userID != nil {
		uid, err := parseID(*userID)
		if err != nil {
			return w, err
		}
		w.UserID = &uid
	}
	return w, nil
}

func (r *WorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.Name == "" {
		return primitive.NilObjectID, errors.New("workout name is required")
	}
	workout.ID = primitive.NewObjectID()
	workout.CreatedAt = now()
	workout.UpdatedAt = workout.CreatedAt
	var userID *string
	if workout.UserID != nil {
		hex := workout.UserID.Hex()
		userID = &hex
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO workouts (`+workoutColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		workout.ID.Hex(), workout.Name, workout.Description, workout.IsPublic, userID,
		workout.CreatedAt, workout.UpdatedAt)
	if err != nil {
		return primitive.NilObjectID, mapErr(err)
	}
	return workout.ID, nil
}

func (r *WorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id=$1`, id.Hex())
	if err != nil {
		return nil, err
	}
	w, err := pgx.CollectExactlyOneRow(rows, scanWorkout)
	if err != nil {
		return nil, mapErr(err)
	}
	return &w, nil
}

func (r *WorkoutRepository) List(ctx context.Context) ([]domain.Workout, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+workoutColumns+` FROM workouts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanWorkout)
}

func (r *WorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.Name == "" {
		return errors.New("workout name cannot be empty")
	}
	workout.UpdatedAt = now()
	return execOne(ctx, r.pool, `UPDATE workouts SET name=$2, description=$3, is_public=$4, updated_at=$5 WHERE id=$1`,
		workout.ID.Hex(), workout.Name, workout.Description, workout.IsPublic, workout.UpdatedAt)
}

// Delete removes the workout; its links go with it via ON DELETE CASCADE.
func (r *WorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return execOne(ctx, r.pool, `DELETE FROM workouts WHERE id=$1`, id.Hex())
}

func (r *WorkoutRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.pool, "workouts")
}

// WorkoutExerciseRepository implements repository.WorkoutExerciseRepository.
type WorkoutExerciseRepository struct{ pool *pgxpool.Pool }

const linkSelect = `SELECT l.id, l.workout_id, l.exercise_id, l.sort_order, l.created_at, e.name
    FROM workout_exercises l JOIN exercises e ON e.id = l.exercise_id`

func scanLink(row pgx.CollectableRow) (domain.WorkoutExercise, error) {
	var l domain.WorkoutExercise
	var id, workoutID, exerciseID string
	if err := row.Scan(&id, &workoutID, &exerciseID, &l.Order, &l.CreatedAt, &l.Exercise.Name); err != nil {
		return l, err
	}
	var err error
	if l.ID, err = parseID(id); err != nil {
		return l, err
	}
	if l.WorkoutID, err = parseID(workoutID); err != nil {
		return l, err
	}
	if l.ExerciseID, err = parseID(exerciseID); err != nil {
		return l, err
	}
	l.Exercise.ID = l.ExerciseID
	return l, nil
}

// Create inserts the link and reads it back joined with the exercise name.
// A missing workout or exercise surfaces as repository.ErrNotFound.
func (r *WorkoutExerciseRepository) Create(ctx context.Context, link *domain.WorkoutExercise) (*domain.WorkoutExercise, error) {
	link.ID = primitive.NewObjectID()
	link.CreatedAt = now()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// The insert only happens when both referenced rows exist, so a dangling
	// reference reads back as no rows instead of a foreign-key error.
	_, err = tx.Exec(ctx, `INSERT INTO workout_exercises (id, workout_id, exercise_id, sort_order, created_at)
        SELECT $1, w.id, e.id, $4, $5 FROM workouts w, exercises e WHERE w.id=$2 AND e.id=$3`,
		link.ID.Hex(), link.WorkoutID.Hex(), link.ExerciseID.Hex(), link.Order, link.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}

	rows, err := tx.Query(ctx, linkSelect+` WHERE l.id=$1`, link.ID.Hex())
	if err != nil {
		return nil, err
	}
	stored, err := pgx.CollectExactlyOneRow(rows, scanLink)
	if err != nil {
		return nil, mapErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *WorkoutExerciseRepository) ListByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	rows, err := r.pool.Query(ctx, linkSelect+` WHERE l.workout_id=$1 ORDER BY l.sort_order ASC`, workoutID.Hex())
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanLink)
}

func (r *WorkoutExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return execOne(ctx, r.pool, `DELETE FROM workout_exercises WHERE id=$1`, id.Hex())
}

var _ repository.WorkoutExerciseRepository = (*WorkoutExerciseRepository)(nil)
