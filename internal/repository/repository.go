package repository

import (
	"alcyxob/fitness-admin/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// CategoryRepository stores categories. List is ordered by name ascending.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// ExerciseRepository stores exercises. List and ListOptions are ordered by name ascending.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	ListOptions(ctx context.Context) ([]domain.ExerciseOption, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// WorkoutRepository stores workouts. List is ordered by creation time, newest first.
// Delete also removes the workout's exercise links.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	List(ctx context.Context) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// WorkoutExerciseRepository stores the workout <-> exercise join rows.
// Rows returned by every method carry the linked exercise's id and name.
type WorkoutExerciseRepository interface {
	// Create inserts the link and returns the stored row including the exercise name.
	Create(ctx context.Context, link *domain.WorkoutExercise) (*domain.WorkoutExercise, error)
	// ListByWorkout returns links ordered by Order ascending.
	ListByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExercise, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// VideoRepository stores videos. List is ordered by creation time, newest first.
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Video, error)
	List(ctx context.Context) ([]domain.Video, error)
	Update(ctx context.Context, video *domain.Video) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// ProfileRepository stores authorization profiles. List is ordered by id ascending.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role domain.Role) error
	SetBanned(ctx context.Context, id primitive.ObjectID, banned bool) error
	Count(ctx context.Context) (int64, error)
}

// AccountRepository stores login identities.
type AccountRepository interface {
	// Create fails with ErrDuplicateKey when the e-mail is taken.
	Create(ctx context.Context, account *domain.Account) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Delete exists to undo a half-finished registration.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Store bundles every repository a running console needs.
type Store struct {
	Categories       CategoryRepository
	Exercises        ExerciseRepository
	Workouts         WorkoutRepository
	WorkoutExercises WorkoutExerciseRepository
	Videos           VideoRepository
	Profiles         ProfileRepository
	Accounts         AccountRepository
}
