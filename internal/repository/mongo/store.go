package mongo

import (
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// NewStore wires every MongoDB repository against db.
func NewStore(db *mongo.Database) *repository.Store {
	return &repository.Store{
		Categories:       NewMongoCategoryRepository(db),
		Exercises:        NewMongoExerciseRepository(db),
		Workouts:         NewMongoWorkoutRepository(db),
		WorkoutExercises: NewMongoWorkoutExerciseRepository(db),
		Videos:           NewMongoVideoRepository(db),
		Profiles:         NewMongoProfileRepository(db),
		Accounts:         NewMongoAccountRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection and joins the failures.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return errors.Join(
		EnsureCategoryIndexes(ctx, db.Collection(categoryCollectionName)),
		EnsureExerciseIndexes(ctx, db.Collection(exerciseCollectionName)),
		EnsureWorkoutIndexes(ctx, db.Collection(workoutCollectionName)),
		EnsureWorkoutExerciseIndexes(ctx, db.Collection(workoutExerciseCollectionName)),
		EnsureVideoIndexes(ctx, db.Collection(videoCollectionName)),
		EnsureProfileIndexes(ctx, db.Collection(profileCollectionName)),
		EnsureAccountIndexes(ctx, db.Collection(accountCollectionName)),
	)
}
