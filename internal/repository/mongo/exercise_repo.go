package mongo

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise into the database.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" {
		return primitive.NilObjectID, errors.New("exercise name is required")
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}

// List returns all exercises sorted by name.
func (r *mongoExerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	exercises := []domain.Exercise{}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if err := findAll(ctx, r.collection, bson.M{}, findOptions, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// ListOptions returns only id and name of every exercise, sorted by name.
func (r *mongoExerciseRepository) ListOptions(ctx context.Context) ([]domain.ExerciseOption, error) {
	opts := []domain.ExerciseOption{}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.M{"_id": 1, "name": 1})
	if err := findAll(ctx, r.collection, bson.M{}, findOptions, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// Update modifies an existing exercise and bumps UpdatedAt.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}
	if exercise.Name == "" {
		return errors.New("exercise name cannot be empty")
	}

	update := bson.M{
		"$set": bson.M{
			"name":                   exercise.Name,
			"description":            exercise.Description,
			"previewUrl":             exercise.PreviewURL,
			"recommendedSets":        exercise.RecommendedSets,
			"recommendedReps":        exercise.RecommendedReps,
			"recommendedRestSeconds": exercise.RecommendedRestSeconds,
			"updatedAt":              time.Now().UTC(),
		},
	}
	return updateByID(ctx, r.collection, exercise.ID, update)
}

// Delete removes an exercise together with the workout links pointing at it.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := deleteByID(ctx, r.collection, id); err != nil {
		return err
	}
	links := r.collection.Database().Collection(workoutExerciseCollectionName)
	_, err := links.DeleteMany(ctx, bson.M{"exerciseId": id})
	return err
}

// Count returns the number of exercises.
func (r *mongoExerciseRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("exercise_text_search"),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
