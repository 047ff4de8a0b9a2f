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

const workoutExerciseCollectionName = "workout_exercises"

// mongoWorkoutExerciseRepository implements repository.WorkoutExerciseRepository
type mongoWorkoutExerciseRepository struct {
	collection *mongo.Collection
	workouts   *mongo.Collection
	exercises  *mongo.Collection
}

// linkDoc is the shape of a join row after the $lookup stage.
type linkDoc struct {
	ID         primitive.ObjectID      `bson:"_id"`
	WorkoutID  primitive.ObjectID      `bson:"workoutId"`
	ExerciseID primitive.ObjectID      `bson:"exerciseId"`
	Order      int                     `bson:"order"`
	CreatedAt  time.Time               `bson:"createdAt"`
	Exercise   []domain.ExerciseOption `bson:"exercise"`
}

func (d linkDoc) toDomain() domain.WorkoutExercise {
	link := domain.WorkoutExercise{
		ID:         d.ID,
		WorkoutID:  d.WorkoutID,
		ExerciseID: d.ExerciseID,
		Order:      d.Order,
		CreatedAt:  d.CreatedAt,
		Exercise:   domain.ExerciseOption{ID: d.ExerciseID},
	}
	if len(d.Exercise) > 0 {
		link.Exercise = d.Exercise[0]
	}
	return link
}

// NewMongoWorkoutExerciseRepository creates a new join-row repository.
func NewMongoWorkoutExerciseRepository(db *mongo.Database) repository.WorkoutExerciseRepository {
	return &mongoWorkoutExerciseRepository{
		collection: db.Collection(workoutExerciseCollectionName),
		workouts:   db.Collection(workoutCollectionName),
		exercises:  db.Collection(exerciseCollectionName),
	}
}

// Create inserts a join row and returns it with the linked exercise's name.
// Workout and exercise must exist; a dangling link is reported as repository.ErrNotFound.
func (r *mongoWorkoutExerciseRepository) Create(ctx context.Context, link *domain.WorkoutExercise) (*domain.WorkoutExercise, error) {
	if link.WorkoutID == primitive.NilObjectID || link.ExerciseID == primitive.NilObjectID {
		return nil, errors.New("workout ID and exercise ID are required")
	}

	var workout struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	idOnly := options.FindOne().SetProjection(bson.M{"_id": 1})
	if err := findOne(ctx, r.workouts, bson.M{"_id": link.WorkoutID}, &workout, idOnly); err != nil {
		return nil, err
	}

	var exercise domain.ExerciseOption
	projection := options.FindOne().SetProjection(bson.M{"_id": 1, "name": 1})
	if err := findOne(ctx, r.exercises, bson.M{"_id": link.ExerciseID}, &exercise, projection); err != nil {
		return nil, err
	}

	link.ID = primitive.NewObjectID()
	link.CreatedAt = time.Now().UTC()
	result, err := r.collection.InsertOne(ctx, link)
	if err != nil {
		return nil, err
	}
	if link.ID, err = insertedObjectID(result); err != nil {
		return nil, err
	}

	stored := *link
	stored.Exercise = exercise
	return &stored, nil
}

// ListByWorkout returns the workout's links ordered by Order, joined with exercise names.
func (r *mongoWorkoutExerciseRepository) ListByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"workoutId": workoutID}}},
		{{Key: "$sort", Value: bson.D{{Key: "order", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         exerciseCollectionName,
			"localField":   "exerciseId",
			"foreignField": "_id",
			"as":           "exercise",
			"pipeline":     bson.A{bson.M{"$project": bson.M{"_id": 1, "name": 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []linkDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	links := make([]domain.WorkoutExercise, 0, len(docs))
	for _, d := range docs {
		links = append(links, d.toDomain())
	}
	return links, nil
}

// Delete removes a single join row by its own ID.
func (r *mongoWorkoutExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

// EnsureWorkoutExerciseIndexes creates necessary indexes for the join collection.
func EnsureWorkoutExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workoutId", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "exerciseId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
