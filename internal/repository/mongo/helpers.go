package mongo

import (
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// insertedObjectID asserts the type of the id MongoDB reports for an insert.
func insertedObjectID(result *mongo.InsertOneResult) (primitive.ObjectID, error) {
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// findOne decodes the single document matching filter into out, mapping
// mongo.ErrNoDocuments to repository.ErrNotFound.
func findOne(ctx context.Context, collection *mongo.Collection, filter bson.M, out interface{}, opts ...*options.FindOneOptions) error {
	err := collection.FindOne(ctx, filter, opts...).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

// findAll decodes every document matching filter into out, which must be a pointer to a slice.
func findAll(ctx context.Context, collection *mongo.Collection, filter bson.M, findOptions *options.FindOptions, out interface{}) error {
	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, out); err != nil {
		return err
	}
	return cursor.Err()
}

func updateByID(ctx context.Context, collection *mongo.Collection, id primitive.ObjectID, update bson.M) error {
	result, err := collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	// ModifiedCount is 0 when nothing changed, which is fine.
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, collection *mongo.Collection, id primitive.ObjectID) error {
	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
