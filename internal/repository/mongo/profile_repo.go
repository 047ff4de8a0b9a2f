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

const profileCollectionName = "profiles"

// mongoProfileRepository implements the repository.ProfileRepository interface using MongoDB.
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new instance of mongoProfileRepository.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// Create inserts a profile. The ID must already be set to the owning account's ID.
func (r *mongoProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if profile.ID == primitive.NilObjectID {
		return errors.New("profile ID is required")
	}
	if !profile.Role.Valid() {
		return errors.New("profile role must be admin or user")
	}
	profile.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return err
	}
	return nil
}

// GetByID retrieves a profile by the identity's ObjectID.
func (r *mongoProfileRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	var profile domain.Profile
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns all profiles ordered by ID.
func (r *mongoProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	profiles := []domain.Profile{}
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := findAll(ctx, r.collection, bson.M{}, findOptions, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// SetRole changes the profile's role.
func (r *mongoProfileRepository) SetRole(ctx context.Context, id primitive.ObjectID, role domain.Role) error {
	if !role.Valid() {
		return errors.New("profile role must be admin or user")
	}
	return updateByID(ctx, r.collection, id, bson.M{"$set": bson.M{"role": role}})
}

// SetBanned changes the profile's ban flag.
func (r *mongoProfileRepository) SetBanned(ctx context.Context, id primitive.ObjectID, banned bool) error {
	return updateByID(ctx, r.collection, id, bson.M{"$set": bson.M{"isBanned": banned}})
}

// Count returns the number of profiles.
func (r *mongoProfileRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// EnsureProfileIndexes creates necessary indexes for the profiles collection.
func EnsureProfileIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
