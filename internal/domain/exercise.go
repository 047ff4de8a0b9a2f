package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a single exercise definition in the shared library.
// The recommended_* fields are optional; nil means "not set".
type Exercise struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                   string             `bson:"name" json:"name"`
	Description            *string            `bson:"description,omitempty" json:"description,omitempty"`
	PreviewURL             *string            `bson:"previewUrl,omitempty" json:"previewUrl,omitempty"`
	RecommendedSets        *int               `bson:"recommendedSets,omitempty" json:"recommendedSets,omitempty"`
	RecommendedReps        *int               `bson:"recommendedReps,omitempty" json:"recommendedReps,omitempty"`
	RecommendedRestSeconds *int               `bson:"recommendedRestSeconds,omitempty" json:"recommendedRestSeconds,omitempty"`
	CreatedAt              time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseOption is the (id, name) pair used by pickers and join rows.
type ExerciseOption struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}
