package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is an ordered collection of exercises. Workouts created from the console
// have no owning user; user-built workouts carry the owner's id.
type Workout struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Description *string             `bson:"description,omitempty" json:"description,omitempty"`
	IsPublic    bool                `bson:"isPublic" json:"isPublic"`
	UserID      *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutExercise links an exercise into a workout at a display position.
// Order values are assigned as max+1 and never renumbered, so gaps are expected.
type WorkoutExercise struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID  primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Order      int                `bson:"order" json:"order"`
	// Exercise is resolved on read and never persisted.
	Exercise  ExerciseOption `bson:"-" json:"exercise"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
}

// NextOrder returns the order value for a new link appended after links.
func NextOrder(links []WorkoutExercise) int {
	max := 0
	for _, l := range links {
		if l.Order > max {
			max = l.Order
		}
	}
	return max + 1
}
