// Package repositorytest holds the behaviour every repository.Store backend
// must share. Each backend's tests call Run with a constructor for an empty store.
package repositorytest

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Run executes the shared suite. open must return a store with no data in it.
func Run(t *testing.T, open func(t *testing.T) *repository.Store) {
	t.Run("CategoryRoundTrip", func(t *testing.T) { testCategoryRoundTrip(t, open(t)) })
	t.Run("MissingRecordsAreNotFound", func(t *testing.T) { testMissingRecords(t, open(t)) })
	t.Run("ExerciseOptionalNumbers", func(t *testing.T) { testExerciseOptionalNumbers(t, open(t)) })
	t.Run("WorkoutUpdateKeepsOwner", func(t *testing.T) { testWorkoutUpdateKeepsOwner(t, open(t)) })
	t.Run("WorkoutLinkOrder", func(t *testing.T) { testWorkoutLinkOrder(t, open(t)) })
	t.Run("DanglingLinkIsNotFound", func(t *testing.T) { testDanglingLink(t, open(t)) })
	t.Run("DeletesCascadeToLinks", func(t *testing.T) { testDeleteCascades(t, open(t)) })
	t.Run("VideosNewestFirst", func(t *testing.T) { testVideosNewestFirst(t, open(t)) })
	t.Run("ProfilesAndAccounts", func(t *testing.T) { testProfilesAndAccounts(t, open(t)) })
}

func testCategoryRoundTrip(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	notes := "  - hips\n  - ankles\n"
	id, err := store.Categories.Create(ctx, &domain.Category{Name: "Mobility", Description: &notes})
	require.NoError(t, err)
	_, err = store.Categories.Create(ctx, &domain.Category{Name: "Cardio"})
	require.NoError(t, err)

	created, err := store.Categories.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Mobility", created.Name)
	require.Equal(t, notes, domain.StringValue(created.Description))

	list, err := store.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Cardio", list[0].Name)
	require.Equal(t, "Mobility", list[1].Name)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.Categories.Update(ctx, &domain.Category{ID: id, Name: "Stretching", Description: created.Description}))

	updated, err := store.Categories.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Stretching", updated.Name)
	require.Equal(t, notes, domain.StringValue(updated.Description))
	require.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Millisecond)
	require.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	n, err := store.Categories.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	require.NoError(t, store.Categories.Delete(ctx, id))
	require.ErrorIs(t, store.Categories.Delete(ctx, id), repository.ErrNotFound)

	_, err = store.Categories.GetByID(ctx, id)
	require.ErrorIs(t, err, repository.ErrNotFound)
	n, err = store.Categories.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func testMissingRecords(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	missing := primitive.NewObjectID()

	_, err := store.Categories.GetByID(ctx, missing)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, store.Categories.Update(ctx, &domain.Category{ID: missing, Name: "x"}), repository.ErrNotFound)

	_, err = store.Exercises.GetByID(ctx, missing)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, store.Exercises.Update(ctx, &domain.Exercise{ID: missing, Name: "x"}), repository.ErrNotFound)
	require.ErrorIs(t, store.Exercises.Delete(ctx, missing), repository.ErrNotFound)

	_, err = store.Workouts.GetByID(ctx, missing)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, store.Workouts.Update(ctx, &domain.Workout{ID: missing, Name: "x"}), repository.ErrNotFound)
	require.ErrorIs(t, store.Workouts.Delete(ctx, missing), repository.ErrNotFound)
	require.ErrorIs(t, store.WorkoutExercises.Delete(ctx, missing), repository.ErrNotFound)

	_, err = store.Videos.GetByID(ctx, missing)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, store.Videos.Update(ctx, &domain.Video{ID: missing, Title: "x", URL: "https://cdn.example.com/x.mp4"}), repository.ErrNotFound)
	require.ErrorIs(t, store.Videos.Delete(ctx, missing), repository.ErrNotFound)

	_, err = store.Profiles.GetByID(ctx, missing)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, store.Profiles.SetRole(ctx, missing, domain.RoleAdmin), repository.ErrNotFound)
	require.ErrorIs(t, store.Profiles.SetBanned(ctx, missing, true), repository.ErrNotFound)

	_, err = store.Accounts.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, store.Accounts.Delete(ctx, missing), repository.ErrNotFound)
}

func testExerciseOptionalNumbers(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	sets := 4
	id, err := store.Exercises.Create(ctx, &domain.Exercise{Name: "Squat", RecommendedSets: &sets})
	require.NoError(t, err)
	_, err = store.Exercises.Create(ctx, &domain.Exercise{Name: "Deadlift"})
	require.NoError(t, err)

	squat, err := store.Exercises.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, squat.RecommendedSets)
	require.Equal(t, 4, *squat.RecommendedSets)
	require.Nil(t, squat.RecommendedReps)
	require.Nil(t, squat.RecommendedRestSeconds)
	require.Nil(t, squat.Description)

	reps, rest := 8, 90
	squat.RecommendedSets = nil
	squat.RecommendedReps = &reps
	squat.RecommendedRestSeconds = &rest
	require.NoError(t, store.Exercises.Update(ctx, squat))

	squat, err = store.Exercises.GetByID(ctx, id)
	require.NoError(t, err)
	require.Nil(t, squat.RecommendedSets)
	require.Equal(t, 8, *squat.RecommendedReps)
	require.Equal(t, 90, *squat.RecommendedRestSeconds)

	opts, err := store.Exercises.ListOptions(ctx)
	require.NoError(t, err)
	require.Len(t, opts, 2)
	require.Equal(t, "Deadlift", opts[0].Name)
	require.Equal(t, domain.ExerciseOption{ID: id, Name: "Squat"}, opts[1])
}

func testWorkoutUpdateKeepsOwner(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	owner := primitive.NewObjectID()
	id, err := store.Workouts.Create(ctx, &domain.Workout{Name: "Push", UserID: &owner})
	require.NoError(t, err)
	created, err := store.Workouts.GetByID(ctx, id)
	require.NoError(t, err)

	require.NoError(t, store.Workouts.Update(ctx, &domain.Workout{ID: id, Name: "Push Day", IsPublic: true}))

	updated, err := store.Workouts.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Push Day", updated.Name)
	require.True(t, updated.IsPublic)
	require.NotNil(t, updated.UserID)
	require.Equal(t, owner, *updated.UserID)
	require.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Millisecond)
}

func seedExercises(t *testing.T, store *repository.Store, names ...string) []primitive.ObjectID {
	t.Helper()
	ids := make([]primitive.ObjectID, 0, len(names))
	for _, name := range names {
		id, err := store.Exercises.Create(context.Background(), &domain.Exercise{Name: name})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

// appendLink adds exerciseID at the end of the workout the way the workout service does.
func appendLink(t *testing.T, store *repository.Store, workoutID, exerciseID primitive.ObjectID) *domain.WorkoutExercise {
	t.Helper()
	ctx := context.Background()
	links, err := store.WorkoutExercises.ListByWorkout(ctx, workoutID)
	require.NoError(t, err)
	link, err := store.WorkoutExercises.Create(ctx, &domain.WorkoutExercise{
		WorkoutID:  workoutID,
		ExerciseID: exerciseID,
		Order:      domain.NextOrder(links),
	})
	require.NoError(t, err)
	return link
}

func linkOrders(t *testing.T, store *repository.Store, workoutID primitive.ObjectID) ([]int, []string) {
	t.Helper()
	links, err := store.WorkoutExercises.ListByWorkout(context.Background(), workoutID)
	require.NoError(t, err)
	orders := make([]int, 0, len(links))
	names := make([]string, 0, len(links))
	for _, l := range links {
		orders = append(orders, l.Order)
		names = append(names, l.Exercise.Name)
	}
	return orders, names
}

func testWorkoutLinkOrder(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	exercises := seedExercises(t, store, "Squat", "Bench Press", "Row")
	workoutID, err := store.Workouts.Create(ctx, &domain.Workout{Name: "Full Body"})
	require.NoError(t, err)

	first := appendLink(t, store, workoutID, exercises[0])
	require.Equal(t, 1, first.Order)
	require.Equal(t, domain.ExerciseOption{ID: exercises[0], Name: "Squat"}, first.Exercise)
	middle := appendLink(t, store, workoutID, exercises[1])
	appendLink(t, store, workoutID, exercises[2])

	orders, names := linkOrders(t, store, workoutID)
	require.Equal(t, []int{1, 2, 3}, orders)
	require.Equal(t, []string{"Squat", "Bench Press", "Row"}, names)

	require.NoError(t, store.WorkoutExercises.Delete(ctx, middle.ID))
	require.ErrorIs(t, store.WorkoutExercises.Delete(ctx, middle.ID), repository.ErrNotFound)

	orders, names = linkOrders(t, store, workoutID)
	require.Equal(t, []int{1, 3}, orders)
	require.Equal(t, []string{"Squat", "Row"}, names)

	// Orders are never compacted, so the next link goes after the highest one.
	last := appendLink(t, store, workoutID, exercises[1])
	require.Equal(t, 4, last.Order)

	// The same exercise may appear twice in one workout.
	appendLink(t, store, workoutID, exercises[0])
	orders, names = linkOrders(t, store, workoutID)
	require.Equal(t, []int{1, 3, 4, 5}, orders)
	require.Equal(t, []string{"Squat", "Row", "Bench Press", "Squat"}, names)

	// Renaming the exercise shows up in the joined name.
	squat, err := store.Exercises.GetByID(ctx, exercises[0])
	require.NoError(t, err)
	squat.Name = "Back Squat"
	require.NoError(t, store.Exercises.Update(ctx, squat))
	_, names = linkOrders(t, store, workoutID)
	require.Equal(t, "Back Squat", names[0])
}

func testDanglingLink(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	exercises := seedExercises(t, store, "Plank")
	workoutID, err := store.Workouts.Create(ctx, &domain.Workout{Name: "Core"})
	require.NoError(t, err)

	_, err = store.WorkoutExercises.Create(ctx, &domain.WorkoutExercise{
		WorkoutID: workoutID, ExerciseID: primitive.NewObjectID(), Order: 1,
	})
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = store.WorkoutExercises.Create(ctx, &domain.WorkoutExercise{
		WorkoutID: primitive.NewObjectID(), ExerciseID: exercises[0], Order: 1,
	})
	require.ErrorIs(t, err, repository.ErrNotFound)

	links, err := store.WorkoutExercises.ListByWorkout(ctx, workoutID)
	require.NoError(t, err)
	require.Empty(t, links)
}

func testDeleteCascades(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	exercises := seedExercises(t, store, "Lunge", "Burpee")
	legs, err := store.Workouts.Create(ctx, &domain.Workout{Name: "Legs"})
	require.NoError(t, err)
	hiit, err := store.Workouts.Create(ctx, &domain.Workout{Name: "HIIT"})
	require.NoError(t, err)

	appendLink(t, store, legs, exercises[0])
	appendLink(t, store, legs, exercises[1])
	appendLink(t, store, hiit, exercises[1])

	// Deleting an exercise drops its links from every workout.
	require.NoError(t, store.Exercises.Delete(ctx, exercises[1]))
	_, names := linkOrders(t, store, legs)
	require.Equal(t, []string{"Lunge"}, names)
	_, names = linkOrders(t, store, hiit)
	require.Empty(t, names)

	// Deleting a workout drops its links; the exercise stays.
	require.NoError(t, store.Workouts.Delete(ctx, legs))
	_, names = linkOrders(t, store, legs)
	require.Empty(t, names)
	_, err = store.Exercises.GetByID(ctx, exercises[0])
	require.NoError(t, err)
	require.ErrorIs(t, store.Workouts.Delete(ctx, legs), repository.ErrNotFound)
}

func testVideosNewestFirst(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	for _, title := range []string{"Warm-up", "Cool-down"} {
		_, err := store.Videos.Create(ctx, &domain.Video{Title: title, URL: "https://cdn.example.com/" + title + ".mp4"})
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}

	videos, err := store.Videos.List(ctx)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	require.Equal(t, "Cool-down", videos[0].Title)
	require.Equal(t, "Warm-up", videos[1].Title)

	v := videos[1]
	v.URL = "https://cdn.example.com/warmup-v2.mp4"
	require.NoError(t, store.Videos.Update(ctx, &v))
	stored, err := store.Videos.GetByID(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, "Warm-up", stored.Title)
	require.Equal(t, "https://cdn.example.com/warmup-v2.mp4", stored.URL)
}

func testProfilesAndAccounts(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	accountID, err := store.Accounts.Create(ctx, &domain.Account{Email: "Coach@Example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	_, err = store.Accounts.Create(ctx, &domain.Account{Email: "coach@example.COM", PasswordHash: "other"})
	require.ErrorIs(t, err, repository.ErrDuplicateKey)

	account, err := store.Accounts.GetByEmail(ctx, "COACH@example.com")
	require.NoError(t, err)
	require.Equal(t, accountID, account.ID)
	require.Equal(t, "coach@example.com", account.Email)

	require.NoError(t, store.Profiles.Create(ctx, &domain.Profile{ID: accountID, Role: domain.RoleUser}))
	require.ErrorIs(t, store.Profiles.Create(ctx, &domain.Profile{ID: accountID, Role: domain.RoleAdmin}), repository.ErrDuplicateKey)

	require.NoError(t, store.Profiles.SetRole(ctx, accountID, domain.RoleAdmin))
	require.NoError(t, store.Profiles.SetBanned(ctx, accountID, true))
	profile, err := store.Profiles.GetByID(ctx, accountID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, profile.Role)
	require.True(t, profile.IsBanned)

	later := primitive.NewObjectID()
	require.NoError(t, store.Profiles.Create(ctx, &domain.Profile{ID: later, Role: domain.RoleUser}))
	profiles, err := store.Profiles.List(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	require.Equal(t, accountID, profiles[0].ID)
	require.Equal(t, later, profiles[1].ID)

	n, err := store.Profiles.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	require.NoError(t, store.Accounts.Delete(ctx, accountID))
	_, err = store.Accounts.GetByEmail(ctx, "coach@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
