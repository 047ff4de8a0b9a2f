package service

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/lock"
	"alcyxob/fitness-admin/internal/media"
	"alcyxob/fitness-admin/internal/repository"
	"alcyxob/fitness-admin/internal/repository/memory"
	"alcyxob/fitness-admin/internal/session"
	"alcyxob/fitness-admin/internal/storage"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type services struct {
	store      *repository.Store
	locks      *lock.Table
	files      *storage.MemoryStorage
	categories CategoryService
	exercises  ExerciseService
	workouts   WorkoutService
	videos     VideoService
	profiles   ProfileService
	dashboard  DashboardService
	auth       AuthService
	sessions   *session.Manager
}

func newServices(t *testing.T) services {
	t.Helper()
	store := memory.NewStore()
	locks := lock.NewTable()
	files := storage.NewMemoryStorage("/media")
	uploader := media.NewUploader(files, "")
	sessions := session.NewManager("test-secret", time.Hour, nil)
	return services{
		store:      store,
		locks:      locks,
		files:      files,
		categories: NewCategoryService(store.Categories, locks),
		exercises:  NewExerciseService(store.Exercises, uploader, locks),
		workouts:   NewWorkoutService(store.Workouts, store.WorkoutExercises, store.Exercises, locks),
		videos:     NewVideoService(store.Videos, uploader, locks),
		profiles:   NewProfileService(store.Profiles, locks),
		dashboard:  NewDashboardService(store),
		auth:       NewAuthService(store.Accounts, store.Profiles, sessions, []string{"Boss@Example.com"}),
		sessions:   sessions,
	}
}

func TestParseOptionalCount(t *testing.T) {
	n, err := ParseOptionalCount("sets", " 3 ")
	require.NoError(t, err)
	require.Equal(t, 3, *n)

	n, err = ParseOptionalCount("reps", "")
	require.NoError(t, err)
	require.Nil(t, n)

	for _, bad := range []string{"-1", "abc", "2.5"} {
		_, err = ParseOptionalCount("sets", bad)
		require.ErrorIs(t, err, ErrValidationFailed, bad)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.categories.CreateCategory(ctx, CategoryInput{Name: "  "})
	require.ErrorIs(t, err, ErrValidationFailed)

	created, err := s.categories.CreateCategory(ctx, CategoryInput{Name: " Strength ", Description: "Heavy lifting"})
	require.NoError(t, err)
	require.Equal(t, "Strength", created.Name)

	padded, err := s.categories.CreateCategory(ctx, CategoryInput{Name: "Mobility", Description: "  - hips\n  - ankles\n"})
	require.NoError(t, err)
	require.NotNil(t, padded.Description)
	require.Equal(t, "  - hips\n  - ankles\n", *padded.Description)
	require.NoError(t, s.categories.DeleteCategory(ctx, padded.ID))

	list, err := s.categories.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := s.categories.UpdateCategory(ctx, created.ID, CategoryInput{Name: "Power", Description: ""})
	require.NoError(t, err)
	require.Equal(t, "Power", updated.Name)
	require.Nil(t, updated.Description)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, s.categories.DeleteCategory(ctx, created.ID))
	require.ErrorIs(t, s.categories.DeleteCategory(ctx, created.ID), ErrCategoryNotFound)
	list, err = s.categories.ListCategories(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	_, err = s.categories.GetCategory(ctx, created.ID)
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCreateExerciseOptionalNumbers(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	ex, err := s.exercises.CreateExercise(ctx, ExerciseInput{Name: "Bicep Curl", Sets: "3", Reps: ""})
	require.NoError(t, err)
	require.NotNil(t, ex.RecommendedSets)
	require.Equal(t, 3, *ex.RecommendedSets)
	require.Nil(t, ex.RecommendedReps)
	require.Nil(t, ex.RecommendedRestSeconds)
	require.Nil(t, ex.PreviewURL)

	stored, err := s.exercises.GetExercise(ctx, ex.ID)
	require.NoError(t, err)
	require.Equal(t, 3, *stored.RecommendedSets)

	_, err = s.exercises.CreateExercise(ctx, ExerciseInput{Name: "Squat", Reps: "ten"})
	require.ErrorIs(t, err, ErrValidationFailed)
	require.Contains(t, err.Error(), "reps")
}

func TestExercisePreviewUploadWins(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	ex, err := s.exercises.CreateExercise(ctx, ExerciseInput{
		Name:       "Plank",
		PreviewURL: "https://example.com/ignored.gif",
		Preview:    &media.File{Name: "plank.gif", ContentType: "image/gif", Body: strings.NewReader("gif")},
	})
	require.NoError(t, err)
	require.NotNil(t, ex.PreviewURL)
	require.True(t, strings.HasPrefix(*ex.PreviewURL, "/media/media/"))
	require.True(t, strings.HasSuffix(*ex.PreviewURL, ".gif"))

	// Clearing the text without a new file removes the preview.
	updated, err := s.exercises.UpdateExercise(ctx, ex.ID, ExerciseInput{Name: "Plank", RestSeconds: "60"})
	require.NoError(t, err)
	require.Nil(t, updated.PreviewURL)
	require.Equal(t, 60, *updated.RecommendedRestSeconds)
}

func TestWorkoutExerciseOrdering(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	w, err := s.workouts.CreateWorkout(ctx, WorkoutInput{Name: "Full body", IsPublic: true})
	require.NoError(t, err)

	var ids []primitive.ObjectID
	for _, name := range []string{"E1", "E2", "E3"} {
		ex, err := s.exercises.CreateExercise(ctx, ExerciseInput{Name: name})
		require.NoError(t, err)
		ids = append(ids, ex.ID)
	}

	var links []*domain.WorkoutExercise
	for i, id := range ids {
		link, err := s.workouts.AddExercise(ctx, w.ID, id)
		require.NoError(t, err)
		require.Equal(t, i+1, link.Order)
		require.Equal(t, []string{"E1", "E2", "E3"}[i], link.Exercise.Name)
		links = append(links, link)
	}

	require.NoError(t, s.workouts.RemoveExercise(ctx, w.ID, links[1].ID))

	detail, err := s.workouts.GetWorkout(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, detail.Exercises, 2)
	require.Equal(t, 1, detail.Exercises[0].Order)
	require.Equal(t, 3, detail.Exercises[1].Order)

	// Gaps are never refilled.
	link, err := s.workouts.AddExercise(ctx, w.ID, ids[1])
	require.NoError(t, err)
	require.Equal(t, 4, link.Order)
}

func TestWorkoutExerciseErrors(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	w, err := s.workouts.CreateWorkout(ctx, WorkoutInput{Name: "A"})
	require.NoError(t, err)
	other, err := s.workouts.CreateWorkout(ctx, WorkoutInput{Name: "B"})
	require.NoError(t, err)
	ex, err := s.exercises.CreateExercise(ctx, ExerciseInput{Name: "Row"})
	require.NoError(t, err)

	_, err = s.workouts.AddExercise(ctx, w.ID, primitive.NilObjectID)
	require.ErrorIs(t, err, ErrValidationFailed)
	_, err = s.workouts.AddExercise(ctx, w.ID, primitive.NewObjectID())
	require.ErrorIs(t, err, ErrExerciseNotFound)
	_, err = s.workouts.AddExercise(ctx, primitive.NewObjectID(), ex.ID)
	require.ErrorIs(t, err, ErrWorkoutNotFound)

	link, err := s.workouts.AddExercise(ctx, w.ID, ex.ID)
	require.NoError(t, err)
	require.ErrorIs(t, s.workouts.RemoveExercise(ctx, other.ID, link.ID), ErrWorkoutExerciseNotFound)
}

func TestMutationOnLockedIdentityFailsFast(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	w, err := s.workouts.CreateWorkout(ctx, WorkoutInput{Name: "Legs"})
	require.NoError(t, err)

	release, err := s.locks.TryAcquire(lock.Key{Resource: resourceWorkout, ID: w.ID.Hex()}, OpUpdate)
	require.NoError(t, err)

	_, err = s.workouts.UpdateWorkout(ctx, w.ID, WorkoutInput{Name: "Legs day"})
	require.ErrorIs(t, err, lock.ErrBusy)
	require.ErrorIs(t, s.workouts.DeleteWorkout(ctx, w.ID), lock.ErrBusy)

	release()
	_, err = s.workouts.UpdateWorkout(ctx, w.ID, WorkoutInput{Name: "Legs day"})
	require.NoError(t, err)

	// A failed mutation still releases its entry.
	missing := primitive.NewObjectID()
	_, err = s.workouts.UpdateWorkout(ctx, missing, WorkoutInput{Name: "x"})
	require.ErrorIs(t, err, ErrWorkoutNotFound)
	require.False(t, s.locks.IsLocked(lock.Key{Resource: resourceWorkout, ID: missing.Hex()}))
	require.False(t, s.locks.IsLocked(lock.Key{Resource: resourceWorkout, ID: w.ID.Hex()}))
}

func TestVideoURLResolution(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.videos.CreateVideo(ctx, VideoInput{Title: "Intro"})
	require.ErrorIs(t, err, ErrValidationFailed)

	v, err := s.videos.CreateVideo(ctx, VideoInput{Title: "Intro", URL: "  https://example.com/v.mp4 "})
	require.NoError(t, err)
	require.Equal(t, "https://example.com/v.mp4", v.URL)

	updated, err := s.videos.UpdateVideo(ctx, v.ID, VideoInput{
		Title: "Intro",
		URL:   v.URL,
		File:  &media.File{Name: "intro.mp4", Body: strings.NewReader("mp4")},
	})
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(updated.URL, ".mp4"))
	require.NotEqual(t, "https://example.com/v.mp4", updated.URL)
	_, ok := s.files.Get(strings.TrimPrefix(updated.URL, "/media"))
	require.True(t, ok)
}

func TestProfileToggles(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	id := primitive.NewObjectID()
	require.NoError(t, s.store.Profiles.Create(ctx, &domain.Profile{ID: id, Role: domain.RoleUser}))

	p, err := s.profiles.ToggleRole(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, p.Role)

	p, err = s.profiles.ToggleBan(ctx, id)
	require.NoError(t, err)
	require.True(t, p.IsBanned)

	stored, err := s.store.Profiles.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, stored.Role)
	require.True(t, stored.IsBanned)

	_, err = s.profiles.ToggleRole(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestDashboardStats(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.exercises.CreateExercise(ctx, ExerciseInput{Name: "Push-up"})
	require.NoError(t, err)
	_, err = s.workouts.CreateWorkout(ctx, WorkoutInput{Name: "Morning"})
	require.NoError(t, err)
	_, _, err = s.auth.Register(ctx, "member@example.com", "password123")
	require.NoError(t, err)

	stats, err := s.dashboard.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, Stats{Exercises: 1, Workouts: 1, Videos: 0, Users: 1}, stats)
}

type brokenVideoCount struct {
	repository.VideoRepository
}

func (brokenVideoCount) Count(context.Context) (int64, error) {
	return 0, errors.New("videos collection unavailable")
}

func TestDashboardStatsKeepsOtherCountsOnFailure(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.exercises.CreateExercise(ctx, ExerciseInput{Name: "Squat"})
	require.NoError(t, err)
	_, err = s.exercises.CreateExercise(ctx, ExerciseInput{Name: "Lunge"})
	require.NoError(t, err)
	_, err = s.workouts.CreateWorkout(ctx, WorkoutInput{Name: "Legs"})
	require.NoError(t, err)

	store := *s.store
	store.Videos = brokenVideoCount{store.Videos}
	stats, err := NewDashboardService(&store).Stats(ctx)
	require.ErrorContains(t, err, "count videos")
	require.Equal(t, Stats{Exercises: 2, Workouts: 1, Videos: 0, Users: 0}, stats)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, _, err := s.auth.Register(ctx, "no-at-sign", "password123")
	require.ErrorIs(t, err, ErrValidationFailed)
	_, _, err = s.auth.Register(ctx, "short@example.com", "pw")
	require.ErrorIs(t, err, ErrValidationFailed)

	account, profile, err := s.auth.Register(ctx, "member@example.com", "password123")
	require.NoError(t, err)
	require.Empty(t, account.PasswordHash)
	require.Equal(t, account.ID, profile.ID)
	require.Equal(t, domain.RoleUser, profile.Role)

	_, _, err = s.auth.Register(ctx, "MEMBER@example.com", "password123")
	require.ErrorIs(t, err, ErrUserAlreadyExists)

	_, boss, err := s.auth.Register(ctx, "boss@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, boss.Role)

	_, _, err = s.auth.Login(ctx, "member@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = s.auth.Login(ctx, "nobody@example.com", "password123")
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	token, sess, err := s.auth.Login(ctx, "Member@Example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, account.ID, sess.UserID)

	_, err = s.sessions.Lookup(ctx, token)
	require.NoError(t, err)
	require.NoError(t, s.auth.Logout(ctx, token))
	_, err = s.sessions.Lookup(ctx, token)
	require.ErrorIs(t, err, session.ErrNoSession)
}
