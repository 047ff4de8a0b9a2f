// Package memory provides map-backed repositories for local development and tests.
package memory

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DB holds every table in memory. All repositories created from one DB share its lock,
// which keeps cascades (workout -> links) consistent.
type DB struct {
	mu         sync.RWMutex
	categories map[primitive.ObjectID]domain.Category
	exercises  map[primitive.ObjectID]domain.Exercise
	workouts   map[primitive.ObjectID]domain.Workout
	links      map[primitive.ObjectID]domain.WorkoutExercise
	videos     map[primitive.ObjectID]domain.Video
	profiles   map[primitive.ObjectID]domain.Profile
	accounts   map[primitive.ObjectID]domain.Account

	now func() time.Time
}

// NewDB constructs an empty in-memory database.
func NewDB() *DB {
	return &DB{
		categories: make(map[primitive.ObjectID]domain.Category),
		exercises:  make(map[primitive.ObjectID]domain.Exercise),
		workouts:   make(map[primitive.ObjectID]domain.Workout),
		links:      make(map[primitive.ObjectID]domain.WorkoutExercise),
		videos:     make(map[primitive.ObjectID]domain.Video),
		profiles:   make(map[primitive.ObjectID]domain.Profile),
		accounts:   make(map[primitive.ObjectID]domain.Account),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// NewStore returns repositories backed by a fresh DB.
func NewStore() *repository.Store {
	return NewDB().Store()
}

// Store returns repositories backed by db.
func (db *DB) Store() *repository.Store {
	return &repository.Store{
		Categories:       &CategoryRepository{db: db},
		Exercises:        &ExerciseRepository{db: db},
		Workouts:         &WorkoutRepository{db: db},
		WorkoutExercises: &WorkoutExerciseRepository{db: db},
		Videos:           &VideoRepository{db: db},
		Profiles:         &ProfileRepository{db: db},
		Accounts:         &AccountRepository{db: db},
	}
}

func checkCtx(ctx context.Context) error {
	return ctx.Err()
}

// newerFirst sorts by creation time descending, breaking ties by id descending.
func newerFirst(ai, aj time.Time, idi, idj primitive.ObjectID) bool {
	if !ai.Equal(aj) {
		return ai.After(aj)
	}
	return idi.Hex() > idj.Hex()
}

// CategoryRepository implements repository.CategoryRepository.
type CategoryRepository struct{ db *DB }

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (primitive.ObjectID, error) {
	if err := checkCtx(ctx); err != nil {
		return primitive.NilObjectID, err
	}
	if category.Name == "" {
		return primitive.NilObjectID, errors.New("category name is required")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	category.ID = primitive.NewObjectID()
	category.CreatedAt = r.db.now()
	category.UpdatedAt = category.CreatedAt
	r.db.categories[category.ID] = *category
	return category.ID, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]domain.Category, 0, len(r.db.categories))
	for _, c := range r.db.categories {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if category.Name == "" {
		return errors.New("category name cannot be empty")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.categories[category.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = category.Name
	existing.Description = category.Description
	existing.UpdatedAt = r.db.now()
	r.db.categories[category.ID] = existing
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.categories, id)
	return nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.categories)), nil
}

// ExerciseRepository implements repository.ExerciseRepository.
type ExerciseRepository struct{ db *DB }

func (r *ExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if err := checkCtx(ctx); err != nil {
		return primitive.NilObjectID, err
	}
	if exercise.Name == "" {
		return primitive.NilObjectID, errors.New("exercise name is required")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = r.db.now()
	exercise.UpdatedAt = exercise.CreatedAt
	r.db.exercises[exercise.ID] = *exercise
	return exercise.ID, nil
}

func (r *ExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	e, ok := r.db.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *ExerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]domain.Exercise, 0, len(r.db.exercises))
	for _, e := range r.db.exercises {
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ExerciseRepository) ListOptions(ctx context.Context) ([]domain.ExerciseOption, error) {
	exercises, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ExerciseOption, len(exercises))
	for i, e := range exercises {
		out[i] = domain.ExerciseOption{ID: e.ID, Name: e.Name}
	}
	return out, nil
}

func (r *ExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if exercise.Name == "" {
		return errors.New("exercise name cannot be empty")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.exercises[exercise.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := *exercise
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.db.now()
	r.db.exercises[exercise.ID] = updated
	return nil
}

func (r *ExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.exercises, id)
	for linkID, l := range r.db.links {
		if l.ExerciseID == id {
			delete(r.db.links, linkID)
		}
	}
	return nil
}

func (r *ExerciseRepository) Count(ctx context.Context) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.exercises)), nil
}

// WorkoutRepository implements repository.WorkoutRepository.
type WorkoutRepository struct{ db *DB }

func (r *WorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if err := checkCtx(ctx); err != nil {
		return primitive.NilObjectID, err
	}
	if workout.Name == "" {
		return primitive.NilObjectID, errors.New("workout name is required")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	workout.ID = primitive.NewObjectID()
	workout.CreatedAt = r.db.now()
	workout.UpdatedAt = workout.CreatedAt
	r.db.workouts[workout.ID] = *workout
	return workout.ID, nil
}

func (r *WorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	w, ok := r.db.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (r *WorkoutRepository) List(ctx context.Context) ([]domain.Workout, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]domain.Workout, 0, len(r.db.workouts))
	for _, w := range r.db.workouts {
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (r *WorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if workout.Name == "" {
		return errors.New("workout name cannot be empty")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.workouts[workout.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = workout.Name
	existing.Description = workout.Description
	existing.IsPublic = workout.IsPublic
	existing.UpdatedAt = r.db.now()
	r.db.workouts[workout.ID] = existing
	return nil
}

func (r *WorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.workouts, id)
	for linkID, l := range r.db.links {
		if l.WorkoutID == id {
			delete(r.db.links, linkID)
		}
	}
	return nil
}

func (r *WorkoutRepository) Count(ctx context.Context) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.workouts)), nil
}

// WorkoutExerciseRepository implements repository.WorkoutExerciseRepository.
type WorkoutExerciseRepository struct{ db *DB }

func (r *WorkoutExerciseRepository) Create(ctx context.Context, link *domain.WorkoutExercise) (*domain.WorkoutExercise, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.workouts[link.WorkoutID]; !ok {
		return nil, repository.ErrNotFound
	}
	exercise, ok := r.db.exercises[link.ExerciseID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	link.ID = primitive.NewObjectID()
	link.CreatedAt = r.db.now()
	stored := *link
	stored.Exercise = domain.ExerciseOption{}
	r.db.links[link.ID] = stored

	stored.Exercise = domain.ExerciseOption{ID: exercise.ID, Name: exercise.Name}
	return &stored, nil
}

func (r *WorkoutExerciseRepository) ListByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []domain.WorkoutExercise{}
	for _, l := range r.db.links {
		if l.WorkoutID != workoutID {
			continue
		}
		l.Exercise = domain.ExerciseOption{ID: l.ExerciseID}
		if e, ok := r.db.exercises[l.ExerciseID]; ok {
			l.Exercise.Name = e.Name
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *WorkoutExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.links[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.links, id)
	return nil
}

// VideoRepository implements repository.VideoRepository.
type VideoRepository struct{ db *DB }

func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) (primitive.ObjectID, error) {
	if err := checkCtx(ctx); err != nil {
		return primitive.NilObjectID, err
	}
	if video.Title == "" || video.URL == "" {
		return primitive.NilObjectID, errors.New("video title and url are required")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	video.ID = primitive.NewObjectID()
	video.CreatedAt = r.db.now()
	video.UpdatedAt = video.CreatedAt
	r.db.videos[video.ID] = *video
	return video.ID, nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Video, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	v, ok := r.db.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (r *VideoRepository) List(ctx context.Context) ([]domain.Video, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]domain.Video, 0, len(r.db.videos))
	for _, v := range r.db.videos {
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (r *VideoRepository) Update(ctx context.Context, video *domain.Video) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if video.Title == "" || video.URL == "" {
		return errors.New("video title and url cannot be empty")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.videos[video.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Title = video.Title
	existing.Description = video.Description
	existing.URL = video.URL
	existing.UpdatedAt = r.db.now()
	r.db.videos[video.ID] = existing
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.videos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.videos, id)
	return nil
}

func (r *VideoRepository) Count(ctx context.Context) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.videos)), nil
}

// ProfileRepository implements repository.ProfileRepository.
type ProfileRepository struct{ db *DB }

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if profile.ID == primitive.NilObjectID {
		return errors.New("profile ID is required")
	}
	if !profile.Role.Valid() {
		return errors.New("profile role must be admin or user")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.profiles[profile.ID]; ok {
		return repository.ErrDuplicateKey
	}
	profile.CreatedAt = r.db.now()
	r.db.profiles[profile.ID] = *profile
	return nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]domain.Profile, 0, len(r.db.profiles))
	for _, p := range r.db.profiles {
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (r *ProfileRepository) SetRole(ctx context.Context, id primitive.ObjectID, role domain.Role) error {
	if !role.Valid() {
		return errors.New("profile role must be admin or user")
	}
	return r.mutate(ctx, id, func(p *domain.Profile) { p.Role = role })
}

func (r *ProfileRepository) SetBanned(ctx context.Context, id primitive.ObjectID, banned bool) error {
	return r.mutate(ctx, id, func(p *domain.Profile) { p.IsBanned = banned })
}

func (r *ProfileRepository) mutate(ctx context.Context, id primitive.ObjectID, fn func(*domain.Profile)) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&p)
	r.db.profiles[id] = p
	return nil
}

func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.profiles)), nil
}

// AccountRepository implements repository.AccountRepository.
type AccountRepository struct{ db *DB }

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (primitive.ObjectID, error) {
	if err := checkCtx(ctx); err != nil {
		return primitive.NilObjectID, err
	}
	if account.Email == "" || account.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("account email and password hash are required")
	}
	email := strings.ToLower(account.Email)
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.accounts {
		if a.Email == email {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	account.ID = primitive.NewObjectID()
	account.Email = email
	account.CreatedAt = r.db.now()
	r.db.accounts[account.ID] = *account
	return account.ID, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	email = strings.ToLower(email)
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, a := range r.db.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *AccountRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.accounts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.accounts, id)
	return nil
}
