package service

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/lock"
	"alcyxob/fitness-admin/internal/media"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const resourceExercise = "exercise"

// ExerciseInput carries the raw form values for an exercise.
// The numeric fields are parsed by the service.
type ExerciseInput struct {
	Name        string
	Description string
	PreviewURL  string
	Preview     *media.File
	Sets        string
	Reps        string
	RestSeconds string
}

type ExerciseService interface {
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	CreateExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, id primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, id primitive.ObjectID) error
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	media        URLResolver
	mutator
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, media URLResolver, locks *lock.Table) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		media:        media,
		mutator:      mutator{locks: locks},
	}
}

// apply validates in and copies it onto exercise. The preview upload runs last so
// a bad number never leaves an orphaned object behind.
func (s *exerciseService) apply(ctx context.Context, exercise *domain.Exercise, in ExerciseInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return validationError("name is required")
	}
	sets, err := ParseOptionalCount("sets", in.Sets)
	if err != nil {
		return err
	}
	reps, err := ParseOptionalCount("reps", in.Reps)
	if err != nil {
		return err
	}
	rest, err := ParseOptionalCount("rest seconds", in.RestSeconds)
	if err != nil {
		return err
	}
	preview, err := s.media.ResolveURL(ctx, in.Preview, in.PreviewURL)
	if err != nil {
		return err
	}

	exercise.Name = name
	exercise.Description = domain.OptionalText(in.Description)
	exercise.PreviewURL = preview
	exercise.RecommendedSets = sets
	exercise.RecommendedReps = reps
	exercise.RecommendedRestSeconds = rest
	return nil
}

func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

func (s *exerciseService) GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err // Propagate other repository errors
	}
	return exercise, nil
}

func (s *exerciseService) CreateExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error) {
	exercise := &domain.Exercise{}
	if err := s.apply(ctx, exercise, in); err != nil {
		return nil, err
	}
	_, err := s.exerciseRepo.Create(ctx, exercise)
	record(resourceExercise, OpCreate, err)
	if err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) UpdateExercise(ctx context.Context, id primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	var updated *domain.Exercise
	err := s.run(resourceExercise, id.Hex(), OpUpdate, func() error {
		exercise, err := s.GetExercise(ctx, id)
		if err != nil {
			return err
		}
		if err := s.apply(ctx, exercise, in); err != nil {
			return err
		}
		if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrExerciseNotFound
			}
			return err
		}
		updated = exercise
		return nil
	})
	return updated, err
}

// DeleteExercise removes the exercise and every workout link pointing at it.
func (s *exerciseService) DeleteExercise(ctx context.Context, id primitive.ObjectID) error {
	return s.run(resourceExercise, id.Hex(), OpDelete, func() error {
		err := s.exerciseRepo.Delete(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	})
}
