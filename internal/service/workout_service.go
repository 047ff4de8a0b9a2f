package service

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/lock"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const resourceWorkout = "workout"

// WorkoutInput is the editable part of a workout.
type WorkoutInput struct {
	Name        string
	Description string
	IsPublic    bool
}

// WorkoutDetail is everything the workout edit page shows.
type WorkoutDetail struct {
	Workout   *domain.Workout
	Exercises []domain.WorkoutExercise
}

type WorkoutService interface {
	ListWorkouts(ctx context.Context) ([]domain.Workout, error)
	GetWorkout(ctx context.Context, id primitive.ObjectID) (*WorkoutDetail, error)
	CreateWorkout(ctx context.Context, in WorkoutInput) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, id primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, id primitive.ObjectID) error
	// ExerciseOptions lists every exercise by name for the add picker.
	ExerciseOptions(ctx context.Context) ([]domain.ExerciseOption, error)
	// AddExercise appends exerciseID at the end of the workout.
	AddExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID) (*domain.WorkoutExercise, error)
	RemoveExercise(ctx context.Context, workoutID, linkID primitive.ObjectID) error
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	linkRepo     repository.WorkoutExerciseRepository
	exerciseRepo repository.ExerciseRepository
	mutator
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	linkRepo repository.WorkoutExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
	locks *lock.Table,
) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		linkRepo:     linkRepo,
		exerciseRepo: exerciseRepo,
		mutator:      mutator{locks: locks},
	}
}

func (in WorkoutInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return validationError("name is required")
	}
	return nil
}

func (s *workoutService) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	return s.workoutRepo.List(ctx)
}

func (s *workoutService) getWorkout(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) GetWorkout(ctx context.Context, id primitive.ObjectID) (*WorkoutDetail, error) {
	workout, err := s.getWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := s.linkRepo.ListByWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	return &WorkoutDetail{Workout: workout, Exercises: links}, nil
}

func (s *workoutService) CreateWorkout(ctx context.Context, in WorkoutInput) (*domain.Workout, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	workout := &domain.Workout{
		Name:        strings.TrimSpace(in.Name),
		Description: domain.OptionalText(in.Description),
		IsPublic:    in.IsPublic,
	}
	_, err := s.workoutRepo.Create(ctx, workout)
	record(resourceWorkout, OpCreate, err)
	if err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) UpdateWorkout(ctx context.Context, id primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var updated *domain.Workout
	err := s.run(resourceWorkout, id.Hex(), OpUpdate, func() error {
		workout, err := s.getWorkout(ctx, id)
		if err != nil {
			return err
		}
		workout.Name = strings.TrimSpace(in.Name)
		workout.Description = domain.OptionalText(in.Description)
		workout.IsPublic = in.IsPublic
		if err := s.workoutRepo.Update(ctx, workout); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrWorkoutNotFound
			}
			return err
		}
		updated = workout
		return nil
	})
	return updated, err
}

// DeleteWorkout removes the workout together with its exercise links.
func (s *workoutService) DeleteWorkout(ctx context.Context, id primitive.ObjectID) error {
	return s.run(resourceWorkout, id.Hex(), OpDelete, func() error {
		err := s.workoutRepo.Delete(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	})
}

func (s *workoutService) ExerciseOptions(ctx context.Context) ([]domain.ExerciseOption, error) {
	return s.exerciseRepo.ListOptions(ctx)
}

// AddExercise holds the workout lock while computing the next order, so two adds
// can never receive the same position.
func (s *workoutService) AddExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID) (*domain.WorkoutExercise, error) {
	if exerciseID == primitive.NilObjectID {
		return nil, validationError("select an exercise to add")
	}
	var added *domain.WorkoutExercise
	err := s.run(resourceWorkout, workoutID.Hex(), OpAddExercise, func() error {
		if _, err := s.getWorkout(ctx, workoutID); err != nil {
			return err
		}
		links, err := s.linkRepo.ListByWorkout(ctx, workoutID)
		if err != nil {
			return err
		}
		link, err := s.linkRepo.Create(ctx, &domain.WorkoutExercise{
			WorkoutID:  workoutID,
			ExerciseID: exerciseID,
			Order:      domain.NextOrder(links),
		})
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrExerciseNotFound
			}
			return err
		}
		added = link
		return nil
	})
	return added, err
}

// RemoveExercise drops one link. Remaining links keep their order values.
func (s *workoutService) RemoveExercise(ctx context.Context, workoutID, linkID primitive.ObjectID) error {
	return s.run(resourceWorkout, workoutID.Hex(), OpRemoveExercise, func() error {
		links, err := s.linkRepo.ListByWorkout(ctx, workoutID)
		if err != nil {
			return err
		}
		found := false
		for _, l := range links {
			if l.ID == linkID {
				found = true
				break
			}
		}
		if !found {
			return ErrWorkoutExerciseNotFound
		}
		err = s.linkRepo.Delete(ctx, linkID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutExerciseNotFound
		}
		return err
	})
}
