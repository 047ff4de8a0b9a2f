package service

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/lock"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const resourceProfile = "profile"

type ProfileService interface {
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	// ToggleRole flips admin <-> user and returns the updated profile.
	ToggleRole(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error)
	// ToggleBan flips is_banned and returns the updated profile.
	ToggleBan(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error)
}

// profileService implements the ProfileService interface.
type profileService struct {
	profileRepo repository.ProfileRepository
	mutator
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(profileRepo repository.ProfileRepository, locks *lock.Table) ProfileService {
	return &profileService{profileRepo: profileRepo, mutator: mutator{locks: locks}}
}

func (s *profileService) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	return s.profileRepo.List(ctx)
}

func (s *profileService) toggle(ctx context.Context, id primitive.ObjectID, operation string, change func(*domain.Profile) error) (*domain.Profile, error) {
	var updated *domain.Profile
	err := s.run(resourceProfile, id.Hex(), operation, func() error {
		profile, err := s.profileRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProfileNotFound
			}
			return err
		}
		if err := change(profile); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProfileNotFound
			}
			return err
		}
		updated = profile
		return nil
	})
	return updated, err
}

func (s *profileService) ToggleRole(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	return s.toggle(ctx, id, OpToggleRole, func(p *domain.Profile) error {
		p.Role = p.Role.Toggled()
		return s.profileRepo.SetRole(ctx, id, p.Role)
	})
}

func (s *profileService) ToggleBan(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	return s.toggle(ctx, id, OpToggleBan, func(p *domain.Profile) error {
		p.IsBanned = !p.IsBanned
		return s.profileRepo.SetBanned(ctx, id, p.IsBanned)
	})
}
