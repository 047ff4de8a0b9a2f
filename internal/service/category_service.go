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

const resourceCategory = "category"

// CategoryInput is the editable part of a category.
type CategoryInput struct {
	Name        string
	Description string
}

type CategoryService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id primitive.ObjectID) (*domain.Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, in CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
}

// categoryService implements the CategoryService interface.
type categoryService struct {
	categoryRepo repository.CategoryRepository
	mutator
}

// NewCategoryService creates a new instance of categoryService.
func NewCategoryService(categoryRepo repository.CategoryRepository, locks *lock.Table) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, mutator: mutator{locks: locks}}
}

func (in CategoryInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return validationError("name is required")
	}
	return nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) GetCategory(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	category := &domain.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: domain.OptionalText(in.Description),
	}
	_, err := s.categoryRepo.Create(ctx, category)
	record(resourceCategory, OpCreate, err)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id primitive.ObjectID, in CategoryInput) (*domain.Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var updated *domain.Category
	err := s.run(resourceCategory, id.Hex(), OpUpdate, func() error {
		category, err := s.GetCategory(ctx, id)
		if err != nil {
			return err
		}
		category.Name = strings.TrimSpace(in.Name)
		category.Description = domain.OptionalText(in.Description)
		if err := s.categoryRepo.Update(ctx, category); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
		updated = category
		return nil
	})
	return updated, err
}

func (s *categoryService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	return s.run(resourceCategory, id.Hex(), OpDelete, func() error {
		err := s.categoryRepo.Delete(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	})
}
