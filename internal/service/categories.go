package service

import (
	"context"
	"strings"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/google/uuid"
)

func (s *Service) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrValidation("category name is required")
	}
	c := &domain.Category{ID: uuid.NewString(), Name: name}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, catID, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrValidation("category name is required")
	}
	c, err := s.categories.GetByID(ctx, catID)
	if err != nil {
		return nil, err
	}
	c.Name = name
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory refuses to drop a category that still has events.
func (s *Service) DeleteCategory(ctx context.Context, catID string) error {
	if _, err := s.categories.GetByID(ctx, catID); err != nil {
		return err
	}
	used, err := s.events.AnyInCategory(ctx, catID)
	if err != nil {
		return err
	}
	if used {
		return domain.ErrConflict("category is not empty")
	}
	return s.categories.Delete(ctx, catID)
}

func (s *Service) ListCategories(ctx context.Context, from, size int) ([]*domain.Category, error) {
	return s.categories.List(ctx, from, size)
}

func (s *Service) GetCategory(ctx context.Context, catID string) (*domain.Category, error) {
	return s.categories.GetByID(ctx, catID)
}
