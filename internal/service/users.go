package service

import (
	"context"
	"strings"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/google/uuid"
)

func (s *Service) CreateUser(ctx context.Context, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, domain.ErrValidation("user name is required")
	}
	if email == "" {
		return nil, domain.ErrValidation("user email is required")
	}
	u := &domain.User{ID: uuid.NewString(), Name: name, Email: email}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}

func (s *Service) ListUsers(ctx context.Context, ids []string, from, size int) ([]*domain.User, error) {
	return s.users.List(ctx, ids, from, size)
}
