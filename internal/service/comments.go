package service

import (
	"context"
	"strings"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/google/uuid"
)

func (s *Service) CreateComment(ctx context.Context, userID, eventID, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrValidation("comment text is required")
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	c := &domain.Comment{
		ID:       uuid.NewString(),
		EventID:  eventID,
		AuthorID: userID,
		Text:     text,
		Created:  s.clock.Now().UTC(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) UpdateComment(ctx context.Context, userID, commentID, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrValidation("comment text is required")
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != userID {
		return nil, domain.ErrConflict("user is not the comment author")
	}
	c.Text = text
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) DeleteComment(ctx context.Context, userID, commentID string) error {
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.AuthorID != userID {
		return domain.ErrConflict("user is not the comment author")
	}
	return s.comments.Delete(ctx, commentID)
}

// DeleteCommentAdmin removes any comment without an ownership check.
func (s *Service) DeleteCommentAdmin(ctx context.Context, commentID string) error {
	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		return err
	}
	return s.comments.Delete(ctx, commentID)
}

func (s *Service) ListEventComments(ctx context.Context, eventID string, from, size int) ([]*domain.Comment, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.comments.ListByEvent(ctx, eventID, from, size)
}
