package service

import (
	"context"
	"strings"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/google/uuid"
)

type CompilationUpdate struct {
	Title    *string
	Pinned   *bool
	EventIDs *[]string
}

func (s *Service) CreateCompilation(ctx context.Context, title string, pinned bool, eventIDs []string) (*domain.Compilation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrValidation("compilation title is required")
	}
	if err := s.checkCompilationEvents(ctx, eventIDs); err != nil {
		return nil, err
	}
	c := &domain.Compilation{ID: uuid.NewString(), Title: title, Pinned: pinned, EventIDs: eventIDs}
	if err := s.compilations.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) UpdateCompilation(ctx context.Context, compID string, upd CompilationUpdate) (*domain.Compilation, error) {
	c, err := s.compilations.GetByID(ctx, compID)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		t := strings.TrimSpace(*upd.Title)
		if t == "" {
			return nil, domain.ErrValidation("compilation title is required")
		}
		c.Title = t
	}
	if upd.Pinned != nil {
		c.Pinned = *upd.Pinned
	}
	if upd.EventIDs != nil {
		if err := s.checkCompilationEvents(ctx, *upd.EventIDs); err != nil {
			return nil, err
		}
		c.EventIDs = *upd.EventIDs
	}
	if err := s.compilations.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) DeleteCompilation(ctx context.Context, compID string) error {
	if _, err := s.compilations.GetByID(ctx, compID); err != nil {
		return err
	}
	return s.compilations.Delete(ctx, compID)
}

func (s *Service) ListCompilations(ctx context.Context, pinned *bool, from, size int) ([]*domain.Compilation, error) {
	return s.compilations.List(ctx, pinned, from, size)
}

func (s *Service) GetCompilation(ctx context.Context, compID string) (*domain.Compilation, error) {
	return s.compilations.GetByID(ctx, compID)
}

// CompilationEvents resolves the member events of a compilation.
func (s *Service) CompilationEvents(ctx context.Context, c *domain.Compilation) ([]*domain.Event, error) {
	if len(c.EventIDs) == 0 {
		return nil, nil
	}
	return s.events.GetByIDs(ctx, c.EventIDs)
}

func (s *Service) checkCompilationEvents(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	events, err := s.events.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(events) != len(ids) {
		return domain.ErrNotFound("compilation references a missing event")
	}
	return nil
}
