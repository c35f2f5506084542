package service

import (
	"context"
	"time"

	"github.com/ewm-platform/ewm/internal/domain"
)

type CreateEventCmd struct {
	Title             string
	Annotation        string
	Description       string
	CategoryID        string
	Location          domain.Location
	EventDate         time.Time
	Paid              bool
	ParticipantLimit  int
	RequestModeration bool
}

func (s *Service) CreateEvent(ctx context.Context, initiatorID string, cmd CreateEventCmd) (*domain.Event, error) {
	if err := s.ensureUser(ctx, initiatorID); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, cmd.CategoryID); err != nil {
		return nil, err
	}
	ev, err := domain.NewEvent(initiatorID, cmd.CategoryID, cmd.Title, cmd.Annotation, cmd.Description,
		cmd.Location, cmd.EventDate, cmd.Paid, cmd.ParticipantLimit, cmd.RequestModeration, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.events.Create(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Service) ListUserEvents(ctx context.Context, userID string, from, size int) ([]*domain.Event, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.events.ListByInitiator(ctx, userID, from, size)
}

func (s *Service) GetUserEvent(ctx context.Context, userID, eventID string) (*domain.Event, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.InitiatorID != userID {
		return nil, domain.ErrNotFound("event not found")
	}
	return ev, nil
}

// UpdateUserEvent is the initiator edit path: allowed only before
// publication, with the two-hour scheduling lead time.
func (s *Service) UpdateUserEvent(ctx context.Context, userID, eventID string, upd domain.EventUpdate, action *domain.StateAction) (*domain.Event, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.InitiatorID != userID {
		return nil, domain.ErrConflict("user is not the event initiator")
	}
	if err := s.resolveCategory(ctx, upd.CategoryID); err != nil {
		return nil, err
	}
	if err := ev.ApplyUserUpdate(upd, action, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.events.Update(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// UpdateAdminEvent is the moderation path: publish or reject a pending
// event, with the one-hour scheduling lead time.
func (s *Service) UpdateAdminEvent(ctx context.Context, eventID string, upd domain.EventUpdate, action *domain.AdminStateAction) (*domain.Event, error) {
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.resolveCategory(ctx, upd.CategoryID); err != nil {
		return nil, err
	}
	if err := ev.ApplyAdminUpdate(upd, action, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.events.Update(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Service) SearchAdminEvents(ctx context.Context, f AdminSearch) ([]*domain.Event, error) {
	return s.events.SearchAdmin(ctx, f)
}

// SearchPublicEvents applies the public-search defaults, records the hit
// and runs the filtered query.
func (s *Service) SearchPublicEvents(ctx context.Context, f PublicSearch, uri, ip string) ([]*domain.Event, error) {
	now := s.clock.Now()
	if f.RangeStart == nil {
		f.RangeStart = &now
	}
	if f.RangeEnd != nil && !f.RangeEnd.After(*f.RangeStart) {
		return nil, domain.ErrValidation("rangeEnd must be after rangeStart")
	}
	if f.Sort == "" {
		f.Sort = SortEventDate
	}
	s.recordHit(ctx, uri, ip, now)
	return s.events.SearchPublic(ctx, f)
}

// GetPublicEvent returns a published event, bumping its view counter and
// reporting the hit to the stats collector.
func (s *Service) GetPublicEvent(ctx context.Context, eventID, uri, ip string) (*domain.Event, error) {
	ev, err := s.events.GetPublishedByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.events.IncrementViews(ctx, ev.ID); err != nil {
		return nil, err
	}
	ev.Views++
	s.recordHit(ctx, uri, ip, s.clock.Now())
	return ev, nil
}

func (s *Service) resolveCategory(ctx context.Context, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	_, err := s.categories.GetByID(ctx, *categoryID)
	return err
}
