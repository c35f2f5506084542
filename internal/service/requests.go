package service

import (
	"context"

	"github.com/ewm-platform/ewm/internal/domain"
)

func (s *Service) ListUserRequests(ctx context.Context, userID string) ([]*domain.ParticipationRequest, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.requests.ListByRequester(ctx, userID)
}

// CreateRequest submits a participation request. The store performs the
// join checks under the event row lock; see postgres.RequestRepo.
func (s *Service) CreateRequest(ctx context.Context, userID, eventID string) (*domain.ParticipationRequest, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.requests.Create(ctx, eventID, userID, s.clock.Now())
}

func (s *Service) CancelRequest(ctx context.Context, userID, requestID string) (*domain.ParticipationRequest, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.requests.Cancel(ctx, userID, requestID)
}

// ListEventRequests returns the requests for an event, initiator only.
func (s *Service) ListEventRequests(ctx context.Context, userID, eventID string) ([]*domain.ParticipationRequest, error) {
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
	return s.requests.ListByEvent(ctx, eventID)
}

// ModerateRequests bulk-confirms or bulk-rejects pending requests. The
// partition itself happens in the store transaction so the confirmed
// counter cannot overrun the limit under concurrency.
func (s *Service) ModerateRequests(ctx context.Context, userID, eventID string, requestIDs []string, target domain.RequestStatus) (domain.ModerationResult, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return domain.ModerationResult{}, err
	}
	return s.requests.Moderate(ctx, eventID, userID, requestIDs, target)
}
