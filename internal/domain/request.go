package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestConfirmed RequestStatus = "CONFIRMED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCanceled  RequestStatus = "CANCELED"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestConfirmed, RequestRejected, RequestCanceled:
		return true
	}
	return false
}

func ParseRequestStatus(v string) (RequestStatus, error) {
	s := RequestStatus(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", ErrValidationf("unknown request status: %s", v)
	}
	return s, nil
}

// ParseModerationTarget accepts only the two statuses an initiator may
// drive a pending request into.
func ParseModerationTarget(v string) (RequestStatus, error) {
	s, err := ParseRequestStatus(v)
	if err != nil {
		return "", err
	}
	if s != RequestConfirmed && s != RequestRejected {
		return "", ErrValidationf("moderation target must be CONFIRMED or REJECTED, got %s", s)
	}
	return s, nil
}

type ParticipationRequest struct {
	ID          string
	EventID     string
	RequesterID string
	Status      RequestStatus
	Created     time.Time
}

// NewParticipationRequest validates the join preconditions against the
// event's current state and decides the birth status. It returns the number
// of confirmed slots the event gains (0 or 1).
func NewParticipationRequest(ev *Event, requesterID string, now time.Time) (*ParticipationRequest, int, error) {
	if ev.InitiatorID == requesterID {
		return nil, 0, ErrConflict("initiator cannot request participation in own event")
	}
	if ev.State != StatePublished {
		return nil, 0, ErrConflict("cannot participate in an unpublished event")
	}
	if ev.ParticipantLimit != 0 && ev.ConfirmedRequests >= ev.ParticipantLimit {
		return nil, 0, ErrConflict("no empty place for participation")
	}

	status := RequestPending
	gained := 0
	if !ev.RequestModeration || ev.ParticipantLimit == 0 {
		status = RequestConfirmed
		gained = 1
	}
	return &ParticipationRequest{
		ID:          uuid.NewString(),
		EventID:     ev.ID,
		RequesterID: requesterID,
		Status:      status,
		Created:     now.UTC(),
	}, gained, nil
}

// ModerationResult is the partition produced by a bulk confirm/reject.
type ModerationResult struct {
	Confirmed []*ParticipationRequest
	Rejected  []*ParticipationRequest
}

// ModerateRequests drives a batch of requests to the target status,
// mutating the requests and the event's confirmed counter in place.
//
// Every request in the batch must be PENDING. For a CONFIRMED target,
// requests are confirmed while a slot remains; the remainder of the batch is
// rejected rather than left pending. The initial capacity precondition
// (confirmed below limit) is the caller's responsibility.
func ModerateRequests(ev *Event, reqs []*ParticipationRequest, target RequestStatus) (ModerationResult, error) {
	var res ModerationResult
	for _, r := range reqs {
		if r.Status != RequestPending {
			return ModerationResult{}, ErrConflict("request status is not pending")
		}
	}
	switch target {
	case RequestRejected:
		for _, r := range reqs {
			r.Status = RequestRejected
			res.Rejected = append(res.Rejected, r)
		}
	case RequestConfirmed:
		for _, r := range reqs {
			if ev.HasFreeSlot() {
				r.Status = RequestConfirmed
				ev.ConfirmedRequests++
				res.Confirmed = append(res.Confirmed, r)
			} else {
				r.Status = RequestRejected
				res.Rejected = append(res.Rejected, r)
			}
		}
	default:
		return ModerationResult{}, ErrValidationf("moderation target must be CONFIRMED or REJECTED, got %s", target)
	}
	return res, nil
}
