package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scheduling rules: users must leave at least two hours of lead time,
// administrators at least one hour.
const (
	UserLeadTime  = 2 * time.Hour
	AdminLeadTime = 1 * time.Hour
)

type EventState string

const (
	StatePending   EventState = "PENDING"
	StatePublished EventState = "PUBLISHED"
	StateCanceled  EventState = "CANCELED"
)

func (s EventState) Valid() bool {
	return s == StatePending || s == StatePublished || s == StateCanceled
}

func ParseEventState(v string) (EventState, error) {
	s := EventState(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", ErrValidationf("unknown event state: %s", v)
	}
	return s, nil
}

// StateAction is the initiator's review verdict on an unpublished event.
type StateAction string

const (
	ActionSendToReview StateAction = "SEND_TO_REVIEW"
	ActionCancelReview StateAction = "CANCEL_REVIEW"
)

func ParseStateAction(v string) (StateAction, error) {
	a := StateAction(strings.ToUpper(strings.TrimSpace(v)))
	if a != ActionSendToReview && a != ActionCancelReview {
		return "", ErrValidationf("unknown state action: %s", v)
	}
	return a, nil
}

// AdminStateAction is the administrator's moderation verdict.
type AdminStateAction string

const (
	ActionPublishEvent AdminStateAction = "PUBLISH_EVENT"
	ActionRejectEvent  AdminStateAction = "REJECT_EVENT"
)

func ParseAdminStateAction(v string) (AdminStateAction, error) {
	a := AdminStateAction(strings.ToUpper(strings.TrimSpace(v)))
	if a != ActionPublishEvent && a != ActionRejectEvent {
		return "", ErrValidationf("unknown admin state action: %s", v)
	}
	return a, nil
}

type Location struct {
	Lat float64
	Lon float64
}

type Event struct {
	ID          string
	Title       string
	Annotation  string
	Description string
	CategoryID  string
	InitiatorID string
	Location    Location
	EventDate   time.Time
	CreatedOn   time.Time
	PublishedOn *time.Time
	Paid        bool

	// ParticipantLimit 0 means unlimited.
	ParticipantLimit  int
	RequestModeration bool
	ConfirmedRequests int
	Views             int64

	State EventState
}

func NewEvent(initiatorID, categoryID, title, annotation, description string, loc Location,
	eventDate time.Time, paid bool, participantLimit int, requestModeration bool, now time.Time) (*Event, error) {
	if strings.TrimSpace(initiatorID) == "" {
		return nil, ErrValidation("initiator is required")
	}
	if strings.TrimSpace(categoryID) == "" {
		return nil, ErrValidation("category is required")
	}
	if participantLimit < 0 {
		return nil, ErrValidation("participant limit must be >= 0 (0 means unlimited)")
	}
	if err := CheckEventDate(eventDate, now, UserLeadTime); err != nil {
		return nil, err
	}
	return &Event{
		ID:                uuid.NewString(),
		Title:             strings.TrimSpace(title),
		Annotation:        strings.TrimSpace(annotation),
		Description:       strings.TrimSpace(description),
		CategoryID:        categoryID,
		InitiatorID:       initiatorID,
		Location:          loc,
		EventDate:         eventDate.UTC(),
		CreatedOn:         now.UTC(),
		Paid:              paid,
		ParticipantLimit:  participantLimit,
		RequestModeration: requestModeration,
		State:             StatePending,
	}, nil
}

// CheckEventDate enforces the scheduling lead time for the given actor.
func CheckEventDate(eventDate, now time.Time, lead time.Duration) error {
	if eventDate.Before(now.Add(lead)) {
		return ErrValidationf("event date must be at least %s in the future", lead)
	}
	return nil
}

// EventUpdate carries the optional fields of an initiator or admin edit.
// Nil means "leave unchanged".
type EventUpdate struct {
	Title             *string
	Annotation        *string
	Description       *string
	CategoryID        *string
	Location          *Location
	EventDate         *time.Time
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
}

// ApplyUserUpdate mutates an unpublished event on behalf of its initiator.
// The review action, if any, moves the event back to PENDING or to CANCELED.
func (e *Event) ApplyUserUpdate(u EventUpdate, action *StateAction, now time.Time) error {
	if e.State == StatePublished {
		return ErrConflict("cannot modify a published event")
	}
	if u.EventDate != nil {
		if err := CheckEventDate(*u.EventDate, now, UserLeadTime); err != nil {
			return err
		}
	}
	if err := e.applyFields(u); err != nil {
		return err
	}
	if action != nil {
		switch *action {
		case ActionSendToReview:
			e.State = StatePending
		case ActionCancelReview:
			e.State = StateCanceled
		}
	}
	return nil
}

// ApplyAdminUpdate mutates an event on behalf of an administrator and,
// optionally, publishes or rejects it.
func (e *Event) ApplyAdminUpdate(u EventUpdate, action *AdminStateAction, now time.Time) error {
	if u.EventDate != nil {
		if err := CheckEventDate(*u.EventDate, now, AdminLeadTime); err != nil {
			return err
		}
	}
	if err := e.applyFields(u); err != nil {
		return err
	}
	if action != nil {
		if e.State != StatePending {
			return ErrConflict("only a pending event can be published or rejected")
		}
		switch *action {
		case ActionPublishEvent:
			if err := CheckEventDate(e.EventDate, now, AdminLeadTime); err != nil {
				return err
			}
			t := now.UTC()
			e.State = StatePublished
			e.PublishedOn = &t
		case ActionRejectEvent:
			e.State = StateCanceled
		}
	}
	return nil
}

func (e *Event) applyFields(u EventUpdate) error {
	if u.Title != nil {
		e.Title = strings.TrimSpace(*u.Title)
	}
	if u.Annotation != nil {
		e.Annotation = strings.TrimSpace(*u.Annotation)
	}
	if u.Description != nil {
		e.Description = strings.TrimSpace(*u.Description)
	}
	if u.CategoryID != nil {
		e.CategoryID = *u.CategoryID
	}
	if u.Location != nil {
		e.Location = *u.Location
	}
	if u.EventDate != nil {
		e.EventDate = u.EventDate.UTC()
	}
	if u.Paid != nil {
		e.Paid = *u.Paid
	}
	if u.ParticipantLimit != nil {
		if *u.ParticipantLimit < 0 {
			return ErrValidation("participant limit must be >= 0 (0 means unlimited)")
		}
		if *u.ParticipantLimit != 0 && e.ConfirmedRequests > *u.ParticipantLimit {
			return ErrConflict("participant limit cannot drop below the confirmed count")
		}
		e.ParticipantLimit = *u.ParticipantLimit
	}
	if u.RequestModeration != nil {
		e.RequestModeration = *u.RequestModeration
	}
	return nil
}

// HasFreeSlot reports whether another request may be confirmed.
func (e *Event) HasFreeSlot() bool {
	return e.ParticipantLimit == 0 || e.ConfirmedRequests < e.ParticipantLimit
}
