package service

import (
	"context"
	"strings"
	"time"

	"github.com/ewm-platform/ewm/internal/domain"
)

type Clock interface{ Now() time.Time }

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type SortKey string

const (
	SortEventDate SortKey = "EVENT_DATE"
	SortViews     SortKey = "VIEWS"
)

func ParseSortKey(v string) (SortKey, error) {
	switch k := SortKey(strings.ToUpper(strings.TrimSpace(v))); k {
	case SortEventDate, SortViews:
		return k, nil
	default:
		return "", domain.ErrValidationf("sort must be EVENT_DATE or VIEWS, got %s", v)
	}
}

// AdminSearch is the admin event filter. Empty slices and nil bounds mean
// "predicate absent", not "match everything for this field".
type AdminSearch struct {
	Users      []string
	States     []domain.EventState
	Categories []string
	RangeStart *time.Time
	RangeEnd   *time.Time
	From       int
	Size       int
}

// PublicSearch is the public event filter. Only published events match.
type PublicSearch struct {
	Text          string
	Categories    []string
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          SortKey
	From          int
	Size          int
}

type EventStore interface {
	Create(ctx context.Context, e *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	GetPublishedByID(ctx context.Context, id string) (*domain.Event, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Event, error)
	Update(ctx context.Context, e *domain.Event) error
	IncrementViews(ctx context.Context, id string) error
	ListByInitiator(ctx context.Context, initiatorID string, from, size int) ([]*domain.Event, error)
	SearchAdmin(ctx context.Context, f AdminSearch) ([]*domain.Event, error)
	SearchPublic(ctx context.Context, f PublicSearch) ([]*domain.Event, error)
	AnyInCategory(ctx context.Context, categoryID string) (bool, error)
}

// RequestStore owns the capacity-sensitive paths. Create, Moderate and
// Cancel each run in a single transaction holding the event row lock, so
// concurrent calls against one event serialize at the store.
type RequestStore interface {
	Create(ctx context.Context, eventID, requesterID string, now time.Time) (*domain.ParticipationRequest, error)
	Cancel(ctx context.Context, requesterID, requestID string) (*domain.ParticipationRequest, error)
	Moderate(ctx context.Context, eventID, initiatorID string, requestIDs []string, target domain.RequestStatus) (domain.ModerationResult, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*domain.ParticipationRequest, error)
	ListByEvent(ctx context.Context, eventID string) ([]*domain.ParticipationRequest, error)
}

type CategoryStore interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, from, size int) ([]*domain.Category, error)
}

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, ids []string, from, size int) ([]*domain.User, error)
}

type CompilationStore interface {
	Create(ctx context.Context, c *domain.Compilation) error
	GetByID(ctx context.Context, id string) (*domain.Compilation, error)
	Update(ctx context.Context, c *domain.Compilation) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pinned *bool, from, size int) ([]*domain.Compilation, error)
}

type CommentStore interface {
	Create(ctx context.Context, c *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id string) error
	ListByEvent(ctx context.Context, eventID string, from, size int) ([]*domain.Comment, error)
}

// HitRecorder is the stats collector seen from the main service.
type HitRecorder interface {
	RecordHit(ctx context.Context, uri, ip string, ts time.Time) error
}
