// Package dto defines the wire shapes of the main API and their mapping to
// domain types. Timestamps travel as "2006-01-02 15:04:05" strings.
package dto

import (
	"time"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type NewEventRequest struct {
	Title             string   `json:"title" validate:"required,min=3,max=120"`
	Annotation        string   `json:"annotation" validate:"required,min=20,max=2000"`
	Description       string   `json:"description" validate:"required,min=20,max=7000"`
	Category          string   `json:"category" validate:"required"`
	Location          Location `json:"location"`
	EventDate         string   `json:"eventDate" validate:"required"`
	Paid              bool     `json:"paid"`
	ParticipantLimit  int      `json:"participantLimit" validate:"gte=0"`
	RequestModeration *bool    `json:"requestModeration"`
}

func (r NewEventRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return domain.ErrValidation(err.Error())
	}
	return nil
}

// Moderation defaults to on when the field is absent.
func (r NewEventRequest) Moderation() bool {
	if r.RequestModeration == nil {
		return true
	}
	return *r.RequestModeration
}

type UpdateEventRequest struct {
	Title             *string   `json:"title" validate:"omitempty,min=3,max=120"`
	Annotation        *string   `json:"annotation" validate:"omitempty,min=20,max=2000"`
	Description       *string   `json:"description" validate:"omitempty,min=20,max=7000"`
	Category          *string   `json:"category"`
	Location          *Location `json:"location"`
	EventDate         *string   `json:"eventDate"`
	Paid              *bool     `json:"paid"`
	ParticipantLimit  *int      `json:"participantLimit" validate:"omitempty,gte=0"`
	RequestModeration *bool     `json:"requestModeration"`
	StateAction       *string   `json:"stateAction"`
}

func (r UpdateEventRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return domain.ErrValidation(err.Error())
	}
	return nil
}

// ToDomain converts the optional fields, parsing the event date if present.
func (r UpdateEventRequest) ToDomain() (domain.EventUpdate, error) {
	upd := domain.EventUpdate{
		Title:             r.Title,
		Annotation:        r.Annotation,
		Description:       r.Description,
		CategoryID:        r.Category,
		Paid:              r.Paid,
		ParticipantLimit:  r.ParticipantLimit,
		RequestModeration: r.RequestModeration,
	}
	if r.Location != nil {
		upd.Location = &domain.Location{Lat: r.Location.Lat, Lon: r.Location.Lon}
	}
	if r.EventDate != nil {
		t, err := ParseTime(*r.EventDate)
		if err != nil {
			return domain.EventUpdate{}, err
		}
		upd.EventDate = &t
	}
	return upd, nil
}

type EventResponse struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Annotation        string   `json:"annotation"`
	Description       string   `json:"description,omitempty"`
	Category          string   `json:"category"`
	Initiator         string   `json:"initiator"`
	Location          Location `json:"location"`
	EventDate         string   `json:"eventDate"`
	CreatedOn         string   `json:"createdOn"`
	PublishedOn       string   `json:"publishedOn,omitempty"`
	Paid              bool     `json:"paid"`
	ParticipantLimit  int      `json:"participantLimit"`
	RequestModeration bool     `json:"requestModeration"`
	ConfirmedRequests int      `json:"confirmedRequests"`
	Views             int64    `json:"views"`
	State             string   `json:"state"`
}

func FromEvent(e *domain.Event) EventResponse {
	resp := EventResponse{
		ID:                e.ID,
		Title:             e.Title,
		Annotation:        e.Annotation,
		Description:       e.Description,
		Category:          e.CategoryID,
		Initiator:         e.InitiatorID,
		Location:          Location{Lat: e.Location.Lat, Lon: e.Location.Lon},
		EventDate:         FormatTime(e.EventDate),
		CreatedOn:         FormatTime(e.CreatedOn),
		Paid:              e.Paid,
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
		ConfirmedRequests: e.ConfirmedRequests,
		Views:             e.Views,
		State:             string(e.State),
	}
	if e.PublishedOn != nil {
		resp.PublishedOn = FormatTime(*e.PublishedOn)
	}
	return resp
}

func FromEvents(evs []*domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(evs))
	for _, e := range evs {
		out = append(out, FromEvent(e))
	}
	return out
}

type RequestResponse struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Requester string `json:"requester"`
	Status    string `json:"status"`
	Created   string `json:"created"`
}

func FromRequest(r *domain.ParticipationRequest) RequestResponse {
	return RequestResponse{
		ID:        r.ID,
		Event:     r.EventID,
		Requester: r.RequesterID,
		Status:    string(r.Status),
		Created:   FormatTime(r.Created),
	}
}

func FromRequests(reqs []*domain.ParticipationRequest) []RequestResponse {
	out := make([]RequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, FromRequest(r))
	}
	return out
}

type ModerationRequest struct {
	RequestIDs []string `json:"requestIds" validate:"required,min=1"`
	Status     string   `json:"status" validate:"required"`
}

func (r ModerationRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return domain.ErrValidation(err.Error())
	}
	return nil
}

type ModerationResponse struct {
	ConfirmedRequests []RequestResponse `json:"confirmedRequests"`
	RejectedRequests  []RequestResponse `json:"rejectedRequests"`
}

func FromModeration(res domain.ModerationResult) ModerationResponse {
	return ModerationResponse{
		ConfirmedRequests: FromRequests(res.Confirmed),
		RejectedRequests:  FromRequests(res.Rejected),
	}
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

func (r CategoryRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return domain.ErrValidation(err.Error())
	}
	return nil
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func FromCategory(c *domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name}
}

func FromCategories(cs []*domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromCategory(c))
	}
	return out
}

type NewUserRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=250"`
	Email string `json:"email" validate:"required,email"`
}

func (r NewUserRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return domain.ErrValidation(err.Error())
	}
	return nil
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func FromUser(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func FromUsers(us []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(us))
	for _, u := range us {
		out = append(out, FromUser(u))
	}
	return out
}

type NewCompilationRequest struct {
	Title  string   `json:"title" validate:"required,min=1,max=50"`
	Pinned bool     `json:"pinned"`
	Events []string `json:"events"`
}

func (r NewCompilationRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return domain.ErrValidation(err.Error())
	}
	return nil
}

type UpdateCompilationRequest struct {
	Title  *string   `json:"title" validate:"omitempty,min=1,max=50"`
	Pinned *bool     `json:"pinned"`
	Events *[]string `json:"events"`
}

func (r UpdateCompilationRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return domain.ErrValidation(err.Error())
	}
	return nil
}

type CompilationResponse struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Pinned bool            `json:"pinned"`
	Events []EventResponse `json:"events"`
}

func FromCompilation(c *domain.Compilation, events []*domain.Event) CompilationResponse {
	return CompilationResponse{
		ID:     c.ID,
		Title:  c.Title,
		Pinned: c.Pinned,
		Events: FromEvents(events),
	}
}

type CommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

func (r CommentRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return domain.ErrValidation(err.Error())
	}
	return nil
}

type CommentResponse struct {
	ID      string `json:"id"`
	Event   string `json:"event"`
	Author  string `json:"author"`
	Text    string `json:"text"`
	Created string `json:"created"`
}

func FromComment(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Event:   c.EventID,
		Author:  c.AuthorID,
		Text:    c.Text,
		Created: FormatTime(c.Created),
	}
}

func FromComments(cs []*domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromComment(c))
	}
	return out
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(domain.TimeLayout)
}

func ParseTime(v string) (time.Time, error) {
	t, err := time.Parse(domain.TimeLayout, v)
	if err != nil {
		return time.Time{}, domain.ErrValidationf("timestamp must match %q", domain.TimeLayout)
	}
	return t.UTC(), nil
}
