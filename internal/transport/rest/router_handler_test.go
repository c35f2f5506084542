package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/ewm-platform/ewm/internal/service"
	"github.com/ewm-platform/ewm/internal/transport/rest/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memData struct {
	events   map[string]*domain.Event
	users    map[string]*domain.User
	cats     map[string]*domain.Category
	reqs     map[string]*domain.ParticipationRequest
	comps    map[string]*domain.Compilation
	comments map[string]*domain.Comment
}

func newMemData() *memData {
	return &memData{
		events:   map[string]*domain.Event{},
		users:    map[string]*domain.User{},
		cats:     map[string]*domain.Category{},
		reqs:     map[string]*domain.ParticipationRequest{},
		comps:    map[string]*domain.Compilation{},
		comments: map[string]*domain.Comment{},
	}
}

type fakeEvents struct{ d *memData }

func (f *fakeEvents) Create(_ context.Context, e *domain.Event) error {
	f.d.events[e.ID] = e
	return nil
}

func (f *fakeEvents) GetByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := f.d.events[id]
	if !ok {
		return nil, domain.ErrNotFound("event not found")
	}
	return e, nil
}

// GetPublishedByID returns a copy, as a real store would; the service layer
// bumps the view count on its own copy after IncrementViews.
func (f *fakeEvents) GetPublishedByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := f.d.events[id]
	if !ok || e.State != domain.StatePublished {
		return nil, domain.ErrNotFound("event not found")
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEvents) GetByIDs(_ context.Context, ids []string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, id := range ids {
		if e, ok := f.d.events[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvents) Update(_ context.Context, e *domain.Event) error {
	f.d.events[e.ID] = e
	return nil
}

func (f *fakeEvents) IncrementViews(_ context.Context, id string) error {
	if e, ok := f.d.events[id]; ok {
		e.Views++
	}
	return nil
}

func (f *fakeEvents) ListByInitiator(_ context.Context, id string, _, _ int) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.d.events {
		if e.InitiatorID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvents) SearchAdmin(_ context.Context, _ service.AdminSearch) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.d.events {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEvents) SearchPublic(_ context.Context, _ service.PublicSearch) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.d.events {
		if e.State == domain.StatePublished {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvents) AnyInCategory(_ context.Context, catID string) (bool, error) {
	for _, e := range f.d.events {
		if e.CategoryID == catID {
			return true, nil
		}
	}
	return false, nil
}

type fakeRequests struct{ d *memData }

func (f *fakeRequests) Create(_ context.Context, eventID, requesterID string, now time.Time) (*domain.ParticipationRequest, error) {
	ev, ok := f.d.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound("event not found")
	}
	for _, r := range f.d.reqs {
		if r.EventID == eventID && r.RequesterID == requesterID && r.Status != domain.RequestCanceled {
			return nil, domain.ErrConflict("participation request already exists")
		}
	}
	req, gained, err := domain.NewParticipationRequest(ev, requesterID, now)
	if err != nil {
		return nil, err
	}
	f.d.reqs[req.ID] = req
	ev.ConfirmedRequests += gained
	return req, nil
}

func (f *fakeRequests) Cancel(_ context.Context, requesterID, requestID string) (*domain.ParticipationRequest, error) {
	req, ok := f.d.reqs[requestID]
	if !ok || req.RequesterID != requesterID {
		return nil, domain.ErrNotFound("request not found")
	}
	if req.Status == domain.RequestConfirmed {
		f.d.events[req.EventID].ConfirmedRequests--
	}
	req.Status = domain.RequestCanceled
	return req, nil
}

func (f *fakeRequests) Moderate(_ context.Context, eventID, initiatorID string, requestIDs []string, target domain.RequestStatus) (domain.ModerationResult, error) {
	ev, ok := f.d.events[eventID]
	if !ok {
		return domain.ModerationResult{}, domain.ErrNotFound("event not found")
	}
	if ev.InitiatorID != initiatorID {
		return domain.ModerationResult{}, domain.ErrConflict("user is not the event initiator")
	}
	if !ev.HasFreeSlot() {
		return domain.ModerationResult{}, domain.ErrConflict("no empty place for participation")
	}
	var batch []*domain.ParticipationRequest
	for _, id := range requestIDs {
		if r, ok := f.d.reqs[id]; ok && r.EventID == eventID {
			batch = append(batch, r)
		}
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Created.Before(batch[j].Created) })
	return domain.ModerateRequests(ev, batch, target)
}

func (f *fakeRequests) ListByRequester(_ context.Context, requesterID string) ([]*domain.ParticipationRequest, error) {
	var out []*domain.ParticipationRequest
	for _, r := range f.d.reqs {
		if r.RequesterID == requesterID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequests) ListByEvent(_ context.Context, eventID string) ([]*domain.ParticipationRequest, error) {
	var out []*domain.ParticipationRequest
	for _, r := range f.d.reqs {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeCategories struct{ d *memData }

func (f *fakeCategories) Create(_ context.Context, c *domain.Category) error {
	for _, existing := range f.d.cats {
		if existing.Name == c.Name {
			return domain.ErrConflict("category name already in use")
		}
	}
	f.d.cats[c.ID] = c
	return nil
}

func (f *fakeCategories) GetByID(_ context.Context, id string) (*domain.Category, error) {
	c, ok := f.d.cats[id]
	if !ok {
		return nil, domain.ErrNotFound("category not found")
	}
	return c, nil
}

func (f *fakeCategories) Update(_ context.Context, c *domain.Category) error {
	f.d.cats[c.ID] = c
	return nil
}

func (f *fakeCategories) Delete(_ context.Context, id string) error {
	if _, ok := f.d.cats[id]; !ok {
		return domain.ErrNotFound("category not found")
	}
	delete(f.d.cats, id)
	return nil
}

func (f *fakeCategories) List(_ context.Context, _, _ int) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range f.d.cats {
		out = append(out, c)
	}
	return out, nil
}

type fakeUsers struct{ d *memData }

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.d.users[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.d.users[id]
	if !ok {
		return nil, domain.ErrNotFound("user not found")
	}
	return u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	delete(f.d.users, id)
	return nil
}

func (f *fakeUsers) List(_ context.Context, _ []string, _, _ int) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.d.users {
		out = append(out, u)
	}
	return out, nil
}

type fakeCompilations struct{ d *memData }

func (f *fakeCompilations) Create(_ context.Context, c *domain.Compilation) error {
	f.d.comps[c.ID] = c
	return nil
}

func (f *fakeCompilations) GetByID(_ context.Context, id string) (*domain.Compilation, error) {
	c, ok := f.d.comps[id]
	if !ok {
		return nil, domain.ErrNotFound("compilation not found")
	}
	return c, nil
}

func (f *fakeCompilations) Update(_ context.Context, c *domain.Compilation) error {
	f.d.comps[c.ID] = c
	return nil
}

func (f *fakeCompilations) Delete(_ context.Context, id string) error {
	delete(f.d.comps, id)
	return nil
}

func (f *fakeCompilations) List(_ context.Context, _ *bool, _, _ int) ([]*domain.Compilation, error) {
	var out []*domain.Compilation
	for _, c := range f.d.comps {
		out = append(out, c)
	}
	return out, nil
}

type fakeComments struct{ d *memData }

func (f *fakeComments) Create(_ context.Context, c *domain.Comment) error {
	f.d.comments[c.ID] = c
	return nil
}

func (f *fakeComments) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	c, ok := f.d.comments[id]
	if !ok {
		return nil, domain.ErrNotFound("comment not found")
	}
	return c, nil
}

func (f *fakeComments) Update(_ context.Context, c *domain.Comment) error {
	f.d.comments[c.ID] = c
	return nil
}

func (f *fakeComments) Delete(_ context.Context, id string) error {
	delete(f.d.comments, id)
	return nil
}

func (f *fakeComments) ListByEvent(_ context.Context, eventID string, _, _ int) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range f.d.comments {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	return out, nil
}

type recordedHit struct {
	uri string
	ip  string
}

type fakeStats struct{ hits []recordedHit }

func (f *fakeStats) RecordHit(_ context.Context, uri, ip string, _ time.Time) error {
	f.hits = append(f.hits, recordedHit{uri: uri, ip: ip})
	return nil
}

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

type testEnv struct {
	data   *memData
	stats  *fakeStats
	clock  *testClock
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	d := newMemData()
	stats := &fakeStats{}
	clock := &testClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}

	svc := service.New(service.Deps{
		Events:       &fakeEvents{d},
		Requests:     &fakeRequests{d},
		Categories:   &fakeCategories{d},
		Users:        &fakeUsers{d},
		Compilations: &fakeCompilations{d},
		Comments:     &fakeComments{d},
		Stats:        stats,
		Clock:        clock,
	})
	return &testEnv{
		data:   d,
		stats:  stats,
		clock:  clock,
		router: NewRouter(RouterDeps{Handler: NewHandler(svc)}),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "10.0.0.9:1234"
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e *testEnv) seedUser(id string) {
	e.data.users[id] = &domain.User{ID: id, Name: "user " + id, Email: id + "@example.com"}
}

func (e *testEnv) seedCategory(id string) {
	e.data.cats[id] = &domain.Category{ID: id, Name: "category " + id}
}

func (e *testEnv) seedPublishedEvent(id, initiatorID, catID string, limit int, moderation bool) *domain.Event {
	published := e.clock.t.Add(-time.Hour)
	ev := &domain.Event{
		ID:                id,
		Title:             "Event " + id,
		CategoryID:        catID,
		InitiatorID:       initiatorID,
		EventDate:         e.clock.t.Add(48 * time.Hour),
		CreatedOn:         e.clock.t.Add(-2 * time.Hour),
		PublishedOn:       &published,
		ParticipantLimit:  limit,
		RequestModeration: moderation,
		State:             domain.StatePublished,
	}
	e.data.events[id] = ev
	return ev
}

func newEventBody(category, eventDate string) map[string]any {
	return map[string]any{
		"title":       "Jazz night downtown",
		"annotation":  "An evening of improvised jazz in the old town square",
		"description": "Three sets, two bands, one stage. Doors open an hour before the first set.",
		"category":    category,
		"eventDate":   eventDate,
		"location":    map[string]float64{"lat": 51.5, "lon": -0.1},
	}
}

func TestEventLifecycle(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser("u1")
	e.seedCategory("c1")

	// create: pending, 201
	rec := e.do(t, http.MethodPost, "/users/u1/events", newEventBody("c1", "2025-06-10 20:00:00"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[dto.EventResponse](t, rec)
	assert.Equal(t, "PENDING", created.State)
	assert.True(t, created.RequestModeration)

	// a pending event is invisible publicly
	rec = e.do(t, http.MethodGet, "/events/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// admin publishes
	rec = e.do(t, http.MethodPatch, "/admin/events/"+created.ID, map[string]any{"stateAction": "PUBLISH_EVENT"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	published := decode[dto.EventResponse](t, rec)
	assert.Equal(t, "PUBLISHED", published.State)
	assert.NotEmpty(t, published.PublishedOn)

	// now public, and the hit is recorded
	rec = e.do(t, http.MethodGet, "/events/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[dto.EventResponse](t, rec)
	assert.Equal(t, int64(1), got.Views)
	require.Len(t, e.stats.hits, 1)
	assert.Equal(t, "10.0.0.9", e.stats.hits[0].ip)

	// publishing twice conflicts
	rec = e.do(t, http.MethodPatch, "/admin/events/"+created.ID, map[string]any{"stateAction": "PUBLISH_EVENT"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// initiator cannot edit a published event
	rec = e.do(t, http.MethodPatch, "/users/u1/events/"+created.ID, map[string]any{"paid": true})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateEventValidation(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser("u1")
	e.seedCategory("c1")

	t.Run("date_too_soon", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/users/u1/events", newEventBody("c1", "2025-06-01 11:00:00"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("short_annotation", func(t *testing.T) {
		body := newEventBody("c1", "2025-06-10 20:00:00")
		body["annotation"] = "short"
		rec := e.do(t, http.MethodPost, "/users/u1/events", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown_category", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/users/u1/events", newEventBody("ghost", "2025-06-10 20:00:00"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown_user", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/users/ghost/events", newEventBody("c1", "2025-06-10 20:00:00"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("error_body_shape", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/users/ghost/events", newEventBody("c1", "2025-06-10 20:00:00"))
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body, "message")
	})
}

func TestParticipationFlow(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser("host")
	e.seedUser("guest")
	e.seedCategory("c1")

	t.Run("unmoderated_request_is_confirmed", func(t *testing.T) {
		e.seedPublishedEvent("open", "host", "c1", 5, false)

		rec := e.do(t, http.MethodPost, "/users/guest/requests?eventId=open", nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		req := decode[dto.RequestResponse](t, rec)
		assert.Equal(t, "CONFIRMED", req.Status)
		assert.Equal(t, 1, e.data.events["open"].ConfirmedRequests)
	})

	t.Run("duplicate_conflicts", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/users/guest/requests?eventId=open", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("self_request_conflicts", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/users/host/requests?eventId=open", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("cancel_releases_slot", func(t *testing.T) {
		reqs, err := (&fakeRequests{e.data}).ListByRequester(context.Background(), "guest")
		require.NoError(t, err)
		require.Len(t, reqs, 1)

		rec := e.do(t, http.MethodPatch, fmt.Sprintf("/users/guest/requests/%s/cancel", reqs[0].ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		canceled := decode[dto.RequestResponse](t, rec)
		assert.Equal(t, "CANCELED", canceled.Status)
		assert.Equal(t, 0, e.data.events["open"].ConfirmedRequests)
	})
}

func TestModeration(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser("host")
	e.seedCategory("c1")
	e.seedPublishedEvent("gig", "host", "c1", 2, true)

	var ids []string
	for i := 0; i < 3; i++ {
		guest := fmt.Sprintf("g%d", i)
		e.seedUser(guest)
		e.clock.t = e.clock.t.Add(time.Second)
		rec := e.do(t, http.MethodPost, "/users/"+guest+"/requests?eventId=gig", nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		req := decode[dto.RequestResponse](t, rec)
		assert.Equal(t, "PENDING", req.Status)
		ids = append(ids, req.ID)
	}

	t.Run("only_initiator_moderates", func(t *testing.T) {
		rec := e.do(t, http.MethodPatch, "/users/g0/events/gig/requests", map[string]any{
			"requestIds": ids, "status": "CONFIRMED",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("confirm_until_full_rejects_rest", func(t *testing.T) {
		rec := e.do(t, http.MethodPatch, "/users/host/events/gig/requests", map[string]any{
			"requestIds": ids, "status": "CONFIRMED",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		res := decode[dto.ModerationResponse](t, rec)
		assert.Len(t, res.ConfirmedRequests, 2)
		assert.Len(t, res.RejectedRequests, 1)
		assert.Equal(t, 2, e.data.events["gig"].ConfirmedRequests)
	})

	t.Run("full_event_rejects_new_joins", func(t *testing.T) {
		e.seedUser("late")
		rec := e.do(t, http.MethodPost, "/users/late/requests?eventId=gig", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("moderating_settled_batch_conflicts", func(t *testing.T) {
		rec := e.do(t, http.MethodPatch, "/users/host/events/gig/requests", map[string]any{
			"requestIds": ids[:1], "status": "REJECTED",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestModerationFullEvent(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser("host")
	e.seedCategory("c1")
	e.seedPublishedEvent("gig", "host", "c1", 1, true)

	var ids []string
	for _, guest := range []string{"g0", "g1"} {
		e.seedUser(guest)
		e.clock.t = e.clock.t.Add(time.Second)
		rec := e.do(t, http.MethodPost, "/users/"+guest+"/requests?eventId=gig", nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decode[dto.RequestResponse](t, rec).ID)
	}

	rec := e.do(t, http.MethodPatch, "/users/host/events/gig/requests", map[string]any{
		"requestIds": ids[:1], "status": "CONFIRMED",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	t.Run("rejecting_on_full_event_conflicts", func(t *testing.T) {
		rec := e.do(t, http.MethodPatch, "/users/host/events/gig/requests", map[string]any{
			"requestIds": ids[1:], "status": "REJECTED",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, domain.RequestPending, e.data.reqs[ids[1]].Status)
	})
}

func TestPublicSearch(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser("host")
	e.seedCategory("c1")
	e.seedPublishedEvent("e1", "host", "c1", 0, false)

	t.Run("lists_published_and_records_hit", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/events", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		events := decode[[]dto.EventResponse](t, rec)
		assert.Len(t, events, 1)
		assert.Len(t, e.stats.hits, 1)
	})

	t.Run("inverted_range_400", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/events?rangeStart=2025-06-05+00:00:00&rangeEnd=2025-06-04+00:00:00", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad_sort_400", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/events?sort=RELEVANCE", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCategoriesAPI(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/admin/categories", map[string]any{"name": "concerts"})
	require.Equal(t, http.StatusCreated, rec.Code)
	cat := decode[dto.CategoryResponse](t, rec)

	t.Run("duplicate_name_conflicts", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/admin/categories", map[string]any{"name": "concerts"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("delete_nonempty_conflicts", func(t *testing.T) {
		e.seedUser("host")
		e.seedPublishedEvent("e1", "host", cat.ID, 0, false)
		rec := e.do(t, http.MethodDelete, "/admin/categories/"+cat.ID, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("public_get", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/categories/"+cat.ID, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCommentsAPI(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser("host")
	e.seedUser("guest")
	e.seedCategory("c1")
	e.seedPublishedEvent("e1", "host", "c1", 0, false)

	rec := e.do(t, http.MethodPost, "/users/guest/events/e1/comments", map[string]any{"text": "great lineup"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	comment := decode[dto.CommentResponse](t, rec)

	t.Run("non_author_edit_conflicts", func(t *testing.T) {
		rec := e.do(t, http.MethodPatch, "/users/host/comments/"+comment.ID, map[string]any{"text": "edited"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("author_edits", func(t *testing.T) {
		rec := e.do(t, http.MethodPatch, "/users/guest/comments/"+comment.ID, map[string]any{"text": "edited text"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("public_list", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/events/e1/comments", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]dto.CommentResponse](t, rec), 1)
	})

	t.Run("admin_delete", func(t *testing.T) {
		rec := e.do(t, http.MethodDelete, "/admin/comments/"+comment.ID, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestCompilationsAPI(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser("host")
	e.seedCategory("c1")
	e.seedPublishedEvent("e1", "host", "c1", 0, false)

	rec := e.do(t, http.MethodPost, "/admin/compilations", map[string]any{
		"title": "summer picks", "pinned": true, "events": []string{"e1"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	comp := decode[dto.CompilationResponse](t, rec)
	assert.Len(t, comp.Events, 1)

	t.Run("missing_event_404", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/admin/compilations", map[string]any{
			"title": "broken", "events": []string{"ghost"},
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("public_get", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/compilations/"+comp.ID, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limited := NewRouter(RouterDeps{
		Handler:  NewHandler(service.New(service.Deps{})),
		Limiter:  denyAll{},
		RLLimit:  1,
		RLWindow: time.Minute,
	})

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

type denyAll struct{}

func (denyAll) AllowRequest(context.Context, string, int, time.Duration) (bool, error) {
	return false, nil
}
