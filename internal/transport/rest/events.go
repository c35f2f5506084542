package rest

import (
	"net/http"
	"time"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/ewm-platform/ewm/internal/service"
	"github.com/ewm-platform/ewm/internal/transport/rest/dto"
	"github.com/ewm-platform/ewm/internal/transport/rest/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req dto.NewEventRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.WriteError(w, domain.ErrValidation("malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, err)
		return
	}
	eventDate, err := dto.ParseTime(req.EventDate)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	ev, err := h.svc.CreateEvent(r.Context(), userID, service.CreateEventCmd{
		Title:             req.Title,
		Annotation:        req.Annotation,
		Description:       req.Description,
		CategoryID:        req.Category,
		Location:          domain.Location{Lat: req.Location.Lat, Lon: req.Location.Lon},
		EventDate:         eventDate,
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: req.Moderation(),
	})
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, dto.FromEvent(ev))
}

func (h *Handler) ListUserEvents(w http.ResponseWriter, r *http.Request) {
	from, size, err := pagination(r)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	evs, err := h.svc.ListUserEvents(r.Context(), chi.URLParam(r, "userId"), from, size)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromEvents(evs))
}

func (h *Handler) GetUserEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.svc.GetUserEvent(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "eventId"))
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromEvent(ev))
}

func (h *Handler) UpdateUserEvent(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateEventRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.WriteError(w, domain.ErrValidation("malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, err)
		return
	}
	upd, err := req.ToDomain()
	if err != nil {
		response.WriteError(w, err)
		return
	}

	var action *domain.StateAction
	if req.StateAction != nil {
		a, err := domain.ParseStateAction(*req.StateAction)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		action = &a
	}

	ev, err := h.svc.UpdateUserEvent(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "eventId"), upd, action)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromEvent(ev))
}

func (h *Handler) UpdateAdminEvent(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateEventRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.WriteError(w, domain.ErrValidation("malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, err)
		return
	}
	upd, err := req.ToDomain()
	if err != nil {
		response.WriteError(w, err)
		return
	}

	var action *domain.AdminStateAction
	if req.StateAction != nil {
		a, err := domain.ParseAdminStateAction(*req.StateAction)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		action = &a
	}

	ev, err := h.svc.UpdateAdminEvent(r.Context(), chi.URLParam(r, "eventId"), upd, action)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromEvent(ev))
}

func (h *Handler) SearchAdminEvents(w http.ResponseWriter, r *http.Request) {
	from, size, err := pagination(r)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	f := service.AdminSearch{
		Users:      csvParam(r, "users"),
		Categories: csvParam(r, "categories"),
		From:       from,
		Size:       size,
	}
	for _, s := range csvParam(r, "states") {
		state, err := domain.ParseEventState(s)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		f.States = append(f.States, state)
	}
	if f.RangeStart, err = timeParam(r, "rangeStart"); err != nil {
		response.WriteError(w, err)
		return
	}
	if f.RangeEnd, err = timeParam(r, "rangeEnd"); err != nil {
		response.WriteError(w, err)
		return
	}

	evs, err := h.svc.SearchAdminEvents(r.Context(), f)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromEvents(evs))
}

func (h *Handler) SearchPublicEvents(w http.ResponseWriter, r *http.Request) {
	from, size, err := pagination(r)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	f := service.PublicSearch{
		Text:       r.URL.Query().Get("text"),
		Categories: csvParam(r, "categories"),
		From:       from,
		Size:       size,
	}
	if f.Paid, err = boolParam(r, "paid"); err != nil {
		response.WriteError(w, err)
		return
	}
	if f.RangeStart, err = timeParam(r, "rangeStart"); err != nil {
		response.WriteError(w, err)
		return
	}
	if f.RangeEnd, err = timeParam(r, "rangeEnd"); err != nil {
		response.WriteError(w, err)
		return
	}
	onlyAvailable, err := boolParam(r, "onlyAvailable")
	if err != nil {
		response.WriteError(w, err)
		return
	}
	f.OnlyAvailable = onlyAvailable != nil && *onlyAvailable

	if sort := r.URL.Query().Get("sort"); sort != "" {
		key, err := service.ParseSortKey(sort)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		f.Sort = key
	}

	evs, err := h.svc.SearchPublicEvents(r.Context(), f, r.URL.RequestURI(), clientIP(r))
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromEvents(evs))
}

func (h *Handler) GetPublicEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.svc.GetPublicEvent(r.Context(), chi.URLParam(r, "eventId"), r.URL.RequestURI(), clientIP(r))
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromEvent(ev))
}

func timeParam(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	t, err := dto.ParseTime(v)
	if err != nil {
		return nil, domain.ErrValidationf("%s must match %q", name, domain.TimeLayout)
	}
	return &t, nil
}
