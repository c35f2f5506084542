package rest

import (
	"net/http"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/ewm-platform/ewm/internal/transport/rest/dto"
	"github.com/ewm-platform/ewm/internal/transport/rest/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func (h *Handler) ListUserRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.ListUserRequests(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromRequests(reqs))
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("eventId")
	if eventID == "" {
		response.WriteError(w, domain.ErrValidation("eventId is required"))
		return
	}

	req, err := h.svc.CreateRequest(r.Context(), chi.URLParam(r, "userId"), eventID)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, dto.FromRequest(req))
}

func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.svc.CancelRequest(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "requestId"))
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromRequest(req))
}

func (h *Handler) ListEventRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.ListEventRequests(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "eventId"))
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromRequests(reqs))
}

func (h *Handler) ModerateRequests(w http.ResponseWriter, r *http.Request) {
	var req dto.ModerationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.WriteError(w, domain.ErrValidation("malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, err)
		return
	}
	target, err := domain.ParseModerationTarget(req.Status)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	res, err := h.svc.ModerateRequests(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "eventId"), req.RequestIDs, target)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromModeration(res))
}
