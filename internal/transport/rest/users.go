package rest

import (
	"net/http"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/ewm-platform/ewm/internal/transport/rest/dto"
	"github.com/ewm-platform/ewm/internal/transport/rest/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.NewUserRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.WriteError(w, domain.ErrValidation("malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, err)
		return
	}

	u, err := h.svc.CreateUser(r.Context(), req.Name, req.Email)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, dto.FromUser(u))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	from, size, err := pagination(r)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	us, err := h.svc.ListUsers(r.Context(), csvParam(r, "ids"), from, size)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromUsers(us))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteUser(r.Context(), chi.URLParam(r, "userId")); err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusNoContent, nil)
}
