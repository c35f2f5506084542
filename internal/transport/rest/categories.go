package rest

import (
	"net/http"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/ewm-platform/ewm/internal/transport/rest/dto"
	"github.com/ewm-platform/ewm/internal/transport/rest/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.WriteError(w, domain.ErrValidation("malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, err)
		return
	}

	c, err := h.svc.CreateCategory(r.Context(), req.Name)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, dto.FromCategory(c))
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.WriteError(w, domain.ErrValidation("malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, err)
		return
	}

	c, err := h.svc.UpdateCategory(r.Context(), chi.URLParam(r, "catId"), req.Name)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromCategory(c))
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(r.Context(), chi.URLParam(r, "catId")); err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	from, size, err := pagination(r)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	cs, err := h.svc.ListCategories(r.Context(), from, size)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromCategories(cs))
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCategory(r.Context(), chi.URLParam(r, "catId"))
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromCategory(c))
}
