package rest

import (
	"net/http"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/ewm-platform/ewm/internal/transport/rest/dto"
	"github.com/ewm-platform/ewm/internal/transport/rest/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req dto.CommentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.WriteError(w, domain.ErrValidation("malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, err)
		return
	}

	c, err := h.svc.CreateComment(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "eventId"), req.Text)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, dto.FromComment(c))
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req dto.CommentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.WriteError(w, domain.ErrValidation("malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, err)
		return
	}

	c, err := h.svc.UpdateComment(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "commentId"), req.Text)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromComment(c))
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteComment(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "commentId")); err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) DeleteCommentAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCommentAdmin(r.Context(), chi.URLParam(r, "commentId")); err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ListEventComments(w http.ResponseWriter, r *http.Request) {
	from, size, err := pagination(r)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	cs, err := h.svc.ListEventComments(r.Context(), chi.URLParam(r, "eventId"), from, size)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.FromComments(cs))
}
