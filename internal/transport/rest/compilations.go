package rest

import (
	"net/http"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/ewm-platform/ewm/internal/service"
	"github.com/ewm-platform/ewm/internal/transport/rest/dto"
	"github.com/ewm-platform/ewm/internal/transport/rest/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func (h *Handler) CreateCompilation(w http.ResponseWriter, r *http.Request) {
	var req dto.NewCompilationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.WriteError(w, domain.ErrValidation("malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, err)
		return
	}

	c, err := h.svc.CreateCompilation(r.Context(), req.Title, req.Pinned, req.Events)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	h.writeCompilation(w, r, http.StatusCreated, c)
}

func (h *Handler) UpdateCompilation(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCompilationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.WriteError(w, domain.ErrValidation("malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, err)
		return
	}

	c, err := h.svc.UpdateCompilation(r.Context(), chi.URLParam(r, "compId"), service.CompilationUpdate{
		Title:    req.Title,
		Pinned:   req.Pinned,
		EventIDs: req.Events,
	})
	if err != nil {
		response.WriteError(w, err)
		return
	}
	h.writeCompilation(w, r, http.StatusOK, c)
}

func (h *Handler) DeleteCompilation(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCompilation(r.Context(), chi.URLParam(r, "compId")); err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ListCompilations(w http.ResponseWriter, r *http.Request) {
	from, size, err := pagination(r)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	pinned, err := boolParam(r, "pinned")
	if err != nil {
		response.WriteError(w, err)
		return
	}

	cs, err := h.svc.ListCompilations(r.Context(), pinned, from, size)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	out := make([]dto.CompilationResponse, 0, len(cs))
	for _, c := range cs {
		evs, err := h.svc.CompilationEvents(r.Context(), c)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		out = append(out, dto.FromCompilation(c, evs))
	}
	response.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetCompilation(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCompilation(r.Context(), chi.URLParam(r, "compId"))
	if err != nil {
		response.WriteError(w, err)
		return
	}
	h.writeCompilation(w, r, http.StatusOK, c)
}

func (h *Handler) writeCompilation(w http.ResponseWriter, r *http.Request, status int, c *domain.Compilation) {
	evs, err := h.svc.CompilationEvents(r.Context(), c)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, status, dto.FromCompilation(c, evs))
}
