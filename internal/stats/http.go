package stats

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/ewm-platform/ewm/internal/transport/rest/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
)

type hitRequest struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

type statsResponse struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// NewRouter wires the collector's two endpoints behind a per-IP limiter.
func NewRouter(h *Handler, rlLimit int, rlWindow time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if rlLimit > 0 {
		r.Use(httprate.LimitByIP(rlLimit, rlWindow))
	}

	r.Post("/hit", h.PostHit)
	r.Get("/stats", h.GetStats)
	return r
}

func (h *Handler) PostHit(w http.ResponseWriter, r *http.Request) {
	var req hitRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.WriteError(w, domain.ErrValidation("malformed request body"))
		return
	}

	ts, err := time.Parse(domain.TimeLayout, req.Timestamp)
	if err != nil {
		response.WriteError(w, domain.ErrValidationf("timestamp must match %q", domain.TimeLayout))
		return
	}

	hit := EndpointHit{App: req.App, URI: req.URI, IP: req.IP, Timestamp: ts}
	if hit.IP == "" {
		hit.IP = clientIP(r)
	}

	if err := h.svc.RecordHit(r.Context(), hit); err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, nil)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	q, err := parseStatsQuery(r)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	out, err := h.svc.GetStats(r.Context(), q)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	resp := make([]statsResponse, 0, len(out))
	for _, v := range out {
		resp = append(resp, statsResponse{App: v.App, URI: v.URI, Hits: v.Hits})
	}
	response.WriteJSON(w, http.StatusOK, resp)
}

func parseStatsQuery(r *http.Request) (StatsQuery, error) {
	var q StatsQuery

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		return q, domain.ErrValidation("start and end are required")
	}

	var err error
	if q.Start, err = time.Parse(domain.TimeLayout, start); err != nil {
		return q, domain.ErrValidationf("start must match %q", domain.TimeLayout)
	}
	if q.End, err = time.Parse(domain.TimeLayout, end); err != nil {
		return q, domain.ErrValidationf("end must match %q", domain.TimeLayout)
	}

	for _, u := range r.URL.Query()["uris"] {
		for _, part := range strings.Split(u, ",") {
			if part = strings.TrimSpace(part); part != "" {
				q.URIs = append(q.URIs, part)
			}
		}
	}
	q.Unique = r.URL.Query().Get("unique") == "true"
	return q, nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
