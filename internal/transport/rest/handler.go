package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/ewm-platform/ewm/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// pagination reads from/size with the API's offset semantics.
func pagination(r *http.Request) (from, size int, err error) {
	from, size = 0, defaultPageSize

	if v := r.URL.Query().Get("from"); v != "" {
		from, err = strconv.Atoi(v)
		if err != nil || from < 0 {
			return 0, 0, domain.ErrValidation("from must be a non-negative integer")
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		size, err = strconv.Atoi(v)
		if err != nil || size <= 0 {
			return 0, 0, domain.ErrValidation("size must be a positive integer")
		}
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return from, size, nil
}

// csvParam collects a possibly repeated, possibly comma-separated parameter.
func csvParam(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.URL.Query()[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func boolParam(r *http.Request, name string) (*bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, domain.ErrValidationf("%s must be a boolean", name)
	}
	return &b, nil
}
