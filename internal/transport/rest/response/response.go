package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ewm-platform/ewm/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

type ErrorBody struct {
	Message string `json:"message"`
}

// WriteJSON writes v with the given status. Encoding failures are logged,
// the status line is already gone by then.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Error().Err(err).Msg("encode response")
	}
}

// WriteError converts an application error into the API error shape.
// Anything that is not an AppError becomes an opaque 500.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	var ae *domain.AppError
	if errors.As(err, &ae) {
		status = statusFromCode(ae.Code)
		message = ae.Message
	} else {
		zlog.Error().Err(err).Msg("unhandled error")
	}

	WriteJSON(w, status, ErrorBody{Message: message})
}

func statusFromCode(code domain.ErrCode) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
