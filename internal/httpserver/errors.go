package httpserver

import (
	"errors"
	"net/http"

	"github.com/aryankumar/fleetdeck/internal/util"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Failed []string `json:"failed,omitempty"`
}

// statusFor maps error kinds onto HTTP status codes
func statusFor(err error) int {
	var (
		busy        *util.BusyError
		conflict    *util.ConflictError
		inUse       *util.InUseError
		unsupported *util.UnsupportedKindError
		revision    *util.RevisionNotFoundError
		partial     *util.PartialFailureError
		transport   *util.TransportError
	)

	switch {
	case errors.As(err, &busy), errors.As(err, &conflict), errors.As(err, &inUse),
		errors.Is(err, util.ErrAlreadyExists):
		return http.StatusConflict
	case errors.As(err, &unsupported):
		return http.StatusUnprocessableEntity
	case errors.As(err, &revision), util.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, util.ErrNotRefreshed):
		return http.StatusServiceUnavailable
	case errors.As(err, &partial), errors.As(err, &transport):
		return http.StatusBadGateway
	case errors.Is(err, util.ErrInvalidConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"status", status,
			"error", err)
	}

	resp := errorResponse{Error: err.Error()}
	var partial *util.PartialFailureError
	if errors.As(err, &partial) {
		resp.Failed = partial.Failed
	}

	s.writeJSON(w, r, status, resp)
}
