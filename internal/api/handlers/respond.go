package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/api/dto"
	"github.com/ivanquesadapalmero/planazo-backend/internal/api/middleware"
	"github.com/ivanquesadapalmero/planazo-backend/internal/api/validation"
	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/pkg/util"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error to its HTTP status. Internal errors are logged and
// answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: verr.Fields})
		return
	}

	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindBadRequest:
		status = http.StatusBadRequest
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			util.Err(err),
		)
		writeJSON(w, status, dto.ErrorResponse{Error: "internal server error"})
		return
	}

	writeJSON(w, status, dto.ErrorResponse{Error: apperr.Message(err)})
}

// decode reads a JSON body into dst and validates it.
// normalizer is implemented by requests that clean their fields before
// validation.
type normalizer interface {
	Normalize()
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.BadRequest("request body is empty")
		}
		return apperr.BadRequest("invalid request body")
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return validation.Struct(dst)
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.BadRequest("invalid %s", name)
	}
	return id, nil
}

// principal returns the caller set by the auth middleware. Routes using it
// are always mounted behind that middleware.
func principal(r *http.Request) (middleware.Principal, error) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		return p, apperr.Unauthorized("authentication required")
	}
	return p, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(name))) {
	case "":
		return false, nil
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, apperr.BadRequest("%s must be true or false", name)
	}
}
