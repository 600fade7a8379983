package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/services"
	"github.com/desertthunder/songsheet/internal/shared"
)

// Error kinds added by the HTTP layer next to the [models.ErrorKind] values.
const (
	kindNotFound    = "NOT_FOUND"
	kindBadRequest  = "BAD_REQUEST"
	kindUnavailable = "UNAVAILABLE"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

func errorBody(kind, message string) services.ErrorBody {
	return services.ErrorBody{Error: kind, Message: message}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and JSON error body.
//
// Validation and bad input map to 400, unknown IDs to 404, exhausted read tiers to 503 and
// everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	status, kind := classify(err)
	message := err.Error()

	var se *models.SubmitError
	if errors.As(err, &se) {
		message = se.Message
	}
	writeJSON(w, status, errorBody(kind, message))
}

func classify(err error) (int, string) {
	kind := models.KindOf(err)
	switch {
	case kind == models.ErrorKindValidation:
		return http.StatusBadRequest, string(kind)
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, shared.ErrNoArtists):
		return http.StatusNotFound, kindNotFound
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrMissingArgument):
		return http.StatusBadRequest, kindBadRequest
	case errors.Is(err, shared.ErrUnavailable):
		return http.StatusServiceUnavailable, kindUnavailable
	default:
		return http.StatusInternalServerError, string(kind)
	}
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", shared.ErrInvalidArgument, key, raw)
	}
	return n, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

func parseFloat(raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", shared.ErrInvalidArgument, raw)
	}
	return f, nil
}
