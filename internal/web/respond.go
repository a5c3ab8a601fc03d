package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/vbonduro/recipelens/internal/detect"
	"github.com/vbonduro/recipelens/internal/service"
	"github.com/vbonduro/recipelens/internal/session"
)

const (
	sessionHeader    = "X-Session-ID"
	maxSessionIDLen  = 128
	maxJSONBodyBytes = 1 << 20
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// resolveSession reads the session key from the request, falling back to the
// shared default session, and echoes it on the response.
func (s *Server) resolveSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.Header.Get(sessionHeader))
	if id == "" {
		id = session.DefaultID
	}
	if len(id) > maxSessionIDLen || strings.IndexFunc(id, unicode.IsControl) >= 0 {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return "", false
	}
	w.Header().Set(sessionHeader, id)
	return id, true
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// writeServiceError maps a service failure to a status and detail. Input
// errors become 400s; everything else is a 500 whose detail is prefix plus the
// error text.
func (s *Server) writeServiceError(w http.ResponseWriter, err error, prefix string) {
	if service.IsClientError(err) {
		writeError(w, http.StatusBadRequest, clientDetail(err))
		return
	}

	if lerr, ok := service.CompletionError(err); ok {
		s.logger.Error("completion failed", "kind", lerr.Kind.String(), "status_code", lerr.StatusCode, "error", err)
		writeError(w, http.StatusInternalServerError, prefix+lerr.Error())
		return
	}

	s.logger.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, prefix+err.Error())
}

func clientDetail(err error) string {
	switch {
	case errors.Is(err, service.ErrMissingFilename):
		return "No selected file"
	case errors.Is(err, service.ErrNoIngredients):
		return "No ingredients provided"
	case errors.Is(err, service.ErrBlankIngredient):
		return "Ingredient names must not be blank"
	case errors.Is(err, service.ErrEmptyQuery):
		return "Query not provided"
	case errors.Is(err, detect.ErrImageNotFound):
		return "Uploaded file not found"
	default:
		return err.Error()
	}
}
