package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/ZaguanLabs/teamtl"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error   teamtl.ErrorKind `json:"error"`
	Message string           `json:"message"`
}

// StatusCode maps an error kind to an HTTP status.
func StatusCode(kind teamtl.ErrorKind) int {
	switch kind {
	case teamtl.KindInvalidInput:
		return http.StatusBadRequest
	case teamtl.KindNotFound, teamtl.KindNoTranslatableContent:
		return http.StatusNotFound
	case teamtl.KindProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse returns the status and body for err.
func ErrorResponse(err error) (int, ErrorBody) {
	kind := teamtl.KindOf(err)
	return StatusCode(kind), ErrorBody{Error: kind, Message: err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := ErrorResponse(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "kind", string(body.Error), "error", err)
	}
	writeJSON(w, status, body)
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorBody{Error: teamtl.KindNotFound, Message: "no route for " + r.URL.Path})
}
