package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"quizarena/internal/domain"
	"quizarena/internal/quizsource"
)

type errorPayload struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return errBadBody
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadBody
	}
	return nil
}

var errBadBody = errors.New("invalid request body")

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrLobbyNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotHost),
		errors.Is(err, domain.ErrNotInLobby):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrLobbyFull),
		errors.Is(err, domain.ErrAlreadyInLobby),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrLobbyCodeTaken),
		errors.Is(err, domain.ErrLobbyNotPlaying),
		errors.Is(err, domain.ErrLobbyAlreadyPlaying),
		errors.Is(err, domain.ErrRoundNotResettable):
		return http.StatusConflict
	case errors.Is(err, errBadBody),
		errors.Is(err, quizsource.ErrNoQuizJSON),
		errors.Is(err, domain.ErrUsernameRequired),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrEmptyQuiz),
		errors.Is(err, domain.ErrLobbyHasNoQuiz),
		errors.Is(err, domain.ErrInvalidLobby):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
