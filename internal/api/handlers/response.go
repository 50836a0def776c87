package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/TableBookingService/internal/domain"
)

const (
	msgInternalError = "internal server error"
	msgConflict      = "requested tables are not available"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error             string `json:"error"`
	ConflictingTables []int  `json:"conflictingTables,omitempty"`
}

// DecodeJSON декодирует тело запроса, неизвестные поля запрещены
func DecodeJSON(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// RespondJSON пишет JSON ответ с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// RespondError пишет ошибку с сообщением
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondConflict 409 со списком конфликтующих столов
func RespondConflict(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: msgConflict}

	var ce *domain.ConflictError
	if errors.As(err, &ce) {
		resp.Error = ce.Reason
		resp.ConflictingTables = ce.Tables
	}
	RespondJSON(w, http.StatusConflict, resp)
}

// StatusFor возвращает HTTP статус для ошибки доменного слоя
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError пишет ответ по виду ошибки. Текст внутренних ошибок наружу не отдается.
func RespondDomainError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	switch {
	case status == http.StatusInternalServerError:
		RespondInternalError(w)
	case errors.Is(err, domain.ErrConflict):
		RespondConflict(w, err)
	default:
		RespondError(w, status, err.Error())
	}
}
