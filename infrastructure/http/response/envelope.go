package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinora/clinora/domain/apperror"
)

type Envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, status bool, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	envelope := Envelope{
		Status:  status,
		Message: message,
		Data:    data,
	}

	json.NewEncoder(w).Encode(envelope)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	WriteJSON(w, statusCode, true, message, data)
}

func Error(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, false, message, nil)
}

// FromError maps an application error to its HTTP status. Unclassified errors
// become opaque 500s so backend details never reach the client.
func FromError(w http.ResponseWriter, err error) {
	status := apperror.HTTPStatus(err)

	var appErr *apperror.Error
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		Error(w, status, appErr.Message)
		return
	}
	Error(w, http.StatusInternalServerError, "internal server error")
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}
