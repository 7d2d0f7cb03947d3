package apperror

import "net/http"

// Error transporte un statut HTTP avec le message destiné au client.
// Les handlers l'attachent via c.Error(...), le middleware ErrorHandler
// se charge de la réponse JSON uniforme.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}

func TooManyRequests(message string) *Error {
	return New(http.StatusTooManyRequests, message)
}
