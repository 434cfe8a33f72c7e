package catalog

import (
	"errors"
	"net/http"
)

// Kind classe les échecs du catalogue ; les handlers s'en servent pour
// choisir le code HTTP, le reste du code ne voit que des erreurs.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalidInput
	KindInvalidOrder
	KindStorage
	KindUnauthorized
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// ErrorKind extrait le Kind d'une erreur, KindInternal par défaut.
func ErrorKind(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

// ErrorMessage retourne le message destiné au client.
func ErrorMessage(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return "Erreur interne du serveur"
}

// HTTPStatus mappe une erreur du catalogue vers un code HTTP.
func HTTPStatus(err error) int {
	switch ErrorKind(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidInput, KindInvalidOrder:
		return http.StatusBadRequest
	case KindStorage:
		return http.StatusBadGateway
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
