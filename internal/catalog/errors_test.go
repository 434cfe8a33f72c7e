package catalog

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindInvalidInput: http.StatusBadRequest,
		KindInvalidOrder: http.StatusBadRequest,
		KindStorage:      http.StatusBadGateway,
		KindUnauthorized: http.StatusUnauthorized,
		KindInternal:     http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, HTTPStatus(NewError(kind, "x")))
	}
}

func TestHTTPStatusUnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := WrapError(KindStorage, "Échec de l'upload des images", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Échec de l'upload des images", ErrorMessage(err))
	assert.Equal(t, KindStorage, ErrorKind(err))
}
