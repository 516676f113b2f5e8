package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrInvalidInput, ErrRequestFailed, ErrRateLimited, ErrInternal}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j])
		}
	}
}

func TestAppError_ErrorString(t *testing.T) {
	withCause := &AppError{Code: "REQUEST_FAILED", Message: "upstream down", Err: fmt.Errorf("dial tcp")}
	assert.Equal(t, "REQUEST_FAILED: upstream down: dial tcp", withCause.Error())

	bare := &AppError{Code: "NOT_FOUND", Message: "product not found"}
	assert.Equal(t, "NOT_FOUND: product not found", bare.Error())
}

func TestNotFound(t *testing.T) {
	err := NotFound("product", "42")
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, "product with id 42 not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("id must be numeric")
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestRequestFailed_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		upstream int
		want     int
	}{
		{"no response", 0, http.StatusBadGateway},
		{"upstream 404", http.StatusNotFound, http.StatusNotFound},
		{"upstream 400", http.StatusBadRequest, http.StatusBadGateway},
		{"upstream 500", http.StatusInternalServerError, http.StatusBadGateway},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := RequestFailed(tc.upstream, "boom", nil)
			assert.Equal(t, tc.want, err.Status)
			assert.Equal(t, tc.want, HTTPStatus(err))
			assert.True(t, errors.Is(err, ErrRequestFailed))
		})
	}
}

func TestRequestFailed_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := RequestFailed(0, "connection reset", cause)

	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.True(t, errors.Is(err, cause))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "plain", Message(errors.New("plain")))
	assert.Equal(t, "Product with id '999' not found",
		Message(Wrap(RequestFailed(404, "Product with id '999' not found", nil), "get product")))
}

func TestHTTPStatus_Sentinels(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(Wrap(ErrNotFound, "x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Wrap(ErrInvalidInput, "x")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(Wrap(ErrRequestFailed, "x")))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(RateLimited()))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("other")))
}

func TestInternal(t *testing.T) {
	cause := errors.New("template exploded")
	err := Internal(cause)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.ErrorIs(t, err, cause)
}
