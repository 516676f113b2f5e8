package httpclient

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/EcommerceGo/storefront/pkg/errors"
)

func makeResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_UpstreamMessage(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusNotFound, `{"message":"Product with id '999' not found"}`), "catalog")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrRequestFailed))
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
	assert.Equal(t, "Product with id '999' not found", apperrors.Message(err))
}

func TestParseResponseError_UnstructuredBody(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusBadRequest, `<html>nope</html>`), "catalog")

	assert.Equal(t, http.StatusBadGateway, apperrors.HTTPStatus(err))
	assert.Equal(t, "catalog returned status 400", apperrors.Message(err))
}

func TestAsRequestFailed(t *testing.T) {
	assert.NoError(t, AsRequestFailed(nil, "catalog"))

	statusErr := AsRequestFailed(&StatusError{StatusCode: 503, Body: []byte(`{"message":"maintenance"}`)}, "catalog")
	assert.Equal(t, "maintenance", apperrors.Message(statusErr))
	assert.Equal(t, http.StatusBadGateway, apperrors.HTTPStatus(statusErr))

	open := AsRequestFailed(fmt.Errorf("wrapped: %w", ErrCircuitOpen), "catalog")
	assert.Equal(t, "catalog is temporarily unavailable", apperrors.Message(open))
	assert.ErrorIs(t, open, apperrors.ErrRequestFailed)

	dial := AsRequestFailed(errors.New("dial tcp: connection refused"), "catalog")
	assert.Equal(t, "dial tcp: connection refused", apperrors.Message(dial))

	already := apperrors.RequestFailed(404, "gone", nil)
	assert.Same(t, already, AsRequestFailed(already, "catalog"))
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(200))
	assert.True(t, IsSuccess(204))
	assert.False(t, IsSuccess(301))
	assert.False(t, IsSuccess(404))
}
