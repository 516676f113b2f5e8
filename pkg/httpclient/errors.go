package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/utafrali/EcommerceGo/storefront/pkg/errors"
)

// upstreamErrorBody is the error shape the catalog API answers with, e.g.
// {"message": "Product with id '999' not found"}.
type upstreamErrorBody struct {
	Message string `json:"message"`
}

// ParseResponseError consumes and closes the body of a non-2xx response and
// turns it into a request-failed AppError. The upstream message is kept when
// the body carries one.
func ParseResponseError(resp *http.Response, upstream string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.RequestFailed(resp.StatusCode,
			fmt.Sprintf("%s returned status %d", upstream, resp.StatusCode), err)
	}
	return statusFailure(resp.StatusCode, body, upstream)
}

// AsRequestFailed normalises any error coming out of Client or
// CircuitBreakerClient into a request-failed AppError.
func AsRequestFailed(err error, upstream string) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && errors.Is(err, apperrors.ErrRequestFailed) {
		return err
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusFailure(statusErr.StatusCode, statusErr.Body, upstream)
	}

	if errors.Is(err, ErrCircuitOpen) {
		return apperrors.RequestFailed(0, fmt.Sprintf("%s is temporarily unavailable", upstream), err)
	}

	return apperrors.RequestFailed(0, err.Error(), err)
}

// IsSuccess reports whether status is a 2xx code.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

func statusFailure(status int, body []byte, upstream string) error {
	var parsed upstreamErrorBody
	if json.Unmarshal(body, &parsed) == nil && strings.TrimSpace(parsed.Message) != "" {
		return apperrors.RequestFailed(status, parsed.Message, nil)
	}
	return apperrors.RequestFailed(status, fmt.Sprintf("%s returned status %d", upstream, status), nil)
}
