package httperrors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/frak-labs/go-smart-wallet/internal/types"
)

type HTTPError struct {
	types.PublicHTTPError
	Internal error `json:"-"`
}

func NewHTTPError(code int, errorType types.PublicHTTPErrorType, title string) *HTTPError {
	return &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			Status: swag.Int64(int64(code)),
			Type:   errorType.Pointer(),
			Title:  swag.String(title),
		},
	}
}

func NewHTTPErrorWithDetail(code int, errorType types.PublicHTTPErrorType, title string, detail string) *HTTPError {
	e := NewHTTPError(code, errorType, title)
	e.Detail = detail

	return e
}

// NewFromEcho converts an echo error, keeping its status code and message.
func NewFromEcho(e *echo.HTTPError) *HTTPError {
	return &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			Status: swag.Int64(int64(e.Code)),
			Type:   types.PublicHTTPErrorTypeGeneric.Pointer(),
			Title:  swag.String(http.StatusText(e.Code)),
			Detail: fmt.Sprint(e.Message),
		},
		Internal: e.Internal,
	}
}

// Wrap returns a copy of e carrying err as its internal cause.
func (e *HTTPError) Wrap(err error) *HTTPError {
	wrapped := *e
	wrapped.Internal = err

	return &wrapped
}

func (e *HTTPError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "HTTPError %d (%s): %s", swag.Int64Value(e.Status), *e.Type, swag.StringValue(e.Title))

	if e.Detail != "" {
		fmt.Fprintf(&b, " - %s", e.Detail)
	}
	if e.Internal != nil {
		fmt.Fprintf(&b, ", %v", e.Internal)
	}

	return b.String()
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}

type HTTPValidationError struct {
	types.PublicHTTPValidationError
	Internal error `json:"-"`
}

func NewHTTPValidationError(code int, errorType types.PublicHTTPErrorType, title string, validationErrors []*types.HTTPValidationErrorDetail) *HTTPValidationError {
	return &HTTPValidationError{
		PublicHTTPValidationError: types.PublicHTTPValidationError{
			PublicHTTPError: types.PublicHTTPError{
				Status: swag.Int64(int64(code)),
				Type:   errorType.Pointer(),
				Title:  swag.String(title),
			},
			ValidationErrors: validationErrors,
		},
	}
}

func (e *HTTPValidationError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "HTTPValidationError %d (%s): %s", swag.Int64Value(e.Status), *e.Type, swag.StringValue(e.Title))

	for _, v := range e.ValidationErrors {
		fmt.Fprintf(&b, " - %s (%s): %s", swag.StringValue(v.Key), swag.StringValue(v.In), swag.StringValue(v.Error))
	}
	if e.Internal != nil {
		fmt.Fprintf(&b, ", %v", e.Internal)
	}

	return b.String()
}

func (e *HTTPValidationError) Unwrap() error {
	return e.Internal
}
