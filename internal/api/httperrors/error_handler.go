package httperrors

import (
	"net/http"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"
	"github/frak-labs/go-smart-wallet/internal/types"
	"github/frak-labs/go-smart-wallet/internal/util"
)

type ErrorHandlerConfig struct {
	// HideInternalServerErrorDetails replaces the detail of every 500 with a
	// generic message.
	HideInternalServerErrorDetails bool
}

var DefaultErrorHandlerConfig = ErrorHandlerConfig{
	HideInternalServerErrorDetails: true,
}

func HTTPErrorHandler(err error, c echo.Context) {
	HTTPErrorHandlerWithConfig(DefaultErrorHandlerConfig)(err, c)
}

// HTTPErrorHandlerWithConfig renders every handler error as a PublicHTTPError.
func HTTPErrorHandlerWithConfig(config ErrorHandlerConfig) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		log := util.LogFromContext(c.Request().Context())

		if c.Response().Committed {
			log.Debug().Err(err).Msg("Response already committed, skipping error handler")
			return
		}

		var body interface{}
		code := http.StatusInternalServerError

		var (
			httpErr       *HTTPError
			validationErr *HTTPValidationError
			echoErr       *echo.HTTPError
		)

		switch {
		case pkgerrors.As(err, &validationErr):
			code = int(swag.Int64Value(validationErr.Status))
			body = validationErr
		case pkgerrors.As(err, &httpErr):
			code = int(swag.Int64Value(httpErr.Status))
			body = httpErr
		case pkgerrors.As(err, &echoErr):
			code = echoErr.Code
			body = NewFromEcho(echoErr)

			if isValidationError(echoErr.Internal) {
				body = NewHTTPValidationError(code, types.PublicHTTPErrorTypeGeneric, http.StatusText(code), ValidationDetails(echoErr.Internal))
			}
		default:
			if mapped := FromDomainError(err); mapped != nil {
				code = int(swag.Int64Value(mapped.Status))
				body = mapped
				break
			}

			e := NewHTTPError(code, types.PublicHTTPErrorTypeGeneric, http.StatusText(code))
			if !config.HideInternalServerErrorDetails {
				e.Detail = err.Error()
			}
			body = e
		}

		if code >= http.StatusInternalServerError {
			log.Error().Err(err).Int("status", code).Msg("Request failed")
		} else {
			log.Debug().Err(err).Int("status", code).Msg("Request rejected")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			log.Warn().Err(err).Msg("Failed to write error response")
		}
	}
}

// ValidationDetails converts a go-openapi validation error into per-field details.
func ValidationDetails(err error) []*types.HTTPValidationErrorDetail {
	var details []*types.HTTPValidationErrorDetail

	var walk func(err error)
	walk = func(err error) {
		switch e := err.(type) { //nolint:errorlint // go-openapi validation errors are never wrapped
		case *errors.CompositeError:
			for _, inner := range e.Errors {
				walk(inner)
			}
		case *errors.Validation:
			details = append(details, &types.HTTPValidationErrorDetail{
				Key:   swag.String(e.Name),
				In:    swag.String(e.In),
				Error: swag.String(e.Error()),
			})
		default:
			details = append(details, &types.HTTPValidationErrorDetail{
				Key:   swag.String(""),
				In:    swag.String("body"),
				Error: swag.String(err.Error()),
			})
		}
	}
	walk(err)

	return details
}

func isValidationError(err error) bool {
	switch err.(type) { //nolint:errorlint // go-openapi validation errors are never wrapped
	case *errors.CompositeError, *errors.Validation:
		return true
	default:
		return false
	}
}
