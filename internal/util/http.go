package util

import (
	"net/http"

	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// BindAndValidateBody binds the request body into v and runs its Validate
// method. Validation failures are returned as 400 errors with the go-openapi
// validation error as internal cause.
func BindAndValidateBody(c echo.Context, v runtime.Validatable) error {
	binder, ok := c.Echo().Binder.(*echo.DefaultBinder)
	if !ok {
		return errors.New("echo binder is not the default binder")
	}

	if err := binder.BindBody(c, v); err != nil {
		LogFromContext(c.Request().Context()).Debug().Err(err).Msg("Failed to bind request body")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := v.Validate(strfmt.Default); err != nil {
		LogFromContext(c.Request().Context()).Debug().Err(err).Msg("Request body failed validation")
		return echo.NewHTTPError(http.StatusBadRequest, "request body failed validation").SetInternal(err)
	}

	return nil
}

// ValidateAndReturn validates the response payload before writing it as JSON.
func ValidateAndReturn(c echo.Context, code int, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromContext(c.Request().Context()).Error().Err(err).Msg("Response failed validation")
		return echo.NewHTTPError(http.StatusInternalServerError, "invalid response payload")
	}

	return c.JSON(code, v)
}
