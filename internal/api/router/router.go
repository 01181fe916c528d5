package router

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/api/handlers"
	"github/frak-labs/go-smart-wallet/internal/api/httperrors"
	"github/frak-labs/go-smart-wallet/internal/api/middleware"
)

const metricsSubsystem = "http"

// Init builds the echo instance, its middleware chain and every route.
func Init(s *api.Server) {
	s.Echo = echo.New()

	s.Echo.Debug = s.Config.Echo.Debug
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.HTTPErrorHandler = httperrors.HTTPErrorHandlerWithConfig(httperrors.ErrorHandlerConfig{
		HideInternalServerErrorDetails: !s.Config.Echo.Debug,
	})

	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(echoMiddleware.Recover())
	} else {
		log.Warn().Msg("Disabling recover middleware due to environment config")
	}

	if s.Config.Echo.EnableRequestIDMiddleware {
		s.Echo.Use(echoMiddleware.RequestID())
	} else {
		log.Warn().Msg("Disabling request ID middleware due to environment config")
	}

	if s.Config.Echo.EnableLoggerMiddleware {
		s.Echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Level:            s.Config.Logger.RequestLevel,
			LogRequestHeader: s.Config.Logger.LogRequestHeader,
		}))
	} else {
		log.Warn().Msg("Disabling logger middleware due to environment config")
	}

	if s.Config.Metrics.Enabled {
		s.Echo.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "smart_wallet",
			Subsystem:  metricsSubsystem,
			Registerer: s.Metrics.Registry,
			Skipper: func(c echo.Context) bool {
				return c.Path() == s.Config.Metrics.Path
			},
		}))
	}

	s.Router = &api.Router{
		Routes:          nil,
		Root:            s.Echo.Group(""),
		Management:      s.Echo.Group("/-"),
		APIV1Accounts:   s.Echo.Group("/api/v1/accounts"),
		APIV1Operations: s.Echo.Group("/api/v1/user-operations"),
	}

	if s.Config.Metrics.Enabled {
		s.Router.Routes = append(s.Router.Routes, s.Router.Root.GET(s.Config.Metrics.Path, echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: s.Metrics.Registry,
		})))
	}

	handlers.AttachAllRoutes(s)
}
