package handlers

import (
	"github.com/labstack/echo/v4"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/api/handlers/accounts"
	"github/frak-labs/go-smart-wallet/internal/api/handlers/common"
)

func AttachAllRoutes(s *api.Server) {
	// attach our routes
	s.Router.Routes = append(s.Router.Routes, []*echo.Route{
		accounts.PostEncodeCallsRoute(s),
		accounts.PostNonceRoute(s),
		accounts.PostResolveAccountRoute(s),
		accounts.PostStubSignatureRoute(s),
		accounts.PostUserOperationHashRoute(s),
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		common.GetVersionRoute(s),
	}...)
}
