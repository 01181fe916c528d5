package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/util"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// Health check
// Returns an human readable string about the current service status.
// Besides the ready state, checks that the configured entry point and
// factory are deployed on the served chain.
func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(521, "Not ready.")
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), s.Config.Management.ProbeReadinessTimeout)
		defer cancel()

		var str strings.Builder
		fmt.Fprintln(&str, "Ready: true")

		errs := probeContracts(ctx, s)
		if len(errs) > 0 {
			for _, err := range errs {
				util.LogFromContext(ctx).Warn().Err(err).Msg("Health probe failed")
				fmt.Fprintf(&str, "Probe error: %v\n", err)
			}

			return c.String(521, str.String())
		}

		fmt.Fprintln(&str, "Probes: contracts deployed")

		return c.String(http.StatusOK, str.String())
	}
}

func probeContracts(ctx context.Context, s *api.Server) []error {
	addrs, chainID, err := s.Addresses(ctx)
	if err != nil {
		return []error{err}
	}

	probes := []struct {
		name    string
		address common.Address
	}{
		{"entry point", addrs.EntryPoint},
		{"factory", addrs.Factory},
	}

	var errs []error
	for _, p := range probes {
		code, err := s.Chain.CodeAt(ctx, p.address, nil)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to read %s code on chain %d: %w", p.name, chainID, err))
			continue
		}
		if len(code) == 0 {
			errs = append(errs, fmt.Errorf("%s %s has no code on chain %d", p.name, p.address.Hex(), chainID))
		}
	}

	return errs
}
