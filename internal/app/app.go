// Package app assembles the dashboard from its fx modules.
package app

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/joshdurbin/url-shortener-dashboard/internal/config"
	"github.com/joshdurbin/url-shortener-dashboard/internal/metrics"
	"github.com/joshdurbin/url-shortener-dashboard/internal/service"
	"github.com/joshdurbin/url-shortener-dashboard/internal/session"
	httpserver "github.com/joshdurbin/url-shortener-dashboard/internal/transport/http"
	"github.com/joshdurbin/url-shortener-dashboard/internal/transport/client"
)

// recorders exposes the collector through the narrow interfaces its consumers declare
var recorders = fx.Provide(
	func(c *metrics.Collector) service.ActionRecorder { return c },
	func(c *metrics.Collector) client.StatusRecorder { return c },
	func(c *metrics.Collector) session.DecisionRecorder { return c },
)

// CoreModule provides everything needed to run proxy actions
var CoreModule = fx.Options(
	metrics.Module,
	recorders,
	service.Module,
)

// New builds the server application. Extra options are appended last so tests
// can decorate or populate the graph.
func New(cfg *config.Config, logger *zap.Logger, opts ...fx.Option) *fx.App {
	options := []fx.Option{
		fx.Supply(cfg, logger),

		CoreModule,
		session.Module,
		httpserver.Module,

		fx.Invoke(registerHooks),

		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),

		fx.StartTimeout(cfg.Server.ShutdownTimeout),
		fx.StopTimeout(cfg.Server.ShutdownTimeout),
	}

	return fx.New(append(options, opts...)...)
}

// NewDashboard resolves the proxy actions without starting a server, for the
// command line client.
func NewDashboard(cfg *config.Config, logger *zap.Logger) (service.Dashboard, error) {
	var dashboard service.Dashboard

	app := fx.New(
		fx.Supply(cfg, logger),
		CoreModule,
		fx.Populate(&dashboard),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	return dashboard, nil
}
