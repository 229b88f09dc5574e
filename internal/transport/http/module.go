package http

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/joshdurbin/url-shortener-dashboard/internal/config"
	"github.com/joshdurbin/url-shortener-dashboard/internal/metrics"
	"github.com/joshdurbin/url-shortener-dashboard/internal/session"
)

// Module provides the page templates, handlers and the HTTP server
var Module = fx.Options(
	fx.Provide(
		NewPages,
		NewHandler,
		newServer,
	),
)

func newServer(cfg *config.Config, handler *Handler, gate *session.Gate, collector *metrics.Collector, logger *zap.Logger) *Server {
	return NewServer(cfg, handler, gate, collector.Handler(), logger)
}
