package service

import (
	"go.uber.org/fx"

	"github.com/joshdurbin/url-shortener-dashboard/internal/config"
	"github.com/joshdurbin/url-shortener-dashboard/internal/normalize"
	"github.com/joshdurbin/url-shortener-dashboard/internal/transport/client"
)

// Module provides the backend client and the Dashboard proxy actions
var Module = fx.Options(
	fx.Provide(
		newBackend,
		newNormalizer,
		NewDashboard,
	),
)

func newBackend(cfg *config.Config, recorder client.StatusRecorder) Backend {
	return client.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, recorder)
}

func newNormalizer(cfg *config.Config) *normalize.Normalizer {
	return normalize.New(cfg.Backend.ShortLinkBaseURL)
}

