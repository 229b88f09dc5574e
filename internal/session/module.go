package session

import (
	"go.uber.org/fx"

	"github.com/joshdurbin/url-shortener-dashboard/internal/config"
)

// Module provides the cookie helpers and the session gate
var Module = fx.Options(
	fx.Provide(
		func(cfg *config.Config) *Cookies { return NewCookies(cfg.Session) },
		func(cfg *config.Config) Verifier { return NewVerifier(cfg.Session.JWTSecret) },
		NewGate,
	),
)
