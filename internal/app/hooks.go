package app

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/fx"
	"go.uber.org/zap"

	httpserver "github.com/joshdurbin/url-shortener-dashboard/internal/transport/http"
)

type hookParams struct {
	fx.In

	Logger     *zap.Logger
	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Server     *httpserver.Server
}

// registerHooks binds the listener on start so port conflicts fail startup,
// then serves in the background until stop.
func registerHooks(p hookParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", p.Server.Addr())
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", p.Server.Addr(), err)
			}

			go func() {
				if err := p.Server.Serve(ln); err != nil {
					p.Logger.Error("server error", zap.Error(err))
					if err := p.Shutdowner.Shutdown(fx.ExitCode(1)); err != nil {
						p.Logger.Error("failed to request shutdown", zap.Error(err))
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return p.Server.Shutdown(ctx)
		},
	})
}
