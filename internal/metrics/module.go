package metrics

import "go.uber.org/fx"

// Module provides the Prometheus collector
var Module = fx.Options(
	fx.Provide(NewCollector),
)
