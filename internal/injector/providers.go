package injector

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zeusync/brain/internal/config"
	"github.com/zeusync/brain/internal/core/events/bus"
	"github.com/zeusync/brain/internal/core/observability/log"
	"github.com/zeusync/brain/internal/core/observability/metrics"
)

// App bundles the shared infrastructure every brain command needs.
type App struct {
	Config   config.Config
	Logger   log.Log
	Registry *prometheus.Registry
	Metrics  *metrics.Observer
	Bus      bus.EventBus
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	ProvideMetrics,
	ProvideBus,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg config.Config) log.Log {
	return log.New(cfg.Level())
}

func ProvideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func ProvideMetrics(reg *prometheus.Registry) (*metrics.Observer, error) {
	return metrics.New(reg)
}

func ProvideBus() bus.EventBus {
	return bus.New()
}
