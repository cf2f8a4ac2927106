package herd

import (
	"github.com/zeusync/brain/internal/core/bt"
	"github.com/zeusync/brain/internal/core/events/bus"
	"github.com/zeusync/brain/internal/core/observability/log"
)

type config struct {
	shards    int
	bus       bus.EventBus
	logger    log.Log
	observers []bt.Observer
}

// Option configures a Herd.
type Option func(*config)

// WithShards sets the number of concurrently stepped shards.
func WithShards(n int) Option {
	return func(c *config) { c.shards = n }
}

// WithBus publishes verdict events on b.
func WithBus(b bus.EventBus) Option {
	return func(c *config) { c.bus = b }
}

func WithLogger(l log.Log) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver attaches observers to every agent's runner. Shards tick in
// parallel, so observers must be safe for concurrent use.
func WithObserver(obs ...bt.Observer) Option {
	return func(c *config) { c.observers = append(c.observers, obs...) }
}
