package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zeusync/brain/internal/core/bt"
)

// Observer records runner ticks as Prometheus metrics. Labels use the runner
// name, so runners of one herd share series.
type Observer struct {
	ticks    *prometheus.CounterVec
	verdicts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ bt.Observer = (*Observer)(nil)

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brain_ticks_total",
				Help: "Total number of behavior tree ticks by status.",
			},
			[]string{"runner", "status"},
		),
		verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brain_verdicts_total",
				Help: "Total number of finished tree runs by verdict.",
			},
			[]string{"runner", "verdict"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brain_tick_duration_seconds",
				Help:    "Duration of a single tree tick.",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"runner"},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{o.ticks, o.verdicts, o.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return o, nil
}

func (o *Observer) OnTick(ev bt.TickEvent) {
	o.ticks.WithLabelValues(ev.Runner, ev.Status.String()).Inc()
	o.duration.WithLabelValues(ev.Runner).Observe(ev.Duration.Seconds())
	switch ev.Status {
	case bt.StatusSuccess:
		o.verdicts.WithLabelValues(ev.Runner, "success").Inc()
	case bt.StatusFailure:
		o.verdicts.WithLabelValues(ev.Runner, "failure").Inc()
	}
}
