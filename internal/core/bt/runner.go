package bt

import "time"

// Runner drives a tree one tick per Proceed call.
//
// It is Idle when it holds no continuation (the next tick starts at the root)
// and Suspended otherwise. A Runner is owned by a single goroutine; the tree it
// points at may be shared by any number of runners.
type Runner[B any] struct {
	root      Node[B]
	current   Node[B]
	name      string
	observers []Observer
}

type runnerConfig struct {
	name      string
	observers []Observer
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerConfig)

// WithName labels tick events emitted by the runner.
func WithName(name string) RunnerOption {
	return func(c *runnerConfig) { c.name = name }
}

// WithObserver attaches observers notified after every tick.
func WithObserver(obs ...Observer) RunnerOption {
	return func(c *runnerConfig) { c.observers = append(c.observers, obs...) }
}

// NewRunner creates an Idle runner over root.
func NewRunner[B any](root Node[B], opts ...RunnerOption) *Runner[B] {
	if root == nil {
		panic("bt: runner requires a root node")
	}
	var cfg runnerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Runner[B]{root: root, name: cfg.name, observers: cfg.observers}
}

// Root is the tree every pass starts from.
func (r *Runner[B]) Root() Node[B] { return r.root }

// Name is the label attached to tick events.
func (r *Runner[B]) Name() string { return r.name }

// IsRunning reports whether the runner holds a continuation.
func (r *Runner[B]) IsRunning() bool { return r.current != nil }

// Reset drops the saved continuation; the next Proceed starts at the root.
func (r *Runner[B]) Reset() { r.current = nil }

// Proceed ticks the saved continuation, or the root when there is none.
// done is false while the tree is still running; once done is true, success
// carries the verdict and the runner is Idle again.
func (r *Runner[B]) Proceed(bb *B) (success, done bool) {
	node, resumed := r.current, true
	if node == nil {
		node, resumed = r.root, false
	}

	var start time.Time
	if len(r.observers) > 0 {
		start = time.Now()
	}

	res := tick(node, bb)
	r.current = res.next

	if len(r.observers) > 0 {
		ev := TickEvent{Runner: r.name, Status: res.status, Resumed: resumed, Duration: time.Since(start)}
		for _, obs := range r.observers {
			obs.OnTick(ev)
		}
	}

	switch res.status {
	case StatusSuccess:
		return true, true
	case StatusFailure:
		return false, true
	default:
		return false, false
	}
}
