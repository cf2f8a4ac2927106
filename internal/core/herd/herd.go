package herd

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/zeusync/brain/internal/core/bt"
	"github.com/zeusync/brain/internal/core/events/bus"
	"github.com/zeusync/brain/internal/core/observability/log"
	"github.com/zeusync/brain/pkg/concurrent"
)

// Event types published when an agent reaches a verdict.
const (
	EventSucceeded = "herd.succeeded"
	EventFailed    = "herd.failed"
)

const defaultShards = 4

var ErrAgentNotFound = errors.New("herd: agent not found")

// Verdict is the payload of EventSucceeded and EventFailed.
type Verdict struct {
	Herd    string `json:"herd"`
	Agent   string `json:"agent"`
	Success bool   `json:"success"`
	Ticks   int    `json:"ticks"`
}

// Report lists agent ids touched by one Step, each slice sorted.
type Report struct {
	Ticked    []string `json:"ticked"`
	Running   []string `json:"running"`
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed"`
}

// Done reports whether no ticked agent is still running.
func (r Report) Done() bool { return len(r.Running) == 0 }

func (r *Report) merge(o Report) {
	r.Ticked = append(r.Ticked, o.Ticked...)
	r.Running = append(r.Running, o.Running...)
	r.Succeeded = append(r.Succeeded, o.Succeeded...)
	r.Failed = append(r.Failed, o.Failed...)
}

func (r *Report) sort() {
	slices.Sort(r.Ticked)
	slices.Sort(r.Running)
	slices.Sort(r.Succeeded)
	slices.Sort(r.Failed)
}

// Agent is the view handed to Inspect callbacks. Callbacks may update State;
// no step runs while they do.
type Agent[B any] struct {
	ID     string
	State  *B
	Status bt.Status
	Ticks  int
}

type agent[B any] struct {
	id     string
	state  *B
	runner *bt.Runner[B]
	status bt.Status
	ticks  int
}

type shard[B any] struct {
	mx     sync.Mutex
	agents map[string]*agent[B]
}

// Herd runs many agents against one shared tree. Each agent owns its state
// and runner; agents are spread over shards by id hash and the shards are
// stepped concurrently.
//
// An agent that reached a verdict is parked until Reset.
type Herd[B any] struct {
	name   string
	tree   bt.Node[B]
	shards []*shard[B]
	cfg    config

	// stepMx serializes Step and Inspect.
	stepMx sync.Mutex
}

func New[B any](name string, tree bt.Node[B], opts ...Option) *Herd[B] {
	if tree == nil {
		panic("herd: tree is required")
	}
	cfg := config{shards: defaultShards, logger: log.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.shards <= 0 {
		cfg.shards = defaultShards
	}

	h := &Herd[B]{name: name, tree: tree, cfg: cfg, shards: make([]*shard[B], cfg.shards)}
	for i := range h.shards {
		h.shards[i] = &shard[B]{agents: make(map[string]*agent[B])}
	}
	return h
}

func (h *Herd[B]) Name() string { return h.name }

func (h *Herd[B]) shardFor(id string) *shard[B] {
	return h.shards[xxhash.Sum64String(id)%uint64(len(h.shards))]
}

// Spawn adds an agent ticking against state and returns its id.
func (h *Herd[B]) Spawn(state *B) string {
	if state == nil {
		panic("herd: agent state is required")
	}
	id := uuid.NewString()
	a := &agent[B]{
		id:     id,
		state:  state,
		status: bt.StatusRunning,
		runner: bt.NewRunner(h.tree, bt.WithName(h.name), bt.WithObserver(h.cfg.observers...)),
	}
	s := h.shardFor(id)
	s.mx.Lock()
	s.agents[id] = a
	s.mx.Unlock()

	h.cfg.logger.Debug("agent spawned", log.String("herd", h.name), log.String("agent", id))
	return id
}

func (h *Herd[B]) Despawn(id string) error {
	s := h.shardFor(id)
	s.mx.Lock()
	defer s.mx.Unlock()
	if _, ok := s.agents[id]; !ok {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}
	delete(s.agents, id)
	return nil
}

// Reset drops the agent's continuation and wakes it if it was parked.
func (h *Herd[B]) Reset(id string) error {
	s := h.shardFor(id)
	s.mx.Lock()
	defer s.mx.Unlock()
	a, ok := s.agents[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}
	a.runner.Reset()
	a.status = bt.StatusRunning
	a.ticks = 0
	return nil
}

func (h *Herd[B]) Len() int {
	n := 0
	for _, s := range h.shards {
		s.mx.Lock()
		n += len(s.agents)
		s.mx.Unlock()
	}
	return n
}

// Step ticks every running agent exactly once. A cancelled context stops
// shards between agents; the partial report is returned with the error.
// Verdict events are published after the step lock is released, so bus
// handlers may call back into the herd.
func (h *Herd[B]) Step(ctx context.Context) (Report, error) {
	rep, verdicts, err := h.step(ctx)
	if pubErr := h.publish(verdicts); pubErr != nil {
		err = errors.Join(err, pubErr)
	}
	return rep, err
}

func (h *Herd[B]) step(ctx context.Context) (Report, []Verdict, error) {
	h.stepMx.Lock()
	defer h.stepMx.Unlock()

	reports := make([]Report, len(h.shards))
	err := concurrent.Concurrent(ctx, slices.Values(h.indexes()), 0, func(ctx context.Context, i int) error {
		var err error
		reports[i], err = h.shards[i].step(ctx)
		return err
	})

	var rep Report
	for _, r := range reports {
		rep.merge(r)
	}
	rep.sort()
	return rep, h.verdicts(rep), err
}

func (h *Herd[B]) indexes() []int {
	idx := make([]int, len(h.shards))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func (s *shard[B]) step(ctx context.Context) (Report, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	var rep Report
	for _, id := range slices.Sorted(maps.Keys(s.agents)) {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		a := s.agents[id]
		if a.status != bt.StatusRunning {
			continue
		}
		ok, done := a.runner.Proceed(a.state)
		a.ticks++
		rep.Ticked = append(rep.Ticked, id)
		switch {
		case !done:
			rep.Running = append(rep.Running, id)
		case ok:
			a.status = bt.StatusSuccess
			rep.Succeeded = append(rep.Succeeded, id)
		default:
			a.status = bt.StatusFailure
			rep.Failed = append(rep.Failed, id)
		}
	}
	return rep, nil
}

func (h *Herd[B]) verdicts(rep Report) []Verdict {
	if h.cfg.bus == nil || len(rep.Succeeded)+len(rep.Failed) == 0 {
		return nil
	}
	out := make([]Verdict, 0, len(rep.Succeeded)+len(rep.Failed))
	for _, id := range rep.Succeeded {
		out = append(out, Verdict{Herd: h.name, Agent: id, Success: true, Ticks: h.ticksOf(id)})
	}
	for _, id := range rep.Failed {
		out = append(out, Verdict{Herd: h.name, Agent: id, Ticks: h.ticksOf(id)})
	}
	return out
}

func (h *Herd[B]) publish(verdicts []Verdict) error {
	var all error
	for _, v := range verdicts {
		typ := EventFailed
		if v.Success {
			typ = EventSucceeded
		}
		if err := h.cfg.bus.Publish(bus.NewEvent(typ, h.name, v)); err != nil {
			all = errors.Join(all, err)
		}
	}
	return all
}

func (h *Herd[B]) ticksOf(id string) int {
	s := h.shardFor(id)
	s.mx.Lock()
	defer s.mx.Unlock()
	if a, ok := s.agents[id]; ok {
		return a.ticks
	}
	return 0
}

// Inspect visits all agents in id order while no step is in progress.
// fn must not call Step or Inspect.
func (h *Herd[B]) Inspect(fn func(Agent[B])) {
	h.stepMx.Lock()
	defer h.stepMx.Unlock()

	var all []*agent[B]
	for _, s := range h.shards {
		s.mx.Lock()
		for _, a := range s.agents {
			all = append(all, a)
		}
		s.mx.Unlock()
	}
	slices.SortFunc(all, func(a, b *agent[B]) int { return cmp.Compare(a.id, b.id) })
	for _, a := range all {
		fn(Agent[B]{ID: a.id, State: a.state, Status: a.status, Ticks: a.ticks})
	}
}
