package bt

// Decorator nodes: Inverter, Succeeder, Repeated, LimitedRepeated, RepeatedUntilFailure

// Inverter flips Success <-> Failure; Running passes through wrapped in a new Inverter.
type Inverter[B any] struct {
	child Node[B]
}

// NewInverter wraps child; it panics on nil.
func NewInverter[B any](child Node[B]) *Inverter[B] {
	if child == nil {
		panic("bt: inverter requires a child")
	}
	return &Inverter[B]{child: child}
}

// Tick inverts a terminal child result.
func (d *Inverter[B]) Tick(bb *B) Result[B] {
	res := tick(d.child, bb)
	switch res.status {
	case StatusSuccess:
		return Failure[B]()
	case StatusFailure:
		return Success[B]()
	default:
		return Running[B](&Inverter[B]{child: res.next})
	}
}

// Succeeder always succeeds once its child finishes. Without a child it succeeds immediately.
type Succeeder[B any] struct {
	child Node[B]
}

// NewSucceeder wraps child; child may be nil.
func NewSucceeder[B any](child Node[B]) *Succeeder[B] { return &Succeeder[B]{child: child} }

// Tick maps any terminal child result to Success.
func (d *Succeeder[B]) Tick(bb *B) Result[B] {
	if d.child == nil {
		return Success[B]()
	}
	res := tick(d.child, bb)
	if res.status == StatusRunning {
		return Running[B](&Succeeder[B]{child: res.next})
	}
	return Success[B]()
}

// Repeated restarts its child forever. It never returns Success or Failure.
type Repeated[B any] struct {
	child  Node[B]
	resume Node[B]
}

// NewRepeated wraps child; it panics on nil.
func NewRepeated[B any](child Node[B]) *Repeated[B] {
	if child == nil {
		panic("bt: repeated requires a child")
	}
	return &Repeated[B]{child: child}
}

// Tick finishes the suspended pass, if any, then starts a new one. Always Running.
func (r *Repeated[B]) Tick(bb *B) Result[B] {
	if r.resume != nil {
		if res := tick(r.resume, bb); res.status == StatusRunning {
			return Running[B](&Repeated[B]{child: r.child, resume: res.next})
		}
	}
	if res := tick(r.child, bb); res.status == StatusRunning {
		return Running[B](&Repeated[B]{child: r.child, resume: res.next})
	}
	return Running[B](&Repeated[B]{child: r.child})
}

// LimitedRepeated repeats its child until it has completed limit passes, then
// succeeds. A pass counts whether the child succeeded or failed.
type LimitedRepeated[B any] struct {
	child     Node[B]
	resume    Node[B]
	limit     int
	completed int
}

// NewLimitedRepeated repeats child limit times; it panics on nil.
func NewLimitedRepeated[B any](limit int, child Node[B]) *LimitedRepeated[B] {
	if child == nil {
		panic("bt: limited repeated requires a child")
	}
	return &LimitedRepeated[B]{child: child, limit: limit}
}

// Limit is the number of passes to complete.
func (r *LimitedRepeated[B]) Limit() int { return r.limit }

// Completed reports the passes finished before this node was produced.
func (r *LimitedRepeated[B]) Completed() int { return r.completed }

// Tick advances at most one fresh pass and succeeds once limit passes completed.
func (r *LimitedRepeated[B]) Tick(bb *B) Result[B] {
	completed := r.completed
	if completed >= r.limit {
		return Success[B]()
	}
	if r.resume != nil {
		res := tick(r.resume, bb)
		if res.status == StatusRunning {
			return Running[B](r.next(completed, res.next))
		}
		completed++
		if completed >= r.limit {
			return Success[B]()
		}
	}
	res := tick(r.child, bb)
	if res.status == StatusRunning {
		return Running[B](r.next(completed, res.next))
	}
	completed++
	if completed >= r.limit {
		return Success[B]()
	}
	return Running[B](r.next(completed, nil))
}

func (r *LimitedRepeated[B]) next(completed int, resume Node[B]) *LimitedRepeated[B] {
	return &LimitedRepeated[B]{child: r.child, resume: resume, limit: r.limit, completed: completed}
}

// RepeatedUntilFailure repeats its child until the child fails, then succeeds.
type RepeatedUntilFailure[B any] struct {
	child  Node[B]
	resume Node[B]
}

// NewRepeatedUntilFailure wraps child; it panics on nil.
func NewRepeatedUntilFailure[B any](child Node[B]) *RepeatedUntilFailure[B] {
	if child == nil {
		panic("bt: repeated until failure requires a child")
	}
	return &RepeatedUntilFailure[B]{child: child}
}

// Tick succeeds on the first child Failure and keeps running otherwise.
func (r *RepeatedUntilFailure[B]) Tick(bb *B) Result[B] {
	if r.resume != nil {
		switch res := tick(r.resume, bb); res.status {
		case StatusRunning:
			return Running[B](&RepeatedUntilFailure[B]{child: r.child, resume: res.next})
		case StatusFailure:
			return Success[B]()
		}
	}
	switch res := tick(r.child, bb); res.status {
	case StatusRunning:
		return Running[B](&RepeatedUntilFailure[B]{child: r.child, resume: res.next})
	case StatusFailure:
		return Success[B]()
	}
	return Running[B](&RepeatedUntilFailure[B]{child: r.child})
}
