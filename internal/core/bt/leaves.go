package bt

// Leaf adapters for plain functions.

// Func wraps a function as a node with full control over the result.
type Func[B any] func(bb *B) Result[B]

// Tick calls f.
func (f Func[B]) Tick(bb *B) Result[B] { return f(bb) }

// Condition evaluates to Success or Failure.
type Condition[B any] func(bb *B) bool

func (c Condition[B]) Tick(bb *B) Result[B] { return Terminal[B](c(bb)) }

// Action reports a Status. When it reports StatusRunning the action itself is
// the continuation, so the same function runs again on the next tick.
type Action[B any] func(bb *B) Status

func (a Action[B]) Tick(bb *B) Result[B] {
	switch a(bb) {
	case StatusSuccess:
		return Success[B]()
	case StatusRunning:
		return Running[B](a)
	default:
		return Failure[B]()
	}
}

// Wait returns Running for n ticks and then succeeds.
func Wait[B any](n int) Node[B] { return wait[B]{remaining: n} }

type wait[B any] struct{ remaining int }

func (w wait[B]) Tick(*B) Result[B] {
	if w.remaining <= 0 {
		return Success[B]()
	}
	return Running[B](wait[B]{remaining: w.remaining - 1})
}
