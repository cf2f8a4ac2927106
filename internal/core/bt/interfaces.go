package bt

import "time"

// Status represents the outcome of a single tick.
type Status int

// The zero Status is StatusInvalid, so an unset Result is never mistaken for
// Success. Parents treat it as Failure.
const (
	StatusInvalid Status = iota
	StatusSuccess
	StatusFailure
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusFailure:
		return "Failure"
	case StatusRunning:
		return "Running"
	default:
		return "Invalid"
	}
}

// Result is the value returned by Node.Tick.
// A Running result carries the continuation that must be ticked next time
// instead of the node that produced it.
type Result[B any] struct {
	status Status
	next   Node[B]
}

// Success returns a terminal successful result.
func Success[B any]() Result[B] { return Result[B]{status: StatusSuccess} }

// Failure returns a terminal failed result.
func Failure[B any]() Result[B] { return Result[B]{status: StatusFailure} }

// Running suspends evaluation; next is ticked on the following tick.
func Running[B any](next Node[B]) Result[B] {
	if next == nil {
		panic("bt: running result requires a continuation")
	}
	return Result[B]{status: StatusRunning, next: next}
}

// Terminal maps ok to Success or Failure.
func Terminal[B any](ok bool) Result[B] {
	if ok {
		return Success[B]()
	}
	return Failure[B]()
}

func (r Result[B]) Status() Status { return r.status }

// tick ticks n and maps malformed results (an unset status, or Running
// without a continuation) to Failure.
func tick[B any](n Node[B], bb *B) Result[B] {
	res := n.Tick(bb)
	switch res.status {
	case StatusSuccess, StatusFailure:
		return res
	case StatusRunning:
		if res.next != nil {
			return res
		}
	}
	return Failure[B]()
}

// Continuation returns the node to resume from. It is nil unless the result is Running.
func (r Result[B]) Continuation() Node[B] { return r.next }

func (r Result[B]) IsRunning() bool { return r.status == StatusRunning }

func (r Result[B]) String() string { return r.status.String() }

// Node is the fundamental interface for behavior tree nodes.
//
// Implementations must not modify their own fields in Tick. Any progress a node
// needs to remember between ticks is expressed by returning a Running result
// whose continuation captures it. This is what allows one tree value to be
// ticked by many runners at once.
type Node[B any] interface {
	// Tick evaluates one step against the caller-owned context bb.
	Tick(bb *B) Result[B]
}

// TickEvent is reported to observers after every runner tick.
type TickEvent struct {
	Runner   string
	Status   Status
	Resumed  bool
	Duration time.Duration
}

// Observer receives tick events from runners. Implementations must be safe for
// concurrent use when attached to runners ticked from several goroutines.
type Observer interface {
	OnTick(ev TickEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev TickEvent)

func (f ObserverFunc) OnTick(ev TickEvent) { f(ev) }
