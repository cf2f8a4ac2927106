// Package bt implements a resumable behavior tree interpreter.
//
// A tree is built once from immutable nodes and may be shared by any number of
// Runners. A node that needs more than one tick returns a Running result whose
// continuation is a new node describing exactly where to resume, e.g. a
// sequence suspended at its second child. The Runner stores that continuation
// and ticks it next time instead of the root.
//
// Key characteristics:
// - Nodes never mutate their own fields during Tick.
// - Sequence and Selector evaluate children left to right and short-circuit.
// - Repeated never finishes; LimitedRepeated and RepeatedUntilFailure do.
// - Failure is a normal outcome, not an error.
// - Dropping a runner's continuation (Reset) is the only cancellation.
package bt
