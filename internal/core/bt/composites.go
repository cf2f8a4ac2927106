package bt

import (
	"iter"
	"slices"
)

// Composite nodes: Sequence, Selector

// Sequence runs children in order until one fails; success if all succeed.
// A running child suspends the sequence at that child's index.
type Sequence[B any] struct {
	children []Node[B]
}

// NewSequence creates a sequence over a copy of children.
func NewSequence[B any](children ...Node[B]) *Sequence[B] {
	return &Sequence[B]{children: slices.Clone(children)}
}

// SequenceOf collects children from an iterator.
func SequenceOf[B any](children iter.Seq[Node[B]]) *Sequence[B] {
	return &Sequence[B]{children: slices.Collect(children)}
}

// Children returns a copy of the child list.
func (s *Sequence[B]) Children() []Node[B] { return slices.Clone(s.children) }

// Tick runs a fresh pass from the first child.
func (s *Sequence[B]) Tick(bb *B) Result[B] { return runSequence(s.children, 0, bb) }

func runSequence[B any](children []Node[B], from int, bb *B) Result[B] {
	for i := from; i < len(children); i++ {
		res := tick(children[i], bb)
		switch res.status {
		case StatusFailure:
			return res
		case StatusRunning:
			return Running[B](&sequenceResume[B]{children: children, index: i, resume: res.next})
		}
	}
	return Success[B]()
}

// sequenceResume continues a suspended sequence at index.
type sequenceResume[B any] struct {
	children []Node[B]
	index    int
	resume   Node[B]
}

func (s *sequenceResume[B]) Tick(bb *B) Result[B] {
	res := tick(s.resume, bb)
	switch res.status {
	case StatusFailure:
		return res
	case StatusRunning:
		return Running[B](&sequenceResume[B]{children: s.children, index: s.index, resume: res.next})
	}
	return runSequence(s.children, s.index+1, bb)
}

// Selector runs children in order until one succeeds; failure if all fail.
// A running child suspends the selector at that child's index.
type Selector[B any] struct {
	children []Node[B]
}

// NewSelector creates a selector over a copy of children.
func NewSelector[B any](children ...Node[B]) *Selector[B] {
	return &Selector[B]{children: slices.Clone(children)}
}

// SelectorOf collects children from an iterator.
func SelectorOf[B any](children iter.Seq[Node[B]]) *Selector[B] {
	return &Selector[B]{children: slices.Collect(children)}
}

// Children returns a copy of the child list.
func (s *Selector[B]) Children() []Node[B] { return slices.Clone(s.children) }

// Tick runs a fresh pass from the first child.
func (s *Selector[B]) Tick(bb *B) Result[B] { return runSelector(s.children, 0, bb) }

func runSelector[B any](children []Node[B], from int, bb *B) Result[B] {
	for i := from; i < len(children); i++ {
		res := tick(children[i], bb)
		switch res.status {
		case StatusSuccess:
			return res
		case StatusRunning:
			return Running[B](&selectorResume[B]{children: children, index: i, resume: res.next})
		}
	}
	return Failure[B]()
}

type selectorResume[B any] struct {
	children []Node[B]
	index    int
	resume   Node[B]
}

func (s *selectorResume[B]) Tick(bb *B) Result[B] {
	res := tick(s.resume, bb)
	switch res.status {
	case StatusSuccess:
		return res
	case StatusRunning:
		return Running[B](&selectorResume[B]{children: s.children, index: s.index, resume: res.next})
	}
	return runSelector(s.children, s.index+1, bb)
}
