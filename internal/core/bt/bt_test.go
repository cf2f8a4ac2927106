package bt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type board struct {
	trace []string
	count int
}

// recorder records its name on every tick and reports a fixed status.
func recorder(name string, st Status) Node[board] {
	return Func[board](func(bb *board) Result[board] {
		bb.trace = append(bb.trace, name)
		switch st {
		case StatusSuccess:
			return Success[board]()
		case StatusFailure:
			return Failure[board]()
		default:
			return Running[board](recorder(name, st))
		}
	})
}

// countTo increments the board counter and runs until it reaches n.
func countTo(n int) Node[board] {
	return Action[board](func(bb *board) Status {
		bb.count++
		if bb.count >= n {
			return StatusSuccess
		}
		return StatusRunning
	})
}

// slow runs for n ticks, recording name on each, then succeeds.
func slow(name string, n int) Node[board] {
	return NewSequence[board](recorder(name, StatusSuccess), Wait[board](n))
}

func ticks(bb *board, name string) int {
	n := 0
	for _, s := range bb.trace {
		if s == name {
			n++
		}
	}
	return n
}

// drive ticks node and its continuations until a terminal result or max ticks.
func drive(t *testing.T, node Node[board], bb *board, max int) ([]Status, Status) {
	t.Helper()
	var seen []Status
	for i := 0; i < max; i++ {
		res := node.Tick(bb)
		seen = append(seen, res.Status())
		if !res.IsRunning() {
			return seen, res.Status()
		}
		node = res.Continuation()
	}
	t.Fatalf("node still running after %d ticks", max)
	return nil, StatusRunning
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Success", StatusSuccess.String())
	assert.Equal(t, "Failure", StatusFailure.String())
	assert.Equal(t, "Running", StatusRunning.String())
	assert.Equal(t, "Invalid", Status(42).String())
}

func TestResultConstructors(t *testing.T) {
	assert.Equal(t, StatusSuccess, Terminal[board](true).Status())
	assert.Equal(t, StatusFailure, Terminal[board](false).Status())
	assert.Nil(t, Success[board]().Continuation())

	next := recorder("x", StatusSuccess)
	res := Running[board](next)
	assert.True(t, res.IsRunning())
	assert.NotNil(t, res.Continuation())

	assert.Panics(t, func() { Running[board](nil) })
}

func TestLeafAdapters(t *testing.T) {
	var bb board
	assert.Equal(t, StatusSuccess, Condition[board](func(*board) bool { return true }).Tick(&bb).Status())
	assert.Equal(t, StatusFailure, Condition[board](func(*board) bool { return false }).Tick(&bb).Status())

	statuses, final := drive(t, countTo(3), &bb, 10)
	assert.Equal(t, []Status{StatusRunning, StatusRunning, StatusSuccess}, statuses)
	assert.Equal(t, StatusSuccess, final)
	assert.Equal(t, StatusFailure, Action[board](func(*board) Status { return Status(99) }).Tick(&bb).Status())
}

func TestUnsetResultIsFailure(t *testing.T) {
	var zero Result[board]
	assert.Equal(t, StatusInvalid, zero.Status())
	assert.False(t, zero.IsRunning())

	unset := Func[board](func(bb *board) Result[board] {
		bb.trace = append(bb.trace, "unset")
		return Result[board]{}
	})
	var bb board
	assert.Equal(t, StatusFailure, NewSequence[board](unset, recorder("b", StatusSuccess)).Tick(&bb).Status())
	assert.Equal(t, []string{"unset"}, bb.trace)

	bb = board{}
	assert.Equal(t, StatusSuccess, NewSelector[board](unset, recorder("b", StatusSuccess)).Tick(&bb).Status())
	assert.Equal(t, []string{"unset", "b"}, bb.trace)

	assert.Equal(t, StatusSuccess, NewInverter[board](unset).Tick(&bb).Status())

	ok, done := NewRunner[board](unset).Proceed(&bb)
	assert.True(t, done)
	assert.False(t, ok)
}

func TestWait(t *testing.T) {
	var bb board
	statuses, _ := drive(t, Wait[board](2), &bb, 10)
	assert.Equal(t, []Status{StatusRunning, StatusRunning, StatusSuccess}, statuses)

	assert.Equal(t, StatusSuccess, Wait[board](0).Tick(&bb).Status())
	assert.Equal(t, StatusSuccess, Wait[board](-1).Tick(&bb).Status())
}

func TestSequence(t *testing.T) {
	t.Run("all succeed", func(t *testing.T) {
		var bb board
		seq := NewSequence[board](recorder("a", StatusSuccess), recorder("b", StatusSuccess))
		assert.Equal(t, StatusSuccess, seq.Tick(&bb).Status())
		assert.Equal(t, []string{"a", "b"}, bb.trace)
	})

	t.Run("failure short-circuits", func(t *testing.T) {
		var bb board
		seq := NewSequence[board](recorder("a", StatusFailure), recorder("b", StatusSuccess))
		assert.Equal(t, StatusFailure, seq.Tick(&bb).Status())
		assert.Equal(t, 0, ticks(&bb, "b"))
	})

	t.Run("empty succeeds", func(t *testing.T) {
		var bb board
		assert.Equal(t, StatusSuccess, NewSequence[board]().Tick(&bb).Status())
	})

	t.Run("resumes strictly after the running child", func(t *testing.T) {
		var bb board
		seq := NewSequence[board](recorder("a", StatusSuccess), slow("b", 2), recorder("c", StatusSuccess))
		statuses, final := drive(t, seq, &bb, 10)
		assert.Equal(t, StatusSuccess, final)
		assert.Equal(t, []Status{StatusRunning, StatusRunning, StatusSuccess}, statuses)
		assert.Equal(t, []string{"a", "b", "c"}, bb.trace)
	})

	t.Run("resumed child failure fails", func(t *testing.T) {
		var bb board
		failLater := NewSequence[board](Wait[board](1), recorder("x", StatusFailure))
		seq := NewSequence[board](failLater, recorder("c", StatusSuccess))
		_, final := drive(t, seq, &bb, 10)
		assert.Equal(t, StatusFailure, final)
		assert.Equal(t, 0, ticks(&bb, "c"))
	})

	t.Run("construction copies children", func(t *testing.T) {
		var bb board
		children := []Node[board]{recorder("a", StatusSuccess)}
		seq := NewSequence[board](children...)
		children[0] = recorder("z", StatusFailure)
		assert.Equal(t, StatusSuccess, seq.Tick(&bb).Status())
		assert.Len(t, seq.Children(), 1)
	})
}

func TestSequenceOf(t *testing.T) {
	var bb board
	seq := SequenceOf[board](func(yield func(Node[board]) bool) {
		for _, name := range []string{"a", "b", "c"} {
			if !yield(recorder(name, StatusSuccess)) {
				return
			}
		}
	})
	assert.Equal(t, StatusSuccess, seq.Tick(&bb).Status())
	assert.Equal(t, []string{"a", "b", "c"}, bb.trace)
}

func TestSelector(t *testing.T) {
	t.Run("first success short-circuits", func(t *testing.T) {
		var bb board
		sel := NewSelector[board](recorder("a", StatusSuccess), recorder("b", StatusSuccess))
		assert.Equal(t, StatusSuccess, sel.Tick(&bb).Status())
		assert.Equal(t, 0, ticks(&bb, "b"))
	})

	t.Run("failure falls through", func(t *testing.T) {
		var bb board
		sel := NewSelector[board](recorder("a", StatusFailure), recorder("b", StatusSuccess))
		assert.Equal(t, StatusSuccess, sel.Tick(&bb).Status())
		assert.Equal(t, []string{"a", "b"}, bb.trace)
	})

	t.Run("all fail", func(t *testing.T) {
		var bb board
		sel := NewSelector[board](recorder("a", StatusFailure), recorder("b", StatusFailure))
		assert.Equal(t, StatusFailure, sel.Tick(&bb).Status())
	})

	t.Run("empty fails", func(t *testing.T) {
		var bb board
		assert.Equal(t, StatusFailure, NewSelector[board]().Tick(&bb).Status())
	})

	t.Run("resumes strictly after the running child", func(t *testing.T) {
		var bb board
		failLater := NewSequence[board](recorder("b", StatusSuccess), Wait[board](1), Condition[board](func(*board) bool { return false }))
		sel := NewSelector[board](recorder("a", StatusFailure), failLater, recorder("c", StatusSuccess))
		statuses, final := drive(t, sel, &bb, 10)
		assert.Equal(t, StatusSuccess, final)
		assert.Equal(t, []Status{StatusRunning, StatusSuccess}, statuses)
		assert.Equal(t, []string{"a", "b", "c"}, bb.trace)
	})

	t.Run("resumed child success succeeds", func(t *testing.T) {
		var bb board
		sel := NewSelector[board](slow("a", 1), recorder("b", StatusSuccess))
		_, final := drive(t, sel, &bb, 10)
		assert.Equal(t, StatusSuccess, final)
		assert.Equal(t, 0, ticks(&bb, "b"))
	})
}

func TestSelectorOf(t *testing.T) {
	var bb board
	sel := SelectorOf[board](func(yield func(Node[board]) bool) {
		_ = yield(recorder("a", StatusFailure)) && yield(recorder("b", StatusFailure))
	})
	assert.Equal(t, StatusFailure, sel.Tick(&bb).Status())
	assert.Len(t, sel.Children(), 2)
}

func TestInverter(t *testing.T) {
	var bb board
	assert.Equal(t, StatusFailure, NewInverter[board](recorder("a", StatusSuccess)).Tick(&bb).Status())
	assert.Equal(t, StatusSuccess, NewInverter[board](recorder("a", StatusFailure)).Tick(&bb).Status())

	res := NewInverter[board](Wait[board](1)).Tick(&bb)
	require.True(t, res.IsRunning())
	assert.IsType(t, &Inverter[board]{}, res.Continuation())
	assert.Equal(t, StatusFailure, res.Continuation().Tick(&bb).Status())

	assert.Panics(t, func() { NewInverter[board](nil) })
}

func TestInverterInvolution(t *testing.T) {
	children := map[string]func() Node[board]{
		"success": func() Node[board] { return recorder("a", StatusSuccess) },
		"failure": func() Node[board] { return recorder("a", StatusFailure) },
		"slow":    func() Node[board] { return slow("a", 2) },
		"counter": func() Node[board] { return countTo(3) },
	}
	for name, mk := range children {
		t.Run(name, func(t *testing.T) {
			var plain, doubled board
			wantStatuses, want := drive(t, mk(), &plain, 20)
			gotStatuses, got := drive(t, NewInverter[board](NewInverter[board](mk())), &doubled, 20)
			assert.Equal(t, want, got)
			assert.Equal(t, wantStatuses, gotStatuses)
			assert.Equal(t, plain, doubled)
		})
	}
}

func TestSucceederAbsorption(t *testing.T) {
	var bb board
	assert.Equal(t, StatusSuccess, NewSucceeder[board](nil).Tick(&bb).Status())
	assert.Equal(t, StatusSuccess, NewSucceeder[board](recorder("a", StatusFailure)).Tick(&bb).Status())
	assert.Equal(t, StatusSuccess, NewSucceeder[board](recorder("a", StatusSuccess)).Tick(&bb).Status())

	res := NewSucceeder[board](NewSequence[board](Wait[board](1), recorder("x", StatusFailure))).Tick(&bb)
	require.True(t, res.IsRunning())
	assert.IsType(t, &Succeeder[board]{}, res.Continuation())

	statuses, final := drive(t, res.Continuation(), &bb, 5)
	assert.Equal(t, StatusSuccess, final)
	assert.NotContains(t, statuses, StatusFailure)
}

func TestRepeatedNeverTerminates(t *testing.T) {
	children := map[string]Node[board]{
		"success": recorder("a", StatusSuccess),
		"failure": recorder("a", StatusFailure),
		"slow":    slow("a", 2),
		"empty":   NewSelector[board](),
	}
	for name, child := range children {
		t.Run(name, func(t *testing.T) {
			var bb board
			var node Node[board] = NewRepeated[board](child)
			for i := 0; i < 100; i++ {
				res := node.Tick(&bb)
				require.Equal(t, StatusRunning, res.Status(), "tick %d", i)
				node = res.Continuation()
			}
		})
	}
}

func TestRepeatedRestartsChild(t *testing.T) {
	var bb board
	var node Node[board] = NewRepeated[board](recorder("a", StatusSuccess))
	for i := 0; i < 5; i++ {
		node = node.Tick(&bb).Continuation()
	}
	// an instantly completing child runs exactly once per tick
	assert.Equal(t, 5, ticks(&bb, "a"))

	bb = board{}
	node = NewRepeated[board](slow("b", 1))
	for i := 0; i < 4; i++ {
		node = node.Tick(&bb).Continuation()
	}
	// every tick finishes the previous pass (if any) and starts a new one
	assert.Equal(t, 4, ticks(&bb, "b"))

	assert.Panics(t, func() { NewRepeated[board](nil) })
}

func TestLimitedRepeated(t *testing.T) {
	t.Run("counts instant passes", func(t *testing.T) {
		var bb board
		statuses, final := drive(t, NewLimitedRepeated[board](3, recorder("a", StatusFailure)), &bb, 10)
		assert.Equal(t, StatusSuccess, final)
		assert.Equal(t, []Status{StatusRunning, StatusRunning, StatusSuccess}, statuses)
		assert.Equal(t, 3, ticks(&bb, "a"))
	})

	t.Run("counts resumed passes", func(t *testing.T) {
		var bb board
		statuses, final := drive(t, NewLimitedRepeated[board](3, slow("a", 1)), &bb, 10)
		assert.Equal(t, StatusSuccess, final)
		assert.Len(t, statuses, 4)
		assert.Equal(t, 3, ticks(&bb, "a"))
	})

	t.Run("zero limit succeeds without ticking", func(t *testing.T) {
		var bb board
		assert.Equal(t, StatusSuccess, NewLimitedRepeated[board](0, recorder("a", StatusSuccess)).Tick(&bb).Status())
		assert.Empty(t, bb.trace)
	})

	t.Run("continuation carries the count", func(t *testing.T) {
		var bb board
		root := NewLimitedRepeated[board](5, recorder("a", StatusSuccess))
		res := root.Tick(&bb)
		next, ok := res.Continuation().(*LimitedRepeated[board])
		require.True(t, ok)
		assert.Equal(t, 1, next.Completed())
		assert.Equal(t, 0, root.Completed())
		assert.Equal(t, 5, next.Limit())
	})
}

func TestRepeatedUntilFailure(t *testing.T) {
	var bb board
	child := Condition[board](func(bb *board) bool {
		bb.count++
		return bb.count < 3
	})
	statuses, final := drive(t, NewRepeatedUntilFailure[board](child), &bb, 10)
	assert.Equal(t, StatusSuccess, final)
	assert.Equal(t, []Status{StatusRunning, StatusRunning, StatusSuccess}, statuses)

	bb = board{}
	resumed := NewSequence[board](Wait[board](1), Condition[board](func(bb *board) bool {
		bb.count++
		return bb.count < 2
	}))
	_, final = drive(t, NewRepeatedUntilFailure[board](resumed), &bb, 10)
	assert.Equal(t, StatusSuccess, final)
	assert.Equal(t, 2, bb.count)
}

func (b board) clone() board {
	b.trace = append([]string(nil), b.trace...)
	return b
}

// finish ticks node, then whatever next yields for the Running result, until
// a terminal result or max ticks.
func finish(node Node[board], bb *board, next func(Result[board]) Node[board], max int) []Status {
	var seen []Status
	for i := 0; i < max; i++ {
		res := node.Tick(bb)
		seen = append(seen, res.Status())
		if !res.IsRunning() {
			break
		}
		node = next(res)
	}
	return seen
}

func TestResumeEquivalence(t *testing.T) {
	atLeast := func(n int) Node[board] {
		return Condition[board](func(bb *board) bool { return bb.count >= n })
	}
	mark := func(name string) Node[board] {
		return Condition[board](func(bb *board) bool {
			bb.trace = append(bb.trace, name)
			return true
		})
	}

	trees := map[string]Node[board]{
		"sequence": NewSequence[board](atLeast(0), countTo(3), mark("done")),
		"selector": NewSelector[board](atLeast(3), countTo(3), mark("unreached")),
		"inverter": NewInverter[board](countTo(2)),
		"nested": NewSequence[board](
			NewSelector[board](atLeast(2), countTo(2)),
			NewSucceeder[board](countTo(4)),
			mark("done"),
		),
	}

	for name, tree := range trees {
		t.Run(name, func(t *testing.T) {
			var bb board
			res := tree.Tick(&bb)
			require.True(t, res.IsRunning())

			// ticking the continuation against the post-tick context behaves like
			// ticking the original tree again against that context
			resumed, restarted := bb.clone(), bb.clone()
			viaContinuation := finish(res.Continuation(), &resumed, Result[board].Continuation, 10)
			viaRoot := finish(tree, &restarted, func(Result[board]) Node[board] { return tree }, 10)

			assert.Equal(t, viaRoot, viaContinuation)
			assert.NotEqual(t, StatusRunning, viaContinuation[len(viaContinuation)-1])
			assert.Equal(t, restarted, resumed)
		})
	}
}

func TestSharedContinuation(t *testing.T) {
	tree := NewSequence[board](
		Condition[board](func(bb *board) bool { return bb.count < 10 }),
		countTo(4),
		recorder("done", StatusSuccess),
	)
	var bb board
	res := tree.Tick(&bb)
	require.True(t, res.IsRunning())
	suspended := res.Continuation()

	type outcome struct {
		statuses []Status
		bb       board
	}
	results := make(chan outcome, 2)
	for range 2 {
		go func(local board) {
			seen := finish(suspended, &local, Result[board].Continuation, 10)
			results <- outcome{seen, local}
		}(bb.clone())
	}
	a, b := <-results, <-results
	assert.Equal(t, a, b)
	assert.Equal(t, []Status{StatusRunning, StatusRunning, StatusSuccess}, a.statuses)
	assert.Equal(t, []string{"done"}, a.bb.trace)

	// the suspended node is a snapshot; ticking it again replays the same step
	again := bb.clone()
	assert.Equal(t, StatusRunning, suspended.Tick(&again).Status())
	assert.Equal(t, 2, again.count)
	assert.Equal(t, 1, bb.count)
}

func TestDeterminism(t *testing.T) {
	tree := NewRepeated[board](NewSelector[board](
		NewSequence[board](countTo(4), recorder("a", StatusFailure)),
		NewInverter[board](slow("b", 2)),
		NewLimitedRepeated[board](2, recorder("c", StatusSuccess)),
	))

	run := func() ([]Status, board) {
		var bb board
		var out []Status
		var node Node[board] = tree
		for i := 0; i < 40; i++ {
			res := node.Tick(&bb)
			out = append(out, res.Status())
			node = res.Continuation()
		}
		return out, bb
	}
	s1, b1 := run()
	s2, b2 := run()
	assert.Equal(t, s1, s2)
	assert.Equal(t, b1, b2)
}
