package brain

import (
	"fmt"

	"github.com/zeusync/brain/internal/core/blackboard"
	"github.com/zeusync/brain/internal/core/bt"
)

// Built-in leaves over the map blackboard, so config-only trees work out of the box.
// Every key-based leaf takes an optional "ns" that scopes the key to a
// blackboard namespace.

type keyParams struct {
	Key string `mapstructure:"key"`
	NS  string `mapstructure:"ns"`
}

type setBoolParams struct {
	Key   string `mapstructure:"key"`
	NS    string `mapstructure:"ns"`
	Value bool   `mapstructure:"value"`
}

type incrementParams struct {
	Key string `mapstructure:"key"`
	NS  string `mapstructure:"ns"`
	By  int    `mapstructure:"by"`
}

type atLeastParams struct {
	Key   string  `mapstructure:"key"`
	NS    string  `mapstructure:"ns"`
	Value float64 `mapstructure:"value"`
}

type stringParams struct {
	Key   string `mapstructure:"key"`
	NS    string `mapstructure:"ns"`
	Value string `mapstructure:"value"`
}

// view resolves the namespace a leaf reads and writes through.
func view(bb *blackboard.Blackboard, ns string) *blackboard.Blackboard {
	if ns == "" {
		return bb
	}
	return bb.Namespace(ns)
}

func requireKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: 'key' is required", ErrInvalidParams)
	}
	return nil
}

// RegisterBuiltins registers IsTrue, SetBool, Increment, AtLeast, StringIs, Noop and Fail.
func RegisterBuiltins(r *Registry[blackboard.Blackboard]) {
	r.Register("IsTrue", func(params map[string]any) (bt.Node[blackboard.Blackboard], error) {
		var p keyParams
		if err := DecodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireKey(p.Key); err != nil {
			return nil, err
		}
		return bt.Condition[blackboard.Blackboard](func(bb *blackboard.Blackboard) bool {
			v, ok := view(bb, p.NS).GetBool(p.Key)
			return ok && v
		}), nil
	})

	r.Register("SetBool", func(params map[string]any) (bt.Node[blackboard.Blackboard], error) {
		var p setBoolParams
		if err := DecodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireKey(p.Key); err != nil {
			return nil, err
		}
		return bt.Condition[blackboard.Blackboard](func(bb *blackboard.Blackboard) bool {
			view(bb, p.NS).Set(p.Key, p.Value)
			return true
		}), nil
	})

	// Increment adds "by" (default 1) to an int key, creating it at zero.
	r.Register("Increment", func(params map[string]any) (bt.Node[blackboard.Blackboard], error) {
		var p incrementParams
		if err := DecodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireKey(p.Key); err != nil {
			return nil, err
		}
		if p.By == 0 {
			p.By = 1
		}
		return bt.Condition[blackboard.Blackboard](func(bb *blackboard.Blackboard) bool {
			scoped := view(bb, p.NS)
			n, _ := scoped.GetInt(p.Key)
			scoped.Set(p.Key, n+p.By)
			return true
		}), nil
	})

	// AtLeast succeeds when the number at key is >= value; a missing or
	// non-numeric key fails.
	r.Register("AtLeast", func(params map[string]any) (bt.Node[blackboard.Blackboard], error) {
		var p atLeastParams
		if err := DecodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireKey(p.Key); err != nil {
			return nil, err
		}
		return bt.Condition[blackboard.Blackboard](func(bb *blackboard.Blackboard) bool {
			n, ok := view(bb, p.NS).GetFloat(p.Key)
			return ok && n >= p.Value
		}), nil
	})

	r.Register("StringIs", func(params map[string]any) (bt.Node[blackboard.Blackboard], error) {
		var p stringParams
		if err := DecodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireKey(p.Key); err != nil {
			return nil, err
		}
		return bt.Condition[blackboard.Blackboard](func(bb *blackboard.Blackboard) bool {
			v, ok := view(bb, p.NS).GetString(p.Key)
			return ok && v == p.Value
		}), nil
	})

	r.Register("Noop", func(map[string]any) (bt.Node[blackboard.Blackboard], error) {
		return bt.Condition[blackboard.Blackboard](func(*blackboard.Blackboard) bool { return true }), nil
	})

	r.Register("Fail", func(map[string]any) (bt.Node[blackboard.Blackboard], error) {
		return bt.Condition[blackboard.Blackboard](func(*blackboard.Blackboard) bool { return false }), nil
	})
}
