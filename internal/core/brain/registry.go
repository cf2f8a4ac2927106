package brain

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/zeusync/brain/internal/core/bt"
)

// LeafFactory creates a leaf node from loosely typed config params.
type LeafFactory[B any] func(params map[string]any) (bt.Node[B], error)

// Registry maps leaf names used in tree configs to factories.
// It decouples configuration from concrete implementations.
type Registry[B any] struct {
	mu     sync.RWMutex
	leaves map[string]LeafFactory[B]
}

func NewRegistry[B any]() *Registry[B] {
	return &Registry[B]{leaves: make(map[string]LeafFactory[B])}
}

// Register adds or replaces a leaf factory.
func (r *Registry[B]) Register(name string, factory LeafFactory[B]) {
	r.mu.Lock()
	r.leaves[name] = factory
	r.mu.Unlock()
}

// New instantiates the leaf registered under name.
func (r *Registry[B]) New(name string, params map[string]any) (bt.Node[B], error) {
	r.mu.RLock()
	f := r.leaves[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLeaf, name)
	}
	node, err := f(params)
	if err != nil {
		return nil, fmt.Errorf("leaf %s: %w", name, err)
	}
	return node, nil
}

func (r *Registry[B]) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.leaves))
	for name := range r.leaves {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// DecodeParams decodes loosely typed params into out using mapstructure tags.
// Numbers are converted weakly so JSON float64 and YAML int both fit int fields.
func DecodeParams(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err = dec.Decode(params); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}
