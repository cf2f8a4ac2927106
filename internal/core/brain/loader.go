package brain

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/brain/internal/core/bt"
)

// Config describes a tree in JSON or YAML. Nodes reference each other by
// name; a name used by several parents becomes one shared subtree.
type Config struct {
	Name  string                `json:"name,omitempty" yaml:"name,omitempty"`
	Root  string                `json:"root" yaml:"root"`
	Nodes map[string]ConfigNode `json:"nodes" yaml:"nodes"`
}

type ConfigNode struct {
	Type     string         `json:"type" yaml:"type"`
	Children []string       `json:"children,omitempty" yaml:"children,omitempty"`
	Child    string         `json:"child,omitempty" yaml:"child,omitempty"`
	Leaf     string         `json:"leaf,omitempty" yaml:"leaf,omitempty"`
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// LoadJSON loads config from JSON reader.
func LoadJSON(r io.Reader) (*Config, error) {
	var c Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadYAML loads config from YAML reader.
func LoadYAML(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile picks the decoder by extension: .json, otherwise YAML.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg *Config
	if strings.EqualFold(filepath.Ext(path), ".json") {
		cfg, err = LoadJSON(f)
	} else {
		cfg, err = LoadYAML(f)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return cfg, nil
}

// Build instantiates the tree described by cfg using leaves from reg.
func Build[B any](cfg *Config, reg *Registry[B]) (bt.Node[B], error) {
	if cfg == nil || cfg.Root == "" {
		return nil, ErrNoRoot
	}
	b := builder[B]{
		cfg:      cfg,
		reg:      reg,
		created:  make(map[string]bt.Node[B]),
		visiting: make(map[string]bool),
	}
	return b.node(cfg.Root)
}

type builder[B any] struct {
	cfg      *Config
	reg      *Registry[B]
	created  map[string]bt.Node[B]
	visiting map[string]bool
}

func (b *builder[B]) node(name string) (bt.Node[B], error) {
	if n, ok := b.created[name]; ok {
		return n, nil
	}
	if b.visiting[name] {
		return nil, fmt.Errorf("%w through %s", ErrCycle, name)
	}
	nc, ok := b.cfg.Nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	b.visiting[name] = true
	defer delete(b.visiting, name)

	n, err := b.build(name, nc)
	if err != nil {
		return nil, err
	}
	b.created[name] = n
	return n, nil
}

func (b *builder[B]) build(name string, nc ConfigNode) (bt.Node[B], error) {
	switch strings.ToLower(nc.Type) {
	case "sequence":
		children, err := b.children(nc.Children)
		if err != nil {
			return nil, err
		}
		return bt.NewSequence(children...), nil
	case "selector":
		children, err := b.children(nc.Children)
		if err != nil {
			return nil, err
		}
		return bt.NewSelector(children...), nil
	case "repeated":
		child, err := b.child(name, nc)
		if err != nil {
			return nil, err
		}
		return bt.NewRepeated(child), nil
	case "limited_repeated":
		var p struct {
			Limit int `mapstructure:"limit"`
		}
		if err := DecodeParams(nc.Params, &p); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		child, err := b.child(name, nc)
		if err != nil {
			return nil, err
		}
		return bt.NewLimitedRepeated(p.Limit, child), nil
	case "repeated_until_failure":
		child, err := b.child(name, nc)
		if err != nil {
			return nil, err
		}
		return bt.NewRepeatedUntilFailure(child), nil
	case "inverter":
		child, err := b.child(name, nc)
		if err != nil {
			return nil, err
		}
		return bt.NewInverter(child), nil
	case "succeeder":
		if nc.Child == "" {
			return bt.NewSucceeder[B](nil), nil
		}
		child, err := b.node(nc.Child)
		if err != nil {
			return nil, err
		}
		return bt.NewSucceeder(child), nil
	case "wait":
		var p struct {
			Ticks int `mapstructure:"ticks"`
		}
		if err := DecodeParams(nc.Params, &p); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return bt.Wait[B](p.Ticks), nil
	case "leaf":
		leaf := nc.Leaf
		if leaf == "" {
			leaf = name
		}
		return b.reg.New(leaf, nc.Params)
	default:
		return nil, fmt.Errorf("%w: %q in %s", ErrUnknownType, nc.Type, name)
	}
}

func (b *builder[B]) child(name string, nc ConfigNode) (bt.Node[B], error) {
	if nc.Child == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingChild, name)
	}
	return b.node(nc.Child)
}

func (b *builder[B]) children(names []string) ([]bt.Node[B], error) {
	out := make([]bt.Node[B], 0, len(names))
	for _, n := range names {
		ch, err := b.node(n)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, nil
}
