package blackboard

import (
	"bytes"
	"encoding/gob"
	"sort"
	"strings"
	"sync"
)

// Blackboard is a thread-safe key/value store used as the per-agent tick
// context of data-driven trees. Namespaced views share the same storage.
type Blackboard struct {
	store  *store
	prefix string // empty for root
}

type store struct {
	mu      sync.RWMutex
	data    map[string]any
	version uint64
}

// New creates an empty root blackboard.
func New() *Blackboard {
	return &Blackboard{store: &store{data: make(map[string]any)}}
}

func (b *Blackboard) fullKey(key string) string {
	if b.prefix == "" {
		return key
	}
	return b.prefix + ":" + key
}

// Get retrieves a value by key. Returns (nil, false) if absent.
func (b *Blackboard) Get(key string) (any, bool) {
	full := b.fullKey(key)
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	v, ok := b.store.data[full]
	return v, ok
}

func (b *Blackboard) Set(key string, value any) {
	full := b.fullKey(key)
	b.store.mu.Lock()
	b.store.data[full] = value
	b.store.version++
	b.store.mu.Unlock()
}

func (b *Blackboard) Delete(key string) {
	full := b.fullKey(key)
	b.store.mu.Lock()
	if _, ok := b.store.data[full]; ok {
		delete(b.store.data, full)
		b.store.version++
	}
	b.store.mu.Unlock()
}

func (b *Blackboard) Has(key string) bool {
	_, ok := b.Get(key)
	return ok
}

// Version increases on every write through any view.
func (b *Blackboard) Version() uint64 {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	return b.store.version
}

func (b *Blackboard) GetInt(key string) (int, bool) {
	v, ok := b.Get(key)
	if !ok {
		return 0, false
	}
	switch tv := v.(type) {
	case int:
		return tv, true
	case int64:
		return int(tv), true
	case float64:
		return int(tv), true
	default:
		return 0, false
	}
}

func (b *Blackboard) GetFloat(key string) (float64, bool) {
	v, ok := b.Get(key)
	if !ok {
		return 0, false
	}
	switch tv := v.(type) {
	case float64:
		return tv, true
	case float32:
		return float64(tv), true
	case int:
		return float64(tv), true
	case int64:
		return float64(tv), true
	default:
		return 0, false
	}
}

func (b *Blackboard) GetBool(key string) (bool, bool) {
	v, ok := b.Get(key)
	if !ok {
		return false, false
	}
	tv, ok := v.(bool)
	return tv, ok
}

func (b *Blackboard) GetString(key string) (string, bool) {
	v, ok := b.Get(key)
	if !ok {
		return "", false
	}
	tv, ok := v.(string)
	return tv, ok
}

// Namespace returns a view whose keys are stored as "ns:key".
func (b *Blackboard) Namespace(ns string) *Blackboard {
	// nested namespaces would be ambiguous with ':' inside a segment
	ns = strings.ReplaceAll(ns, ":", "_")
	return &Blackboard{store: b.store, prefix: b.fullKey(ns)}
}

// Keys returns a sorted snapshot of the keys visible through this view.
func (b *Blackboard) Keys() []string {
	b.store.mu.RLock()
	keys := make([]string, 0, len(b.store.data))
	for k := range b.store.data {
		keys = append(keys, k)
	}
	b.store.mu.RUnlock()
	sort.Strings(keys)
	if b.prefix == "" {
		return keys
	}
	res := make([]string, 0)
	pref := b.prefix + ":"
	for _, k := range keys {
		if strings.HasPrefix(k, pref) {
			res = append(res, strings.TrimPrefix(k, pref))
		}
	}
	return res
}

// Snapshot copies the entries visible through this view.
func (b *Blackboard) Snapshot() map[string]any {
	out := make(map[string]any)
	for _, k := range b.Keys() {
		if v, ok := b.Get(k); ok {
			out[k] = v
		}
	}
	return out
}

// MarshalBinary encodes the whole store with gob. Values must be gob-encodable;
// custom types need gob.Register.
func (b *Blackboard) MarshalBinary() ([]byte, error) {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b.store.data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary replaces the whole store with the decoded entries.
func (b *Blackboard) UnmarshalBinary(data []byte) error {
	decoded := make(map[string]any)
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&decoded); err != nil {
		return err
	}
	b.store.mu.Lock()
	b.store.data = decoded
	b.store.version++
	b.store.mu.Unlock()
	return nil
}
