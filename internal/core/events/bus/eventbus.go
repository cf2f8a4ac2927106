package bus

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// NewEvent stamps an event with the current time.
func NewEvent(typ, src string, data any) Event {
	return Event{Type: typ, Source: src, Time: time.Now(), Data: data}
}

type subscription struct {
	id        string
	eventType string
	handler   EventHandler
	active    atomic.Bool
	cancel    func()
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) EventType() string { return s.eventType }
func (s *subscription) IsActive() bool    { return s.active.Load() }
func (s *subscription) Cancel() error {
	if s.active.Swap(false) && s.cancel != nil {
		s.cancel()
	}
	return nil
}

type inMemoryBus struct {
	mu sync.RWMutex
	// eventType -> subID -> subscription
	handlers map[string]map[string]*subscription
}

// New creates a new EventBus instance.
func New() EventBus {
	return &inMemoryBus{handlers: make(map[string]map[string]*subscription)}
}

func (b *inMemoryBus) Subscribe(eventType string, handler EventHandler) (Subscription, error) {
	if handler == nil {
		return nil, errors.New("bus: nil handler")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[string]*subscription)
	}
	id := uuid.NewString()
	s := &subscription{id: id, eventType: eventType, handler: handler}
	s.active.Store(true)
	s.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if mm, ok := b.handlers[eventType]; ok {
			delete(mm, id)
			if len(mm) == 0 {
				delete(b.handlers, eventType)
			}
		}
	}
	b.handlers[eventType][id] = s
	return s, nil
}

func (b *inMemoryBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *inMemoryBus) Subscribers(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

func (b *inMemoryBus) PublishAsync(event Event) <-chan error {
	ch := make(chan error, 1)
	go func() {
		ch <- b.Publish(event)
		close(ch)
	}()
	return ch
}

func (b *inMemoryBus) Publish(event Event) error {
	b.mu.RLock()
	subs := make([]*subscription, 0, len(b.handlers[event.Type])+len(b.handlers[AnyType]))
	for _, s := range b.handlers[event.Type] {
		subs = append(subs, s)
	}
	if event.Type != AnyType {
		for _, s := range b.handlers[AnyType] {
			subs = append(subs, s)
		}
	}
	b.mu.RUnlock()

	var all error
	for _, s := range subs {
		if !s.IsActive() {
			continue
		}
		if err := s.handler(event); err != nil {
			all = errors.Join(all, err)
		}
	}
	return all
}
