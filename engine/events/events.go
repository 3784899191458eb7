// Package events delivers case and objective status notifications to
// subscribed observers. Delivery is a single pass over the queued events;
// observers may call back into the engine, which queues new events for a
// later delivery instead of recursing here.
package events

import (
	"sync"

	"github.com/google/uuid"

	"github.com/nathoo/casefile/types"
)

// Observer receives status change notifications.
type Observer interface {
	OnCaseStatusChanged(ev types.Event)
	OnObjectiveStatusChanged(ev types.Event)
}

// Funcs adapts plain functions to Observer. Nil fields are skipped.
type Funcs struct {
	CaseChanged      func(types.Event)
	ObjectiveChanged func(types.Event)
}

func (f Funcs) OnCaseStatusChanged(ev types.Event) {
	if f.CaseChanged != nil {
		f.CaseChanged(ev)
	}
}

func (f Funcs) OnObjectiveStatusChanged(ev types.Event) {
	if f.ObjectiveChanged != nil {
		f.ObjectiveChanged(ev)
	}
}

type subscription struct {
	id  uuid.UUID
	obs Observer
}

// Bus is an ordered list of observers. The zero value is ready to use.
type Bus struct {
	mu   sync.Mutex
	subs []subscription
}

// Subscribe registers an observer and returns its subscription id.
// Observers are notified in subscription order.
func (b *Bus) Subscribe(obs Observer) uuid.UUID {
	id := uuid.New()
	b.mu.Lock()
	b.subs = append(b.subs, subscription{id: id, obs: obs})
	b.mu.Unlock()
	return id
}

// Unsubscribe removes an observer. It reports whether the id was known.
func (b *Bus) Unsubscribe(id uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of subscribed observers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Dispatch delivers events in order to every observer subscribed when the
// call starts. It must not be called with the engine lock held.
func (b *Bus) Dispatch(evts []types.Event) {
	if len(evts) == 0 {
		return
	}
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, ev := range evts {
		for _, s := range subs {
			switch ev.Type {
			case types.EventCaseStatusChanged:
				s.obs.OnCaseStatusChanged(ev)
			case types.EventObjectiveStatusChanged:
				s.obs.OnObjectiveStatusChanged(ev)
			}
		}
	}
}
