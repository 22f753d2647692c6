package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Watched collection names. These are the wire names the dashboard
// subscribes to.
const (
	CollectionTasks         = "tasks"
	CollectionTaskInstances = "task_instances"
	CollectionRecurring     = "recurring_tasks"
	CollectionCustomers     = "customers"
	CollectionDepartments   = "departamentos"
	CollectionActivity      = "activity_log"
)

type Operation string

const (
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Event is a change notification for one record of a collection. Consumers
// treat it as "go re-fetch", not as a delta.
type Event struct {
	ID         string    `json:"id"`
	Collection string    `json:"collection"`
	Op         Operation `json:"op"`
	EntityID   uint64    `json:"entity_id"`
	At         time.Time `json:"at"`
}

type subscriber struct {
	collections map[string]struct{}
	events      chan Event
	done        chan struct{}
}

// Hub fans change notifications out to view subscribers. Publishing never
// blocks: each subscriber drains its own buffered queue on its own
// goroutine, and events beyond the buffer are dropped (the consumer
// re-fetches the full snapshot anyway).
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]*subscriber),
	}
}

// Subscribe registers onChange for every insert/update/delete on any of the
// given collections. The returned function removes the subscription and must
// be called on view teardown; calling it more than once is safe.
func (h *Hub) Subscribe(collections []string, onChange func(Event)) func() {
	sub := &subscriber{
		collections: make(map[string]struct{}, len(collections)),
		events:      make(chan Event, 64),
		done:        make(chan struct{}),
	}
	for _, c := range collections {
		sub.collections[c] = struct{}{}
	}

	id := uuid.New().String()

	h.mu.Lock()
	h.subscribers[id] = sub
	h.mu.Unlock()

	go func() {
		for {
			select {
			case ev := <-sub.events:
				onChange(ev)
			case <-sub.done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, id)
			h.mu.Unlock()
			close(sub.done)
		})
	}
}

// Publish notifies every subscriber watching collection.
func (h *Hub) Publish(collection string, op Operation, entityID uint64) {
	ev := Event{
		ID:         uuid.New().String(),
		Collection: collection,
		Op:         op,
		EntityID:   entityID,
		At:         time.Now(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subscribers {
		if _, watched := sub.collections[collection]; !watched {
			continue
		}
		select {
		case sub.events <- ev:
		default:
			// Queue full; the consumer will catch up on its next re-fetch.
		}
	}
}

// SubscriberCount reports the number of open subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
