package realtime

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collector gathers events delivered on the subscriber goroutine.
type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) add(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func (c *collector) last() Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events[len(c.events)-1]
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestHub_DeliversToWatchingSubscriber(t *testing.T) {
	hub := NewHub()
	got := &collector{}

	unsubscribe := hub.Subscribe([]string{CollectionTasks}, got.add)
	defer unsubscribe()

	hub.Publish(CollectionTasks, OpUpdate, 42)

	waitFor(t, func() bool { return got.len() == 1 })
	ev := got.last()
	assert.Equal(t, CollectionTasks, ev.Collection)
	assert.Equal(t, OpUpdate, ev.Op)
	assert.EqualValues(t, 42, ev.EntityID)
	assert.NotEmpty(t, ev.ID)
}

func TestHub_IgnoresUnwatchedCollections(t *testing.T) {
	hub := NewHub()
	got := &collector{}

	unsubscribe := hub.Subscribe([]string{CollectionCustomers}, got.add)
	defer unsubscribe()

	hub.Publish(CollectionTasks, OpInsert, 1)
	hub.Publish(CollectionCustomers, OpInsert, 2)

	waitFor(t, func() bool { return got.len() == 1 })
	assert.Equal(t, CollectionCustomers, got.last().Collection)
}

func TestHub_OneCallbackManyCollections(t *testing.T) {
	hub := NewHub()
	got := &collector{}

	unsubscribe := hub.Subscribe([]string{CollectionTasks, CollectionTaskInstances, CollectionActivity}, got.add)
	defer unsubscribe()

	hub.Publish(CollectionTasks, OpUpdate, 1)
	hub.Publish(CollectionTaskInstances, OpInsert, 2)
	hub.Publish(CollectionActivity, OpInsert, 3)

	waitFor(t, func() bool { return got.len() == 3 })
}

func TestHub_FansOutToAllSubscribers(t *testing.T) {
	hub := NewHub()
	first := &collector{}
	second := &collector{}

	u1 := hub.Subscribe([]string{CollectionDepartments}, first.add)
	defer u1()
	u2 := hub.Subscribe([]string{CollectionDepartments}, second.add)
	defer u2()

	hub.Publish(CollectionDepartments, OpDelete, 9)

	waitFor(t, func() bool { return first.len() == 1 && second.len() == 1 })
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	got := &collector{}

	unsubscribe := hub.Subscribe([]string{CollectionTasks}, got.add)
	require.Equal(t, 1, hub.SubscriberCount())

	unsubscribe()
	assert.Equal(t, 0, hub.SubscriberCount())

	hub.Publish(CollectionTasks, OpUpdate, 1)
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, got.len())
}

func TestHub_UnsubscribeTwiceIsSafe(t *testing.T) {
	hub := NewHub()
	unsubscribe := hub.Subscribe([]string{CollectionTasks}, func(Event) {})

	unsubscribe()
	assert.NotPanics(t, func() { unsubscribe() })
	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestHub_PublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		hub.Publish(CollectionTasks, OpInsert, 1)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked with no subscribers")
	}
}
