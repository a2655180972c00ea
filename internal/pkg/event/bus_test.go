package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const otherTopic Topic = "test:other"

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBusWithSize(2, 8)

	var mu sync.Mutex
	var got []interface{}
	done := make(chan struct{}, 2)
	bus.Subscribe(ImageUploaded, func(payload interface{}) {
		mu.Lock()
		got = append(got, payload)
		mu.Unlock()
		done <- struct{}{}
	})

	bus.Publish(ImageUploaded, 1)
	bus.Publish(otherTopic, "ignored")
	bus.Publish(ImageUploaded, 2)

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for handler")
		}
	}
	bus.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []interface{}{1, 2}, got)
}

func TestEventBus_HandlerPanicDoesNotKillWorker(t *testing.T) {
	bus := NewEventBusWithSize(1, 4)
	done := make(chan struct{}, 1)
	calls := 0
	bus.Subscribe(otherTopic, func(payload interface{}) {
		calls++
		if calls == 1 {
			panic("boom")
		}
		done <- struct{}{}
	})

	bus.Publish(otherTopic, "a")
	bus.Publish(otherTopic, "b")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second event was not delivered")
	}
	bus.Shutdown()
	// Shutdown is idempotent
	bus.Shutdown()
}
