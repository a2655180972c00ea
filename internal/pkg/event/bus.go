/*
 * @Description: 인프로세스 이벤트 버스
 * @Author: memorymap
 * @Date: 2026-04-25 21:26:15
 * @LastEditTime: 2026-06-27 18:45:25
 * @LastEditors: memorymap
 */

// Package event provides an asynchronous in-process event bus backed by a fixed worker pool.
package event

import (
	"log"
	"sync"
)

type Topic string

const ImageUploaded Topic = "image:uploaded"

type Handler func(payload interface{})

type Event struct {
	Topic   Topic
	Payload interface{}
}

// EventBus dispatches events to subscribers on a fixed pool of workers.
type EventBus struct {
	mu        sync.RWMutex
	handlers  map[Topic][]Handler
	eventChan chan Event
	wg        sync.WaitGroup
	closeOnce sync.Once
}

const (
	DefaultWorkerCount = 4
	DefaultChannelSize = 1024
)

func NewEventBus() *EventBus {
	return NewEventBusWithSize(DefaultWorkerCount, DefaultChannelSize)
}

// NewEventBusWithSize creates a bus with the given worker count and buffer size.
func NewEventBusWithSize(workers, buffer int) *EventBus {
	bus := &EventBus{
		handlers:  make(map[Topic][]Handler),
		eventChan: make(chan Event, buffer),
	}
	for i := 0; i < workers; i++ {
		bus.wg.Add(1)
		go bus.worker(i + 1)
	}
	return bus
}

func (b *EventBus) worker(workerID int) {
	defer b.wg.Done()
	for ev := range b.eventChan {
		b.mu.RLock()
		handlers := b.handlers[ev.Topic]
		b.mu.RUnlock()
		for _, handler := range handlers {
			b.safeCall(ev, handler, workerID)
		}
	}
}

func (b *EventBus) safeCall(ev Event, handler Handler, workerID int) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[EventBus] worker %d: handler for '%s' panicked: %v", workerID, ev.Topic, r)
		}
	}()
	handler(ev.Payload)
}

func (b *EventBus) Subscribe(topic Topic, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish never blocks. Events are dropped when the buffer is full.
func (b *EventBus) Publish(topic Topic, payload interface{}) {
	select {
	case b.eventChan <- Event{Topic: topic, Payload: payload}:
	default:
		log.Printf("[EventBus] WARN: event channel is full, dropping '%s'.", topic)
	}
}

// Shutdown drains pending events and waits for the workers to exit.
func (b *EventBus) Shutdown() {
	b.closeOnce.Do(func() {
		close(b.eventChan)
		b.wg.Wait()
		log.Println("[EventBus] all workers stopped.")
	})
}
