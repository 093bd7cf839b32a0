package eventbus

import (
	evbus "github.com/asaskevich/EventBus"
)

// Bus wraps the process-local event bus with a bounded async worker pool so
// fire-and-forget publishers never block on slow subscribers.
type Bus struct {
	bus     evbus.Bus
	workers *workerPool
}

// New creates a bus with the given number of async workers.
func New(workerNum int) *Bus {
	b := &Bus{
		bus:     evbus.New(),
		workers: newWorkerPool(workerNum),
	}
	b.workers.start()
	return b
}

// Publish delivers the event synchronously to all subscribers.
func (b *Bus) Publish(topic string, args ...interface{}) {
	b.bus.Publish(topic, args...)
}

// PublishAsync queues the event for delivery by a worker. When the queue is
// full the event is dropped rather than blocking the caller.
func (b *Bus) PublishAsync(topic string, args ...interface{}) {
	b.workers.submit(func() {
		b.bus.Publish(topic, args...)
	})
}

// Subscribe registers a handler for the topic.
func (b *Bus) Subscribe(topic string, fn interface{}) error {
	return b.bus.Subscribe(topic, fn)
}

// Unsubscribe removes a previously registered handler.
func (b *Bus) Unsubscribe(topic string, fn interface{}) error {
	return b.bus.Unsubscribe(topic, fn)
}

// Close drains the workers and stops the bus.
func (b *Bus) Close() {
	b.workers.stop()
}
