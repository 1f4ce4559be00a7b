package pyecs

import "reflect"

// MaxEventTypes defines the maximum number of unique event types that can be
// registered with an EventBus.
const MaxEventTypes = 256

// EventBus carries double-buffered event queues plus an immediate observer
// registry. Buffered events written during a cycle become readable after the
// next Advance and stay readable for exactly one full cycle, independent of
// write/read ordering within a cycle. Observers bypass the buffers entirely
// and run synchronously when triggered.
//
// Event types are keyed by their Go type; ids are interned per bus.
type EventBus struct {
	eventTypeMap    map[reflect.Type]int
	nextEventTypeID int
	observers       [MaxEventTypes][]any
	current         [MaxEventTypes][]any
	next            [MaxEventTypes][]any
}

func newEventBus() *EventBus {
	return &EventBus{
		eventTypeMap: make(map[reflect.Type]int),
	}
}

// WriteEvents queues events into the next buffer. They become visible to
// ReadEvents after the following Advance.
func WriteEvents[T any](bus *EventBus, events ...T) {
	id := bus.getEventTypeID(reflect.TypeFor[T]())
	for _, ev := range events {
		bus.next[id] = append(bus.next[id], ev)
	}
}

// ReadEvents returns the events of type T in the current buffer, in write
// order. Reading a type nothing ever wrote yields an empty slice.
func ReadEvents[T any](bus *EventBus) []T {
	id, ok := bus.eventTypeMap[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	buffered := bus.current[id]
	if len(buffered) == 0 {
		return nil
	}
	events := make([]T, len(buffered))
	for i, ev := range buffered {
		events[i] = ev.(T)
	}
	return events
}

// Advance makes the next buffer the new current buffer and leaves a fresh
// empty next buffer. Called exactly once per scheduling cycle, after all
// systems have run.
func (bus *EventBus) Advance() {
	for i := 0; i < bus.nextEventTypeID; i++ {
		bus.current[i] = bus.next[i]
		bus.next[i] = nil
	}
}

// AddObserver registers a callback for events of type T. Observers for one
// type are invoked in registration order.
func AddObserver[T any](bus *EventBus, callback func(T)) {
	id := bus.getEventTypeID(reflect.TypeFor[T]())
	bus.observers[id] = append(bus.observers[id], callback)
}

// Trigger synchronously invokes every observer registered for the event's
// type before returning. Triggering a type with no observers is a no-op.
// An observer must not structurally mutate archetypes a live cursor is
// iterating; use the storage's Enqueue variants from observer callbacks.
func Trigger[T any](bus *EventBus, event T) {
	id, ok := bus.eventTypeMap[reflect.TypeFor[T]()]
	if !ok {
		return
	}
	for _, callback := range bus.observers[id] {
		callback.(func(T))(event)
	}
}

// getEventTypeID retrieves or assigns an id for the event type.
func (bus *EventBus) getEventTypeID(t reflect.Type) int {
	if bus.eventTypeMap == nil {
		bus.eventTypeMap = make(map[reflect.Type]int)
	}
	if id, ok := bus.eventTypeMap[t]; ok {
		return id
	}
	if bus.nextEventTypeID >= MaxEventTypes {
		panic("too many event types")
	}
	id := bus.nextEventTypeID
	bus.nextEventTypeID++
	bus.eventTypeMap[t] = id
	return id
}
