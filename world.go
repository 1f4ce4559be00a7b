package pyecs

// World is the owned context handed to every system invocation: entity
// storage, the event bus, and the resource store. There is no package-level
// world; callers create one and pass it explicitly.
type World struct {
	Storage   Storage
	Events    *EventBus
	Resources *Resources
}

func newWorld() *World {
	schema := newSchema()
	return &World{
		Storage:   newStorage(schema),
		Events:    newEventBus(),
		Resources: newResources(),
	}
}

// System is a caller-supplied routine run once per scheduling cycle.
type System func(*World)

// Schedule runs registered systems in order, once per Run call. Each cycle
// advances the storage tick before systems execute and swaps the event
// buffers exactly once after the last system returns. Ordering beyond "in
// registration order" is the caller's concern.
type Schedule struct {
	systems []System
}

func newSchedule() *Schedule {
	return &Schedule{}
}

// Add registers one or more systems to run in order.
func (s *Schedule) Add(systems ...System) {
	s.systems = append(s.systems, systems...)
}

// Run executes one scheduling cycle against the world.
func (s *Schedule) Run(w *World) {
	w.Storage.AdvanceTick()
	for _, system := range s.systems {
		system(w)
	}
	w.Events.Advance()
}
