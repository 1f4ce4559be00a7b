package pyecs

// EntityID identifies a live entity. The generation distinguishes reuses of
// the same directory index, so handles to despawned entities fail with
// EntityNotFoundError instead of silently aliasing a newer entity.
type EntityID struct {
	Index      uint32
	Generation uint32
}

type Storage interface {
	Entity(id EntityID) (Entity, error)
	NewEntity(components ...Component) (Entity, error)
	NewEntities(n int, components ...Component) ([]Entity, error)
	EnqueueNewEntities(n int, components ...Component) error
	DestroyEntities(entities ...Entity) error
	EnqueueDestroyEntities(entities ...Entity) error
	NewOrExistingArchetype(components ...Component) (Archetype, error)
	ArchetypeCount() int
	RowIndexFor(Component) uint32
	CurrentTick() Tick
	AdvanceTick() Tick
	Locked() bool
	Lock()
	Unlock()
}

type EntityDestroyCallback func(Entity)

type Entity interface {
	ID() EntityID
	Valid() bool
	Index() int
	Table() *Table
	Storage() Storage
	Has(Component) bool
	Components() []Component
	SetParent(parent Entity, callback EntityDestroyCallback) error
	SetDestroyCallback(EntityDestroyCallback) error
	AddComponent(Component) error
	AddComponentWithValue(Component, any) error
	RemoveComponent(Component) error
	EnqueueAddComponent(Component) error
	EnqueueRemoveComponent(Component) error
}

type Archetype interface {
	ID() uint32
	Table() *Table
}

type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
	Changed(components ...Component) QueryNode
}

type QueryNode interface {
	Evaluate(archetype Archetype, storage Storage) bool
}
