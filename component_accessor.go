package pyecs

import "fmt"

// Accessor provides typed access to one component column of a table.
type Accessor[T any] struct {
	id uint32
}

func newAccessor[T any](iden ElementType) Accessor[T] {
	return Accessor[T]{id: iden.ID()}
}

// Get returns a pointer to the component value in row i. The component must
// be part of the table's signature; asking a table outside the component's
// archetypes is a contract violation. Writing through the pointer does not
// stamp the change tick; use Set for tracked mutation.
func (a Accessor[T]) Get(i int, tbl *Table) *T {
	slot, ok := tbl.slots[a.id]
	if !ok {
		var zero T
		panic(fmt.Sprintf("component %T is not part of this table", zero))
	}
	return &tbl.columns[slot].(*typedColumn[T]).data[i]
}

// Set writes the component value in row i and stamps it with now.
func (a Accessor[T]) Set(i int, tbl *Table, value T, now Tick) bool {
	slot, ok := tbl.slots[a.id]
	if !ok {
		return false
	}
	tbl.columns[slot].(*typedColumn[T]).data[i] = value
	tbl.ticks[slot][i] = now
	return true
}

// Check determines if the component is part of the table's signature.
func (a Accessor[T]) Check(tbl *Table) bool {
	_, ok := tbl.slots[a.id]
	return ok
}

// AccessibleComponent extends a base Component with table-based accessibility
// It provides methods to retrieve components using different access patterns
type AccessibleComponent[T any] struct {
	Component
	Accessor[T] // concrete.
}

// GetFromCursor retrieves a component value for the entity at the cursor position
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	return c.Get(
		cursor.entityIndex-1,
		cursor.currentArchetype.table,
	)
}

// GetFromCursorSafe safely retrieves a component value, checking if the component exists
// Returns a boolean indicating success and the component pointer if found
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	ok := c.Accessor.Check(cursor.currentArchetype.table)
	if ok {
		return true, c.GetFromCursor(cursor)
	}
	return false, nil
}

// CheckCursor determines if the component exists in the archetype at the cursor position
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	return c.Accessor.Check(cursor.currentArchetype.table)
}

// SetFromCursor writes the component value for the entity at the cursor
// position, stamping the slot with the storage's current tick.
func (c AccessibleComponent[T]) SetFromCursor(cursor *Cursor, value T) {
	ok := c.Set(
		cursor.entityIndex-1,
		cursor.currentArchetype.table,
		value,
		cursor.storage.CurrentTick(),
	)
	if !ok {
		panic(fmt.Sprintf("component %v is not part of the cursor's archetype", c.Type()))
	}
}

// TickFromCursor returns the change tick of the component for the entity at
// the cursor position.
func (c AccessibleComponent[T]) TickFromCursor(cursor *Cursor) Tick {
	return cursor.currentArchetype.table.ChangeTick(cursor.entityIndex-1, c)
}

// GetFromEntity retrieves a component value for the specified entity
func (c AccessibleComponent[T]) GetFromEntity(entity Entity) *T {
	tbl := entity.Table()
	if tbl == nil {
		panic(EntityNotFoundError{ID: entity.ID()})
	}
	return c.Get(entity.Index(), tbl)
}

// GetFromEntitySafe safely retrieves a component value for the specified entity
func (c AccessibleComponent[T]) GetFromEntitySafe(entity Entity) (bool, *T) {
	tbl := entity.Table()
	if tbl == nil || !c.Accessor.Check(tbl) {
		return false, nil
	}
	return true, c.Get(entity.Index(), tbl)
}

// SetOnEntity writes the component value for the specified entity, stamping
// the slot with the storage's current tick.
func (c AccessibleComponent[T]) SetOnEntity(entity Entity, value T) error {
	tbl := entity.Table()
	if tbl == nil {
		return EntityNotFoundError{ID: entity.ID()}
	}
	if !c.Set(entity.Index(), tbl, value, entity.Storage().CurrentTick()) {
		return ComponentNotFoundError{Component: c}
	}
	return nil
}

// TickFromEntity returns the change tick of the component for the specified entity
func (c AccessibleComponent[T]) TickFromEntity(entity Entity) (Tick, error) {
	tbl := entity.Table()
	if tbl == nil {
		return 0, EntityNotFoundError{ID: entity.ID()}
	}
	if !c.Accessor.Check(tbl) {
		return 0, ComponentNotFoundError{Component: c}
	}
	return tbl.ChangeTick(entity.Index(), c), nil
}
