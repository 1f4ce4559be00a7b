package pyecs

import (
	iter_util "github.com/TheBitDrifter/util/iter"
)

var _ Entity = &entity{}

// entity is a lightweight handle; all state lives in the storage directory,
// so handles stay valid across migrations and cheap to copy.
type entity struct {
	sto *storage
	id  EntityID
}

func (e *entity) ID() EntityID {
	return e.id
}

func (e *entity) Valid() bool {
	_, err := e.sto.record(e.id)
	return err == nil
}

// Index returns the entity's current row within its archetype, or -1 for a
// stale handle.
func (e *entity) Index() int {
	rec, err := e.sto.record(e.id)
	if err != nil {
		return -1
	}
	return rec.row
}

// Table returns the archetype table the entity currently lives in, or nil
// for a stale handle.
func (e *entity) Table() *Table {
	rec, err := e.sto.record(e.id)
	if err != nil {
		return nil
	}
	return e.sto.archetypes.asSlice[rec.archetype-1].table
}

func (e *entity) Storage() Storage {
	return e.sto
}

func (e *entity) Has(c Component) bool {
	tbl := e.Table()
	return tbl != nil && tbl.Contains(c)
}

func (e *entity) Components() []Component {
	tbl := e.Table()
	if tbl == nil {
		return nil
	}
	return iter_util.Collect(tbl.Components())
}

func (e *entity) SetParent(parent Entity, callback EntityDestroyCallback) error {
	rec, err := e.sto.record(e.id)
	if err != nil {
		return err
	}
	if rec.hasParent {
		return EntityRelationError{child: e, parent: &entity{sto: e.sto, id: rec.parent}}
	}
	rec.parent = parent.ID()
	rec.hasParent = true
	return parent.SetDestroyCallback(callback)
}

func (e *entity) SetDestroyCallback(callback EntityDestroyCallback) error {
	rec, err := e.sto.record(e.id)
	if err != nil {
		return err
	}
	rec.onDestroy = callback
	return nil
}

func (e *entity) AddComponent(c Component) error {
	return e.sto.addComponent(e.id, c, nil, false)
}

func (e *entity) AddComponentWithValue(c Component, value any) error {
	return e.sto.addComponent(e.id, c, value, true)
}

func (e *entity) RemoveComponent(c Component) error {
	return e.sto.removeComponent(e.id, c)
}

func (e *entity) EnqueueAddComponent(c Component) error {
	if e.sto.locks == 0 {
		return e.AddComponent(c)
	}
	e.sto.opQueue.EnqueueComponentOp(opAddComponent, e.id, c, nil, false)
	return nil
}

func (e *entity) EnqueueRemoveComponent(c Component) error {
	if e.sto.locks == 0 {
		return e.RemoveComponent(c)
	}
	e.sto.opQueue.EnqueueComponentOp(opRemoveComponent, e.id, c, nil, false)
	return nil
}
