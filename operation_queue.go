package pyecs

import (
	"fmt"
)

// Structural mutations requested while the storage is locked (typically
// during query iteration) are queued and replayed when the last lock is
// released.

type operationType int

const (
	opCreate operationType = iota
	opDestroy
	opAddComponent
	opRemoveComponent
)

type operation struct {
	typ      operationType
	amount   int
	comps    []Component
	value    any
	hasValue bool
	id       EntityID
	ids      []EntityID
}

type opQueue struct {
	createOps      []operation
	componentOps   []operation
	destroyOps     []operation
	pendingDestroy map[EntityID]struct{}
	pendingMods    map[EntityID]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[EntityID]struct{}),
		pendingMods:    make(map[EntityID]int),
	}
}

func (sto *storage) processOperationQueue() error {
	if len(sto.opQueue.createOps) == 0 &&
		len(sto.opQueue.componentOps) == 0 &&
		len(sto.opQueue.destroyOps) == 0 {
		return nil
	}

	// Process creates first
	for _, op := range sto.opQueue.createOps {
		if _, err := sto.NewEntities(op.amount, op.comps...); err != nil {
			return fmt.Errorf("failed to process queued entity creation: %w", err)
		}
	}

	// Process component modifications
	for _, op := range sto.opQueue.componentOps {
		if op.typ != opAddComponent && op.typ != opRemoveComponent {
			continue // superseded by a queued destroy
		}
		// Skip handles that went stale while queued
		if _, err := sto.record(op.id); err != nil {
			continue
		}
		switch op.typ {
		case opAddComponent:
			if err := sto.addComponent(op.id, op.comps[0], op.value, op.hasValue); err != nil {
				return fmt.Errorf("failed to add queued component: %w", err)
			}
		case opRemoveComponent:
			if err := sto.removeComponent(op.id, op.comps[0]); err != nil {
				return fmt.Errorf("failed to remove queued component: %w", err)
			}
		}
	}

	// Process destroys last
	for _, op := range sto.opQueue.destroyOps {
		entities := make([]Entity, 0, len(op.ids))
		for _, id := range op.ids {
			if _, err := sto.record(id); err != nil {
				continue
			}
			entities = append(entities, &entity{sto: sto, id: id})
		}
		if len(entities) > 0 {
			if err := sto.DestroyEntities(entities...); err != nil {
				return fmt.Errorf("failed to delete queued entries: %w", err)
			}
		}
	}

	// Clear all queues
	sto.opQueue.createOps = sto.opQueue.createOps[:0]
	sto.opQueue.componentOps = sto.opQueue.componentOps[:0]
	sto.opQueue.destroyOps = sto.opQueue.destroyOps[:0]
	clear(sto.opQueue.pendingDestroy)
	clear(sto.opQueue.pendingMods)
	return nil
}

func (q *opQueue) EnqueueDestroy(ids []EntityID) {
	// Filter out already queued entities
	var newIDs []EntityID
	for _, id := range ids {
		if _, exists := q.pendingDestroy[id]; exists {
			continue
		}
		newIDs = append(newIDs, id)
		q.pendingDestroy[id] = struct{}{}

		// Cancel any pending component operations for this entity
		if idx, hasMods := q.pendingMods[id]; hasMods {
			q.componentOps[idx].typ = -1
			delete(q.pendingMods, id)
		}
	}

	if len(newIDs) > 0 {
		q.destroyOps = append(q.destroyOps, operation{
			typ: opDestroy,
			ids: newIDs,
		})
	}
}

func (q *opQueue) EnqueueComponentOp(typ operationType, id EntityID, comp Component, value any, hasValue bool) {
	// If entity is pending destroy, ignore component operations
	if _, isDestroyed := q.pendingDestroy[id]; isDestroyed {
		return
	}

	// If entity already has a pending component operation, replace it
	if existingIdx, exists := q.pendingMods[id]; exists {
		existingOp := &q.componentOps[existingIdx]
		existingOp.comps = []Component{comp}
		existingOp.typ = typ
		existingOp.value = value
		existingOp.hasValue = hasValue
		return
	}

	q.pendingMods[id] = len(q.componentOps)
	q.componentOps = append(q.componentOps, operation{
		typ:      typ,
		id:       id,
		comps:    []Component{comp},
		value:    value,
		hasValue: hasValue,
	})
}
