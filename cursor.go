package pyecs

import (
	"errors"
	"iter"
)

// Cursor lazily iterates the entities matched by a query. Iteration order
// across archetypes and rows is unspecified; callers must not depend on it.
//
// While a cursor iterates, the storage is locked and structural mutations
// (spawn, despawn, add/remove component) must go through the Enqueue
// variants; they are replayed when iteration finishes. Re-iterating a reset
// cursor re-evaluates current state, not a snapshot.
type Cursor struct {
	// The query to filter entities
	query QueryNode

	// The storage to iterate over
	storage Storage

	// Current iteration state
	currentArchetype archetype
	storageIndex     int
	entityIndex      int
	remaining        int

	// Change filtering state
	changed []Component
	refTick Tick
	refSet  bool

	// Initialization state
	initialized     bool
	holdsLock       bool
	matchedStorages []archetype
}

func newCursor(query QueryNode, storage Storage) *Cursor {
	return &Cursor{
		query:   query,
		storage: storage,
	}
}

// Since sets the reference tick for the query's change predicates: a row
// matches when at least one listed component was written at a tick greater
// than ref. Without an explicit reference, the cursor uses the tick before
// the current one ("changed last cycle").
func (c *Cursor) Since(ref Tick) *Cursor {
	c.refTick = ref
	c.refSet = true
	return c
}

func (c *Cursor) Next() bool {
	if !c.initialized {
		c.initialize()
	}
	for {
		if c.entityIndex < c.remaining {
			c.entityIndex++
			if c.rowMatches(c.entityIndex - 1) {
				return true
			}
			continue
		}
		c.storageIndex++
		if c.storageIndex >= len(c.matchedStorages) {
			c.Reset()
			return false
		}
		c.currentArchetype = c.matchedStorages[c.storageIndex]
		c.remaining = c.currentArchetype.table.Length()
		c.entityIndex = 0
	}
}

// Entities iterates (row, table) pairs for every matched entity.
func (c *Cursor) Entities() iter.Seq2[int, *Table] {
	return func(yield func(int, *Table) bool) {
		if !c.initialized {
			c.initialize()
		}
		for c.storageIndex < len(c.matchedStorages) {
			c.currentArchetype = c.matchedStorages[c.storageIndex]
			c.remaining = c.currentArchetype.table.Length()

			for c.entityIndex < c.remaining {
				row := c.entityIndex
				c.entityIndex++
				if !c.rowMatches(row) {
					continue
				}
				if !yield(row, c.currentArchetype.table) {
					c.Reset()
					return
				}
			}
			c.entityIndex = 0
			c.storageIndex++
		}
		c.Reset()
	}
}

func (c *Cursor) initialize() {
	c.ensureMatches()

	c.changed = c.changed[:0]
	if collector, ok := c.query.(changedCollector); ok {
		collector.collectChanged(&c.changed)
	}
	if len(c.changed) > 0 && !c.refSet {
		c.refTick = c.storage.CurrentTick() - 1
	}

	c.storage.Lock()
	c.holdsLock = true

	c.storageIndex = 0
	c.entityIndex = 0
	c.remaining = 0
	if len(c.matchedStorages) > 0 {
		c.currentArchetype = c.matchedStorages[0]
		c.remaining = c.currentArchetype.table.Length()
	} else {
		c.storageIndex = len(c.matchedStorages)
	}
	c.initialized = true
}

func (c *Cursor) ensureMatches() {
	sto := c.storage.(*storage)
	c.matchedStorages = sto.matches.matchesFor(c.query, sto)
}

// rowMatches applies the query's change predicates to one row. Rows pass
// when any listed component was written after the reference tick; components
// outside the row's archetype are treated as unchanged.
func (c *Cursor) rowMatches(row int) bool {
	if len(c.changed) == 0 {
		return true
	}
	tbl := c.currentArchetype.table
	for _, comp := range c.changed {
		if !tbl.Contains(comp) {
			continue
		}
		if tbl.ChangeTick(row, comp) > c.refTick {
			return true
		}
	}
	return false
}

// Reset clears iteration state and releases the storage lock, flushing any
// operations queued during iteration.
func (c *Cursor) Reset() {
	c.storageIndex = 0
	c.entityIndex = 0
	c.remaining = 0
	c.matchedStorages = nil
	c.initialized = false
	if c.holdsLock {
		c.holdsLock = false
		c.storage.Unlock()
	}
}

// CurrentEntity returns a handle to the entity the cursor is positioned on.
func (c *Cursor) CurrentEntity() (Entity, error) {
	if !c.initialized || c.entityIndex == 0 {
		return nil, errors.New("cursor is not positioned on an entity")
	}
	id := c.currentArchetype.table.EntityAt(c.entityIndex - 1)
	return c.storage.Entity(id)
}

// RemainingInArchetype returns how many rows of the current archetype have
// not been visited yet.
func (c *Cursor) RemainingInArchetype() int {
	return c.remaining - c.entityIndex
}

// TotalMatched counts entities in all matched archetypes. Change predicates
// are not applied; the count reflects archetype membership only.
func (c *Cursor) TotalMatched() int {
	if !c.initialized {
		c.ensureMatches()
	}
	total := 0
	for _, arch := range c.matchedStorages {
		total += arch.table.Length()
	}
	return total
}
