package pyecs

import (
	"fmt"

	"github.com/TheBitDrifter/mask"
	iter_util "github.com/TheBitDrifter/util/iter"
)

var _ Storage = &storage{}

// entityRecord is one directory entry: where the entity currently lives,
// plus its generation and relationship state.
type entityRecord struct {
	archetype  archetypeID
	row        int
	generation uint32
	alive      bool
	parent     EntityID
	hasParent  bool
	onDestroy  EntityDestroyCallback
}

type storage struct {
	schema     *Schema
	archetypes *archetypes
	entities   []entityRecord
	freeList   []uint32
	locks      int
	opQueue    opQueue
	tick       Tick
	matches    *matchCache
}

type archetypes struct {
	nextID           archetypeID
	asSlice          []archetype
	idsGroupedByMask map[mask.Mask]archetypeID
}

func newStorage(schema *Schema) Storage {
	archetypes := &archetypes{
		nextID:           1,
		idsGroupedByMask: make(map[mask.Mask]archetypeID),
	}
	storage := &storage{
		archetypes: archetypes,
		schema:     schema,
		entities:   make([]entityRecord, 0, Config.initialEntityCapacity),
		opQueue:    newOpQueue(),
		tick:       1,
		matches:    newMatchCache(),
	}
	return storage
}

// Entity resolves an id to a live handle. Stale or unknown ids fail with
// EntityNotFoundError.
func (sto *storage) Entity(id EntityID) (Entity, error) {
	if _, err := sto.record(id); err != nil {
		return nil, err
	}
	return &entity{sto: sto, id: id}, nil
}

func (sto *storage) NewEntity(components ...Component) (Entity, error) {
	entities, err := sto.NewEntities(1, components...)
	if err != nil {
		return nil, err
	}
	return entities[0], nil
}

// NewEntities spawns n entities sharing the given signature. The empty
// signature is valid: entities may carry zero components. Initial slots are
// stamped with the current tick.
func (sto *storage) NewEntities(n int, components ...Component) ([]Entity, error) {
	if sto.locks > 0 {
		return nil, LockedStorageError{}
	}
	if err := checkDistinct(components); err != nil {
		return nil, err
	}
	entityArchetype := sto.getOrCreateArchetype(sto.schema.maskFor(components...), components)

	entities := make([]Entity, n)
	for i := range entities {
		id := sto.allocID()
		row := entityArchetype.table.appendRow(id, sto.tick)
		rec := &sto.entities[id.Index]
		rec.archetype = entityArchetype.id
		rec.row = row
		rec.alive = true
		entities[i] = &entity{sto: sto, id: id}
	}
	return entities, nil
}

// DestroyEntities despawns the given entities. Rows are removed by swapping
// the archetype's last row in, and the relocated entity's directory entry is
// fixed up. Stale handles and nil entries are skipped, so destroy is
// idempotent. Destroy callbacks run before the row is removed; a callback
// that structurally mutates the world reenters the storage and is a
// documented hazard.
func (sto *storage) DestroyEntities(entities ...Entity) error {
	if sto.locks > 0 {
		return LockedStorageError{}
	}
	for _, en := range entities {
		if en == nil {
			continue
		}
		id := en.ID()
		rec, err := sto.record(id)
		if err != nil {
			continue
		}
		if rec.onDestroy != nil {
			callback := rec.onDestroy
			rec.onDestroy = nil
			callback(&entity{sto: sto, id: id})
			// The callback may have grown the directory or despawned this
			// entity; the old record pointer is no longer trustworthy.
			rec, err = sto.record(id)
			if err != nil {
				continue
			}
		}
		tbl := sto.archetypes.asSlice[rec.archetype-1].table
		if moved, ok := tbl.swapRemove(rec.row); ok {
			sto.entities[moved.Index].row = rec.row
		}
		rec.alive = false
		rec.generation++
		rec.archetype = 0
		rec.row = 0
		rec.hasParent = false
		rec.parent = EntityID{}
		sto.freeList = append(sto.freeList, id.Index)
	}
	return nil
}

// NewOrExistingArchetype returns the archetype for the exact signature,
// creating it when no entity has carried that signature yet.
func (sto *storage) NewOrExistingArchetype(components ...Component) (Archetype, error) {
	if err := checkDistinct(components); err != nil {
		return nil, err
	}
	return sto.getOrCreateArchetype(sto.schema.maskFor(components...), components), nil
}

func (sto *storage) ArchetypeCount() int {
	return len(sto.archetypes.asSlice)
}

func (sto *storage) RowIndexFor(c Component) uint32 {
	return sto.schema.RowIndexFor(c)
}

func (sto *storage) CurrentTick() Tick {
	return sto.tick
}

// AdvanceTick moves the storage to the next cycle and returns the new tick.
// Called once per scheduling cycle, before systems run.
func (sto *storage) AdvanceTick() Tick {
	sto.tick++
	return sto.tick
}

func (sto *storage) Locked() bool {
	return sto.locks > 0
}

func (sto *storage) Lock() {
	sto.locks++
}

func (sto *storage) Unlock() {
	if sto.locks > 0 {
		sto.locks--
	}
	if sto.locks == 0 {
		err := sto.processOperationQueue()
		if err != nil {
			panic(err)
		}
	}
}

func (sto *storage) EnqueueNewEntities(amount int, components ...Component) error {
	if sto.locks == 0 {
		_, err := sto.NewEntities(amount, components...)
		if err != nil {
			return fmt.Errorf("failed to create entities directly: %w", err)
		}
		return nil
	}
	sto.opQueue.createOps = append(sto.opQueue.createOps, operation{
		typ:    opCreate,
		amount: amount,
		comps:  components,
	})
	return nil
}

func (sto *storage) EnqueueDestroyEntities(entities ...Entity) error {
	if sto.locks == 0 {
		return sto.DestroyEntities(entities...)
	}
	ids := make([]EntityID, 0, len(entities))
	for _, en := range entities {
		if en == nil {
			continue
		}
		ids = append(ids, en.ID())
	}
	sto.opQueue.EnqueueDestroy(ids)
	return nil
}

// addComponent migrates the entity to the archetype whose signature includes
// c. All precondition failures surface before any row is touched, so a
// failed add never partially migrates.
func (sto *storage) addComponent(id EntityID, c Component, value any, hasValue bool) error {
	if sto.locks > 0 {
		return LockedStorageError{}
	}
	rec, err := sto.record(id)
	if err != nil {
		return err
	}
	src := sto.archetypes.asSlice[rec.archetype-1]
	if src.table.Contains(c) {
		return ComponentExistsError{Component: c}
	}

	destMask := src.table.Mask()
	destMask.Mark(sto.schema.Register(c))
	destComponents := append(iter_util.Collect(src.table.Components()), c)
	dest := sto.getOrCreateArchetype(destMask, destComponents)

	destRow := dest.table.appendRowFrom(src.table, rec.row, id, sto.tick)
	if hasValue {
		dest.table.setValue(destRow, c, value, sto.tick)
	}
	if moved, ok := src.table.swapRemove(rec.row); ok {
		sto.entities[moved.Index].row = rec.row
	}
	rec.archetype = dest.id
	rec.row = destRow
	return nil
}

// removeComponent migrates the entity to the archetype without c; the
// dropped column is not copied and its change tick is discarded.
func (sto *storage) removeComponent(id EntityID, c Component) error {
	if sto.locks > 0 {
		return LockedStorageError{}
	}
	rec, err := sto.record(id)
	if err != nil {
		return err
	}
	src := sto.archetypes.asSlice[rec.archetype-1]
	if !src.table.Contains(c) {
		return ComponentNotFoundError{Component: c}
	}

	destMask := src.table.Mask()
	destMask.Unmark(sto.schema.RowIndexFor(c))
	srcComponents := iter_util.Collect(src.table.Components())
	destComponents := make([]Component, 0, len(srcComponents)-1)
	for _, comp := range srcComponents {
		if comp.ID() != c.ID() {
			destComponents = append(destComponents, comp)
		}
	}
	dest := sto.getOrCreateArchetype(destMask, destComponents)

	destRow := dest.table.appendRowFrom(src.table, rec.row, id, sto.tick)
	if moved, ok := src.table.swapRemove(rec.row); ok {
		sto.entities[moved.Index].row = rec.row
	}
	rec.archetype = dest.id
	rec.row = destRow
	return nil
}

func (sto *storage) getOrCreateArchetype(m mask.Mask, components []Component) archetype {
	if id, found := sto.archetypes.idsGroupedByMask[m]; found {
		return sto.archetypes.asSlice[id-1]
	}
	created := newArchetype(sto.schema, sto.archetypes.nextID, components...)
	sto.archetypes.asSlice = append(sto.archetypes.asSlice, created)
	sto.archetypes.idsGroupedByMask[m] = sto.archetypes.nextID
	sto.archetypes.nextID++
	return created
}

func (sto *storage) record(id EntityID) (*entityRecord, error) {
	if int(id.Index) >= len(sto.entities) {
		return nil, EntityNotFoundError{ID: id}
	}
	rec := &sto.entities[id.Index]
	if !rec.alive || rec.generation != id.Generation {
		return nil, EntityNotFoundError{ID: id}
	}
	return rec, nil
}

func (sto *storage) allocID() EntityID {
	if n := len(sto.freeList); n > 0 {
		index := sto.freeList[n-1]
		sto.freeList = sto.freeList[:n-1]
		return EntityID{Index: index, Generation: sto.entities[index].generation}
	}
	sto.entities = append(sto.entities, entityRecord{generation: 1})
	return EntityID{Index: uint32(len(sto.entities) - 1), Generation: 1}
}

func checkDistinct(components []Component) error {
	for i, c := range components {
		for _, prior := range components[:i] {
			if prior.ID() == c.ID() {
				return ComponentExistsError{Component: c}
			}
		}
	}
	return nil
}
