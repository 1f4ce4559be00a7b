package pyecs

import (
	"fmt"
	"iter"

	"github.com/TheBitDrifter/mask"
)

// column is one type-erased component column. Concrete columns are created
// through the element-type registry so the table never needs reflection on
// the hot path.
type column interface {
	appendZero()
	appendFrom(src column, row int)
	setAny(row int, value any) bool
	swapRemove(row int)
	length() int
}

type typedColumn[T any] struct {
	data []T
}

func (c *typedColumn[T]) appendZero() {
	var zero T
	c.data = append(c.data, zero)
}

func (c *typedColumn[T]) appendFrom(src column, row int) {
	c.data = append(c.data, src.(*typedColumn[T]).data[row])
}

func (c *typedColumn[T]) setAny(row int, value any) bool {
	v, ok := value.(T)
	if !ok {
		return false
	}
	c.data[row] = v
	return true
}

func (c *typedColumn[T]) swapRemove(row int) {
	last := len(c.data) - 1
	c.data[row] = c.data[last]
	c.data = c.data[:last]
}

func (c *typedColumn[T]) length() int {
	return len(c.data)
}

// Table is the columnar store for all entities sharing one signature. Row i
// of every column belongs to the same entity, and each slot carries the tick
// it was last written. Rows stay dense: removal swaps the last row in.
type Table struct {
	msk        mask.Mask
	components []Component
	slots      map[uint32]int
	columns    []column
	ticks      [][]Tick
	entities   []EntityID
}

func newTable(schema *Schema, components ...Component) *Table {
	tbl := &Table{
		components: make([]Component, 0, len(components)),
		slots:      make(map[uint32]int, len(components)),
		columns:    make([]column, 0, len(components)),
		ticks:      make([][]Tick, 0, len(components)),
	}
	for _, c := range components {
		if _, dup := tbl.slots[c.ID()]; dup {
			panic(fmt.Sprintf("duplicate component %v in table signature", c.Type()))
		}
		tbl.msk.Mark(schema.Register(c))
		tbl.slots[c.ID()] = len(tbl.columns)
		tbl.components = append(tbl.components, c)
		tbl.columns = append(tbl.columns, newColumnFor(c))
		tbl.ticks = append(tbl.ticks, nil)
	}
	return tbl
}

// Mask returns the table's signature mask.
func (t *Table) Mask() mask.Mask {
	return t.msk
}

// Length returns the number of rows.
func (t *Table) Length() int {
	return len(t.entities)
}

// Contains reports whether the component is part of the table's signature.
func (t *Table) Contains(c Component) bool {
	_, ok := t.slots[c.ID()]
	return ok
}

// Components iterates the table's signature members.
func (t *Table) Components() iter.Seq[Component] {
	return func(yield func(Component) bool) {
		for _, c := range t.components {
			if !yield(c) {
				return
			}
		}
	}
}

// EntityAt returns the owner of the given row.
func (t *Table) EntityAt(row int) EntityID {
	t.checkRow(row)
	return t.entities[row]
}

// ChangeTick returns the tick at which the component slot in the given row
// was last written. Asking for a component outside the signature is a
// contract violation.
func (t *Table) ChangeTick(row int, c Component) Tick {
	t.checkRow(row)
	slot, ok := t.slots[c.ID()]
	if !ok {
		panic(fmt.Sprintf("component %v is not part of this table", c.Type()))
	}
	return t.ticks[slot][row]
}

// appendRow appends a zero-valued row owned by id, stamping every slot with
// now, and returns the new row index.
func (t *Table) appendRow(id EntityID, now Tick) int {
	for slot, col := range t.columns {
		col.appendZero()
		t.ticks[slot] = append(t.ticks[slot], now)
	}
	t.entities = append(t.entities, id)
	return len(t.entities) - 1
}

// appendRowFrom appends a row owned by id, copying values and change ticks
// from src for every shared component. Slots absent from src start zeroed and
// stamped with now.
func (t *Table) appendRowFrom(src *Table, srcRow int, id EntityID, now Tick) int {
	src.checkRow(srcRow)
	for slot, c := range t.components {
		srcSlot, shared := src.slots[c.ID()]
		if shared {
			t.columns[slot].appendFrom(src.columns[srcSlot], srcRow)
			t.ticks[slot] = append(t.ticks[slot], src.ticks[srcSlot][srcRow])
			continue
		}
		t.columns[slot].appendZero()
		t.ticks[slot] = append(t.ticks[slot], now)
	}
	t.entities = append(t.entities, id)
	return len(t.entities) - 1
}

// setValue writes the component slot in the given row and stamps it with
// now. Returns false when the component is outside the signature; a value of
// the wrong concrete type is a contract violation.
func (t *Table) setValue(row int, c Component, value any, now Tick) bool {
	t.checkRow(row)
	slot, ok := t.slots[c.ID()]
	if !ok {
		return false
	}
	if !t.columns[slot].setAny(row, value) {
		panic(fmt.Sprintf("value %T does not match component %v", value, c.Type()))
	}
	t.ticks[slot][row] = now
	return true
}

// stamp marks the component slot in the given row as written at now.
func (t *Table) stamp(row int, c Component, now Tick) bool {
	t.checkRow(row)
	slot, ok := t.slots[c.ID()]
	if !ok {
		return false
	}
	t.ticks[slot][row] = now
	return true
}

// swapRemove deletes the row by moving the last row into its place. It
// returns the entity that now occupies the row, or ok=false when the removed
// row was the last one. The caller must update the moved entity's directory
// entry.
func (t *Table) swapRemove(row int) (EntityID, bool) {
	t.checkRow(row)
	last := len(t.entities) - 1
	for slot, col := range t.columns {
		col.swapRemove(row)
		t.ticks[slot][row] = t.ticks[slot][last]
		t.ticks[slot] = t.ticks[slot][:last]
	}
	moved := t.entities[last]
	t.entities[row] = moved
	t.entities = t.entities[:last]
	if row == last {
		return EntityID{}, false
	}
	return moved, true
}

func (t *Table) checkRow(row int) {
	if row < 0 || row >= len(t.entities) {
		panic(fmt.Sprintf("row %d out of range (table has %d rows)", row, len(t.entities)))
	}
}
