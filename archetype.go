package pyecs

type archetypeID uint32

type archetype struct {
	id    archetypeID
	table *Table
}

func newArchetype(schema *Schema, id archetypeID, components ...Component) archetype {
	return archetype{
		id:    id,
		table: newTable(schema, components...),
	}
}

func (a archetype) ID() uint32 {
	return uint32(a.id)
}

func (a archetype) Table() *Table {
	return a.table
}
