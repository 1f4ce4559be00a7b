package pyecs

type factory struct{}

var Factory factory

func (f factory) NewSchema() *Schema {
	return newSchema()
}

func (f factory) NewStorage(schema *Schema) Storage {
	return newStorage(schema)
}

func (f factory) NewQuery() Query {
	return newQuery()
}

func (f factory) NewCursor(query QueryNode, storage Storage) *Cursor {
	return newCursor(query, storage)
}

func (f factory) NewEventBus() *EventBus {
	return newEventBus()
}

func (f factory) NewResources() *Resources {
	return newResources()
}

func (f factory) NewWorld() *World {
	return newWorld()
}

func (f factory) NewSchedule() *Schedule {
	return newSchedule()
}

func FactoryNewComponent[T any]() AccessibleComponent[T] {
	iden := factoryNewElementType[T]()
	return AccessibleComponent[T]{
		Component: iden,
		Accessor:  newAccessor[T](iden),
	}
}
