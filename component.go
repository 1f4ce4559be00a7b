package pyecs

import (
	"fmt"
	"reflect"
)

// ElementType is the stable, comparable identity of one component data shape.
// Identities are interned process-wide: requesting the same Go type twice
// yields the same id.
type ElementType interface {
	ID() uint32
	Type() reflect.Type
}

// Component represents a data attribute/state that can be attached to entities
// Components can be used to create queries for entities
type Component interface {
	ElementType
}

type elementType struct {
	id  uint32
	typ reflect.Type
}

func (e elementType) ID() uint32 {
	return e.id
}

func (e elementType) Type() reflect.Type {
	return e.typ
}

var elementTypes = struct {
	byType map[reflect.Type]elementType
	makers []func() column
	nextID uint32
}{
	byType: make(map[reflect.Type]elementType),
}

func factoryNewElementType[T any]() elementType {
	typ := reflect.TypeFor[T]()
	if et, ok := elementTypes.byType[typ]; ok {
		return et
	}
	if elementTypes.nextID >= Config.MaxComponentTypes() {
		panic(fmt.Sprintf(
			"cannot register element type %v: maximum of %d component types reached",
			typ, Config.MaxComponentTypes(),
		))
	}
	et := elementType{id: elementTypes.nextID, typ: typ}
	elementTypes.byType[typ] = et
	elementTypes.makers = append(elementTypes.makers, func() column {
		return &typedColumn[T]{}
	})
	elementTypes.nextID++
	return et
}

// newColumnFor builds an empty storage column for the component's concrete type.
func newColumnFor(c Component) column {
	return elementTypes.makers[c.ID()]()
}
