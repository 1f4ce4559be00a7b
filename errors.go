package pyecs

import (
	"fmt"
	"reflect"
)

type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked"
}

type EntityNotFoundError struct {
	ID EntityID
}

func (e EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity %v does not exist", e.ID)
}

type EntityRelationError struct {
	child, parent Entity
}

func (e EntityRelationError) Error() string {
	return fmt.Sprintf("child (%v) already has parent %v", e.child.ID(), e.parent.ID())
}

type ComponentExistsError struct {
	Component Component
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already exists on entity: %v", e.Component.Type())
}

type ComponentNotFoundError struct {
	Component Component
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on entity: %v", e.Component.Type())
}

type ResourceNotFoundError struct {
	Type reflect.Type
}

func (e ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource does not exist: %v", e.Type)
}
