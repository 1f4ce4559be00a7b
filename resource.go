package pyecs

import "reflect"

// Resources stores singleton values keyed by their own type. Resource
// lifecycle is independent of entities.
type Resources struct {
	items map[reflect.Type]any
}

func newResources() *Resources {
	return &Resources{items: make(map[reflect.Type]any)}
}

// Put stores the resource, replacing any existing resource of the same
// type. Resources are stored as pointers so callers observe mutations.
func (r *Resources) Put(res any) {
	if res == nil {
		panic("cannot store nil resource")
	}
	if r.items == nil {
		r.items = make(map[reflect.Type]any)
	}
	r.items[reflect.TypeOf(res)] = res
}

// Len returns the number of stored resources.
func (r *Resources) Len() int {
	return len(r.items)
}

// HasResource checks if a resource of type T exists.
func HasResource[T any](r *Resources) bool {
	_, ok := r.items[reflect.TypeFor[*T]()]
	return ok
}

// GetResource retrieves the resource of type T, or fails with
// ResourceNotFoundError.
func GetResource[T any](r *Resources) (*T, error) {
	t := reflect.TypeFor[*T]()
	res, ok := r.items[t]
	if !ok {
		return nil, ResourceNotFoundError{Type: reflect.TypeFor[T]()}
	}
	return res.(*T), nil
}

// RemoveResource removes and returns the resource of type T, or fails with
// ResourceNotFoundError.
func RemoveResource[T any](r *Resources) (*T, error) {
	t := reflect.TypeFor[*T]()
	res, ok := r.items[t]
	if !ok {
		return nil, ResourceNotFoundError{Type: reflect.TypeFor[T]()}
	}
	delete(r.items, t)
	return res.(*T), nil
}
