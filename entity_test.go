package pyecs

import (
	"errors"
	"testing"
)

// Test component types
type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}

type Stamina struct {
	Value int
}

func TestEntityCreation(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()
	healthComp := FactoryNewComponent[Health]()

	tests := []struct {
		name           string
		componentTypes []Component
		entityCount    int
	}{
		{"Empty entity", []Component{}, 1},
		{"Single component", []Component{posComp}, 10},
		{"Multiple components", []Component{posComp, velComp}, 5},
		{"Large batch", []Component{posComp, velComp, healthComp}, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := Factory.NewSchema()
			storage := Factory.NewStorage(schema)

			entities, err := storage.NewEntities(tt.entityCount, tt.componentTypes...)
			if err != nil {
				t.Fatalf("NewEntities() error = %v", err)
			}

			if len(entities) != tt.entityCount {
				t.Errorf("Created %d entities, want %d", len(entities), tt.entityCount)
			}

			for i, entity := range entities {
				if !entity.Valid() {
					t.Errorf("Entity %d is invalid", i)
				}
			}

			if len(entities) > 0 {
				components := entities[0].Components()
				if len(components) != len(tt.componentTypes) {
					t.Errorf("Entity has %d components, want %d", len(components), len(tt.componentTypes))
				}
			}
		})
	}
}

func TestEntityDuplicateSpawnComponents(t *testing.T) {
	posComp := FactoryNewComponent[Position]()

	schema := Factory.NewSchema()
	storage := Factory.NewStorage(schema)

	_, err := storage.NewEntities(1, posComp, posComp)
	var dup ComponentExistsError
	if !errors.As(err, &dup) {
		t.Errorf("NewEntities() with duplicate component error = %v, want ComponentExistsError", err)
	}
}

func TestComponentAddRemove(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()
	healthComp := FactoryNewComponent[Health]()

	tests := []struct {
		name              string
		initialComponents []Component
		addComponents     []Component
		removeComponents  []Component
		finalCount        int
	}{
		{
			name:              "Add component",
			initialComponents: []Component{posComp},
			addComponents:     []Component{velComp},
			removeComponents:  nil,
			finalCount:        2,
		},
		{
			name:              "Remove component",
			initialComponents: []Component{posComp, velComp},
			addComponents:     nil,
			removeComponents:  []Component{velComp},
			finalCount:        1,
		},
		{
			name:              "Add and remove",
			initialComponents: []Component{posComp},
			addComponents:     []Component{velComp, healthComp},
			removeComponents:  []Component{posComp},
			finalCount:        2,
		},
		{
			name:              "Remove down to empty signature",
			initialComponents: []Component{posComp},
			addComponents:     nil,
			removeComponents:  []Component{posComp},
			finalCount:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := Factory.NewSchema()
			storage := Factory.NewStorage(schema)

			entities, err := storage.NewEntities(1, tt.initialComponents...)
			if err != nil {
				t.Fatalf("Failed to create entity: %v", err)
			}
			entity := entities[0]

			for _, comp := range tt.addComponents {
				if err := entity.AddComponent(comp); err != nil {
					t.Errorf("AddComponent() error = %v", err)
				}
			}

			for _, comp := range tt.removeComponents {
				if err := entity.RemoveComponent(comp); err != nil {
					t.Errorf("RemoveComponent() error = %v", err)
				}
			}

			components := entity.Components()
			if len(components) != tt.finalCount {
				t.Errorf("Entity has %d components, want %d", len(components), tt.finalCount)
			}
		})
	}
}

func TestComponentAddRemoveErrors(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()

	schema := Factory.NewSchema()
	storage := Factory.NewStorage(schema)

	entities, err := storage.NewEntities(1, posComp)
	if err != nil {
		t.Fatalf("Failed to create entity: %v", err)
	}
	entity := entities[0]

	// Adding a component already present fails without mutating
	err = entity.AddComponent(posComp)
	var dup ComponentExistsError
	if !errors.As(err, &dup) {
		t.Errorf("AddComponent() duplicate error = %v, want ComponentExistsError", err)
	}

	// Removing an absent component fails without mutating
	err = entity.RemoveComponent(velComp)
	var missing ComponentNotFoundError
	if !errors.As(err, &missing) {
		t.Errorf("RemoveComponent() missing error = %v, want ComponentNotFoundError", err)
	}

	// The failed operations left the entity untouched
	if got := len(entity.Components()); got != 1 {
		t.Errorf("Entity has %d components after failed add/remove, want 1", got)
	}
}

// TestMigrationPreservesData verifies that moving an entity between
// archetypes never loses or corrupts component values, and never alters
// other entities.
func TestMigrationPreservesData(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()
	healthComp := FactoryNewComponent[Health]()

	schema := Factory.NewSchema()
	storage := Factory.NewStorage(schema)

	// A bystander entity in the same starting archetype
	bystanders, err := storage.NewEntities(1, posComp, velComp)
	if err != nil {
		t.Fatalf("Failed to create bystander: %v", err)
	}
	bystander := bystanders[0]
	*posComp.GetFromEntity(bystander) = Position{X: 100, Y: 200}
	*velComp.GetFromEntity(bystander) = Velocity{X: -1, Y: -2}

	entities, err := storage.NewEntities(1, posComp, velComp)
	if err != nil {
		t.Fatalf("Failed to create entity: %v", err)
	}
	entity := entities[0]
	*posComp.GetFromEntity(entity) = Position{X: 1, Y: 2}
	*velComp.GetFromEntity(entity) = Velocity{X: 3, Y: 4}

	if err := entity.AddComponentWithValue(healthComp, Health{Current: 50, Max: 100}); err != nil {
		t.Fatalf("Failed to add health: %v", err)
	}
	if err := entity.RemoveComponent(velComp); err != nil {
		t.Fatalf("Failed to remove velocity: %v", err)
	}

	pos := posComp.GetFromEntity(entity)
	if pos.X != 1 || pos.Y != 2 {
		t.Errorf("Position after migration = %+v, want {1 2}", *pos)
	}
	health := healthComp.GetFromEntity(entity)
	if health.Current != 50 || health.Max != 100 {
		t.Errorf("Health after migration = %+v, want {50 100}", *health)
	}
	if ok, _ := velComp.GetFromEntitySafe(entity); ok {
		t.Errorf("Velocity still present after removal")
	}
	err = velComp.SetOnEntity(entity, Velocity{})
	var missing ComponentNotFoundError
	if !errors.As(err, &missing) {
		t.Errorf("SetOnEntity() on removed component error = %v, want ComponentNotFoundError", err)
	}

	// Bystander is untouched
	bpos := posComp.GetFromEntity(bystander)
	bvel := velComp.GetFromEntity(bystander)
	if bpos.X != 100 || bpos.Y != 200 || bvel.X != -1 || bvel.Y != -2 {
		t.Errorf("Bystander data altered: pos=%+v vel=%+v", *bpos, *bvel)
	}
}

// TestSpawnDespawnRoundTrip verifies that a despawned id resolves to
// EntityNotFoundError for every accessor.
func TestSpawnDespawnRoundTrip(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()

	schema := Factory.NewSchema()
	storage := Factory.NewStorage(schema)

	entity, err := storage.NewEntity(posComp, velComp)
	if err != nil {
		t.Fatalf("Failed to create entity: %v", err)
	}
	id := entity.ID()

	if err := storage.DestroyEntities(entity); err != nil {
		t.Fatalf("Failed to destroy entity: %v", err)
	}

	if entity.Valid() {
		t.Errorf("Handle still valid after destroy")
	}
	_, err = storage.Entity(id)
	var notFound EntityNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Entity() after destroy error = %v, want EntityNotFoundError", err)
	}
	if ok, _ := posComp.GetFromEntitySafe(entity); ok {
		t.Errorf("Component still readable after destroy")
	}
	if entity.Has(posComp) {
		t.Errorf("Has() still true after destroy")
	}
	err = entity.AddComponent(velComp)
	if !errors.As(err, &notFound) {
		t.Errorf("AddComponent() after destroy error = %v, want EntityNotFoundError", err)
	}
}

// TestEntityIDReuse verifies that reusing a directory index bumps the
// generation, so stale handles keep failing instead of aliasing the new
// occupant.
func TestEntityIDReuse(t *testing.T) {
	posComp := FactoryNewComponent[Position]()

	schema := Factory.NewSchema()
	storage := Factory.NewStorage(schema)

	first, err := storage.NewEntity(posComp)
	if err != nil {
		t.Fatalf("Failed to create entity: %v", err)
	}
	firstID := first.ID()

	if err := storage.DestroyEntities(first); err != nil {
		t.Fatalf("Failed to destroy entity: %v", err)
	}

	second, err := storage.NewEntity(posComp)
	if err != nil {
		t.Fatalf("Failed to create second entity: %v", err)
	}
	secondID := second.ID()

	if secondID.Index != firstID.Index {
		t.Fatalf("Second entity got index %d, want reused index %d", secondID.Index, firstID.Index)
	}
	if secondID.Generation == firstID.Generation {
		t.Errorf("Reused index kept generation %d", firstID.Generation)
	}
	if first.Valid() {
		t.Errorf("Stale handle valid after index reuse")
	}
	if !second.Valid() {
		t.Errorf("Fresh handle invalid")
	}
	if _, err := storage.Entity(firstID); err == nil {
		t.Errorf("Stale id resolved to a live entity")
	}
}

func TestDestroyCallback(t *testing.T) {
	posComp := FactoryNewComponent[Position]()

	schema := Factory.NewSchema()
	storage := Factory.NewStorage(schema)

	parent, err := storage.NewEntity(posComp)
	if err != nil {
		t.Fatalf("Failed to create parent: %v", err)
	}
	child, err := storage.NewEntity(posComp)
	if err != nil {
		t.Fatalf("Failed to create child: %v", err)
	}

	var destroyed []EntityID
	if err := child.SetParent(parent, func(e Entity) {
		destroyed = append(destroyed, e.ID())
	}); err != nil {
		t.Fatalf("SetParent() error = %v", err)
	}

	// A second parent is rejected
	other, _ := storage.NewEntity(posComp)
	err = child.SetParent(other, func(Entity) {})
	var relErr EntityRelationError
	if !errors.As(err, &relErr) {
		t.Errorf("SetParent() second parent error = %v, want EntityRelationError", err)
	}

	if err := storage.DestroyEntities(parent); err != nil {
		t.Fatalf("Failed to destroy parent: %v", err)
	}
	if len(destroyed) != 1 || destroyed[0] != parent.ID() {
		t.Errorf("Destroy callback invocations = %v, want exactly one for %v", destroyed, parent.ID())
	}
}
