package pyecs

import (
	"fmt"

	"github.com/TheBitDrifter/mask"
)

// Schema assigns dense signature-mask bit positions to component types.
// Each storage owns one schema; bits are handed out in registration order.
type Schema struct {
	bits map[uint32]uint32
	next uint32
}

func newSchema() *Schema {
	return &Schema{bits: make(map[uint32]uint32)}
}

// Register assigns a mask bit to the component if it has none yet and
// returns it. Registration is idempotent.
func (s *Schema) Register(c Component) uint32 {
	if bit, ok := s.bits[c.ID()]; ok {
		return bit
	}
	if s.next >= Config.MaxComponentTypes() {
		panic(fmt.Sprintf(
			"cannot register component %v: schema limited to %d component types",
			c.Type(), Config.MaxComponentTypes(),
		))
	}
	bit := s.next
	s.bits[c.ID()] = bit
	s.next++
	return bit
}

// RowIndexFor returns the mask bit for the component, assigning one on
// first use. Querying a component no entity ever carried therefore matches
// nothing instead of failing.
func (s *Schema) RowIndexFor(c Component) uint32 {
	return s.Register(c)
}

// Registered reports whether the component has a bit in this schema.
func (s *Schema) Registered(c Component) bool {
	_, ok := s.bits[c.ID()]
	return ok
}

func (s *Schema) maskFor(components ...Component) mask.Mask {
	var m mask.Mask
	for _, c := range components {
		m.Mark(s.Register(c))
	}
	return m
}
