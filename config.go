package pyecs

// Config holds global configuration for the storage system
var Config config = config{
	maxComponentTypes:     64,
	initialEntityCapacity: 256,
}

type config struct {
	maxComponentTypes     uint32
	initialEntityCapacity int
}

// MaxComponentTypes returns the schema bit budget shared by all storages
func (c config) MaxComponentTypes() uint32 {
	return c.maxComponentTypes
}

// SetInitialEntityCapacity configures the starting directory capacity for new storages
func (c *config) SetInitialEntityCapacity(n int) {
	if n > 0 {
		c.initialEntityCapacity = n
	}
}
