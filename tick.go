package pyecs

// Tick counts scheduling cycles. The storage advances its tick once per
// cycle, and every component slot remembers the tick it was last written.
// Change queries compare those stamps against a caller-supplied reference.
type Tick uint64
