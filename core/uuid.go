package core

// UUID identifies palettes, pieces and entries within one project
// Zero is never handed out
type UUID uint64

// InvalidUUID is the zero identifier
const InvalidUUID UUID = 0

// UUIDGenerator hands out monotonically increasing identifiers
// The counter is persisted with the project so ids stay unique across sessions
type UUIDGenerator struct {
	counter UUID
}

// Next returns a fresh identifier
func (g *UUIDGenerator) Next() UUID {
	g.counter++
	return g.counter
}

// Last returns the most recently issued identifier
func (g *UUIDGenerator) Last() UUID {
	return g.counter
}

// Observe advances the counter past an identifier loaded from elsewhere
func (g *UUIDGenerator) Observe(id UUID) {
	if id > g.counter {
		g.counter = id
	}
}
