package testutil

// FixedIDGenerator generates the same snapshot ID every time.
//
// This enables golden comparison of CLI output, where the snapshot ID appears
// as the response trace_id.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator returning id.
// If id is empty, Generate() returns "test-snapshot-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-snapshot-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed ID.
//
// Implements fetch.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
