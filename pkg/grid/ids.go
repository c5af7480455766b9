package grid

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator mints identifiers for newly created cells.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator produces random version 4 UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string { return uuid.NewString() }

// SequenceGenerator produces "<Prefix>-1", "<Prefix>-2", ... and is safe for
// concurrent use. Tests use it to get stable cell ids.
type SequenceGenerator struct {
	Prefix string
	n      atomic.Int64
}

// NewSequenceGenerator returns a generator whose ids start at prefix-1.
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{Prefix: prefix}
}

// NewID returns the next id in the sequence.
func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s-%d", g.Prefix, g.n.Add(1))
}

// orDefault returns ids, or a UUIDGenerator when ids is nil.
func orDefault(ids IDGenerator) IDGenerator {
	if ids == nil {
		return UUIDGenerator{}
	}
	return ids
}

// DefaultIDs returns ids, or the UUID generator when ids is nil.
func DefaultIDs(ids IDGenerator) IDGenerator { return orDefault(ids) }
