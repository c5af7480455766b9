// Package cache stores computed wall plans keyed by a hash of their inputs.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entries under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance for multi-user setups
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer]. The default keyer hashes every input that can
// change a plan, so a stale entry is simply never looked up again.
package cache

import (
	"context"
	"time"
)

// SchemaVersion is mixed into every key. Bump it when the encoded plan
// format changes.
const SchemaVersion = 1

// TTLPlan is the lifetime of a cached wall plan.
const TTLPlan = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the data stored under key. A missing or expired entry is
	// reported as a miss with a nil error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// PlanKeyOpts carries the planning options that change a wall plan.
type PlanKeyOpts struct {
	PathMode       string `json:"path_mode"`
	LoomBundleSize int    `json:"loom_bundle_size"`
	PortGroupSize  int    `json:"port_group_size"`
	Source         string `json:"source"`
	Feeds          int    `json:"feeds"`
	ProcessorID    string `json:"processor_id"`
	Card           string `json:"card"`
	MirrorOf       string `json:"mirror_of,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// PlanKey returns the key for the plan of wallID computed from inputs
	// whose content hash is inputHash.
	PlanKey(wallID, inputHash string, opts PlanKeyOpts) string
}

// DefaultKeyer builds keys of the form "plan:<wall>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PlanKey implements [Keyer].
func (DefaultKeyer) PlanKey(wallID, inputHash string, opts PlanKeyOpts) string {
	return digestKey("plan:"+wallID, SchemaVersion, inputHash, opts)
}
