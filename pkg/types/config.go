package types

import "errors"

// Config holds backend selection, storage location and layout policy.
type Config struct {
	Backend         string                `json:"backend" yaml:"backend"`
	DataDir         string                `json:"data_dir" yaml:"data_dir"`
	PackedAlignment PackedAlignmentPolicy `json:"packed_alignment" yaml:"packed_alignment"`
}

// Supported backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// PackedAlignmentPolicy selects the alignment reported for packed aggregates
// and variants.
type PackedAlignmentPolicy string

const (
	// PackedFirstMember reports a packed aggregate's alignment as its first
	// member's packed alignment, and a packed variant's as the least common
	// multiple of its alternatives' packed alignments.
	PackedFirstMember PackedAlignmentPolicy = "first-member"

	// PackedUnit reports alignment 1 for every packed aggregate and variant.
	PackedUnit PackedAlignmentPolicy = "unit"
)

// DefaultPackedAlignment is used when no policy is configured.
const DefaultPackedAlignment = PackedFirstMember

// Config validation errors.
var (
	ErrBackendEmpty           = errors.New("backend must not be empty")
	ErrBackendUnknown         = errors.New("unknown backend")
	ErrPackedAlignmentUnknown = errors.New("unknown packed alignment policy")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendMemory: true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. An empty PackedAlignment is
// accepted and means DefaultPackedAlignment.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.PackedAlignment {
	case "", PackedFirstMember, PackedUnit:
	default:
		return ErrPackedAlignmentUnknown
	}
	return nil
}

// Policy returns the effective packed alignment policy.
func (c Config) Policy() PackedAlignmentPolicy {
	if c.PackedAlignment == "" {
		return DefaultPackedAlignment
	}
	return c.PackedAlignment
}
