package types

import "errors"

// Registry owns every defined type by name. Names form one flat namespace
// across atomic, aggregate and variant types. Types are never removed or
// redefined, and a type may only reference types registered before it.
type Registry interface {
	// DefineAtomic registers a leaf type with a fixed size and alignment.
	// Returns ErrDuplicateName if the name is taken.
	DefineAtomic(name string, size, alignment uint64) error

	// DefineAggregate registers a record holding all members in order.
	// Returns ErrDuplicateName or ErrUnknownMember; on error nothing is registered.
	DefineAggregate(name string, members []string) error

	// DefineVariant registers a tagged union holding one member at a time.
	// Returns ErrDuplicateName or ErrUnknownMember; on error nothing is registered.
	DefineVariant(name string, members []string) error

	// Describe returns the three layouts of a registered type.
	// Returns ErrUnknownName if the name was never registered.
	Describe(name string) (LayoutReport, error)

	// Exists reports whether name is registered in any category.
	Exists(name string) bool
}

// Registry errors.
var (
	ErrDuplicateName    = errors.New("duplicate type name")
	ErrUnknownMember    = errors.New("unknown member type")
	ErrUnknownName      = errors.New("unknown type name")
	ErrInvalidName      = errors.New("type name must not be empty")
	ErrInvalidSize      = errors.New("size must be positive")
	ErrInvalidAlignment = errors.New("alignment must be positive")
	ErrNoMembers        = errors.New("at least one member is required")
	ErrUnknownKind      = errors.New("unknown type kind")
	ErrLayoutOverflow   = errors.New("layout arithmetic overflows 64 bits")
)
