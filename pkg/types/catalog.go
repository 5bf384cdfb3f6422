package types

import "errors"

// Catalog persists the definition log so separate processes can rebuild the
// same registry. Layouts are never stored; they are recomputed on replay.
type Catalog interface {
	// Attach connects the catalog to the backend described by config.
	// Creates DataDir if it does not exist. Returns ErrAlreadyAttached if
	// called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	Detach() error

	// Append stores def at the end of the log, assigning ID and DefinedAt
	// when they are empty. Returns the stored definition.
	Append(def Definition) (Definition, error)

	// Definitions returns the log in append order.
	Definitions() ([]Definition, error)

	// Reset deletes every stored definition.
	Reset() error
}

// Catalog lifecycle errors.
var (
	ErrCatalogDetached = errors.New("catalog is detached")
	ErrAlreadyAttached = errors.New("catalog is already attached")
)
