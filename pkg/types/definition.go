package types

import (
	"fmt"
	"strings"
	"time"
)

// Kind classifies a registered type.
type Kind string

// Type kinds.
const (
	KindAtomic    Kind = "atomic"
	KindAggregate Kind = "aggregate"
	KindVariant   Kind = "variant"
)

// ParseKind maps a kind name to a Kind. "struct" and "record" are accepted
// for aggregates, "union" for variants. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "atomic":
		return KindAtomic, nil
	case "aggregate", "struct", "record":
		return KindAggregate, nil
	case "variant", "union":
		return KindVariant, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Definition is the replayable form of a define request. Size and Alignment
// are meaningful for atomic types only; Members for aggregates and variants.
type Definition struct {
	ID        string    `json:"definition_id" msgpack:"id"`
	Kind      Kind      `json:"kind" msgpack:"kind"`
	Name      string    `json:"name" msgpack:"name"`
	Size      uint64    `json:"size,omitempty" msgpack:"size,omitempty"`
	Alignment uint64    `json:"alignment,omitempty" msgpack:"alignment,omitempty"`
	Members   []string  `json:"members,omitempty" msgpack:"members,omitempty"`
	DefinedAt time.Time `json:"defined_at" msgpack:"defined_at"`
}

// Atomic builds an atomic definition.
func Atomic(name string, size, alignment uint64) Definition {
	return Definition{Kind: KindAtomic, Name: name, Size: size, Alignment: alignment}
}

// Aggregate builds an aggregate (record) definition.
func Aggregate(name string, members ...string) Definition {
	return Definition{Kind: KindAggregate, Name: name, Members: members}
}

// Variant builds a variant (tagged union) definition.
func Variant(name string, members ...string) Definition {
	return Definition{Kind: KindVariant, Name: name, Members: members}
}

// Validate checks the shape of the definition. It does not consult any
// registry, so unknown members and duplicate names are not detected here.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrInvalidName
	}
	switch d.Kind {
	case KindAtomic:
		if d.Size == 0 {
			return ErrInvalidSize
		}
		if d.Alignment == 0 {
			return ErrInvalidAlignment
		}
	case KindAggregate, KindVariant:
		if len(d.Members) == 0 {
			return ErrNoMembers
		}
		for _, m := range d.Members {
			if strings.TrimSpace(m) == "" {
				return ErrInvalidName
			}
		}
	default:
		return ErrUnknownKind
	}
	return nil
}
