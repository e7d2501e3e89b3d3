package capability

import (
	"fmt"
	"strings"
)

// Kind identifies one of the recognized capability families.
type Kind int

const (
	// KindInvalid is the zero value and never matches a family.
	KindInvalid Kind = iota
	// KindSource provides animation data (tracks, cell size, texture).
	KindSource
	// KindController drives one module's animation state.
	KindController
	// KindManager drives one module's ability/unit state.
	KindManager
	// KindUnit is a single behavior owned by a Manager.
	KindUnit
)

// Kinds lists every valid family in classification order.
var Kinds = []Kind{KindSource, KindController, KindManager, KindUnit}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindController:
		return "controller"
	case KindManager:
		return "manager"
	case KindUnit:
		return "unit"
	default:
		return "invalid"
	}
}

// Valid reports whether k is one of the four families.
func (k Kind) Valid() bool {
	return k >= KindSource && k <= KindUnit
}

// SingleValued reports whether a module may declare at most one type of
// this kind.
func (k Kind) SingleValued() bool {
	return k == KindController || k == KindManager
}

// ParseKind converts a kind name (case-insensitive) into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown capability kind %q", s)
}
