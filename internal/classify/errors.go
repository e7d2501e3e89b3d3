package classify

import (
	"errors"
	"fmt"

	"github.com/vk/capreg/internal/capability"
)

var (
	// ErrInvalidSource marks a Source whose tracks are empty or whose cell
	// size is not positive. The candidate is skipped.
	ErrInvalidSource = errors.New("invalid source")
	// ErrMissingResource marks a Source whose resource path does not resolve
	// to an asset. The candidate is excluded.
	ErrMissingResource = errors.New("missing resource")
	// ErrDuplicateDeclaration marks a module declaring more than one type of
	// a single-valued family. Nothing is registered for that family.
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	// ErrOrphanedSources marks a module with Sources but no Controller. The
	// Sources stay registered.
	ErrOrphanedSources = errors.New("sources without controller")
)

// Severity tells how a failure is reported.
type Severity int

const (
	// SeverityWarning failures are logged and the load continues unchanged.
	SeverityWarning Severity = iota
	// SeverityError failures are logged as errors; the scoped unit is excluded.
	SeverityError
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Error is a classification failure scoped to a module, a family and,
// when applicable, one type.
type Error struct {
	Module     string
	Capability capability.Kind
	// Type is the qualified type name, empty for family- or module-scoped failures.
	Type string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("module %q %s %q: %v", e.Module, e.Capability, e.Type, e.Err)
	}
	return fmt.Sprintf("module %q %s: %v", e.Module, e.Capability, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Severity classifies the failure as a warning or an error.
func (e *Error) Severity() Severity {
	return SeverityOf(e.Err)
}

// SeverityOf returns how err should be reported. Skip-and-warn validation
// failures and orphaned sources are warnings; everything else is an error.
func SeverityOf(err error) Severity {
	if errors.Is(err, ErrInvalidSource) || errors.Is(err, ErrOrphanedSources) {
		return SeverityWarning
	}
	return SeverityError
}

func newError(mod string, kind capability.Kind, typ string, err error) *Error {
	return &Error{Module: mod, Capability: kind, Type: typ, Err: err}
}
