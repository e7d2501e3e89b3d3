package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/capreg/internal/capability"
	"github.com/vk/capreg/internal/classify"
)

// Diagnostic is one failure observed during Load.
type Diagnostic struct {
	Severity   classify.Severity
	Module     string
	Capability capability.Kind
	Type       string
	Err        error
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %v", d.Severity, d.Err)
}

// Report is the outcome of a Load: which modules were registered or
// skipped, and every diagnostic raised along the way.
type Report struct {
	Registered  []string
	Skipped     []string
	Diagnostics []Diagnostic
}

func (r *Report) add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// addError records a classifier failure.
func (r *Report) addError(err error) {
	d := Diagnostic{Severity: classify.SeverityOf(err), Err: err}
	var cerr *classify.Error
	if errors.As(err, &cerr) {
		d.Module = cerr.Module
		d.Capability = cerr.Capability
		d.Type = cerr.Type
	}
	r.add(d)
}

// Errors returns the error-level diagnostics.
func (r *Report) Errors() []Diagnostic {
	return r.filter(classify.SeverityError)
}

// Warnings returns the warning-level diagnostics.
func (r *Report) Warnings() []Diagnostic {
	return r.filter(classify.SeverityWarning)
}

// HasErrors reports whether any error-level diagnostic was raised.
func (r *Report) HasErrors() bool {
	return len(r.Errors()) > 0
}

// For returns the diagnostics of one module and family. KindInvalid matches
// module-level diagnostics such as duplicate module names.
func (r *Report) For(mod string, kind capability.Kind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Module == mod && d.Capability == kind {
			out = append(out, d)
		}
	}
	return out
}

func (r *Report) filter(s classify.Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}

// Err aggregates the error-level diagnostics into one error, or returns nil.
// The result matches every wrapped sentinel with errors.Is.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &reportError{diags: errs}
}

type reportError struct {
	diags []Diagnostic
}

func (e *reportError) Error() string {
	msgs := make([]string, 0, len(e.diags))
	for _, d := range e.diags {
		msgs = append(msgs, d.Err.Error())
	}
	return fmt.Sprintf("module registration failed:\n- %s", strings.Join(msgs, "\n- "))
}

func (e *reportError) Unwrap() []error {
	errs := make([]error, 0, len(e.diags))
	for _, d := range e.diags {
		errs = append(errs, d.Err)
	}
	return errs
}
