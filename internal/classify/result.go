package classify

// Status is the outcome of classifying one candidate or one family.
type Status int

const (
	// NotApplicable means nothing was registered and nothing went wrong.
	NotApplicable Status = iota
	// Found means a registration was produced.
	Found
	// Failed means the candidate or family was rejected with an error.
	Failed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case Failed:
		return "failed"
	default:
		return "not_applicable"
	}
}

// Result is the outcome of a classification step.
type Result[T any] struct {
	Status Status
	Value  T
	Err    error
}

// Ok wraps a successful registration.
func Ok[T any](v T) Result[T] {
	return Result[T]{Status: Found, Value: v}
}

// Skip reports that the step did not apply.
func Skip[T any]() Result[T] {
	return Result[T]{Status: NotApplicable}
}

// Fail reports a rejected step.
func Fail[T any](err error) Result[T] {
	return Result[T]{Status: Failed, Err: err}
}

// Get returns the value and whether the result is Found.
func (r Result[T]) Get() (T, bool) {
	return r.Value, r.Status == Found
}
