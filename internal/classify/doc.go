// Package classify holds the per-capability classifiers. Each one takes the
// candidates the scanner found for a module and decides, per candidate or per
// family, whether something is registered, nothing applies, or the
// declaration is broken.
//
// Outcomes are explicit: every classifier returns a Result whose Status is
// Found, NotApplicable or Failed, and failures carry an *Error wrapping one
// of the sentinel errors below so that callers can tell a skipped candidate
// from a misconfigured module.
package classify
