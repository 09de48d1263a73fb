// Package guard defines the result type returned by precondition guards.
// Guards are pure functions that evaluate whether an operation may proceed
// without performing any side effects.
package guard

import "github.com/example/garrison/internal/fault"

// Result represents the outcome of a guard evaluation.
type Result struct {
	Allowed bool
	Kind    fault.Kind
	Reason  string
}

// Allow returns a passing result.
func Allow() Result {
	return Result{Allowed: true}
}

// Deny returns a failing result with the given kind and reason.
func Deny(kind fault.Kind, reason string) Result {
	return Result{Allowed: false, Kind: kind, Reason: reason}
}

// Error converts the result to a typed error if not allowed.
func (r Result) Error() error {
	if r.Allowed {
		return nil
	}
	return fault.New(r.Kind, "%s", r.Reason)
}
