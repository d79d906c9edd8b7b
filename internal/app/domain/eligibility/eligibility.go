// Package eligibility defines the shared admit/reject result that every
// mechanic evaluator returns, and the error type that carries a rejection
// reason verbatim to the caller.
package eligibility

import "errors"

// Result is the outcome of an eligibility check. Remaining, when present,
// reports how much of a limited allowance is left.
type Result struct {
	Eligible  bool   `json:"eligible"`
	Reason    string `json:"reason,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
}

// Allow returns an eligible result.
func Allow() Result { return Result{Eligible: true} }

// AllowRemaining returns an eligible result with an allowance count.
func AllowRemaining(n int) Result { return Result{Eligible: true, Remaining: &n} }

// Deny returns an ineligible result with a human-readable reason.
func Deny(reason string) Result { return Result{Reason: reason} }

// DenyRemaining returns an ineligible result with a remaining count.
func DenyRemaining(reason string, n int) Result {
	return Result{Reason: reason, Remaining: &n}
}

// Rejection is the error surfaced when a mutation is attempted against a
// failed eligibility check. The message is exactly the evaluator's reason.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string { return r.Reason }

// Reject wraps a denied result into an error.
func Reject(res Result) error { return &Rejection{Reason: res.Reason} }

// IsRejection reports whether err is (or wraps) an eligibility rejection.
func IsRejection(err error) bool {
	var rej *Rejection
	return errors.As(err, &rej)
}
