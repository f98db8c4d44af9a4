// Package continuity allows chaining calls that continue if there's no
// error, or stop at the first error. Each call returns a continuation that
// can be used to chain the next step.
//
// It expresses multi-step operations (write header, sync, close) without
// a wall of sequential `if err != nil` checks. No other package in this
// module imports it.
package continuity

import "strings"

// Chain is a sequence of named steps, short-circuiting on the first error.
type Chain struct {
	failedAt ErrArray
}

// ErrArray aggregates one or more step failures.
type ErrArray []error

func (e ErrArray) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	errs := make([]string, len(e))
	for i, err := range e {
		errs[i] = err.Error()
	}
	return "multiple errors: " + strings.Join(errs, ", ")
}

// New starts an empty chain.
func New() *Chain {
	return new(Chain)
}

// Thenf runs f if no prior step has failed, recording its error otherwise.
// name is for readability at call sites; it is not otherwise inspected.
func (c *Chain) Thenf(name string, f func() error) *Chain {
	if len(c.failedAt) > 0 {
		return c
	}
	if err := f(); err != nil {
		c.failedAt = append(c.failedAt, err)
	}
	return c
}

// Then records any non-nil errs as a single step, named for readability.
func (c *Chain) Then(name string, errs ...error) *Chain {
	if len(c.failedAt) > 0 {
		return c
	}
	for _, err := range errs {
		if err != nil {
			c.failedAt = append(c.failedAt, err)
		}
	}
	return c
}

// Err returns the recorded failures as an ErrArray, or nil if every step
// succeeded.
func (c *Chain) Err() error {
	if len(c.failedAt) == 0 {
		return nil
	}
	return c.failedAt
}
