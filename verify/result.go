package verify

import (
	"bytes"

	"github.com/wippyai/reprcheck/errors"
	"github.com/wippyai/reprcheck/layout"
)

// Result is the outcome of one comparison.
type Result struct {
	Actual   any
	Expected any
	// Cause is set when the actual value could not be produced at all.
	Cause error
	Label string
	Group string
	OK    bool
}

// Err returns nil for a passing result and a mismatch error otherwise.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	err := errors.Mismatch(r.Label, r.Actual, r.Expected)
	if r.Cause != nil {
		err.Cause = r.Cause
		err.Detail = r.Cause.Error()
	}
	return err
}

// Equal compares two scalar facts.
func Equal[T comparable](label string, actual, expected T) Result {
	return Result{
		Label:    label,
		Actual:   actual,
		Expected: expected,
		OK:       actual == expected,
	}
}

// BytesEqual compares actual[r.Start:r.End] with expected element by element.
// A range that does not fit in actual is a mismatch.
func BytesEqual(label string, actual []byte, r layout.Range, expected []byte) Result {
	res := Result{Label: label, Expected: bytes.Clone(expected)}
	if r.End < r.Start || int(r.End) > len(actual) {
		res.Actual = bytes.Clone(actual)
		res.Cause = errors.OutOfBounds(errors.PhaseVerify, []string{label}, int(r.End), len(actual))
		return res
	}
	got := bytes.Clone(actual[r.Start:r.End])
	res.Actual = got
	res.OK = bytes.Equal(got, expected)
	return res
}

// Failed records a check whose actual value could not be computed.
func Failed(label string, expected any, err error) Result {
	return Result{
		Label:    label,
		Expected: expected,
		Cause:    err,
	}
}
