package verify

import (
	stderrors "errors"
)

// Report holds the results of a suite run in execution order.
type Report struct {
	Results []Result
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	for _, res := range r.Results {
		if !res.OK {
			return false
		}
	}
	return true
}

// Failed returns the failing results.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK {
			out = append(out, res)
		}
	}
	return out
}

// Passed returns the number of passing checks.
func (r *Report) Passed() int {
	return len(r.Results) - len(r.Failed())
}

// Err joins the mismatch errors of all failing checks, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, res.Err())
	}
	return stderrors.Join(errs...)
}

// Groups returns the group names in first-seen order.
func (r *Report) Groups() []string {
	var out []string
	seen := make(map[string]bool)
	for _, res := range r.Results {
		if !seen[res.Group] {
			seen[res.Group] = true
			out = append(out, res.Group)
		}
	}
	return out
}
