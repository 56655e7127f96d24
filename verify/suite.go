package verify

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/reprcheck/encode"
	"github.com/wippyai/reprcheck/layout"
)

// Options configures a suite run.
type Options struct {
	// Policies restricts the run to groups of these policies; empty means all.
	Policies []layout.Policy
	// Scrub is the byte padding is filled with before instances are encoded.
	// Zero selects encode.DefaultScrub.
	Scrub byte
}

// Env is shared by the checks of one run.
type Env struct {
	Calc    *layout.Calculator
	Scratch *encode.Scratch
}

// CheckFunc produces the results of one group.
type CheckFunc func(ctx context.Context, env *Env) []Result

// Group is a named set of checks bound to one policy.
type Group struct {
	Run    CheckFunc
	Name   string
	Policy layout.Policy
}

// Suite is an ordered list of check groups.
type Suite struct {
	groups []Group
	opts   Options
}

// NewSuite creates an empty suite.
func NewSuite(opts Options) *Suite {
	return &Suite{opts: opts}
}

// Add appends a group.
func (s *Suite) Add(name string, policy layout.Policy, fn CheckFunc) {
	s.groups = append(s.groups, Group{Run: fn, Name: name, Policy: policy})
}

// Groups returns the groups selected by the suite's options, in order.
func (s *Suite) Groups() []Group {
	if len(s.opts.Policies) == 0 {
		return slices.Clone(s.groups)
	}
	var out []Group
	for _, g := range s.groups {
		if slices.Contains(s.opts.Policies, g.Policy) {
			out = append(out, g)
		}
	}
	return out
}

// Run evaluates every selected group. It only returns an error when the shared
// environment cannot be set up; mismatches are reported in the Report.
func (s *Suite) Run(ctx context.Context) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scrub := s.opts.Scrub
	if scrub == 0 {
		scrub = encode.DefaultScrub
	}

	calc := layout.NewCalculator()
	scratch, err := encode.NewScratch(ctx, encode.WithCalculator(calc), encode.WithScrub(scrub))
	if err != nil {
		return nil, err
	}
	defer scratch.Close(ctx)

	env := &Env{Calc: calc, Scratch: scratch}
	report := &Report{}
	start := time.Now()

	for _, g := range s.Groups() {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		results := g.Run(ctx, env)
		for i := range results {
			results[i].Group = g.Name
			logResult(results[i])
		}
		report.Results = append(report.Results, results...)
	}

	Logger().Info("layout checks finished",
		zap.Int("checks", len(report.Results)),
		zap.Int("failed", len(report.Failed())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

func logResult(r Result) {
	if r.OK {
		Logger().Debug("check passed",
			zap.String("group", r.Group),
			zap.String("label", r.Label),
		)
		return
	}
	Logger().Warn("check failed",
		zap.String("group", r.Group),
		zap.String("label", r.Label),
		zap.Any("actual", r.Actual),
		zap.Any("expected", r.Expected),
		zap.Error(r.Cause),
	)
}
