package verify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unsafe"

	rerrors "github.com/wippyai/reprcheck/errors"
	"github.com/wippyai/reprcheck/layout"
	"github.com/wippyai/reprcheck/shapes"
)

func TestEqual(t *testing.T) {
	if r := Equal("ok", uint32(8), uint32(8)); !r.OK || r.Err() != nil {
		t.Errorf("equal values: %+v", r)
	}

	r := Equal("MemoryLayout<outer>.size", uint32(26), uint32(20))
	if r.OK {
		t.Fatal("expected mismatch")
	}
	err := r.Err()
	if !errors.Is(err, &rerrors.Error{Phase: rerrors.PhaseVerify, Kind: rerrors.KindMismatch}) {
		t.Fatalf("got %v, want mismatch", err)
	}
	want := "MemoryLayout<outer>.size != …; actual: 26, expected: 20"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestBytesEqual(t *testing.T) {
	raw := []byte{0xdf, 0x9b, 0x57, 0x13, 0xaa, 0xaa, 0xbf, 0x37}

	tests := []struct {
		name     string
		r        layout.Range
		expected []byte
		ok       bool
	}{
		{"prefix", layout.Range{Start: 0, End: 4}, []byte{0xdf, 0x9b, 0x57, 0x13}, true},
		{"suffix", layout.Range{Start: 6, End: 8}, []byte{0xbf, 0x37}, true},
		{"empty", layout.Range{Start: 3, End: 3}, nil, true},
		{"wrong byte", layout.Range{Start: 6, End: 8}, []byte{0x37, 0xbf}, false},
		{"wrong length", layout.Range{Start: 0, End: 2}, []byte{0xdf}, false},
		{"past end", layout.Range{Start: 6, End: 9}, []byte{0xbf, 0x37, 0x00}, false},
		{"inverted", layout.Range{Start: 4, End: 2}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := BytesEqual(tt.name, raw, tt.r, tt.expected)
			if r.OK != tt.ok {
				t.Errorf("OK = %v, want %v (actual %x)", r.OK, tt.ok, r.Actual)
			}
		})
	}

	t.Run("cause on out of range", func(t *testing.T) {
		r := BytesEqual("x", raw, layout.Range{Start: 0, End: 16}, nil)
		if !errors.Is(r.Err(), &rerrors.Error{Phase: rerrors.PhaseVerify, Kind: rerrors.KindMismatch}) {
			t.Errorf("got %v", r.Err())
		}
		if !errors.Is(r.Cause, &rerrors.Error{Phase: rerrors.PhaseVerify, Kind: rerrors.KindOutOfBounds}) {
			t.Errorf("cause = %v", r.Cause)
		}
	})

	t.Run("message shows bytes", func(t *testing.T) {
		r := BytesEqual("(strict) outer[24..<26]", raw, layout.Range{Start: 4, End: 6}, []byte{0xbf, 0x37})
		msg := r.Err().Error()
		if !strings.Contains(msg, "actual: [0xaa, 0xaa]") || !strings.Contains(msg, "expected: [0xbf, 0x37]") {
			t.Errorf("message = %q", msg)
		}
	})
}

func TestDefaultSuitePasses(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("native checks need a 64-bit host")
	}

	ctx := context.Background()
	report, err := DefaultSuite(Options{}).Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !report.OK() {
		t.Fatalf("suite failed:\n%v", report.Err())
	}
	if report.Err() != nil {
		t.Error("Err() should be nil for a passing report")
	}
	if report.Passed() != len(report.Results) || len(report.Results) == 0 {
		t.Errorf("passed %d of %d", report.Passed(), len(report.Results))
	}

	groups := report.Groups()
	if len(groups) == 0 || groups[0] != "tail-padding-reuse inner" {
		t.Errorf("groups = %v", groups)
	}
}

func TestDefaultSuiteScrubIndependent(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("native checks need a 64-bit host")
	}

	for _, scrub := range []byte{0x01, 0x37, 0xbf, 0xff} {
		report, err := DefaultSuite(Options{Scrub: scrub}).Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !report.OK() {
			t.Errorf("scrub %#x:\n%v", scrub, report.Err())
		}
	}
}

func TestSuitePolicyFilter(t *testing.T) {
	s := DefaultSuite(Options{Policies: []layout.Policy{layout.TailPaddingReuse}})
	for _, g := range s.Groups() {
		if g.Policy != layout.TailPaddingReuse {
			t.Errorf("group %q has policy %s", g.Name, g.Policy)
		}
	}

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range report.Results {
		if !strings.HasPrefix(r.Label, "(tail-padding-reuse)") {
			t.Errorf("unexpected label %q", r.Label)
		}
	}
	if !report.OK() {
		t.Errorf("tail-padding-reuse checks failed:\n%v", report.Err())
	}
}

func TestSuiteReportsAllFailures(t *testing.T) {
	s := NewSuite(Options{})
	s.Add("wrong", layout.TailPaddingReuse, func(_ context.Context, env *Env) []Result {
		info, err := env.Calc.Calculate(shapes.OuterShape(), layout.TailPaddingReuse)
		if err != nil {
			return []Result{Failed("layout", nil, err)}
		}
		return []Result{
			Equal("outer.size", info.Size, uint32(26)),
			Equal("outer.stride", info.Stride, uint32(32)),
			Equal("outer.alignment", info.Align, uint32(8)),
		}
	})
	s.Add("broken", layout.Strict, func(context.Context, *Env) []Result {
		return []Result{Failed("unavailable", uint32(1), errors.New("boom"))}
	})

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.OK() {
		t.Fatal("expected failures")
	}
	failed := report.Failed()
	if len(failed) != 3 {
		t.Fatalf("failed = %d, want 3", len(failed))
	}
	if report.Passed() != 1 {
		t.Errorf("passed = %d, want 1", report.Passed())
	}

	msg := report.Err().Error()
	for _, want := range []string{
		"outer.size != …; actual: 20, expected: 26",
		"outer.stride != …; actual: 24, expected: 32",
		"unavailable != …; actual: <nil>, expected: 1 (boom)",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("report error missing %q:\n%s", want, msg)
		}
	}
	if failed[0].Group != "wrong" || failed[2].Group != "broken" {
		t.Errorf("groups = %q, %q", failed[0].Group, failed[2].Group)
	}
}

func TestSuiteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DefaultSuite(Options{}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
