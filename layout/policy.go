package layout

import (
	"strings"

	"github.com/wippyai/reprcheck/errors"
)

// Policy selects how embedded records reserve space inside their parent.
type Policy uint8

const (
	// TailPaddingReuse lets a sibling field occupy an embedded record's tail padding.
	TailPaddingReuse Policy = iota + 1
	// Strict pads every embedded record out to its stride.
	Strict
)

// Policies returns every known policy in a stable order.
func Policies() []Policy {
	return []Policy{TailPaddingReuse, Strict}
}

func (p Policy) String() string {
	switch p {
	case TailPaddingReuse:
		return "tail-padding-reuse"
	case Strict:
		return "strict"
	default:
		return "unknown"
	}
}

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	return p == TailPaddingReuse || p == Strict
}

// ParsePolicy accepts the policy name or one of its short aliases.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tail-padding-reuse", "tpr", "swift":
		return TailPaddingReuse, nil
	case "strict", "c":
		return Strict, nil
	default:
		return 0, errors.InvalidInput(errors.PhaseLayout, "unknown layout policy %q", s)
	}
}

// Target describes the data model the layout is computed for.
type Target struct {
	Name string
	// MaxScalarAlign caps scalar alignment; scalars are otherwise aligned to their size.
	MaxScalarAlign uint32
}

// LP64 is a 64-bit little-endian target where every scalar is naturally aligned.
var LP64 = Target{Name: "lp64-le", MaxScalarAlign: 8}

// ILP32 is a 32-bit little-endian target where 64-bit scalars are 4-byte aligned (i386 SysV).
var ILP32 = Target{Name: "ilp32-le", MaxScalarAlign: 4}

func (t Target) scalarAlign(size uint32) uint32 {
	if t.MaxScalarAlign != 0 && size > t.MaxScalarAlign {
		return t.MaxScalarAlign
	}
	return size
}
