package verify

import (
	"context"
	"fmt"
	"reflect"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/reprcheck/layout"
	"github.com/wippyai/reprcheck/native"
	"github.com/wippyai/reprcheck/shapes"
)

var (
	bytesB = []byte{0xef, 0xcd, 0xab, 0x89, 0x67, 0x45, 0x23, 0x01} // little-endian
	bytesC = []byte{0x01}
	bytesA = []byte{0xdf, 0x9b, 0x57, 0x13} // little-endian
	bytesD = []byte{0xbf, 0x37}             // little-endian
)

// fieldBytes is an expected byte pattern at a fixed offset.
type fieldBytes struct {
	path  string
	r     layout.Range
	bytes []byte
}

// expectation lists the layout facts of one shape under one policy.
type expectation struct {
	shape  *wit.TypeDef
	value  any
	fields []fieldBytes
	policy layout.Policy
	align  uint32
	size   uint32
	stride uint32
}

func innerFields() []fieldBytes {
	return []fieldBytes{
		{"b", layout.Range{Start: 0, End: 8}, bytesB},
		{"c", layout.Range{Start: 8, End: 9}, bytesC},
	}
}

func outerFields(dAt uint32) []fieldBytes {
	return []fieldBytes{
		{"a", layout.Range{Start: 0, End: 4}, bytesA},
		{"inner.b", layout.Range{Start: 8, End: 16}, bytesB},
		{"inner.c", layout.Range{Start: 16, End: 17}, bytesC},
		{"d", layout.Range{Start: dAt, End: dAt + 2}, bytesD},
	}
}

var expectations = []expectation{
	{
		shape: shapes.InnerShape(), value: shapes.SampleInner(), policy: layout.TailPaddingReuse,
		align: 8, size: 9, stride: 16, fields: innerFields(),
	},
	{
		shape: shapes.OuterShape(), value: shapes.SampleOuter(), policy: layout.TailPaddingReuse,
		align: 8, size: 20, stride: 24, fields: outerFields(18),
	},
	{
		shape: shapes.InnerShape(), value: shapes.SampleInner(), policy: layout.Strict,
		align: 8, size: 16, stride: 16, fields: innerFields(),
	},
	{
		shape: shapes.OuterShape(), value: shapes.SampleOuter(), policy: layout.Strict,
		align: 8, size: 32, stride: 32, fields: outerFields(24),
	},
}

func label(p layout.Policy, format string, args ...any) string {
	return fmt.Sprintf("(%s) ", p) + fmt.Sprintf(format, args...)
}

// DefaultSuite returns the fixed sequence of layout checks.
func DefaultSuite(opts Options) *Suite {
	s := NewSuite(opts)

	for _, exp := range expectations {
		name := fmt.Sprintf("%s %s", exp.policy, layout.TypeName(exp.shape))
		s.Add(name, exp.policy, exp.check)
	}

	s.Add("strict end", layout.Strict, func(_ context.Context, env *Env) []Result {
		info, err := env.Calc.Calculate(shapes.OuterShape(), layout.Strict)
		if err != nil {
			return []Result{Failed(label(layout.Strict, "outer.end"), uint32(26), err)}
		}
		return []Result{Equal(label(layout.Strict, "outer.end"), info.End, uint32(26))}
	})

	s.Add("native c_inner", layout.Strict, nativeChecks[native.CInner]("c_inner", 16, &native.CInner{B: 0x0123456789abcdef, C: 0x01}, innerFields()))
	s.Add("native c_outer", layout.Strict, nativeChecks[native.COuter]("c_outer", 32, &native.COuter{
		A:     0x13579bdf,
		Inner: native.CInner{B: 0x0123456789abcdef, C: 0x01},
		D:     0x37bf,
	}, outerFields(24)))

	for _, p := range layout.Policies() {
		s.Add(fmt.Sprintf("%s round trip", p), p, roundTrip(p))
		s.Add(fmt.Sprintf("%s idempotence", p), p, idempotence(p))
	}

	return s
}

func (exp expectation) check(_ context.Context, env *Env) []Result {
	p := exp.policy
	name := layout.TypeName(exp.shape)
	var results []Result

	info, err := env.Calc.Calculate(exp.shape, p)
	if err != nil {
		return []Result{Failed(label(p, "layout<%s>", name), nil, err)}
	}

	results = append(results,
		Equal(label(p, "layout<%s>.alignment", name), info.Align, exp.align),
		Equal(label(p, "layout<%s>.size", name), info.Size, exp.size),
		Equal(label(p, "layout<%s>.stride", name), info.Stride, exp.stride),
	)

	for _, f := range exp.fields {
		region, ok := info.Region(f.path)
		if !ok {
			results = append(results, Failed(label(p, "%s.%s offset", name, f.path), f.r, fmt.Errorf("no member %q", f.path)))
			continue
		}
		results = append(results, Equal(label(p, "%s.%s offset", name, f.path), region, f.r))
	}

	raw, err := env.Scratch.Bytes(exp.shape, p, exp.value)
	if err != nil {
		return append(results, Failed(label(p, "%s bytes", name), nil, err))
	}
	results = append(results, Equal(label(p, "len(%s bytes)", name), uint32(len(raw)), exp.stride))

	for _, f := range exp.fields {
		results = append(results, BytesEqual(label(p, "%s[%s]", name, f.r), raw, f.r, f.bytes))
	}
	return results
}

func nativeChecks[T any](name string, sizeof uint32, v *T, fields []fieldBytes) CheckFunc {
	return func(_ context.Context, env *Env) []Result {
		p := layout.Strict
		n := native.LayoutOf[T]()
		results := []Result{
			Equal(label(p, "alignof(%s)", name), n.Align, uint32(8)),
			Equal(label(p, "sizeof(%s)", name), n.Size, sizeof),
		}

		for _, f := range fields {
			r, ok := native.Offset[T](f.path)
			if !ok {
				results = append(results, Failed(label(p, "offsetof(%s.%s)", name, f.path), f.r, fmt.Errorf("no field %q", f.path)))
				continue
			}
			results = append(results, Equal(label(p, "offsetof(%s.%s)", name, f.path), r, f.r))
		}

		raw := native.Bytes(v)
		for _, f := range fields {
			results = append(results, BytesEqual(label(p, "%s[%s]", name, f.r), raw, f.r, f.bytes))
		}

		ok, err := native.Matches[T](env.Calc)
		if err != nil {
			return append(results, Failed(label(p, "%s matches computed layout", name), true, err))
		}
		return append(results, Equal(label(p, "%s matches computed layout", name), ok, true))
	}
}

func roundTrip(p layout.Policy) CheckFunc {
	return func(_ context.Context, env *Env) []Result {
		var inner shapes.Inner
		var outer shapes.Outer
		var results []Result

		if err := env.Scratch.RoundTrip(shapes.InnerShape(), p, shapes.SampleInner(), &inner); err != nil {
			results = append(results, Failed(label(p, "inner round trip"), shapes.SampleInner(), err))
		} else {
			results = append(results, Equal(label(p, "inner round trip"), inner, shapes.SampleInner()))
		}

		if err := env.Scratch.RoundTrip(shapes.OuterShape(), p, shapes.SampleOuter(), &outer); err != nil {
			results = append(results, Failed(label(p, "outer round trip"), shapes.SampleOuter(), err))
		} else {
			results = append(results, Equal(label(p, "outer round trip"), outer, shapes.SampleOuter()))
		}
		return results
	}
}

func idempotence(p layout.Policy) CheckFunc {
	return func(_ context.Context, env *Env) []Result {
		var results []Result
		for _, shape := range []*wit.TypeDef{shapes.InnerShape(), shapes.OuterShape()} {
			l := label(p, "layout<%s> repeatable", layout.TypeName(shape))
			cached, err := env.Calc.Calculate(shape, p)
			if err != nil {
				results = append(results, Failed(l, true, err))
				continue
			}
			fresh, err := layout.Of(shape, p)
			if err != nil {
				results = append(results, Failed(l, true, err))
				continue
			}
			results = append(results, Equal(l, reflect.DeepEqual(cached, fresh), true))
		}
		return results
	}
}
