package encode

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go.bytecodealliance.org/wit"

	rerrors "github.com/wippyai/reprcheck/errors"
	"github.com/wippyai/reprcheck/layout"
	"github.com/wippyai/reprcheck/shapes"
)

var (
	innerBytes = []byte{0xef, 0xcd, 0xab, 0x89, 0x67, 0x45, 0x23, 0x01, 0x01}
	aBytes     = []byte{0xdf, 0x9b, 0x57, 0x13}
	dBytes     = []byte{0xbf, 0x37}
)

func TestBytesOfInner(t *testing.T) {
	ctx := context.Background()

	for _, p := range layout.Policies() {
		t.Run(p.String(), func(t *testing.T) {
			raw, err := BytesOf(ctx, shapes.InnerShape(), p, shapes.SampleInner())
			if err != nil {
				t.Fatal(err)
			}
			if len(raw) != 16 {
				t.Fatalf("len = %d, want stride 16", len(raw))
			}
			if !bytes.Equal(raw[:9], innerBytes) {
				t.Errorf("raw[:9] = %x, want %x", raw[:9], innerBytes)
			}
		})
	}
}

func TestBytesOfOuter(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		policy layout.Policy
		stride int
		dAt    int
	}{
		{layout.TailPaddingReuse, 24, 18},
		{layout.Strict, 32, 24},
	}

	for _, tc := range tests {
		t.Run(tc.policy.String(), func(t *testing.T) {
			raw, err := BytesOf(ctx, shapes.OuterShape(), tc.policy, shapes.SampleOuter())
			if err != nil {
				t.Fatal(err)
			}
			if len(raw) != tc.stride {
				t.Fatalf("len = %d, want %d", len(raw), tc.stride)
			}
			if !bytes.Equal(raw[0:4], aBytes) {
				t.Errorf("a = %x, want %x", raw[0:4], aBytes)
			}
			if !bytes.Equal(raw[8:17], innerBytes) {
				t.Errorf("inner = %x, want %x", raw[8:17], innerBytes)
			}
			if !bytes.Equal(raw[tc.dAt:tc.dAt+2], dBytes) {
				t.Errorf("d = %x, want %x", raw[tc.dAt:tc.dAt+2], dBytes)
			}
		})
	}
}

func TestBytesOfPaddingIndependent(t *testing.T) {
	ctx := context.Background()

	for _, p := range layout.Policies() {
		info, err := layout.Of(shapes.OuterShape(), p)
		if err != nil {
			t.Fatal(err)
		}

		a, err := BytesOf(ctx, shapes.OuterShape(), p, shapes.SampleOuter(), WithScrub(0x00))
		if err != nil {
			t.Fatal(err)
		}
		b, err := BytesOf(ctx, shapes.OuterShape(), p, shapes.SampleOuter(), WithScrub(0xff))
		if err != nil {
			t.Fatal(err)
		}

		for _, f := range info.Fields() {
			r := f.Range()
			if !bytes.Equal(a[r.Start:r.End], b[r.Start:r.End]) {
				t.Errorf("%s %s: field bytes depend on scrub: %x vs %x", p, f.Path, a[r.Start:r.End], b[r.Start:r.End])
			}
		}
		for _, r := range info.Padding() {
			for i := r.Start; i < r.End; i++ {
				if a[i] != 0x00 || b[i] != 0xff {
					t.Errorf("%s: padding byte %d was written", p, i)
				}
			}
		}
	}
}

func TestTailPaddingNotClobbered(t *testing.T) {
	ctx := context.Background()

	s, err := NewScratch(ctx, WithScrub(0x5a))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close(ctx)

	raw, err := s.Bytes(shapes.OuterShape(), layout.TailPaddingReuse, shapes.SampleOuter())
	if err != nil {
		t.Fatal(err)
	}
	if raw[17] != 0x5a {
		t.Errorf("byte 17 = %#x, want scrub 0x5a", raw[17])
	}
	if !bytes.Equal(raw[18:20], dBytes) {
		t.Errorf("d = %x", raw[18:20])
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewScratch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close(ctx)

	for _, p := range layout.Policies() {
		t.Run(p.String()+"/inner", func(t *testing.T) {
			var got shapes.Inner
			if err := s.RoundTrip(shapes.InnerShape(), p, shapes.SampleInner(), &got); err != nil {
				t.Fatal(err)
			}
			if got != shapes.SampleInner() {
				t.Errorf("got %+v, want %+v", got, shapes.SampleInner())
			}
		})
		t.Run(p.String()+"/outer", func(t *testing.T) {
			var got shapes.Outer
			if err := s.RoundTrip(shapes.OuterShape(), p, shapes.SampleOuter(), &got); err != nil {
				t.Fatal(err)
			}
			if got != shapes.SampleOuter() {
				t.Errorf("got %+v, want %+v", got, shapes.SampleOuter())
			}
		})
	}
}

func TestEncodeNameMatching(t *testing.T) {
	ctx := context.Background()

	type untagged struct {
		B uint64
		C uint8
	}
	type kebab struct {
		FirstValue uint32
	}

	raw, err := BytesOf(ctx, shapes.InnerShape(), layout.Strict, &untagged{B: 0x0123456789abcdef, C: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw[:9], innerBytes) {
		t.Errorf("raw = %x", raw[:9])
	}

	rec := shapes.Record("k", wit.Field{Name: "first-value", Type: wit.U32{}})
	raw, err = BytesOf(ctx, rec, layout.Strict, kebab{FirstValue: 0x13579bdf})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw, aBytes) {
		t.Errorf("raw = %x", raw)
	}
}

func TestEncodeScalarKinds(t *testing.T) {
	ctx := context.Background()

	type mixed struct {
		Flag bool    `wit:"flag"`
		S    int16   `wit:"s"`
		F    float32 `wit:"f"`
		R    rune    `wit:"r"`
	}
	rec := shapes.Record("mixed",
		wit.Field{Name: "flag", Type: wit.Bool{}},
		wit.Field{Name: "s", Type: wit.S16{}},
		wit.Field{Name: "f", Type: wit.F32{}},
		wit.Field{Name: "r", Type: wit.Char{}},
	)
	in := mixed{Flag: true, S: -2, F: 1.5, R: 'x'}

	raw, err := BytesOf(ctx, rec, layout.Strict, in)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x01, 0xaa, 0xfe, 0xff, 0x00, 0x00, 0xc0, 0x3f, 0x78, 0x00, 0x00, 0x00}
	if !bytes.Equal(raw, want) {
		t.Errorf("raw = %x, want %x", raw, want)
	}

	s, err := NewScratch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close(ctx)

	var out mixed
	if err := s.RoundTrip(rec, layout.TailPaddingReuse, in, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestEncodeErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		shape wit.Type
		value any
		want  *rerrors.Error
	}{
		{
			name:  "missing field",
			shape: shapes.InnerShape(),
			value: struct{ B uint64 }{B: 1},
			want:  &rerrors.Error{Phase: rerrors.PhaseEncode, Kind: rerrors.KindFieldMissing},
		},
		{
			name:  "wrong kind",
			shape: shapes.InnerShape(),
			value: struct {
				B string
				C uint8
			}{B: "x"},
			want: &rerrors.Error{Phase: rerrors.PhaseEncode, Kind: rerrors.KindTypeMismatch},
		},
		{
			name:  "overflow",
			shape: shapes.InnerShape(),
			value: struct {
				B uint64
				C uint32
			}{C: 0x100},
			want: &rerrors.Error{Phase: rerrors.PhaseEncode, Kind: rerrors.KindOverflow},
		},
		{
			name:  "not a struct",
			shape: shapes.OuterShape(),
			value: 42,
			want:  &rerrors.Error{Phase: rerrors.PhaseEncode, Kind: rerrors.KindTypeMismatch},
		},
		{
			name:  "nil pointer",
			shape: shapes.OuterShape(),
			value: (*shapes.Outer)(nil),
			want:  &rerrors.Error{Phase: rerrors.PhaseEncode, Kind: rerrors.KindNilPointer},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BytesOf(ctx, tc.shape, layout.Strict, tc.value)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %s/%s", err, tc.want.Phase, tc.want.Kind)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	ctx := context.Background()
	s, err := NewScratch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close(ctx)

	var notPtr shapes.Inner
	err = s.Encoder().Decode(nil, 0, shapes.InnerShape(), layout.Strict, notPtr)
	if !errors.Is(err, &rerrors.Error{Phase: rerrors.PhaseDecode, Kind: rerrors.KindNilPointer}) {
		t.Errorf("got %v, want nil_pointer", err)
	}

	var small struct {
		B uint8
		C uint8
	}
	err = s.RoundTrip(shapes.InnerShape(), layout.Strict, shapes.SampleInner(), &small)
	if !errors.Is(err, &rerrors.Error{Phase: rerrors.PhaseDecode, Kind: rerrors.KindOverflow}) {
		t.Errorf("got %v, want overflow", err)
	}
}

func TestScratchReuse(t *testing.T) {
	ctx := context.Background()
	s, err := NewScratch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close(ctx)

	first, err := s.Bytes(shapes.OuterShape(), layout.Strict, shapes.SampleOuter())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		again, err := s.Bytes(shapes.OuterShape(), layout.Strict, shapes.SampleOuter())
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("iteration %d: %x != %x", i, again, first)
		}
	}
}
