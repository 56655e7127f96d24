package encode

import (
	"context"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/reprcheck/layout"
	"github.com/wippyai/reprcheck/linear"
)

// DefaultScrub is written over every allocation before a value is encoded, so
// that padding never happens to read as zero.
const DefaultScrub byte = 0xAA

type options struct {
	calc  *layout.Calculator
	pages uint32
	scrub byte
}

// Option configures a Scratch.
type Option func(*options)

// WithScrub sets the byte padding positions are filled with.
func WithScrub(b byte) Option {
	return func(o *options) { o.scrub = b }
}

// WithCalculator lays values out with c instead of a fresh LP64 calculator.
func WithCalculator(c *layout.Calculator) Option {
	return func(o *options) { o.calc = c }
}

// WithPages sets the size of the backing linear memory.
func WithPages(n uint32) Option {
	return func(o *options) { o.pages = n }
}

// Scratch is a linear memory used to materialize instances and observe their bytes.
type Scratch struct {
	lm    *linear.Linear
	enc   *Encoder
	scrub byte
}

// NewScratch creates a scratch memory. Close must be called to release it.
func NewScratch(ctx context.Context, opts ...Option) (*Scratch, error) {
	o := options{pages: 1, scrub: DefaultScrub}
	for _, opt := range opts {
		opt(&o)
	}
	if o.calc == nil {
		o.calc = layout.NewCalculator()
	}

	lm, err := linear.New(ctx, o.pages)
	if err != nil {
		return nil, err
	}

	return &Scratch{
		lm:    lm,
		enc:   NewEncoderWithCalculator(o.calc),
		scrub: o.scrub,
	}, nil
}

// Encoder returns the scratch's encoder.
func (s *Scratch) Encoder() *Encoder {
	return s.enc
}

// Bytes encodes value as t under p and returns a copy of its stride bytes.
// The allocation is released before returning.
func (s *Scratch) Bytes(t wit.Type, p layout.Policy, value any) ([]byte, error) {
	info, err := s.enc.calc.Calculate(t, p)
	if err != nil {
		return nil, err
	}
	if info.Stride == 0 {
		return []byte{}, nil
	}

	ptr, err := s.lm.Alloc(info.Stride, info.Align)
	if err != nil {
		return nil, err
	}
	defer s.lm.Allocator().Free(ptr, info.Stride, info.Align)

	mem := s.lm.Memory()
	if err := linear.Fill(mem, ptr, info.Stride, s.scrub); err != nil {
		return nil, err
	}
	if err := s.enc.Encode(mem, ptr, t, p, value); err != nil {
		return nil, err
	}

	linear.Logger().Sugar().Debugf("encoded %s (%s) at %d: %d bytes", layout.TypeName(t), p, ptr, info.Stride)

	return mem.Read(ptr, info.Stride)
}

// RoundTrip encodes value and decodes it back into out.
func (s *Scratch) RoundTrip(t wit.Type, p layout.Policy, value, out any) error {
	info, err := s.enc.calc.Calculate(t, p)
	if err != nil {
		return err
	}

	ptr, err := s.lm.Alloc(info.Stride, info.Align)
	if err != nil {
		return err
	}
	defer s.lm.Allocator().Free(ptr, info.Stride, info.Align)

	mem := s.lm.Memory()
	if err := linear.Fill(mem, ptr, info.Stride, s.scrub); err != nil {
		return err
	}
	if err := s.enc.Encode(mem, ptr, t, p, value); err != nil {
		return err
	}
	return s.enc.Decode(mem, ptr, t, p, out)
}

// Close releases the linear memory.
func (s *Scratch) Close(ctx context.Context) error {
	return s.lm.Close(ctx)
}

// BytesOf materializes value as t under p in a temporary linear memory and returns
// its stride bytes. Bytes at padding positions are unspecified.
func BytesOf(ctx context.Context, t wit.Type, p layout.Policy, value any, opts ...Option) ([]byte, error) {
	s, err := NewScratch(ctx, opts...)
	if err != nil {
		return nil, err
	}
	defer s.Close(ctx)

	return s.Bytes(t, p, value)
}
