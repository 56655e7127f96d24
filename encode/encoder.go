package encode

import (
	"math"
	"reflect"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/reprcheck"
	"github.com/wippyai/reprcheck/errors"
	"github.com/wippyai/reprcheck/internal/abi"
	"github.com/wippyai/reprcheck/layout"
)

// Encoder writes values into memory at the offsets a layout.Calculator computes.
type Encoder struct {
	calc *layout.Calculator
}

func NewEncoder() *Encoder {
	return NewEncoderWithCalculator(layout.NewCalculator())
}

func NewEncoderWithCalculator(c *layout.Calculator) *Encoder {
	return &Encoder{calc: c}
}

// Calculator returns the calculator the encoder lays values out with.
func (e *Encoder) Calculator() *layout.Calculator {
	return e.calc
}

// Encode writes value, shaped as t under policy p, at addr.
func (e *Encoder) Encode(mem reprcheck.Memory, addr uint32, t wit.Type, p layout.Policy, value any) error {
	info, err := e.calc.Calculate(t, p)
	if err != nil {
		return err
	}
	return e.encodeValue(mem, addr, t, info, reflect.ValueOf(value), []string{layout.TypeName(t)})
}

func (e *Encoder) encodeValue(mem reprcheck.Memory, addr uint32, t wit.Type, info layout.Info, v reflect.Value, path []string) error {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return errors.NilPointer(errors.PhaseEncode, path, v.Type().String())
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return errors.TypeMismatch(errors.PhaseEncode, path, "nil", layout.TypeName(t))
	}

	if def, ok := t.(*wit.TypeDef); ok {
		switch kind := def.Kind.(type) {
		case *wit.Record:
			return e.encodeRecord(mem, addr, def, info, v, path)
		case wit.Type:
			return e.encodeValue(mem, addr, kind, info, v, path)
		default:
			return errors.Unsupported(errors.PhaseEncode, layout.TypeName(t))
		}
	}

	bits, err := scalarBits(t, info.Size, v.Interface(), path)
	if err != nil {
		return err
	}
	return writeScalar(mem, addr, info.Size, bits)
}

func (e *Encoder) encodeRecord(mem reprcheck.Memory, addr uint32, def *wit.TypeDef, info layout.Info, v reflect.Value, path []string) error {
	if v.Kind() != reflect.Struct {
		return errors.TypeMismatch(errors.PhaseEncode, path, v.Type().String(), layout.TypeName(def))
	}

	for _, m := range info.Members {
		fieldPath := append(append([]string{}, path...), m.Name)

		sf, ok := findGoField(v.Type(), m.Name)
		if !ok {
			return errors.FieldMissing(errors.PhaseEncode, path, m.Name)
		}

		if err := e.encodeValue(mem, addr+m.Offset, m.Type, m.Layout, v.FieldByIndex(sf.Index), fieldPath); err != nil {
			return err
		}
	}
	return nil
}

// scalarBits converts a Go value to the little-endian bit pattern of a scalar shape.
func scalarBits(t wit.Type, width uint32, value any, path []string) (uint64, error) {
	mismatch := func() error {
		return errors.TypeMismatch(errors.PhaseEncode, path, abi.TypeName(value), layout.TypeName(t))
	}

	switch t.(type) {
	case wit.Bool:
		b, ok := value.(bool)
		if !ok {
			return 0, mismatch()
		}
		if b {
			return 1, nil
		}
		return 0, nil
	case wit.U8, wit.U16, wit.U32, wit.U64:
		v, ok := abi.CoerceUnsigned(value, width)
		if !ok {
			if _, isInt := abi.CoerceUnsigned(value, 8); isInt {
				return 0, errors.Overflow(errors.PhaseEncode, path, value, layout.TypeName(t))
			}
			return 0, mismatch()
		}
		return v, nil
	case wit.S8, wit.S16, wit.S32, wit.S64:
		v, ok := abi.CoerceSigned(value, width)
		if !ok {
			return 0, mismatch()
		}
		return uint64(v) & abi.MaxUnsigned(width), nil
	case wit.Char:
		r, ok := value.(rune)
		if !ok || r < 0 || (r >= 0xD800 && r <= 0xDFFF) || r >= 0x110000 {
			return 0, mismatch()
		}
		return uint64(r), nil
	case wit.F32:
		switch f := value.(type) {
		case float32:
			return uint64(math.Float32bits(f)), nil
		case float64:
			return uint64(math.Float32bits(float32(f))), nil
		}
		return 0, mismatch()
	case wit.F64:
		switch f := value.(type) {
		case float64:
			return math.Float64bits(f), nil
		case float32:
			return math.Float64bits(float64(f)), nil
		}
		return 0, mismatch()
	default:
		return 0, errors.Unsupported(errors.PhaseEncode, layout.TypeName(t))
	}
}

func writeScalar(mem reprcheck.Memory, addr, width uint32, bits uint64) error {
	switch width {
	case 1:
		return mem.WriteU8(addr, uint8(bits))
	case 2:
		return mem.WriteU16(addr, uint16(bits))
	case 4:
		return mem.WriteU32(addr, uint32(bits))
	case 8:
		return mem.WriteU64(addr, bits)
	default:
		return errors.InvalidInput(errors.PhaseEncode, "scalar width %d", width)
	}
}

func readScalar(mem reprcheck.Memory, addr, width uint32) (uint64, error) {
	switch width {
	case 1:
		v, err := mem.ReadU8(addr)
		return uint64(v), err
	case 2:
		v, err := mem.ReadU16(addr)
		return uint64(v), err
	case 4:
		v, err := mem.ReadU32(addr)
		return uint64(v), err
	case 8:
		return mem.ReadU64(addr)
	default:
		return 0, errors.InvalidInput(errors.PhaseDecode, "scalar width %d", width)
	}
}
