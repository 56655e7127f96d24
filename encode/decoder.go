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

// Decode reads a value shaped as t under policy p from addr into out, which must
// be a non-nil pointer. Padding bytes are not read.
func (e *Encoder) Decode(mem reprcheck.Memory, addr uint32, t wit.Type, p layout.Policy, out any) error {
	info, err := e.calc.Calculate(t, p)
	if err != nil {
		return err
	}

	path := []string{layout.TypeName(t)}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.NilPointer(errors.PhaseDecode, path, abi.TypeName(out))
	}
	return e.decodeValue(mem, addr, t, info, rv.Elem(), path)
}

func (e *Encoder) decodeValue(mem reprcheck.Memory, addr uint32, t wit.Type, info layout.Info, v reflect.Value, path []string) error {
	if def, ok := t.(*wit.TypeDef); ok {
		switch kind := def.Kind.(type) {
		case *wit.Record:
			return e.decodeRecord(mem, addr, def, info, v, path)
		case wit.Type:
			return e.decodeValue(mem, addr, kind, info, v, path)
		default:
			return errors.Unsupported(errors.PhaseDecode, layout.TypeName(t))
		}
	}

	bits, err := readScalar(mem, addr, info.Size)
	if err != nil {
		return err
	}
	return setScalar(t, info.Size, bits, v, path)
}

func (e *Encoder) decodeRecord(mem reprcheck.Memory, addr uint32, def *wit.TypeDef, info layout.Info, v reflect.Value, path []string) error {
	if v.Kind() != reflect.Struct {
		return errors.TypeMismatch(errors.PhaseDecode, path, v.Type().String(), layout.TypeName(def))
	}

	for _, m := range info.Members {
		fieldPath := append(append([]string{}, path...), m.Name)

		sf, ok := findGoField(v.Type(), m.Name)
		if !ok {
			return errors.FieldMissing(errors.PhaseDecode, path, m.Name)
		}

		if err := e.decodeValue(mem, addr+m.Offset, m.Type, m.Layout, v.FieldByIndex(sf.Index), fieldPath); err != nil {
			return err
		}
	}
	return nil
}

func setScalar(t wit.Type, width uint32, bits uint64, v reflect.Value, path []string) error {
	mismatch := func() error {
		return errors.TypeMismatch(errors.PhaseDecode, path, v.Type().String(), layout.TypeName(t))
	}

	switch t.(type) {
	case wit.Bool:
		if v.Kind() != reflect.Bool {
			return mismatch()
		}
		v.SetBool(bits != 0)
	case wit.U8, wit.U16, wit.U32, wit.U64:
		switch v.Kind() {
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
			if v.OverflowUint(bits) {
				return errors.Overflow(errors.PhaseDecode, path, bits, v.Type().String())
			}
			v.SetUint(bits)
		default:
			return mismatch()
		}
	case wit.S8, wit.S16, wit.S32, wit.S64, wit.Char:
		switch v.Kind() {
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
			n := signExtend(bits, width)
			if v.OverflowInt(n) {
				return errors.Overflow(errors.PhaseDecode, path, n, v.Type().String())
			}
			v.SetInt(n)
		default:
			return mismatch()
		}
	case wit.F32:
		if v.Kind() != reflect.Float32 && v.Kind() != reflect.Float64 {
			return mismatch()
		}
		v.SetFloat(float64(math.Float32frombits(uint32(bits))))
	case wit.F64:
		if v.Kind() != reflect.Float32 && v.Kind() != reflect.Float64 {
			return mismatch()
		}
		v.SetFloat(math.Float64frombits(bits))
	default:
		return errors.Unsupported(errors.PhaseDecode, layout.TypeName(t))
	}
	return nil
}

func signExtend(bits uint64, width uint32) int64 {
	shift := 64 - 8*width
	return int64(bits<<shift) >> shift
}
