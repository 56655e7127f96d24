package native

import (
	"bytes"
	"reflect"
	"strings"
	"unsafe"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/reprcheck/errors"
	"github.com/wippyai/reprcheck/layout"
)

// CInner mirrors c_inner.
type CInner struct {
	B uint64 `wit:"b"`
	C uint8  `wit:"c"`
}

// COuter mirrors c_outer.
type COuter struct {
	A     uint32 `wit:"a"`
	Inner CInner `wit:"inner"`
	D     uint16 `wit:"d"`
}

// Layout is the layout of a native type. Go has no separate notion of size and
// stride: unsafe.Sizeof already includes tail padding.
type Layout struct {
	Align  uint32
	Size   uint32
	Stride uint32
}

// LayoutOf reports the native alignment, size and stride of T.
func LayoutOf[T any]() Layout {
	var v T
	size := uint32(unsafe.Sizeof(v))
	return Layout{
		Align:  uint32(unsafe.Alignof(v)),
		Size:   size,
		Stride: size,
	}
}

// Bytes returns a copy of the raw bytes of *v, including padding.
func Bytes[T any](v *T) []byte {
	if v == nil {
		return nil
	}
	n := unsafe.Sizeof(*v)
	return bytes.Clone(unsafe.Slice((*byte)(unsafe.Pointer(v)), n))
}

// Fields reports the scalar leaves of T with their native offsets.
func Fields[T any]() ([]layout.Field, error) {
	var out []layout.Field
	if err := collect(reflect.TypeFor[T](), "", 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collect(t reflect.Type, prefix string, base uintptr, out *[]layout.Field) error {
	if t.Kind() != reflect.Struct {
		return errors.TypeMismatch(errors.PhaseNative, []string{prefix}, t.String(), "record")
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		path := memberName(f)
		if prefix != "" {
			path = prefix + "." + path
		}
		if f.Type.Kind() == reflect.Struct {
			if err := collect(f.Type, path, base+f.Offset, out); err != nil {
				return err
			}
			continue
		}
		st, err := scalarShape(f.Type, path)
		if err != nil {
			return err
		}
		*out = append(*out, layout.Field{
			Type:   st,
			Path:   path,
			Offset: uint32(base + f.Offset),
			Size:   uint32(f.Type.Size()),
		})
	}
	return nil
}

// Offset returns the native byte range of a dotted member path of T.
func Offset[T any](path string) (layout.Range, bool) {
	t := reflect.TypeFor[T]()
	base := uintptr(0)
	var size uintptr
	for _, name := range strings.Split(path, ".") {
		if t.Kind() != reflect.Struct {
			return layout.Range{}, false
		}
		f, ok := fieldByMember(t, name)
		if !ok {
			return layout.Range{}, false
		}
		base += f.Offset
		size = f.Type.Size()
		t = f.Type
	}
	return layout.Range{Start: uint32(base), End: uint32(base + size)}, true
}

// ShapeOf derives the record shape a native struct corresponds to.
func ShapeOf[T any]() (*wit.TypeDef, error) {
	return shapeOf(reflect.TypeFor[T](), nil)
}

func shapeOf(t reflect.Type, path []string) (*wit.TypeDef, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.TypeMismatch(errors.PhaseNative, path, t.String(), "record")
	}

	fields := make([]wit.Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := memberName(f)
		fieldPath := append(append([]string{}, path...), name)

		var ft wit.Type
		if f.Type.Kind() == reflect.Struct {
			nested, err := shapeOf(f.Type, fieldPath)
			if err != nil {
				return nil, err
			}
			ft = nested
		} else {
			st, err := scalarShape(f.Type, name)
			if err != nil {
				return nil, err
			}
			ft = st
		}
		fields = append(fields, wit.Field{Name: name, Type: ft})
	}

	name := t.Name()
	return &wit.TypeDef{Name: &name, Kind: &wit.Record{Fields: fields}}, nil
}

func scalarShape(t reflect.Type, path string) (wit.Type, error) {
	switch t.Kind() {
	case reflect.Bool:
		return wit.Bool{}, nil
	case reflect.Uint8:
		return wit.U8{}, nil
	case reflect.Uint16:
		return wit.U16{}, nil
	case reflect.Uint32:
		return wit.U32{}, nil
	case reflect.Uint64:
		return wit.U64{}, nil
	case reflect.Int8:
		return wit.S8{}, nil
	case reflect.Int16:
		return wit.S16{}, nil
	case reflect.Int32:
		return wit.S32{}, nil
	case reflect.Int64:
		return wit.S64{}, nil
	case reflect.Float32:
		return wit.F32{}, nil
	case reflect.Float64:
		return wit.F64{}, nil
	default:
		return nil, errors.New(errors.PhaseNative, errors.KindUnsupported).
			Path(path).
			GoType(t.String()).
			Detail("no fixed-width scalar shape").
			Build()
	}
}

func memberName(f reflect.StructField) string {
	if tag := f.Tag.Get("wit"); tag != "" && tag != "-" {
		return tag
	}
	return f.Name
}

func fieldByMember(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); memberName(f) == name {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// Matches reports whether the native layout of T agrees with the strict layout
// computed for its derived shape.
func Matches[T any](c *layout.Calculator) (bool, error) {
	shape, err := ShapeOf[T]()
	if err != nil {
		return false, err
	}
	info, err := c.Calculate(shape, layout.Strict)
	if err != nil {
		return false, err
	}
	n := LayoutOf[T]()
	if n.Align != info.Align || n.Size != info.Size || n.Stride != info.Stride {
		return false, nil
	}

	fields, err := Fields[T]()
	if err != nil {
		return false, err
	}
	computed := info.Fields()
	if len(fields) != len(computed) {
		return false, nil
	}
	for i := range fields {
		if fields[i].Path != computed[i].Path || fields[i].Range() != computed[i].Range() {
			return false, nil
		}
	}
	return true, nil
}
