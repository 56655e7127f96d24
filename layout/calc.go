package layout

import (
	"fmt"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/reprcheck/errors"
	"github.com/wippyai/reprcheck/internal/abi"
)

type cacheKey struct {
	def    *wit.TypeDef
	policy Policy
}

// Calculator computes and caches layouts for a single target.
// It is not safe for concurrent use.
type Calculator struct {
	cache  map[cacheKey]Info
	target Target
}

// NewCalculator returns a calculator for the LP64 target.
func NewCalculator() *Calculator {
	return NewCalculatorFor(LP64)
}

func NewCalculatorFor(target Target) *Calculator {
	return &Calculator{
		cache:  make(map[cacheKey]Info),
		target: target,
	}
}

// Target returns the data model the calculator was created for.
func (c *Calculator) Target() Target {
	return c.target
}

// Of computes the layout of t under p for the LP64 target.
func Of(t wit.Type, p Policy) (Info, error) {
	return NewCalculator().Calculate(t, p)
}

// Calculate returns alignment, size, stride and member offsets of t under p.
// Results for named and anonymous type definitions are cached per policy.
func (c *Calculator) Calculate(t wit.Type, p Policy) (Info, error) {
	if !p.Valid() {
		return Info{}, errors.InvalidInput(errors.PhaseLayout, "unknown layout policy %d", p)
	}
	return c.calculate(t, p, nil)
}

func (c *Calculator) calculate(t wit.Type, p Policy, path []string) (Info, error) {
	switch typ := t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		return c.scalar(1), nil
	case wit.U16, wit.S16:
		return c.scalar(2), nil
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return c.scalar(4), nil
	case wit.U64, wit.S64, wit.F64:
		return c.scalar(8), nil
	case *wit.TypeDef:
		return c.calculateTypeDef(typ, p, path)
	default:
		return Info{}, errors.New(errors.PhaseLayout, errors.KindUnsupported).
			Path(path...).
			Shape(TypeName(t)).
			Detail("only scalars and records have a fixed layout").
			Build()
	}
}

func (c *Calculator) scalar(size uint32) Info {
	align := c.target.scalarAlign(size)
	return Info{
		Align:  align,
		Size:   size,
		Stride: abi.AlignTo(size, align),
		End:    size,
	}
}

func (c *Calculator) calculateTypeDef(t *wit.TypeDef, p Policy, path []string) (Info, error) {
	key := cacheKey{def: t, policy: p}
	if cached, ok := c.cache[key]; ok {
		return cached, nil
	}

	var (
		info Info
		err  error
	)

	switch kind := t.Kind.(type) {
	case *wit.Record:
		info, err = c.calculateRecord(kind, p, path)
	case wit.Type:
		info, err = c.calculate(kind, p, path)
	default:
		err = errors.New(errors.PhaseLayout, errors.KindUnsupported).
			Path(path...).
			Shape(TypeName(t)).
			Detail("type definition kind %T", t.Kind).
			Build()
	}
	if err != nil {
		return Info{}, err
	}

	c.cache[key] = info
	return info, nil
}

func (c *Calculator) calculateRecord(r *wit.Record, p Policy, path []string) (Info, error) {
	if len(r.Fields) == 0 {
		return Info{Align: 1}, nil
	}

	members := make([]Member, 0, len(r.Fields))
	maxAlign := uint32(1)
	cursor := uint32(0)

	for _, field := range r.Fields {
		fieldPath := append(append([]string{}, path...), field.Name)

		fieldLayout, err := c.calculate(field.Type, p, fieldPath)
		if err != nil {
			return Info{}, err
		}

		offset, ok := abi.SafeAlignTo(cursor, fieldLayout.Align)
		if !ok {
			return Info{}, errors.Overflow(errors.PhaseLayout, fieldPath, cursor, "u32 offset")
		}

		extent := fieldLayout.Size
		if p == Strict {
			extent = fieldLayout.Stride
		}

		end, ok := abi.SafeAddU32(offset, extent)
		if !ok {
			return Info{}, errors.Overflow(errors.PhaseLayout, fieldPath, offset, "u32 offset")
		}

		members = append(members, Member{
			Type:   field.Type,
			Name:   field.Name,
			Layout: fieldLayout,
			Offset: offset,
			Extent: extent,
		})

		if fieldLayout.Align > maxAlign {
			maxAlign = fieldLayout.Align
		}
		cursor = end
	}

	stride, ok := abi.SafeAlignTo(cursor, maxAlign)
	if !ok {
		return Info{}, errors.Overflow(errors.PhaseLayout, path, cursor, "u32 stride")
	}

	size := cursor
	if p == Strict {
		size = stride
	}

	return Info{
		Members: members,
		Align:   maxAlign,
		Size:    size,
		Stride:  stride,
		End:     cursor,
	}, nil
}

// TypeName renders a short name for scalar and record shapes.
func TypeName(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return "typedef"
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%T", t)
	}
}
