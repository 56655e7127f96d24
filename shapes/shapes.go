// Package shapes defines the record shapes whose layouts are verified, and the Go
// values used as their representative instances.
package shapes

import (
	"go.bytecodealliance.org/wit"
)

// Inner is an instance of the inner record.
type Inner struct {
	B uint64 `wit:"b"`
	C uint8  `wit:"c"`
}

// Outer is an instance of the outer record, embedding Inner between two scalars.
type Outer struct {
	A     uint32 `wit:"a"`
	Inner Inner  `wit:"inner"`
	D     uint16 `wit:"d"`
}

var (
	innerShape = Record("inner",
		wit.Field{Name: "b", Type: wit.U64{}},
		wit.Field{Name: "c", Type: wit.U8{}},
	)
	outerShape = Record("outer",
		wit.Field{Name: "a", Type: wit.U32{}},
		wit.Field{Name: "inner", Type: innerShape},
		wit.Field{Name: "d", Type: wit.U16{}},
	)
)

// InnerShape returns record inner { b: u64, c: u8 }.
func InnerShape() *wit.TypeDef { return innerShape }

// OuterShape returns record outer { a: u32, inner: inner, d: u16 }.
func OuterShape() *wit.TypeDef { return outerShape }

// Record builds a named record type definition.
func Record(name string, fields ...wit.Field) *wit.TypeDef {
	return &wit.TypeDef{
		Name: &name,
		Kind: &wit.Record{Fields: fields},
	}
}

// SampleInner is the boundary instance used by the byte-pattern checks.
func SampleInner() Inner {
	return Inner{B: 0x0123456789abcdef, C: 0x01}
}

// SampleOuter embeds SampleInner.
func SampleOuter() Outer {
	return Outer{A: 0x13579bdf, Inner: SampleInner(), D: 0x37bf}
}
