package layout

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"
)

// Info is the computed layout of a shape under one policy.
type Info struct {
	Members []Member
	Align   uint32
	Size    uint32
	Stride  uint32
	// End is the end offset of the last occupied member region, before any rounding.
	End uint32
}

// Member is a direct field of a record.
type Member struct {
	Type   wit.Type
	Name   string
	Layout Info
	Offset uint32
	// Extent is the number of bytes the member reserves inside its parent.
	Extent uint32
}

// Region returns the bytes a member occupies, not including its reserved padding.
func (m Member) Region() Range {
	return Range{Start: m.Offset, End: m.Offset + m.Layout.Size}
}

// Field is a scalar leaf of a shape with its absolute offset.
type Field struct {
	Type   wit.Type
	Path   string
	Offset uint32
	Size   uint32
}

// Range returns the bytes the field occupies.
func (f Field) Range() Range {
	return Range{Start: f.Offset, End: f.Offset + f.Size}
}

// Range is a half-open byte range [Start, End).
type Range struct {
	Start uint32
	End   uint32
}

func (r Range) Len() uint32 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("%d..<%d", r.Start, r.End)
}

// Member looks up a direct member by name.
func (i Info) Member(name string) (Member, bool) {
	for _, m := range i.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// Region resolves a dotted member path ("inner.b") to its absolute byte range.
func (i Info) Region(path string) (Range, bool) {
	cur := i
	base := uint32(0)
	var m Member
	for _, name := range strings.Split(path, ".") {
		var ok bool
		m, ok = cur.Member(name)
		if !ok {
			return Range{}, false
		}
		base += m.Offset
		cur = m.Layout
	}
	return Range{Start: base, End: base + m.Layout.Size}, true
}

// Fields flattens the layout into scalar leaves in declaration order.
func (i Info) Fields() []Field {
	var out []Field
	i.collect("", 0, &out)
	return out
}

func (i Info) collect(prefix string, base uint32, out *[]Field) {
	for _, m := range i.Members {
		path := m.Name
		if prefix != "" {
			path = prefix + "." + m.Name
		}
		if len(m.Layout.Members) > 0 {
			m.Layout.collect(path, base+m.Offset, out)
			continue
		}
		if m.Layout.Size == 0 {
			continue
		}
		*out = append(*out, Field{
			Type:   m.Type,
			Path:   path,
			Offset: base + m.Offset,
			Size:   m.Layout.Size,
		})
	}
}

// Padding returns the byte ranges inside the stride that no scalar leaf covers.
func (i Info) Padding() []Range {
	covered := make([]bool, i.Stride)
	for _, f := range i.Fields() {
		for b := f.Offset; b < f.Offset+f.Size && b < i.Stride; b++ {
			covered[b] = true
		}
	}

	var out []Range
	for b := uint32(0); b < i.Stride; b++ {
		if covered[b] {
			continue
		}
		start := b
		for b < i.Stride && !covered[b] {
			b++
		}
		out = append(out, Range{Start: start, End: b})
	}
	return out
}
