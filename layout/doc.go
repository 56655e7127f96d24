// Package layout computes struct layouts for WIT record shapes under a pluggable
// layout policy.
//
// Two policies are provided:
//
//	TailPaddingReuse  an embedded record occupies only its size; a following
//	                  sibling may be placed in its tail padding (Swift layout)
//	Strict            an embedded record occupies its full stride; nothing is
//	                  laid out in its padding (C layout)
//
// For every shape the calculator reports alignment, size and stride, along with
// the offset of each member:
//
//	Shape                           Align  Size  Stride
//	─────────────────────────────────────────────────
//	inner{b u64, c u8}  TPR          8      9     16
//	inner{b u64, c u8}  Strict       8      16    16
//	outer{a, inner, d}  TPR          8      20    24
//	outer{a, inner, d}  Strict       8      32    32
//
// Under Strict, Size follows C sizeof semantics and equals Stride; the unpadded
// extent of the last member is reported in Info.End.
//
// # Usage
//
//	c := layout.NewCalculator()
//	info, err := c.Calculate(shapes.Outer(), layout.TailPaddingReuse)
//	r, _ := info.Region("d") // [18,20)
package layout
