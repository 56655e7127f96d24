// Package native provides the strict (C layout) shapes as native Go structs.
//
// The gc compiler lays struct fields out in declaration order, each at the next
// multiple of its alignment, and pads the struct to a multiple of its largest
// alignment. That is exactly C layout, so CInner and COuter mirror
//
//	typedef struct { uint64_t b; uint8_t c; } c_inner;
//	typedef struct { uint32_t a; c_inner inner; uint16_t d; } c_outer;
//
// and their layout and raw bytes can be observed directly through unsafe.
// Values are only meaningful on 64-bit little-endian hosts.
package native
