// Package encode writes Go values into linear memory following a computed layout
// and reads them back.
//
// Only scalar leaves are written. Padding, including an embedded record's tail
// padding, is never touched, so a sibling that the tail-padding-reuse policy placed
// there is never clobbered by writing the record before it.
//
// Go struct fields are matched to record members by: 1) wit:"name" tag,
// 2) case-insensitive name, 3) kebab-case name.
//
// # Observing bytes
//
//	raw, err := encode.BytesOf(ctx, shapes.OuterShape(), layout.TailPaddingReuse, shapes.SampleOuter())
//	// raw has stride bytes; padding holds the scrub byte (0xAA by default)
package encode
