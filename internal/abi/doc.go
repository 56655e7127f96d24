// Package abi provides internal utilities shared by the layout and encode packages.
//
// # Contents
//
//   - helpers.go: alignment arithmetic and overflow-checked offsets
//   - coerce.go: coercion of Go integer values into fixed-width unsigned scalars
package abi
