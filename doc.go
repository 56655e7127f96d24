// Package reprcheck verifies struct layouts under two layout policies.
//
// It computes alignment, size, stride and member offsets of record shapes under a
// tail-padding-reuse policy (Swift layout) and a strict policy (C layout), writes
// representative instances into WebAssembly linear memory to observe their raw
// bytes, and asserts all of it against expected literals.
//
// # Architecture Overview
//
//	reprcheck/          Root package with core Memory and Allocator interfaces
//	├── layout/         Layout policies and the layout calculator
//	├── shapes/         The inner and outer record shapes and their instances
//	├── native/         Native Go (C layout) structs and unsafe introspection
//	├── linear/         wazero-backed linear memory and bump allocator
//	├── encode/         Writes instances into linear memory following a layout
//	├── verify/         Pure comparisons, the check suite and reports
//	├── errors/         Structured error types
//	└── cmd/reprcheck/  Command line entry point
//
// # Quick Start
//
//	report, err := verify.DefaultSuite(verify.Options{}).Run(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !report.OK() {
//		log.Fatal(report.Err())
//	}
//
// Bytes at padding positions are unspecified and are never compared.
package reprcheck
