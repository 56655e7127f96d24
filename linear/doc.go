// Package linear provides WebAssembly linear memory for observing raw layout bytes.
//
// A synthetic module that defines and exports a single memory is assembled in
// process and instantiated with wazero. The memory is wrapped to implement
// reprcheck.Memory, and a bump allocator hands out aligned regions of it.
//
//	lm, err := linear.New(ctx, 1)
//	defer lm.Close(ctx)
//	ptr, _ := lm.Alloc(24, 8)
//	_ = lm.Memory().WriteU32(ptr, 0x13579bdf)
package linear
