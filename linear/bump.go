package linear

import (
	"github.com/wippyai/reprcheck"
	"github.com/wippyai/reprcheck/errors"
	"github.com/wippyai/reprcheck/internal/abi"
)

var _ reprcheck.Allocator = (*Bump)(nil)

// Bump is a bump allocator over linear memory. Address 0 is never handed out so
// that a zero pointer can mean "no allocation".
type Bump struct {
	mem   reprcheck.MemorySizer
	top   uint32
	count int
}

// NewBump creates an allocator over mem.
func NewBump(mem reprcheck.MemorySizer) *Bump {
	return &Bump{mem: mem, top: 8}
}

// Alloc returns an address aligned to align with size bytes available.
func (b *Bump) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	if !abi.IsPowerOfTwo(align) {
		return 0, errors.InvalidInput(errors.PhaseMemory, "alignment %d is not a power of two", align)
	}

	ptr, ok := abi.SafeAlignTo(b.top, align)
	if !ok {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
	}
	end, ok := abi.SafeAddU32(ptr, size)
	if !ok || end > b.mem.Size() {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
	}

	b.top = end
	b.count++
	return ptr, nil
}

// Free rewinds the allocator when ptr is the most recent allocation; other
// regions are reclaimed only by Reset.
func (b *Bump) Free(ptr, size, align uint32) {
	if ptr == 0 {
		return
	}
	if ptr+size == b.top {
		b.top = ptr
	}
	if b.count > 0 {
		b.count--
	}
}

// Reset releases every allocation.
func (b *Bump) Reset() {
	b.top = 8
	b.count = 0
}

// Live returns the number of allocations not yet freed.
func (b *Bump) Live() int {
	return b.count
}

// Fill sets n bytes at ptr to v.
func Fill(mem reprcheck.Memory, ptr, n uint32, v byte) error {
	if n == 0 {
		return nil
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = v
	}
	return mem.Write(ptr, buf)
}
