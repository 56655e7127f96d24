package linear

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/reprcheck"
	"github.com/wippyai/reprcheck/errors"
)

// Linear owns a wazero runtime holding one instantiated memory module.
type Linear struct {
	runtime wazero.Runtime
	module  api.Module
	mem     *Wrapper
	alloc   *Bump
}

// New instantiates a memory of the given number of pages.
func New(ctx context.Context, pages uint32) (*Linear, error) {
	if pages == 0 || pages > MaxPages {
		return nil, errors.InvalidInput(errors.PhaseMemory, "page count %d out of range [1, %d]", pages, MaxPages)
	}

	wasmBytes := NewMemoryModuleBuilder(pages).Build()

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())

	compiled, err := rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.New(errors.PhaseMemory, errors.KindInstantiation).
			Detail("compile memory module").
			Cause(err).
			Build()
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.New(errors.PhaseMemory, errors.KindInstantiation).
			Detail("instantiate memory module").
			Cause(err).
			Build()
	}

	mem := WrapMemory(mod.ExportedMemory(ExportName))
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, errors.New(errors.PhaseMemory, errors.KindInstantiation).
			Detail("module does not export %q", ExportName).
			Build()
	}

	Logger().Debug("linear memory ready",
		zap.Uint32("pages", pages),
		zap.Uint32("bytes", mem.Size()),
	)

	return &Linear{
		runtime: rt,
		module:  mod,
		mem:     mem,
		alloc:   NewBump(mem),
	}, nil
}

// Memory returns the wrapped linear memory.
func (l *Linear) Memory() reprcheck.Memory {
	return l.mem
}

// Allocator returns the bump allocator over the memory.
func (l *Linear) Allocator() *Bump {
	return l.alloc
}

// Alloc is shorthand for Allocator().Alloc.
func (l *Linear) Alloc(size, align uint32) (uint32, error) {
	return l.alloc.Alloc(size, align)
}

// Size returns the memory size in bytes.
func (l *Linear) Size() uint32 {
	return l.mem.Size()
}

// Close releases the module and the runtime.
func (l *Linear) Close(ctx context.Context) error {
	return l.runtime.Close(ctx)
}
