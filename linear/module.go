package linear

const (
	sectionMemory = 0x05
	sectionExport = 0x07

	externMemory = 0x02

	// PageSize is the size of one WebAssembly memory page.
	PageSize = 65536
	// MaxPages is the largest page count a 32-bit memory can declare.
	MaxPages = 65536

	// ExportName is the name the synthesized memory is exported under.
	ExportName = "memory"
)

// MemoryModuleBuilder assembles a core module that defines one memory and exports it.
type MemoryModuleBuilder struct {
	exportName string
	minPages   uint32
	maxPages   uint32
	hasMax     bool
}

// NewMemoryModuleBuilder creates a builder for a memory of minPages pages.
func NewMemoryModuleBuilder(minPages uint32) *MemoryModuleBuilder {
	return &MemoryModuleBuilder{
		exportName: ExportName,
		minPages:   minPages,
	}
}

// SetMax caps the memory at maxPages pages.
func (b *MemoryModuleBuilder) SetMax(maxPages uint32) {
	b.maxPages = maxPages
	b.hasMax = true
}

// SetExportName overrides the export name.
func (b *MemoryModuleBuilder) SetExportName(name string) {
	b.exportName = name
}

// Build generates the WASM module bytes.
func (b *MemoryModuleBuilder) Build() []byte {
	var wasm []byte

	// Magic and version
	wasm = append(wasm, 0x00, 0x61, 0x73, 0x6d)
	wasm = append(wasm, 0x01, 0x00, 0x00, 0x00)

	memSection := b.buildMemorySection()
	wasm = append(wasm, sectionMemory)
	wasm = append(wasm, EncodeULEB128(uint32(len(memSection)))...)
	wasm = append(wasm, memSection...)

	exportSection := b.buildExportSection()
	wasm = append(wasm, sectionExport)
	wasm = append(wasm, EncodeULEB128(uint32(len(exportSection)))...)
	wasm = append(wasm, exportSection...)

	return wasm
}

func (b *MemoryModuleBuilder) buildMemorySection() []byte {
	section := []byte{0x01}
	if b.hasMax {
		section = append(section, 0x01)
		section = append(section, EncodeULEB128(b.minPages)...)
		section = append(section, EncodeULEB128(b.maxPages)...)
	} else {
		section = append(section, 0x00)
		section = append(section, EncodeULEB128(b.minPages)...)
	}
	return section
}

func (b *MemoryModuleBuilder) buildExportSection() []byte {
	section := []byte{0x01}
	section = append(section, EncodeULEB128(uint32(len(b.exportName)))...)
	section = append(section, []byte(b.exportName)...)
	section = append(section, externMemory, 0x00)
	return section
}
