package vm

// Bus is the single contiguous physical memory region this simulator
// models. There is no MMU and no second region: every address an
// instruction touches is checked against [Origin, Origin+Size).
type Bus struct {
	Origin uint64
	Size   uint64
	ram    *memoryBuffer
}

// NewBus allocates a zero-filled region of size bytes starting at origin.
func NewBus(origin, size uint64) *Bus {
	return &Bus{Origin: origin, Size: size, ram: newMemoryBuffer(size)}
}

// LoadSegment copies src into the bus at paddr and zero-fills the
// remainder up to size bytes. The caller (the ELF loader) is responsible
// for ensuring paddr+size stays within the region; this is a bulk-load
// helper used before any hart starts executing, not a checked access.
func (b *Bus) LoadSegment(paddr uint64, src []byte, size uint64) {
	b.ram.loadSegment(paddr-b.Origin, src, size)
}

// aligned and inRegion implement the access discipline the reference memory
// model uses: alignment is checked before region membership. Unlike that
// reference, inRegion checks both the lower AND upper bound of the region
// (see spec.md §9's region-upper-bound note) — the original only ever
// compared paddr against the region's start.
func (b *Bus) aligned(paddr, width uint64) bool { return paddr%width == 0 }

func (b *Bus) inRegion(paddr, width uint64) bool {
	return paddr >= b.Origin && paddr+width <= b.Origin+b.Size
}

// Fetch reads a 4-byte instruction word. Fetch itself does not check
// alignment: Machine.Step validates pc against ILEN before calling it, and
// the debugger's step-over check calls it on the current pc as is. A fetch
// past the end of the region still faults.
func (b *Bus) Fetch(paddr uint64) (uint32, error) {
	if !b.inRegion(paddr, 4) {
		return 0, Trap{Kind: FetchAccessFault, Addr: paddr}
	}
	return b.ram.load32(paddr - b.Origin), nil
}

func (b *Bus) Read8(paddr uint64) (uint8, error) {
	if !b.inRegion(paddr, 1) {
		return 0, Trap{Kind: LoadAccessFault, Addr: paddr}
	}
	return b.ram.load8(paddr - b.Origin), nil
}

func (b *Bus) Read16(paddr uint64) (uint16, error) {
	if !b.aligned(paddr, 2) {
		return 0, Trap{Kind: MisalignedLoad, Addr: paddr}
	}
	if !b.inRegion(paddr, 2) {
		return 0, Trap{Kind: LoadAccessFault, Addr: paddr}
	}
	return b.ram.load16(paddr - b.Origin), nil
}

func (b *Bus) Read32(paddr uint64) (uint32, error) {
	if !b.aligned(paddr, 4) {
		return 0, Trap{Kind: MisalignedLoad, Addr: paddr}
	}
	if !b.inRegion(paddr, 4) {
		return 0, Trap{Kind: LoadAccessFault, Addr: paddr}
	}
	return b.ram.load32(paddr - b.Origin), nil
}

func (b *Bus) Read64(paddr uint64) (uint64, error) {
	if !b.aligned(paddr, 8) {
		return 0, Trap{Kind: MisalignedLoad, Addr: paddr}
	}
	if !b.inRegion(paddr, 8) {
		return 0, Trap{Kind: LoadAccessFault, Addr: paddr}
	}
	return b.ram.load64(paddr - b.Origin), nil
}

func (b *Bus) Write8(paddr uint64, val uint8) error {
	if !b.inRegion(paddr, 1) {
		return Trap{Kind: StoreAccessFault, Addr: paddr}
	}
	b.ram.store8(paddr-b.Origin, val)
	return nil
}

func (b *Bus) Write16(paddr uint64, val uint16) error {
	if !b.aligned(paddr, 2) {
		return Trap{Kind: MisalignedStore, Addr: paddr}
	}
	if !b.inRegion(paddr, 2) {
		return Trap{Kind: StoreAccessFault, Addr: paddr}
	}
	b.ram.store16(paddr-b.Origin, val)
	return nil
}

func (b *Bus) Write32(paddr uint64, val uint32) error {
	if !b.aligned(paddr, 4) {
		return Trap{Kind: MisalignedStore, Addr: paddr}
	}
	if !b.inRegion(paddr, 4) {
		return Trap{Kind: StoreAccessFault, Addr: paddr}
	}
	b.ram.store32(paddr-b.Origin, val)
	return nil
}

func (b *Bus) Write64(paddr uint64, val uint64) error {
	if !b.aligned(paddr, 8) {
		return Trap{Kind: MisalignedStore, Addr: paddr}
	}
	if !b.inRegion(paddr, 8) {
		return Trap{Kind: StoreAccessFault, Addr: paddr}
	}
	b.ram.store64(paddr-b.Origin, val)
	return nil
}
