package vm

import "encoding/binary"

// memoryBuffer is a flat, owned byte region. It has no knowledge of the
// physical address the Bus maps it at; offsets passed in are already
// relative to the start of the buffer.
//
// The reference implementation this simulator follows holds its RAM as a
// raw unsafe pointer and does unaligned reads/writes directly through it.
// A plain byte slice with encoding/binary gets the identical little-endian
// semantics without leaving memory safety up to the caller.
type memoryBuffer struct {
	data []byte
}

func newMemoryBuffer(size uint64) *memoryBuffer {
	return &memoryBuffer{data: make([]byte, size)}
}

func (b *memoryBuffer) load8(off uint64) uint8 { return b.data[off] }

func (b *memoryBuffer) load16(off uint64) uint16 {
	return binary.LittleEndian.Uint16(b.data[off : off+2])
}

func (b *memoryBuffer) load32(off uint64) uint32 {
	return binary.LittleEndian.Uint32(b.data[off : off+4])
}

func (b *memoryBuffer) load64(off uint64) uint64 {
	return binary.LittleEndian.Uint64(b.data[off : off+8])
}

func (b *memoryBuffer) store8(off uint64, val uint8) { b.data[off] = val }

func (b *memoryBuffer) store16(off uint64, val uint16) {
	binary.LittleEndian.PutUint16(b.data[off:off+2], val)
}

func (b *memoryBuffer) store32(off uint64, val uint32) {
	binary.LittleEndian.PutUint32(b.data[off:off+4], val)
}

func (b *memoryBuffer) store64(off uint64, val uint64) {
	binary.LittleEndian.PutUint64(b.data[off:off+8], val)
}

// loadSegment copies src into the buffer at off, then zero-fills the next
// (size-len(src)) bytes. Used by the ELF loader to materialize a PT_LOAD
// segment whose memsz exceeds its filesz (.bss).
func (b *memoryBuffer) loadSegment(off uint64, src []byte, size uint64) {
	n := copy(b.data[off:off+size], src)
	for i := n; i < int(size); i++ {
		b.data[off+uint64(i)] = 0
	}
}
