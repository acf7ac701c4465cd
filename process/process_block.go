package process

// ProcessBlock ties a process handle to the pointer width used for its chains
// and hands out MemoryBlocks that share the handle.
type ProcessBlock struct {
	mem  MemoryReadWriter
	arch Arch
}

// NewProcessBlock wraps mem. The handle is not owned, closing it stays with the caller.
func NewProcessBlock(mem MemoryReadWriter, arch Arch) *ProcessBlock {
	return &ProcessBlock{mem: mem, arch: arch}
}

func (pb *ProcessBlock) Arch() Arch {
	return pb.arch
}

func (pb *ProcessBlock) Memory() MemoryReadWriter {
	return pb.mem
}

// Resolve walks offsets against the wrapped handle
func (pb *ProcessBlock) Resolve(offsets ...ProcessMemoryAddress) (ProcessMemoryAddress, error) {
	return Resolve(pb.mem, pb.arch, OffsetChain(offsets))
}

// Block creates a MemoryBlock for a T at the end of offsets, sharing the handle of pb
func Block[T any](pb *ProcessBlock, offsets ...ProcessMemoryAddress) (*MemoryBlock[T], error) {
	return NewMemoryBlock[T](pb.mem, pb.arch, offsets...)
}

// MustBlock is like Block but panics on error
func MustBlock[T any](pb *ProcessBlock, offsets ...ProcessMemoryAddress) *MemoryBlock[T] {
	return MustMemoryBlock[T](pb.mem, pb.arch, offsets...)
}
