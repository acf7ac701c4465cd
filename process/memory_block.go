package process

import (
	"fmt"

	"github.com/Moonlight-Companies/gologger/logger"
)

// MemoryBlock is a typed view of a value of type T that lives at the end of an
// offset chain in another process. The chain is re-walked on every access so
// the block keeps working when the target relocates the structures on the path.
//
// A MemoryBlock is immutable and may be shared between goroutines.
type MemoryBlock[T any] struct {
	mem   MemoryReadWriter
	arch  Arch
	chain OffsetChain
	size  int
	log   *logger.Logger // hop trace, nil for none
}

// NewMemoryBlock binds mem, arch and a copy of offsets to the value type T.
// It fails with ErrInvalidChain for an empty chain and ErrUnsupportedType when
// T has no fixed size. No memory is accessed.
func NewMemoryBlock[T any](mem MemoryReadWriter, arch Arch, offsets ...ProcessMemoryAddress) (*MemoryBlock[T], error) {
	chain, err := NewOffsetChain(offsets...)
	if err != nil {
		return nil, err
	}

	size, err := valueSize[T]()
	if err != nil {
		return nil, err
	}

	return &MemoryBlock[T]{
		mem:   mem,
		arch:  arch,
		chain: chain,
		size:  size,
	}, nil
}

// MustMemoryBlock is like NewMemoryBlock but panics on error
func MustMemoryBlock[T any](mem MemoryReadWriter, arch Arch, offsets ...ProcessMemoryAddress) *MemoryBlock[T] {
	b, err := NewMemoryBlock[T](mem, arch, offsets...)
	if err != nil {
		panic(err)
	}
	return b
}

// WithLogger returns a copy of the block that logs every hop of its chain walks
// through log, the same trace ResolveDebug writes. A nil log turns tracing off.
func (b *MemoryBlock[T]) WithLogger(log *logger.Logger) *MemoryBlock[T] {
	c := *b
	c.log = log
	return &c
}

// Chain returns a copy of the offset chain
func (b *MemoryBlock[T]) Chain() OffsetChain {
	return b.chain.Clone()
}

func (b *MemoryBlock[T]) Arch() Arch {
	return b.arch
}

// Size is the number of bytes transferred per Read or Write
func (b *MemoryBlock[T]) Size() int {
	return b.size
}

// Address resolves the chain without touching the value
func (b *MemoryBlock[T]) Address() (ProcessMemoryAddress, error) {
	return b.resolve(b.chain)
}

func (b *MemoryBlock[T]) resolve(chain OffsetChain) (ProcessMemoryAddress, error) {
	return ResolveDebug(b.mem, b.arch, chain, b.log)
}

// Read resolves the chain and reads the value at the resulting address
func (b *MemoryBlock[T]) Read() (T, error) {
	return b.read(b.chain)
}

// Write resolves the chain and writes v at the resulting address
func (b *MemoryBlock[T]) Write(v T) error {
	return b.write(b.chain, v)
}

// ReadWithOffset reads a T at delta bytes past the address the block points to.
// Only the last link of the chain is shifted.
func (b *MemoryBlock[T]) ReadWithOffset(delta ProcessMemoryAddress) (T, error) {
	return b.read(b.chain.WithDelta(delta))
}

// WriteWithOffset writes v at delta bytes past the address the block points to.
func (b *MemoryBlock[T]) WriteWithOffset(delta ProcessMemoryAddress, v T) error {
	return b.write(b.chain.WithDelta(delta), v)
}

func (b *MemoryBlock[T]) read(chain OffsetChain) (T, error) {
	var zero T

	addr, err := b.resolve(chain)
	if err != nil {
		return zero, err
	}

	data, err := b.mem.ReadMemory(addr, ProcessMemorySize(b.size))
	if err == nil && len(data) < b.size {
		err = fmt.Errorf("%w: %d of %d bytes", ErrShortRead, len(data), b.size)
	}
	if err != nil {
		return zero, &MemoryAccessError{
			Stage:   StageFinalRead,
			Step:    len(chain) - 1,
			Address: addr,
			Size:    b.size,
			Err:     err,
		}
	}

	return decodeValue[T](data, b.size)
}

func (b *MemoryBlock[T]) write(chain OffsetChain, v T) error {
	data, err := encodeValue(v, b.size)
	if err != nil {
		return err
	}

	addr, err := b.resolve(chain)
	if err != nil {
		return err
	}

	if err := b.mem.WriteMemory(addr, data); err != nil {
		return &MemoryAccessError{
			Stage:   StageFinalWrite,
			Step:    len(chain) - 1,
			Address: addr,
			Size:    b.size,
			Err:     err,
		}
	}
	return nil
}
