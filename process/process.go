// Package process provides typed access to the memory of another process
// through multi-level pointers.
package process

import (
	"errors"
	"fmt"
)

var (
	// ErrAddressNotMapped is returned when a memory address is not found within any mapped region of a process.
	ErrAddressNotMapped = errors.New("address not mapped")

	// ErrProcessNotOpen is returned when an operation requiring an open process is attempted
	// before the process has been successfully opened or after it has been closed.
	ErrProcessNotOpen = errors.New("process not open")

	// ErrInvalidChain is returned when an offset chain has no elements.
	ErrInvalidChain = errors.New("offset chain must contain at least one address")

	// ErrUnsupportedType is returned for value types without a fixed encoded size.
	ErrUnsupportedType = errors.New("value type has no fixed size")

	// ErrMemoryAccess is the kind shared by every MemoryAccessError.
	ErrMemoryAccess = errors.New("memory access failed")

	ErrShortRead   = errors.New("short read")
	ErrShortWrite  = errors.New("short write")
	ErrInvalidSize = errors.New("invalid transfer size")
)

// AccessStage names the point of a chain walk at which a foreign copy failed
type AccessStage int

const (
	// StageDereference is the read of an intermediate pointer
	StageDereference AccessStage = iota
	// StageFinalRead is the read of the value at the resolved address
	StageFinalRead
	// StageFinalWrite is the write of the value at the resolved address
	StageFinalWrite
)

func (s AccessStage) String() string {
	switch s {
	case StageDereference:
		return "dereference"
	case StageFinalRead:
		return "read"
	case StageFinalWrite:
		return "write"
	}
	return fmt.Sprintf("AccessStage(%d)", int(s))
}

// MemoryAccessError wraps a failure of the raw copy primitive with the
// position in the chain where it happened.
type MemoryAccessError struct {
	Stage   AccessStage
	Step    int // index of the chain element whose address was being accessed
	Address ProcessMemoryAddress
	Size    int
	Err     error
}

func (e *MemoryAccessError) Error() string {
	if e.Stage == StageDereference {
		return fmt.Sprintf("%v: dereference at step %d (addr=%#x, size=%d): %v", ErrMemoryAccess, e.Step, uint64(e.Address), e.Size, e.Err)
	}
	return fmt.Sprintf("%v: final %s at %#x (size=%d): %v", ErrMemoryAccess, e.Stage, uint64(e.Address), e.Size, e.Err)
}

func (e *MemoryAccessError) Unwrap() error {
	return e.Err
}

// Is makes every MemoryAccessError match ErrMemoryAccess
func (e *MemoryAccessError) Is(target error) bool {
	return target == ErrMemoryAccess
}

// IsChainBroken reports whether an intermediate pointer could not be read,
// as opposed to the final value.
func (e *MemoryAccessError) IsChainBroken() bool {
	return e.Stage == StageDereference
}
