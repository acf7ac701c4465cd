package process

import (
	"fmt"
	"strings"
)

// ProcessMemoryAddress represents a memory address within a process
type ProcessMemoryAddress uint64

func (pma ProcessMemoryAddress) ToString() string {
	return fmt.Sprintf("0x%X", uint64(pma))
}

// ProcessMemorySize represents a size of memory region
type ProcessMemorySize uint

// OffsetChain is a multi-level pointer. The first element is an absolute
// address in the target process, every following element is added to the
// pointer read from the previous address.
type OffsetChain []ProcessMemoryAddress

// NewOffsetChain copies offsets into a new chain
func NewOffsetChain(offsets ...ProcessMemoryAddress) (OffsetChain, error) {
	if len(offsets) == 0 {
		return nil, ErrInvalidChain
	}
	chain := make(OffsetChain, len(offsets))
	copy(chain, offsets)
	return chain, nil
}

// Validate reports ErrInvalidChain for an empty chain
func (c OffsetChain) Validate() error {
	if len(c) == 0 {
		return ErrInvalidChain
	}
	return nil
}

// IsDirect is true for a single element chain, which needs no dereference
func (c OffsetChain) IsDirect() bool {
	return len(c) == 1
}

// Depth returns the number of pointer reads needed to resolve the chain
func (c OffsetChain) Depth() int {
	if len(c) == 0 {
		return 0
	}
	return len(c) - 1
}

// Clone returns a copy that shares no storage with c
func (c OffsetChain) Clone() OffsetChain {
	if c == nil {
		return nil
	}
	out := make(OffsetChain, len(c))
	copy(out, c)
	return out
}

// WithDelta returns a copy of the chain with delta added to the last element.
// The receiver is left untouched.
func (c OffsetChain) WithDelta(delta ProcessMemoryAddress) OffsetChain {
	out := c.Clone()
	if len(out) > 0 {
		out[len(out)-1] += delta
	}
	return out
}

func (c OffsetChain) String() string {
	parts := make([]string, len(c))
	for i, o := range c {
		parts[i] = o.ToString()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
