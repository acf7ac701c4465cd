package process

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unsafe"
)

// Arch selects the width of the intermediate pointers read while walking an
// OffsetChain. It has no effect on the width of the value at the end of the chain.
type Arch int

const (
	// ArchNative uses the pointer width of the running binary
	ArchNative Arch = iota
	// Arch32 reads 4 byte pointers and wraps addresses at 32 bits
	Arch32
	// Arch64 reads 8 byte pointers
	Arch64
)

const nativePointerSize = int(unsafe.Sizeof(uintptr(0)))

// PointerSize returns the number of bytes read per dereference
func (a Arch) PointerSize() int {
	switch a {
	case Arch32:
		return 4
	case Arch64:
		return 8
	default:
		return nativePointerSize
	}
}

// Wrap truncates addr to the address width of the architecture
func (a Arch) Wrap(addr ProcessMemoryAddress) ProcessMemoryAddress {
	if a.PointerSize() == 4 {
		return ProcessMemoryAddress(uint32(addr))
	}
	return addr
}

// decodePointer turns PointerSize() bytes in host byte order into an address
func (a Arch) decodePointer(data []byte) ProcessMemoryAddress {
	if a.PointerSize() == 4 {
		return ProcessMemoryAddress(binary.NativeEndian.Uint32(data))
	}
	return ProcessMemoryAddress(binary.NativeEndian.Uint64(data))
}

func (a Arch) String() string {
	switch a {
	case Arch32:
		return "x32"
	case Arch64:
		return "x64"
	case ArchNative:
		return fmt.Sprintf("native(x%d)", nativePointerSize*8)
	}
	return fmt.Sprintf("Arch(%d)", int(a))
}

// ParseArch maps a user supplied name onto an Arch
func ParseArch(s string) (Arch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native", "auto":
		return ArchNative, nil
	case "32", "x32", "x86", "386", "i386":
		return Arch32, nil
	case "64", "x64", "amd64", "x86_64", "arm64":
		return Arch64, nil
	}
	return ArchNative, fmt.Errorf("unknown architecture %q", s)
}
