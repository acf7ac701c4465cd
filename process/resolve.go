package process

import (
	"fmt"

	"github.com/Moonlight-Companies/gologger/logger"
)

// Resolve walks chain and returns the final address in the target.
//
// The first element is the starting address, wrapped to the address width of
// arch. For every following offset a pointer of arch.PointerSize() bytes is
// read at the current address and the offset is added to it. A single element
// chain is returned without touching mem.
//
// Example:
//
//	// [0x6A9EC0] -> p1, [p1+0x768] -> p2, result p2+0x5560
//	addr, err := process.Resolve(proc, process.ArchNative, process.OffsetChain{0x6A9EC0, 0x768, 0x5560})
func Resolve(mem MemoryReadWriter, arch Arch, chain OffsetChain) (ProcessMemoryAddress, error) {
	return resolve(mem, arch, chain, nil)
}

// ResolveDebug does the same as Resolve but logs every hop.
func ResolveDebug(mem MemoryReadWriter, arch Arch, chain OffsetChain, log *logger.Logger) (ProcessMemoryAddress, error) {
	if log == nil {
		return Resolve(mem, arch, chain)
	}

	log.Debugln("[chain]", chain.String(), "arch", arch.String())
	addr, err := resolve(mem, arch, chain, func(step int, at, ptr, next ProcessMemoryAddress) {
		log.Debugln(fmt.Sprintf("[chain] step %d: *(%#x) => %#x + %#x => %#x", step, uint64(at), uint64(ptr), uint64(chain[step]), uint64(next)))
	})
	if err != nil {
		log.Debugln("[chain] failed:", err)
		return 0, err
	}
	log.Debugln(fmt.Sprintf("[chain] resolved %#x", uint64(addr)))
	return addr, nil
}

type hopFunc func(step int, at, ptr, next ProcessMemoryAddress)

func resolve(mem MemoryReadWriter, arch Arch, chain OffsetChain, hop hopFunc) (ProcessMemoryAddress, error) {
	if err := chain.Validate(); err != nil {
		return 0, err
	}

	address := arch.Wrap(chain[0])
	size := arch.PointerSize()

	for i := 1; i < len(chain); i++ {
		data, err := mem.ReadMemory(address, ProcessMemorySize(size))
		if err == nil && len(data) < size {
			err = fmt.Errorf("%w: %d of %d bytes", ErrShortRead, len(data), size)
		}
		if err != nil {
			return 0, &MemoryAccessError{
				Stage:   StageDereference,
				Step:    i - 1,
				Address: address,
				Size:    size,
				Err:     err,
			}
		}

		ptr := arch.decodePointer(data)
		next := arch.Wrap(ptr + chain[i])
		if hop != nil {
			hop(i, address, ptr, next)
		}
		address = next
	}

	return address, nil
}
