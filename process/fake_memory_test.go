package process_test

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/axh-xecoy/process-api/process"
)

var errUnmapped = errors.New("unmapped")

type memCall struct {
	Op   string
	Addr process.ProcessMemoryAddress
	Size int
}

// fakeMemory is a byte-addressed sparse address space that records every call
type fakeMemory struct {
	bytes map[process.ProcessMemoryAddress]byte
	fail  map[process.ProcessMemoryAddress]error
	calls []memCall
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{
		bytes: make(map[process.ProcessMemoryAddress]byte),
		fail:  make(map[process.ProcessMemoryAddress]error),
	}
}

func (m *fakeMemory) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	m.calls = append(m.calls, memCall{Op: "read", Addr: addr, Size: int(size)})
	if err, ok := m.fail[addr]; ok {
		return nil, err
	}
	out := make([]byte, size)
	for i := range out {
		b, ok := m.bytes[addr+process.ProcessMemoryAddress(i)]
		if !ok {
			return nil, fmt.Errorf("%w: %#x", errUnmapped, uint64(addr)+uint64(i))
		}
		out[i] = b
	}
	return out, nil
}

func (m *fakeMemory) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	m.calls = append(m.calls, memCall{Op: "write", Addr: addr, Size: len(data)})
	if err, ok := m.fail[addr]; ok {
		return err
	}
	for i := range data {
		if _, ok := m.bytes[addr+process.ProcessMemoryAddress(i)]; !ok {
			return fmt.Errorf("%w: %#x", errUnmapped, uint64(addr)+uint64(i))
		}
	}
	for i, b := range data {
		m.bytes[addr+process.ProcessMemoryAddress(i)] = b
	}
	return nil
}

// mapZero makes size bytes at addr readable and writable
func (m *fakeMemory) mapZero(addr process.ProcessMemoryAddress, size int) {
	for i := 0; i < size; i++ {
		m.bytes[addr+process.ProcessMemoryAddress(i)] = 0
	}
}

func (m *fakeMemory) put(addr process.ProcessMemoryAddress, data []byte) {
	for i, b := range data {
		m.bytes[addr+process.ProcessMemoryAddress(i)] = b
	}
}

// putPointer stores ptr at addr with the width of arch
func (m *fakeMemory) putPointer(arch process.Arch, addr, ptr process.ProcessMemoryAddress) {
	buf := make([]byte, arch.PointerSize())
	if arch.PointerSize() == 4 {
		binary.NativeEndian.PutUint32(buf, uint32(ptr))
	} else {
		binary.NativeEndian.PutUint64(buf, uint64(ptr))
	}
	m.put(addr, buf)
}

func (m *fakeMemory) reset() {
	m.calls = nil
}
