//go:build linux

package process_linux

import (
	"fmt"

	"github.com/axh-xecoy/process-api/process"

	"golang.org/x/sys/unix"
)

// process_vm_readv copies size bytes at remoteAddr in pid into a new buffer.
// The returned slice is cut to the number of bytes the kernel copied.
func process_vm_readv(pid process.ProcessID, remoteAddr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	localBuf := make([]byte, size)

	localIov := []unix.Iovec{{Base: &localBuf[0]}}
	localIov[0].SetLen(len(localBuf))

	remoteIov := []unix.RemoteIovec{{
		Base: uintptr(remoteAddr),
		Len:  int(size),
	}}

	n, err := unix.ProcessVMReadv(int(pid), localIov, remoteIov, 0)
	if err != nil {
		return nil, fmt.Errorf("process_vm_readv failed at 0x%x: %w", uint64(remoteAddr), err)
	}

	return localBuf[:n], nil
}

// ReadMemory reads size bytes at addr. A short copy is reported as ErrShortRead.
func (p *LinuxProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if size == 0 {
		return nil, process.ErrInvalidSize
	}

	// release the lock before the system call
	pid := p.GetPID()
	if pid == 0 {
		return nil, process.ErrProcessNotOpen
	}

	data, err := process_vm_readv(pid, addr, size)
	if err != nil {
		return nil, err
	}

	if len(data) != int(size) {
		return data, fmt.Errorf("%w: %d of %d bytes at 0x%x", process.ErrShortRead, len(data), size, uint64(addr))
	}

	return data, nil
}
