//go:build linux

package process_linux

import (
	"fmt"

	"github.com/axh-xecoy/process-api/process"

	"golang.org/x/sys/unix"
)

// process_vm_writev copies data to remoteAddr in pid and returns the number of bytes written
func process_vm_writev(pid process.ProcessID, remoteAddr process.ProcessMemoryAddress, data []byte) (int, error) {
	localIov := []unix.Iovec{{Base: &data[0]}}
	localIov[0].SetLen(len(data))

	remoteIov := []unix.RemoteIovec{{
		Base: uintptr(remoteAddr),
		Len:  len(data),
	}}

	n, err := unix.ProcessVMWritev(int(pid), localIov, remoteIov, 0)
	if err != nil {
		return 0, fmt.Errorf("process_vm_writev failed at 0x%x: %w", uint64(remoteAddr), err)
	}

	return n, nil
}

// WriteMemory writes data at addr. Read-only mappings fail with EFAULT.
func (p *LinuxProcess) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	if len(data) == 0 {
		return process.ErrInvalidSize
	}

	pid := p.GetPID()
	if pid == 0 {
		return process.ErrProcessNotOpen
	}

	// the caller may reuse data while the kernel copies it
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	written, err := process_vm_writev(pid, addr, dataCopy)
	if err != nil {
		return err
	}

	if written != len(data) {
		return fmt.Errorf("%w: %d of %d bytes at 0x%x", process.ErrShortWrite, written, len(data), uint64(addr))
	}

	return nil
}
