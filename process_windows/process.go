//go:build windows

package process_windows

import (
	"errors"
	"fmt"
	"sync"

	"github.com/axh-xecoy/process-api/process"
	"github.com/axh-xecoy/process-api/process/memory_map"
	"github.com/axh-xecoy/process-api/process_blob"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"golang.org/x/sys/windows"
)

const PROCESS_ALL_ACCESS = 0x1F0FFF

// WindowsProcess implements process.Process through a process handle
type WindowsProcess struct {
	pid    process.ProcessID
	handle windows.Handle
	log    *logger.Logger
	mu     sync.Mutex
}

var _ process.Process = (*WindowsProcess)(nil)
var _ process.Saver = (*WindowsProcess)(nil)

// New creates a WindowsProcess that is not attached to any pid yet
func New() *WindowsProcess {
	return &WindowsProcess{
		log: logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open")),
	}
}

// NewWithPID creates a WindowsProcess and opens it with the given PID
func NewWithPID(pid process.ProcessID) (*WindowsProcess, error) {
	p := New()
	if err := p.Open(pid); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *WindowsProcess) Open(pid process.ProcessID) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}

	handle, err := windows.OpenProcess(PROCESS_ALL_ACCESS, false, uint32(pid))
	if err != nil {
		return fmt.Errorf("OpenProcess failed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle != 0 {
		windows.CloseHandle(p.handle)
	}

	p.pid = pid
	p.handle = handle
	p.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid)))
	p.log.Infoln("Process opened")

	return nil
}

func (p *WindowsProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle != 0 {
		if err := windows.CloseHandle(p.handle); err != nil {
			return fmt.Errorf("CloseHandle failed: %w", err)
		}
		p.handle = 0
		p.log.Infoln("Process closed")
	}

	p.pid = 0
	p.log = logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open"))

	return nil
}

func (p *WindowsProcess) GetPID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

func (p *WindowsProcess) current() (windows.Handle, *logger.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle, p.log
}

// GetMemoryMap lists the committed regions of the process
func (p *WindowsProcess) GetMemoryMap() ([]memory_map.MemoryMapItem, error) {
	handle, _ := p.current()
	if handle == 0 {
		return nil, process.ErrProcessNotOpen
	}
	return memory_map.NewWindowsMemoryMap().ReadMemoryMap(handle)
}

// ReadMemory reads size bytes at addr. A partial copy is reported as ErrShortRead.
func (p *WindowsProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if size == 0 {
		return nil, process.ErrInvalidSize
	}

	handle, _ := p.current()
	if handle == 0 {
		return nil, process.ErrProcessNotOpen
	}

	buf := make([]byte, size)
	var bytesRead uintptr
	err := windows.ReadProcessMemory(handle, uintptr(addr), &buf[0], uintptr(size), &bytesRead)
	if err != nil && !(errors.Is(err, windows.ERROR_PARTIAL_COPY) && bytesRead > 0) {
		return nil, fmt.Errorf("ReadProcessMemory failed at 0x%x: %w", uint64(addr), err)
	}

	if bytesRead != uintptr(size) {
		return buf[:bytesRead], fmt.Errorf("%w: %d of %d bytes at 0x%x", process.ErrShortRead, bytesRead, size, uint64(addr))
	}

	return buf, nil
}

// WriteMemory writes data at addr
func (p *WindowsProcess) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	if len(data) == 0 {
		return process.ErrInvalidSize
	}

	handle, _ := p.current()
	if handle == 0 {
		return process.ErrProcessNotOpen
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	var written uintptr
	err := windows.WriteProcessMemory(handle, uintptr(addr), &dataCopy[0], uintptr(len(dataCopy)), &written)
	if err != nil && !(errors.Is(err, windows.ERROR_PARTIAL_COPY) && written > 0) {
		return fmt.Errorf("WriteProcessMemory failed at 0x%x: %w", uint64(addr), err)
	}

	if written != uintptr(len(data)) {
		return fmt.Errorf("%w: %d of %d bytes at 0x%x", process.ErrShortWrite, written, len(data), uint64(addr))
	}

	return nil
}

// Save snapshots the committed readable regions of the process into dirname
func (p *WindowsProcess) Save(dirname string) error {
	handle, log := p.current()
	if handle == 0 {
		return process.ErrProcessNotOpen
	}

	mm, err := p.GetMemoryMap()
	if err != nil {
		return fmt.Errorf("failed to read memory map: %w", err)
	}

	name, err := processName(handle)
	if err != nil {
		log.Warn("Failed to read process name: ", err)
		name = "unknown"
	}

	return process_blob.SaveDump(dirname, p.GetPID(), name, mm, p, log)
}

// processName returns the base name of the executable behind handle
func processName(handle windows.Handle) (string, error) {
	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(handle, 0, &buf[0], &size); err != nil {
		return "", err
	}

	path := windows.UTF16ToString(buf[:size])
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '\\' || path[i] == '/' {
			return path[i+1:], nil
		}
	}
	return path, nil
}
