package process_blob

import (
	"fmt"
	"sync"

	"github.com/axh-xecoy/process-api/process"
	"github.com/axh-xecoy/process-api/process/memory_map"
)

// ProcessBlob is an in-memory address space made of mapped regions.
// It stands in for a live process: offset chains resolve against it and
// writes change its copy of the memory.
type ProcessBlob struct {
	mu    sync.RWMutex
	pid   process.ProcessID
	name  string
	mm    []memory_map.MemoryMapItem // sorted by address
	blobs map[uint64][]byte          // region address -> data
}

var _ process.Process = (*ProcessBlob)(nil)
var _ process.Saver = (*ProcessBlob)(nil)

func NewProcessBlob() *ProcessBlob {
	return &ProcessBlob{
		blobs: make(map[uint64][]byte),
	}
}

// Map adds a readable and writable region holding a copy of data
func (p *ProcessBlob) Map(addr process.ProcessMemoryAddress, data []byte) error {
	return p.MapRegion(memory_map.MemoryMapItem{
		Address: uint64(addr),
		Size:    uint(len(data)),
		Perms:   "rw-p",
	}, data)
}

// MapRegion adds a region described by item. data must be item.Size bytes long.
func (p *ProcessBlob) MapRegion(item memory_map.MemoryMapItem, data []byte) error {
	if item.Size == 0 || uint(len(data)) != item.Size {
		return fmt.Errorf("region at 0x%x: %w: %d bytes for size %d", item.Address, process.ErrInvalidSize, len(data), item.Size)
	}
	if item.End() < item.Address {
		return fmt.Errorf("region at 0x%x wraps the address space", item.Address)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, existing := range p.mm {
		if item.Address < existing.End() && existing.Address < item.End() {
			return fmt.Errorf("region at 0x%x overlaps %s", item.Address, existing.String())
		}
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	p.mm = append(p.mm, item)
	memory_map.Sort(p.mm)
	p.blobs[item.Address] = buf
	return nil
}

// SetIdentity records the pid and name written into snapshots
func (p *ProcessBlob) SetIdentity(pid process.ProcessID, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pid = pid
	p.name = name
}

func (p *ProcessBlob) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

func (p *ProcessBlob) Open(pid process.ProcessID) error {
	return fmt.Errorf("Open not supported for ProcessBlob, use Map or ProcessDump.Load")
}

func (p *ProcessBlob) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mm = nil
	p.blobs = make(map[uint64][]byte)
	return nil
}

func (p *ProcessBlob) GetPID() process.ProcessID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pid
}

// GetMemoryMap returns a copy of the mapped regions
func (p *ProcessBlob) GetMemoryMap() []memory_map.MemoryMapItem {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]memory_map.MemoryMapItem, len(p.mm))
	copy(result, p.mm)
	return result
}

// locate returns the backing slice for [addr, addr+size). Caller holds mu.
func (p *ProcessBlob) locate(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) (*memory_map.MemoryMapItem, []byte, error) {
	if size == 0 {
		return nil, nil, process.ErrInvalidSize
	}

	region := memory_map.Find(uint64(addr), p.mm)
	if region == nil {
		return nil, nil, fmt.Errorf("%w: 0x%x", process.ErrAddressNotMapped, uint64(addr))
	}

	data := p.blobs[region.Address]
	offset := uint64(addr) - region.Address
	end := offset + uint64(size)
	if end < offset || end > uint64(len(data)) {
		return nil, nil, fmt.Errorf("%w: 0x%x+%d crosses the end of region 0x%x", process.ErrAddressNotMapped, uint64(addr), size, region.Address)
	}

	return region, data[offset:end], nil
}

// ReadMemory returns a copy of size bytes at addr. The whole range must lie in one region.
func (p *ProcessBlob) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, window, err := p.locate(addr, size)
	if err != nil {
		return nil, err
	}

	result := make([]byte, len(window))
	copy(result, window)
	return result, nil
}

// WriteMemory stores data at addr. Nothing is written unless the whole range
// lies in one writable region.
func (p *ProcessBlob) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	region, window, err := p.locate(addr, process.ProcessMemorySize(len(data)))
	if err != nil {
		return err
	}
	if !region.IsWritable() {
		return fmt.Errorf("memory region at %x is not writable", region.Address)
	}

	copy(window, data)
	return nil
}

// Save writes the blob as a snapshot directory
func (p *ProcessBlob) Save(dirname string) error {
	p.mu.RLock()
	pid, name := p.pid, p.name
	p.mu.RUnlock()

	return SaveDump(dirname, pid, name, p.GetMemoryMap(), p, nil)
}
