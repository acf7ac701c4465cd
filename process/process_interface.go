package process

// MemoryReadWriter is the raw copy primitive over a foreign address space.
// Both operations transfer the whole extent or fail; a partial transfer is
// reported as an error.
type MemoryReadWriter interface {
	// ReadMemory reads exactly size bytes at addr
	ReadMemory(addr ProcessMemoryAddress, size ProcessMemorySize) ([]byte, error)

	// WriteMemory writes all of data at addr
	WriteMemory(addr ProcessMemoryAddress, data []byte) error
}

// Process is a handle to a target process granting read and write access to its memory
type Process interface {
	// Open opens a process with the given PID for memory operations
	Open(pid ProcessID) error

	// Close closes the process and releases resources
	Close() error

	// GetPID returns the process ID
	GetPID() ProcessID

	MemoryReadWriter
}

// Saver is implemented by handles that can write a snapshot of their memory to disk
type Saver interface {
	Save(dirname string) error
}
