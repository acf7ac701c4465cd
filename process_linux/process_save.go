//go:build linux

package process_linux

import (
	"fmt"
	"os"
	"strings"

	"github.com/axh-xecoy/process-api/process"
	"github.com/axh-xecoy/process-api/process_blob"
)

// Save snapshots the readable regions of the process into dirname
func (p *LinuxProcess) Save(dirname string) error {
	pid := p.GetPID()
	if pid == 0 {
		return process.ErrProcessNotOpen
	}

	mm, err := p.GetMemoryMap()
	if err != nil {
		return err
	}

	name, err := processName(pid)
	if err != nil {
		p.Logger().Warn("failed to read process name:", err)
		name = "unknown"
	}

	return process_blob.SaveDump(dirname, pid, name, mm, p, p.Logger())
}

// processName reads /proc/[pid]/comm
func processName(pid process.ProcessID) (string, error) {
	commData, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(commData), "\n"), nil
}
