//go:build !linux && !windows

package main

import (
	"fmt"
	"runtime"

	"github.com/axh-xecoy/process-api/process"
)

func openProcess(pid process.ProcessID) (process.Process, error) {
	return nil, fmt.Errorf("opening live processes is not supported on %s, use --from", runtime.GOOS)
}
