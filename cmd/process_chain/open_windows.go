//go:build windows

package main

import (
	"github.com/axh-xecoy/process-api/process"
	"github.com/axh-xecoy/process-api/process_windows"
)

func openProcess(pid process.ProcessID) (process.Process, error) {
	p, err := process_windows.NewWithPID(pid)
	if err != nil {
		return nil, err
	}
	return p, nil
}
