//go:build linux

package main

import (
	"github.com/axh-xecoy/process-api/process"
	"github.com/axh-xecoy/process-api/process_linux"
)

func openProcess(pid process.ProcessID) (process.Process, error) {
	p, err := process_linux.NewWithPID(pid)
	if err != nil {
		return nil, err
	}
	return p, nil
}
