package main

import (
	"fmt"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/urfave/cli"

	"github.com/axh-xecoy/process-api/process"
	"github.com/axh-xecoy/process-api/process_blob"
)

// session is the target opened from the global flags
type session struct {
	target process.Process
	pb     *process.ProcessBlock
	log    *logger.Logger
	debug  bool
}

func withSession(c *cli.Context, fn func(s *session) error) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.target.Close()

	return fn(s)
}

func openSession(c *cli.Context) (*session, error) {
	arch, err := process.ParseArch(c.GlobalString("arch"))
	if err != nil {
		return nil, err
	}

	var target process.Process
	switch {
	case c.GlobalString("from") != "":
		dump, err := process_blob.LoadDump(c.GlobalString("from"))
		if err != nil {
			return nil, err
		}
		target = dump
	case c.GlobalInt("pid") > 0:
		target, err = openProcess(process.ProcessID(c.GlobalInt("pid")))
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("either --pid or --from is required")
	}

	s := &session{
		target: target,
		pb:     process.NewProcessBlock(target, arch),
		log:    logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "process-chain")),
		debug:  c.GlobalBool("debug"),
	}
	if s.debug {
		s.log.Debugln("target", target.GetPID(), "arch", arch.String())
	}
	return s, nil
}

func (s *session) resolve(chain process.OffsetChain) (process.ProcessMemoryAddress, error) {
	if s.debug {
		return process.ResolveDebug(s.pb.Memory(), s.pb.Arch(), chain, s.log)
	}
	return s.pb.Resolve(chain...)
}

// bind ties a chain to the session, with the hop logger when --debug is on
func (s *session) bind(chain process.OffsetChain, delta process.ProcessMemoryAddress) access {
	a := access{pb: s.pb, chain: chain, delta: delta}
	if s.debug {
		a.log = s.log
	}
	return a
}
