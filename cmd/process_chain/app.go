package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/axh-xecoy/process-api/process"
)

const usage = `reads and writes values in another process by following multi-level pointer chains.
   A chain is written 0x6A9EC0,0x768,0x5560: the first element is an absolute address,
   every later element is added to the pointer read at the previous step.`

// NewApp builds the command line application
func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "process_chain"
	app.Usage = usage
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:   "pid, p",
			Usage:  "process id to open",
			EnvVar: "PROCESS_CHAIN_PID",
		},
		cli.StringFlag{
			Name:  "from, f",
			Usage: "use a snapshot directory written by save instead of a live process",
		},
		cli.StringFlag{
			Name:   "arch, a",
			Usage:  "pointer width of the target: native, x32 or x64",
			Value:  "native",
			EnvVar: "PROCESS_CHAIN_ARCH",
		},
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "log every hop of the chain",
		},
	}
	app.Commands = []cli.Command{
		resolveCommand,
		getCommand,
		setCommand,
		saveCommand,
	}

	return app
}

var valueFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "type, t",
		Value: "u32",
		Usage: "value type: u8 u16 u32 u64 i8 i16 i32 i64 f32 f64 ptr bool bytes:N",
	},
	cli.StringFlag{
		Name:  "offset, o",
		Usage: "delta added to the last element of the chain",
	},
}

var resolveCommand = cli.Command{
	Name:      "resolve",
	Usage:     "print the address a chain resolves to",
	ArgsUsage: "<chain>",
	Action: func(c *cli.Context) error {
		if err := checkArgs(c, 1); err != nil {
			return err
		}

		chain, err := ParseChain(c.Args().First())
		if err != nil {
			return err
		}

		return withSession(c, func(s *session) error {
			addr, err := s.resolve(chain)
			if err != nil {
				return err
			}
			fmt.Println(addr.ToString())
			return nil
		})
	},
}

var getCommand = cli.Command{
	Name:      "get",
	Usage:     "read the value at the end of a chain",
	ArgsUsage: "<chain>",
	Flags:     valueFlags,
	Action: func(c *cli.Context) error {
		if err := checkArgs(c, 1); err != nil {
			return err
		}

		chain, delta, vt, err := valueArgs(c)
		if err != nil {
			return err
		}

		return withSession(c, func(s *session) error {
			out, err := vt.read(s.bind(chain, delta))
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		})
	},
}

var setCommand = cli.Command{
	Name:      "set",
	Usage:     "write a value at the end of a chain",
	ArgsUsage: "<chain> <value>",
	Flags:     valueFlags,
	Action: func(c *cli.Context) error {
		if err := checkArgs(c, 2); err != nil {
			return err
		}

		chain, delta, vt, err := valueArgs(c)
		if err != nil {
			return err
		}

		return withSession(c, func(s *session) error {
			if err := vt.write(s.bind(chain, delta), c.Args().Get(1)); err != nil {
				return err
			}
			s.log.Infoln("wrote", c.Args().Get(1), "as", vt.name)
			return nil
		})
	},
}

var saveCommand = cli.Command{
	Name:      "save",
	Usage:     "snapshot the readable memory of the target into a directory",
	ArgsUsage: "<dir>",
	Action: func(c *cli.Context) error {
		if err := checkArgs(c, 1); err != nil {
			return err
		}

		return withSession(c, func(s *session) error {
			saver, ok := s.target.(process.Saver)
			if !ok {
				return fmt.Errorf("target does not support save")
			}
			return saver.Save(c.Args().First())
		})
	},
}

func checkArgs(c *cli.Context, expected int) error {
	if c.NArg() != expected {
		fmt.Printf("Incorrect Usage.\n\n")
		_ = cli.ShowCommandHelp(c, c.Command.Name)
		return fmt.Errorf("%s: %q requires exactly %d argument(s)", os.Args[0], c.Command.Name, expected)
	}
	return nil
}

// valueArgs parses the chain argument, --offset and --type of get and set
func valueArgs(c *cli.Context) (process.OffsetChain, process.ProcessMemoryAddress, valueType, error) {
	chain, err := ParseChain(c.Args().First())
	if err != nil {
		return nil, 0, valueType{}, err
	}

	var delta process.ProcessMemoryAddress
	if s := c.String("offset"); s != "" {
		delta, err = parseNumber(s)
		if err != nil {
			return nil, 0, valueType{}, fmt.Errorf("invalid offset %q: %w", s, err)
		}
	}

	arch, err := process.ParseArch(c.GlobalString("arch"))
	if err != nil {
		return nil, 0, valueType{}, err
	}

	vt, err := parseValueType(c.String("type"), arch)
	if err != nil {
		return nil, 0, valueType{}, err
	}
	return chain, delta, vt, nil
}
