package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/Moonlight-Companies/gologger/logger"

	"github.com/axh-xecoy/process-api/hexdump"
	"github.com/axh-xecoy/process-api/process"
)

// access is one get or set: the chain, the --offset delta applied to its last
// element, and the hop logger when --debug is on
type access struct {
	pb    *process.ProcessBlock
	chain process.OffsetChain
	delta process.ProcessMemoryAddress
	log   *logger.Logger
}

// valueType reads and writes one --type at the end of a chain
type valueType struct {
	name  string
	read  func(a access) (string, error)
	write func(a access, value string) error
}

func typed[T any](name string, format func(T) string, parse func(string) (T, error)) valueType {
	return valueType{
		name: name,
		read: func(a access) (string, error) {
			block, err := process.Block[T](a.pb, a.chain...)
			if err != nil {
				return "", err
			}
			v, err := block.WithLogger(a.log).ReadWithOffset(a.delta)
			if err != nil {
				return "", err
			}
			return format(v), nil
		},
		write: func(a access, value string) error {
			v, err := parse(value)
			if err != nil {
				return fmt.Errorf("invalid %s value %q: %w", name, value, err)
			}
			block, err := process.Block[T](a.pb, a.chain...)
			if err != nil {
				return err
			}
			return block.WithLogger(a.log).WriteWithOffset(a.delta, v)
		},
	}
}

func unsigned[T uint8 | uint16 | uint32 | uint64](bits int) (func(T) string, func(string) (T, error)) {
	format := func(v T) string { return strconv.FormatUint(uint64(v), 10) }
	parse := func(s string) (T, error) {
		base := 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			base, s = 16, s[2:]
		}
		v, err := strconv.ParseUint(s, base, bits)
		return T(v), err
	}
	return format, parse
}

func signed[T int8 | int16 | int32 | int64](bits int) (func(T) string, func(string) (T, error)) {
	format := func(v T) string { return strconv.FormatInt(int64(v), 10) }
	parse := func(s string) (T, error) {
		v, err := strconv.ParseInt(s, 10, bits)
		return T(v), err
	}
	return format, parse
}

func floating[T float32 | float64](bits int) (func(T) string, func(string) (T, error)) {
	format := func(v T) string { return strconv.FormatFloat(float64(v), 'g', -1, bits) }
	parse := func(s string) (T, error) {
		v, err := strconv.ParseFloat(s, bits)
		return T(v), err
	}
	return format, parse
}

// parseValueType maps a --type name to its reader and writer. ptr follows the
// pointer width of arch.
func parseValueType(name string, arch process.Arch) (valueType, error) {
	switch name {
	case "u8":
		f, p := unsigned[uint8](8)
		return typed(name, f, p), nil
	case "u16":
		f, p := unsigned[uint16](16)
		return typed(name, f, p), nil
	case "u32":
		f, p := unsigned[uint32](32)
		return typed(name, f, p), nil
	case "u64":
		f, p := unsigned[uint64](64)
		return typed(name, f, p), nil
	case "i8":
		f, p := signed[int8](8)
		return typed(name, f, p), nil
	case "i16":
		f, p := signed[int16](16)
		return typed(name, f, p), nil
	case "i32":
		f, p := signed[int32](32)
		return typed(name, f, p), nil
	case "i64":
		f, p := signed[int64](64)
		return typed(name, f, p), nil
	case "f32":
		f, p := floating[float32](32)
		return typed(name, f, p), nil
	case "f64":
		f, p := floating[float64](64)
		return typed(name, f, p), nil
	case "bool":
		return typed(name, strconv.FormatBool, strconv.ParseBool), nil
	case "ptr":
		if arch.PointerSize() == 4 {
			_, p := unsigned[uint32](32)
			return typed(name, func(v uint32) string { return process.ProcessMemoryAddress(v).ToString() }, p), nil
		}
		_, p := unsigned[uint64](64)
		return typed(name, func(v uint64) string { return process.ProcessMemoryAddress(v).ToString() }, p), nil
	}

	if n, ok := strings.CutPrefix(name, "bytes:"); ok {
		size, err := strconv.Atoi(n)
		if err != nil || size <= 0 {
			return valueType{}, fmt.Errorf("invalid byte count in %q", name)
		}
		return rawBytes(name, size), nil
	}

	return valueType{}, fmt.Errorf("unknown type %q", name)
}

// rawBytes reads size bytes and prints them as a hex dump, writes take a hex string
func rawBytes(name string, size int) valueType {
	return valueType{
		name: name,
		read: func(a access) (string, error) {
			chain := a.chain.WithDelta(a.delta)
			addr, err := process.ResolveDebug(a.pb.Memory(), a.pb.Arch(), chain, a.log)
			if err != nil {
				return "", err
			}
			data, err := a.pb.Memory().ReadMemory(addr, process.ProcessMemorySize(size))
			if err != nil {
				return "", &process.MemoryAccessError{
					Stage:   process.StageFinalRead,
					Step:    len(chain) - 1,
					Address: addr,
					Size:    size,
					Err:     err,
				}
			}
			return strings.TrimSuffix(hexdump.DumpAt(data, uint64(addr)), "\n"), nil
		},
		write: func(a access, value string) error {
			data, err := hex.DecodeString(strings.ReplaceAll(value, " ", ""))
			if err != nil {
				return fmt.Errorf("invalid %s value %q: %w", name, value, err)
			}
			if len(data) != size {
				return fmt.Errorf("%s needs %d bytes, got %d", name, size, len(data))
			}
			chain := a.chain.WithDelta(a.delta)
			addr, err := process.ResolveDebug(a.pb.Memory(), a.pb.Arch(), chain, a.log)
			if err != nil {
				return err
			}
			if err := a.pb.Memory().WriteMemory(addr, data); err != nil {
				return &process.MemoryAccessError{
					Stage:   process.StageFinalWrite,
					Step:    len(chain) - 1,
					Address: addr,
					Size:    size,
					Err:     err,
				}
			}
			return nil
		},
	}
}
