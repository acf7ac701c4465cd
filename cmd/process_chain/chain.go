package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/axh-xecoy/process-api/process"
)

// ParseChain reads a chain such as "0x6A9EC0,0x768,0x5560" or
// "0x6A9EC0 -> 0x768 -> 0x5560". Elements are hex with a 0x prefix or decimal.
func ParseChain(s string) (process.OffsetChain, error) {
	fields := strings.FieldsFunc(strings.ReplaceAll(s, "->", ","), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	offsets := make([]process.ProcessMemoryAddress, 0, len(fields))
	for _, field := range fields {
		v, err := parseNumber(field)
		if err != nil {
			return nil, fmt.Errorf("invalid chain element %q: %w", field, err)
		}
		offsets = append(offsets, v)
	}

	return process.NewOffsetChain(offsets...)
}

// parseNumber accepts 0x hex or decimal, a leading '-' gives the two's complement
func parseNumber(s string) (process.ProcessMemoryAddress, error) {
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}

	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, err
	}
	if negative {
		v = -v
	}
	return process.ProcessMemoryAddress(v), nil
}
