package main

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/axh-xecoy/process-api/process"
)

func TestParseChain(t *testing.T) {
	tests := []struct {
		in      string
		want    process.OffsetChain
		wantErr error
	}{
		{in: "0x6A9EC0,0x768,0x5560", want: process.OffsetChain{0x6A9EC0, 0x768, 0x5560}},
		{in: "0x6A9EC0 -> 0x768 -> 0x5560", want: process.OffsetChain{0x6A9EC0, 0x768, 0x5560}},
		{in: "0x6a9ec0, 0x768", want: process.OffsetChain{0x6A9EC0, 0x768}},
		{in: "4096 16", want: process.OffsetChain{4096, 16}},
		{in: "0x1000", want: process.OffsetChain{0x1000}},
		{in: "", wantErr: process.ErrInvalidChain},
		{in: " , ", wantErr: process.ErrInvalidChain},
	}
	for _, tt := range tests {
		got, err := ParseChain(tt.in)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseChain(%q) error = %v; want %v", tt.in, err, tt.wantErr)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseChain(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseChainBadElement(t *testing.T) {
	for _, in := range []string{"0xZZ", "0x10,abc", "0x"} {
		if _, err := ParseChain(in); err == nil {
			t.Errorf("ParseChain(%q) succeeded", in)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want process.ProcessMemoryAddress
	}{
		{"0x10", 0x10},
		{"0X10", 0x10},
		{"16", 16},
		{"-0x10", 0xFFFFFFFFFFFFFFF0},
		{"-1", 0xFFFFFFFFFFFFFFFF},
	}
	for _, tt := range tests {
		got, err := parseNumber(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("parseNumber(%q) = %#x, %v; want %#x", tt.in, uint64(got), err, uint64(tt.want))
		}
	}
}
