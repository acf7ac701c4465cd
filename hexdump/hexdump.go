// Package hexdump renders foreign memory as address-labelled hex lines.
package hexdump

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Options controls the layout of a dump
type Options struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// GroupSize defines the grouping of bytes (usually 1, 2, 4, or 8)
	GroupSize int

	// ShowASCII appends the printable characters of each line
	ShowASCII bool

	// StartOffset is printed for the first byte, usually the address the data was read from
	StartOffset uint64

	// OffsetWidth is the minimum width of the offset column in hex digits
	OffsetWidth int

	// MaxLines is the maximum number of lines to show (0 for no limit)
	MaxLines int
}

// DefaultOptions returns the default hexdump options
func DefaultOptions() Options {
	return Options{
		BytesPerLine: 16,
		GroupSize:    1,
		ShowASCII:    true,
		OffsetWidth:  8,
	}
}

// Dump creates a hex dump of the given data with specified options
func Dump(data []byte, options Options) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// DumpAt is Dump with default options and the offset column starting at addr
func DumpAt(data []byte, addr uint64) string {
	options := DefaultOptions()
	options.StartOffset = addr
	return Dump(data, options)
}

// DumpToWriter writes a hex dump of the given data to the specified writer
func DumpToWriter(writer io.Writer, data []byte, options Options) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.GroupSize <= 0 {
		options.GroupSize = 1
	}
	if options.OffsetWidth <= 0 {
		options.OffsetWidth = 8
	}

	// short lines are padded to the width of a full one so the ASCII column lines up
	hexWidth := len(formatHex(make([]byte, options.BytesPerLine), options))

	lineCount := 0
	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		if options.MaxLines > 0 && lineCount >= options.MaxLines {
			fmt.Fprintf(writer, "... %d more bytes\n", len(data)-offset)
			break
		}

		end := min(offset+options.BytesPerLine, len(data))
		line := data[offset:end]

		fmt.Fprintf(writer, "%0*x  %-*s", options.OffsetWidth, options.StartOffset+uint64(offset), hexWidth, formatHex(line, options))
		if options.ShowASCII {
			fmt.Fprintf(writer, "  |%s|", formatASCII(line))
		}
		fmt.Fprintln(writer)

		lineCount++
	}
}

// formatHex joins the bytes of one line, groups are separated by a space and
// the two halves of a line by an extra one
func formatHex(data []byte, options Options) string {
	var sb strings.Builder
	for i, b := range data {
		if i > 0 {
			if i%options.GroupSize == 0 {
				sb.WriteByte(' ')
			}
			if options.BytesPerLine >= 8 && i == options.BytesPerLine/2 {
				sb.WriteByte(' ')
			}
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}

func formatASCII(data []byte) string {
	out := make([]byte, len(data))
	for i, b := range data {
		if b >= 0x20 && b < 0x7f {
			out[i] = b
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}
