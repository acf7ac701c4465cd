package hexdump_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/axh-xecoy/process-api/hexdump"
)

func TestDump(t *testing.T) {
	options := hexdump.Options{
		BytesPerLine: 8,
		GroupSize:    1,
		ShowASCII:    true,
		StartOffset:  0x1000,
		OffsetWidth:  8,
	}

	got := hexdump.Dump([]byte("ABCDEFGH\x00"), options)
	want := "00001000  41 42 43 44  45 46 47 48  |ABCDEFGH|\n" +
		"00001008  00" + strings.Repeat(" ", 22) + "  |.|\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Dump mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpGroups(t *testing.T) {
	options := hexdump.Options{BytesPerLine: 8, GroupSize: 4}
	got := hexdump.Dump([]byte{0xde, 0xad, 0xbe, 0xef, 0, 1, 2, 3}, options)
	want := "00000000  deadbeef  00010203\n"
	if got != want {
		t.Errorf("Dump = %q; want %q", got, want)
	}
}

func TestDumpMaxLines(t *testing.T) {
	options := hexdump.DefaultOptions()
	options.MaxLines = 1
	got := hexdump.Dump(make([]byte, 40), options)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 2 || lines[1] != "... 24 more bytes" {
		t.Errorf("Dump lines = %q", lines)
	}
}

func TestDumpAtWideAddress(t *testing.T) {
	got := hexdump.DumpAt([]byte{0x7f}, 0x7ffd1c3f1000)
	if !strings.HasPrefix(got, "7ffd1c3f1000  7f") {
		t.Errorf("DumpAt = %q", got)
	}
}
