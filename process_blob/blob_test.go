package process_blob_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/axh-xecoy/process-api/process"
	"github.com/axh-xecoy/process-api/process/memory_map"
	"github.com/axh-xecoy/process-api/process_blob"
)

func TestBlobReadWrite(t *testing.T) {
	blob := process_blob.NewProcessBlob()
	if err := blob.Map(0x1000, make([]byte, 0x100)); err != nil {
		t.Fatalf("Map: %v", err)
	}

	if err := blob.WriteMemory(0x1010, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("WriteMemory: %v", err)
	}
	got, err := blob.ReadMemory(0x100e, 8)
	if err != nil {
		t.Fatalf("ReadMemory: %v", err)
	}
	if diff := cmp.Diff([]byte{0, 0, 1, 2, 3, 4, 0, 0}, got); diff != "" {
		t.Errorf("ReadMemory mismatch (-want +got):\n%s", diff)
	}

	// returned bytes are a copy
	got[2] = 0xff
	again, _ := blob.ReadMemory(0x1010, 1)
	if again[0] != 1 {
		t.Errorf("ReadMemory aliases blob storage")
	}
}

func TestBlobBounds(t *testing.T) {
	blob := process_blob.NewProcessBlob()
	if err := blob.Map(0x1000, make([]byte, 0x10)); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if err := blob.Map(0x1010, make([]byte, 0x10)); err != nil {
		t.Fatalf("Map adjacent: %v", err)
	}

	tests := []struct {
		name string
		addr process.ProcessMemoryAddress
		size process.ProcessMemorySize
		want error
	}{
		{"before", 0xfff, 1, process.ErrAddressNotMapped},
		{"after", 0x1020, 1, process.ErrAddressNotMapped},
		{"crosses region boundary", 0x100c, 8, process.ErrAddressNotMapped},
		{"zero size", 0x1000, 0, process.ErrInvalidSize},
		{"last byte", 0x101f, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := blob.ReadMemory(tt.addr, tt.size)
			if !errors.Is(err, tt.want) && !(err == nil && tt.want == nil) {
				t.Errorf("ReadMemory(%#x, %d) error = %v; want %v", tt.addr, tt.size, err, tt.want)
			}
		})
	}
}

func TestBlobWriteIsAllOrNothing(t *testing.T) {
	blob := process_blob.NewProcessBlob()
	if err := blob.Map(0x1000, make([]byte, 0x10)); err != nil {
		t.Fatalf("Map: %v", err)
	}

	if err := blob.WriteMemory(0x100c, []byte{9, 9, 9, 9, 9, 9, 9, 9}); !errors.Is(err, process.ErrAddressNotMapped) {
		t.Fatalf("WriteMemory past end error = %v", err)
	}
	got, _ := blob.ReadMemory(0x100c, 4)
	if diff := cmp.Diff([]byte{0, 0, 0, 0}, got); diff != "" {
		t.Errorf("partial write leaked (-want +got):\n%s", diff)
	}
}

func TestBlobReadOnlyRegion(t *testing.T) {
	blob := process_blob.NewProcessBlob()
	item := memory_map.MemoryMapItem{Address: 0x2000, Size: 4, Perms: "r--p"}
	if err := blob.MapRegion(item, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("MapRegion: %v", err)
	}
	if err := blob.WriteMemory(0x2000, []byte{0}); err == nil {
		t.Errorf("write to read-only region succeeded")
	}
	if _, err := blob.ReadMemory(0x2000, 4); err != nil {
		t.Errorf("read of read-only region: %v", err)
	}
}

func TestBlobMapRejectsOverlap(t *testing.T) {
	blob := process_blob.NewProcessBlob()
	if err := blob.Map(0x1000, make([]byte, 0x10)); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if err := blob.Map(0x1008, make([]byte, 0x10)); err == nil {
		t.Errorf("overlapping Map succeeded")
	}
	if err := blob.Map(0x3000, nil); !errors.Is(err, process.ErrInvalidSize) {
		t.Errorf("empty Map error = %v; want ErrInvalidSize", err)
	}
}

// The blob stands in for a target process when walking offset chains.
func TestBlobResolvesChain(t *testing.T) {
	pointer := func(v uint64) []byte {
		return binary.NativeEndian.AppendUint64(nil, v)
	}

	blob := process_blob.NewProcessBlob()
	mustMap(t, blob, 0x6A9EC0, pointer(0x10000))
	mustMap(t, blob, 0x10768, pointer(0x20000))
	mustMap(t, blob, 0x25560, make([]byte, 4))

	pb := process.NewProcessBlock(blob, process.Arch64)
	gold, err := process.Block[uint32](pb, 0x6A9EC0, 0x768, 0x5560)
	if err != nil {
		t.Fatalf("Block: %v", err)
	}
	if err := gold.Write(4096); err != nil {
		t.Fatalf("Write: %v", err)
	}
	v, err := gold.Read()
	if err != nil || v != 4096 {
		t.Errorf("Read = %d, %v; want 4096", v, err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")

	blob := process_blob.NewProcessBlob()
	blob.SetIdentity(4242, "game.exe")
	mustMap(t, blob, 0x1000, bytes.Repeat([]byte{0xAB}, 0x20))
	mustMap(t, blob, 0x8000, []byte("hello world"))
	if err := blob.MapRegion(memory_map.MemoryMapItem{Address: 0x9000, Size: 4, Perms: "---p"}, make([]byte, 4)); err != nil {
		t.Fatalf("MapRegion: %v", err)
	}

	if err := blob.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	for _, name := range []string{"metadata.json", "process_memory_map.json", "blob_0x1000_32.bin", "blob_0x8000_11.bin"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "blob_0x9000_4.bin")); !os.IsNotExist(err) {
		t.Errorf("unreadable region was saved, stat err = %v", err)
	}

	dump, err := process_blob.LoadDump(dir)
	if err != nil {
		t.Fatalf("LoadDump: %v", err)
	}
	if dump.GetPID() != 4242 || dump.Name() != "game.exe" {
		t.Errorf("identity = %d %q", dump.GetPID(), dump.Name())
	}

	got, err := dump.ReadMemory(0x8000, 11)
	if err != nil {
		t.Fatalf("ReadMemory: %v", err)
	}
	if string(got) != "hello world" {
		t.Errorf("ReadMemory = %q", got)
	}

	// unsaved region is not mapped after load
	if _, err := dump.ReadMemory(0x9000, 1); !errors.Is(err, process.ErrAddressNotMapped) {
		t.Errorf("ReadMemory of unsaved region error = %v", err)
	}

	want := []memory_map.MemoryMapItem{
		{Address: 0x1000, Size: 0x20, Perms: "rw-p"},
		{Address: 0x8000, Size: 11, Perms: "rw-p"},
	}
	if diff := cmp.Diff(want, dump.GetMemoryMap()); diff != "" {
		t.Errorf("memory map mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := process_blob.LoadDump(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadDump error = %v; want ErrNotExist", err)
	}
}

func mustMap(t *testing.T, blob *process_blob.ProcessBlob, addr process.ProcessMemoryAddress, data []byte) {
	t.Helper()
	if err := blob.Map(addr, data); err != nil {
		t.Fatalf("Map(%#x): %v", addr, err)
	}
}
