package process_blob

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"github.com/axh-xecoy/process-api/process"
	"github.com/axh-xecoy/process-api/process/memory_map"
)

const (
	metadataFile  = "metadata.json"
	memoryMapFile = "process_memory_map.json"

	// MaxRegionSize is the largest region SaveDump copies
	MaxRegionSize = 100 * 1024 * 1024
)

type dumpMetadata struct {
	PID  process.ProcessID `json:"pid"`
	Name string            `json:"name"`
}

func blobFilename(dirname string, region memory_map.MemoryMapItem) string {
	return filepath.Join(dirname, fmt.Sprintf("blob_0x%x_%d.bin", region.Address, region.Size))
}

// SaveDump writes a snapshot of mem to dirname: metadata.json,
// process_memory_map.json and one blob file per saved region. Regions that are
// not readable, larger than MaxRegionSize or fail to read are listed in the
// memory map but get no blob file.
func SaveDump(dirname string, pid process.ProcessID, name string, regions []memory_map.MemoryMapItem, mem process.MemoryReadWriter, log *logger.Logger) error {
	if log == nil {
		log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "process-dump"))
	}

	if err := os.MkdirAll(dirname, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	log.Infoln("Saving process to directory:", dirname)

	metadataJSON, err := json.MarshalIndent(dumpMetadata{PID: pid, Name: name}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, metadataFile), metadataJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	memoryMapJSON, err := json.MarshalIndent(regions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory map: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, memoryMapFile), memoryMapJSON, 0644); err != nil {
		return fmt.Errorf("failed to write memory map file: %w", err)
	}

	savedCount, skippedCount, errorCount := 0, 0, 0
	for _, region := range regions {
		if !region.IsReadable() {
			skippedCount++
			continue
		}

		if region.Size == 0 || region.Size > MaxRegionSize {
			log.Debugln("Skipping region at", fmt.Sprintf("%x", region.Address), "size", region.Size)
			skippedCount++
			continue
		}

		data, err := mem.ReadMemory(process.ProcessMemoryAddress(region.Address), process.ProcessMemorySize(region.Size))
		if err != nil {
			log.Debugln("Failed to read memory region at", fmt.Sprintf("%x", region.Address), ":", err)
			errorCount++
			continue
		}

		if err := os.WriteFile(blobFilename(dirname, region), data, 0644); err != nil {
			return fmt.Errorf("failed to write memory file for region at %x: %w", region.Address, err)
		}
		savedCount++
	}

	log.Infoln("Process dump saved:", savedCount, "regions saved,", skippedCount, "skipped,", errorCount, "errors")
	return nil
}

// ProcessDump is a ProcessBlob loaded from a snapshot directory
type ProcessDump struct {
	*ProcessBlob
	Dir string
}

// NewProcessDump creates an empty dump, populate it with Load
func NewProcessDump() *ProcessDump {
	return &ProcessDump{
		ProcessBlob: NewProcessBlob(),
	}
}

// LoadDump is NewProcessDump followed by Load
func LoadDump(dirname string) (*ProcessDump, error) {
	d := NewProcessDump()
	if err := d.Load(dirname); err != nil {
		return nil, err
	}
	return d, nil
}

// Load reads a snapshot written by SaveDump. Regions without a blob file are skipped.
func (d *ProcessDump) Load(dirname string) error {
	metadataBytes, err := os.ReadFile(filepath.Join(dirname, metadataFile))
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	var metadata dumpMetadata
	if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
		return fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	mmBytes, err := os.ReadFile(filepath.Join(dirname, memoryMapFile))
	if err != nil {
		return fmt.Errorf("failed to read memory map: %w", err)
	}

	var regions []memory_map.MemoryMapItem
	if err := json.Unmarshal(mmBytes, &regions); err != nil {
		return fmt.Errorf("failed to unmarshal memory map: %w", err)
	}

	blob := NewProcessBlob()
	blob.SetIdentity(metadata.PID, metadata.Name)

	for _, region := range regions {
		data, err := os.ReadFile(blobFilename(dirname, region))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read blob for region %x: %w", region.Address, err)
		}

		if err := blob.MapRegion(region, data); err != nil {
			return fmt.Errorf("failed to map region: %w", err)
		}
	}

	d.ProcessBlob = blob
	d.Dir = dirname
	return nil
}
