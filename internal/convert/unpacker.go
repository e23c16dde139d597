package convert

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"depthwall/internal/utils"
)

// BundleEntry is one file inside a .pkg bundle.
type BundleEntry struct {
	Name   string
	Offset uint32
	Size   uint32
}

func readBundleString(r io.Reader) (string, error) {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return "", err
	}
	if size > 1<<16 {
		return "", fmt.Errorf("implausible string length %d", size)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadBundleIndex parses a bundle's directory table: a version string,
// a file count, then name/offset/size triples. Offsets are relative to
// the end of the table.
func ReadBundleIndex(r io.ReadSeeker) ([]BundleEntry, int64, error) {
	version, err := readBundleString(r)
	if err != nil {
		return nil, 0, err
	}
	utils.Debug("Unpacker: bundle version %s", version)

	var fileCount uint32
	if err := binary.Read(r, binary.LittleEndian, &fileCount); err != nil {
		return nil, 0, err
	}

	entries := make([]BundleEntry, fileCount)
	for i := uint32(0); i < fileCount; i++ {
		name, err := readBundleString(r)
		if err != nil {
			return nil, 0, err
		}
		var offset, size uint32
		if err := binary.Read(r, binary.LittleEndian, &offset); err != nil {
			return nil, 0, err
		}
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, 0, err
		}
		entries[i] = BundleEntry{Name: name, Offset: offset, Size: size}
	}

	dataStart, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, err
	}
	return entries, dataStart, nil
}

// ExtractBundle unpacks a .pkg bundle into outputDir, preserving the
// bundle's internal paths.
func ExtractBundle(bundlePath, outputDir string) error {
	utils.Debug("Unpacker: opening bundle %s", bundlePath)
	f, err := os.Open(bundlePath)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, dataStart, err := ReadBundleIndex(f)
	if err != nil {
		return fmt.Errorf("bundle index: %w", err)
	}
	utils.Debug("Unpacker: %d files", len(entries))

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for i, entry := range entries {
		if i%10 == 0 || i == len(entries)-1 {
			utils.Debug("Unpacker: extracting %d/%d: %s", i+1, len(entries), entry.Name)
		}
		destPath := filepath.Join(outputDir, filepath.FromSlash(entry.Name))
		if !strings.HasPrefix(destPath, filepath.Clean(outputDir)+string(os.PathSeparator)) {
			return fmt.Errorf("entry %q escapes output directory", entry.Name)
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return err
		}

		if _, err := f.Seek(dataStart+int64(entry.Offset), io.SeekStart); err != nil {
			return err
		}

		out, err := os.Create(destPath)
		if err != nil {
			return err
		}
		_, err = io.CopyN(out, f, int64(entry.Size))
		out.Close()
		if err != nil {
			return err
		}
	}

	utils.Debug("Unpacker: extraction complete")
	return nil
}

// ConvertTextures converts every .tex under root to PNG in parallel.
// Individual failures are logged, not fatal.
func ConvertTextures(root, outDir string) {
	utils.Info("Converting textures under %s", root)
	var converted int32
	var wg sync.WaitGroup

	// Bounded so decompressed mipmaps don't pile up in memory.
	const maxConcurrency = 10
	sem := make(chan struct{}, maxConcurrency)

	if outDir != "" {
		os.MkdirAll(outDir, 0755)
	}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() && strings.HasSuffix(path, ".tex") {
			wg.Add(1)
			sem <- struct{}{}
			go func(p string) {
				defer wg.Done()
				defer func() { <-sem }()
				if _, err := CacheTexture(p, outDir); err != nil {
					utils.Error("Failed to convert %s: %v", p, err)
				} else {
					atomic.AddInt32(&converted, 1)
				}
			}(path)
		}
		return nil
	})
	if err != nil {
		utils.Error("Error walking %s: %v", root, err)
	}

	wg.Wait()
	utils.Info("Texture conversion finished, %d converted", converted)
}
