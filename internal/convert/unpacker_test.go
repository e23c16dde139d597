package convert

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func writeBundleString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.LittleEndian, uint32(len(s)))
	buf.WriteString(s)
}

func buildBundle(files map[string][]byte, order []string) []byte {
	var index bytes.Buffer
	writeBundleString(&index, "PKGV0001")
	binary.Write(&index, binary.LittleEndian, uint32(len(order)))

	var data bytes.Buffer
	for _, name := range order {
		content := files[name]
		writeBundleString(&index, name)
		binary.Write(&index, binary.LittleEndian, uint32(data.Len()))
		binary.Write(&index, binary.LittleEndian, uint32(len(content)))
		data.Write(content)
	}

	return append(index.Bytes(), data.Bytes()...)
}

func TestReadBundleIndex(t *testing.T) {
	files := map[string][]byte{
		"scene/bg.jpg":      []byte("jpegdata"),
		"scene/bgd.webp":    []byte("depth"),
		"scene/config.json": []byte(`{"settings":{}}`),
	}
	order := []string{"scene/bg.jpg", "scene/bgd.webp", "scene/config.json"}
	raw := buildBundle(files, order)

	entries, dataStart, err := ReadBundleIndex(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadBundleIndex: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	wantOffset := uint32(0)
	for i, name := range order {
		entry := entries[i]
		if entry.Name != name {
			t.Errorf("entry %d name = %q, want %q", i, entry.Name, name)
		}
		if entry.Offset != wantOffset {
			t.Errorf("entry %d offset = %d, want %d", i, entry.Offset, wantOffset)
		}
		if entry.Size != uint32(len(files[name])) {
			t.Errorf("entry %d size = %d, want %d", i, entry.Size, len(files[name]))
		}
		payload := raw[dataStart+int64(entry.Offset) : dataStart+int64(entry.Offset)+int64(entry.Size)]
		if !bytes.Equal(payload, files[name]) {
			t.Errorf("entry %d payload = %q, want %q", i, payload, files[name])
		}
		wantOffset += entry.Size
	}
}

func TestReadBundleIndexTruncated(t *testing.T) {
	raw := buildBundle(map[string][]byte{"a.txt": []byte("x")}, []string{"a.txt"})
	for _, cut := range []int{0, 4, 10, len(raw) - len("x") - 9} {
		if _, _, err := ReadBundleIndex(bytes.NewReader(raw[:cut])); err == nil {
			t.Errorf("truncation at %d accepted", cut)
		}
	}
}

func TestExtractBundle(t *testing.T) {
	files := map[string][]byte{
		"bg.jpg":        []byte("image bytes"),
		"deep/bgd.webp": []byte("depth bytes"),
	}
	order := []string{"bg.jpg", "deep/bgd.webp"}

	dir := t.TempDir()
	bundlePath := filepath.Join(dir, "scene.pkg")
	if err := os.WriteFile(bundlePath, buildBundle(files, order), 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(dir, "out")
	if err := ExtractBundle(bundlePath, outDir); err != nil {
		t.Fatalf("ExtractBundle: %v", err)
	}

	for name, want := range files {
		got, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(name)))
		if err != nil {
			t.Fatalf("extracted file %s: %v", name, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestExtractBundleRejectsPathEscape(t *testing.T) {
	files := map[string][]byte{"../evil.txt": []byte("nope")}
	dir := t.TempDir()
	bundlePath := filepath.Join(dir, "scene.pkg")
	if err := os.WriteFile(bundlePath, buildBundle(files, []string{"../evil.txt"}), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ExtractBundle(bundlePath, filepath.Join(dir, "out")); err == nil {
		t.Fatal("bundle entry escaping the output directory was accepted")
	}
	if _, err := os.Stat(filepath.Join(dir, "evil.txt")); err == nil {
		t.Fatal("escaped file was written")
	}
}
