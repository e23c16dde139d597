package convert

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"depthwall/internal/utils"

	"github.com/mauserzjeh/dxt"
	"github.com/pierrec/lz4/v4"
)

// Backgrounds repacked from Wallpaper Engine ship their image and depth
// map as .tex containers. We decode the first mipmap of the first image
// and hand it to the mesh builder like any other decoded image.

func readUint32(r io.Reader) uint32 {
	var v uint32
	binary.Read(r, binary.LittleEndian, &v)
	return v
}

func readFixedString(r io.Reader, n int) string {
	b := make([]byte, n)
	r.Read(b)
	return string(bytes.Trim(b, "\x00"))
}

// DecodeTexToImage decodes a TEXV0005 container into an RGBA image.
// Supported payloads: raw RGBA, DXT1, DXT5, R8 and RG88.
func DecodeTexToImage(path string) (image.Image, error) {
	utils.Debug("Convert: decoding texture %s", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	magic := readFixedString(f, 8)
	f.Seek(1, io.SeekCurrent)
	_ = readFixedString(f, 8)
	f.Seek(1, io.SeekCurrent)

	if magic != "TEXV0005" {
		return nil, fmt.Errorf("invalid magic: %s", magic)
	}

	format := readUint32(f)
	f.Seek(4, io.SeekCurrent)
	_ = readUint32(f)
	_ = readUint32(f)
	imgW := readUint32(f)
	imgH := readUint32(f)

	readUint32(f)
	containerMagic := readFixedString(f, 8)
	f.Seek(1, io.SeekCurrent)
	imageCount := readUint32(f)

	if containerMagic == "TEXB0003" {
		readUint32(f)
	}

	for i := uint32(0); i < imageCount; i++ {
		mipmapCount := readUint32(f)
		for j := uint32(0); j < mipmapCount; j++ {
			mipW := readUint32(f)
			mipH := readUint32(f)
			var isLZ4 bool
			var decompressedSize uint32
			if containerMagic != "TEXB0001" {
				isLZ4 = readUint32(f) == 1
				decompressedSize = readUint32(f)
			}
			dataSize := readUint32(f)
			data := make([]byte, dataSize)
			if _, err := io.ReadFull(f, data); err != nil {
				return nil, err
			}

			if i != 0 || j != 0 {
				continue
			}

			payload := data
			if isLZ4 {
				utils.Debug("Convert: LZ4 %d -> %d", dataSize, decompressedSize)
				decompressed := make([]byte, decompressedSize)
				if _, err := lz4.UncompressBlock(data, decompressed); err != nil {
					return nil, err
				}
				payload = decompressed
			}

			pix, err := decodePayload(payload, format, mipW, mipH)
			if err != nil {
				return nil, err
			}

			full := &image.RGBA{
				Pix:    pix,
				Stride: int(mipW * 4),
				Rect:   image.Rect(0, 0, int(mipW), int(mipH)),
			}
			// Mipmaps are padded to the block grid; crop back to the
			// declared image size.
			return full.SubImage(image.Rect(0, 0, int(imgW), int(imgH))), nil
		}
	}
	return nil, fmt.Errorf("no image found in texture")
}

func decodePayload(payload []byte, format, w, h uint32) ([]byte, error) {
	blocksW := (w + 3) / 4
	blocksH := (h + 3) / 4
	sizeDXT1 := blocksW * blocksH * 8
	sizeDXT5 := blocksW * blocksH * 16
	sizeRGBA := w * h * 4

	switch {
	case uint32(len(payload)) == sizeRGBA:
		utils.Debug("Convert: payload RGBA")
		return payload, nil
	case uint32(len(payload)) == sizeDXT5 || format == 6:
		utils.Debug("Convert: payload DXT5")
		return dxt.DecodeDXT5(payload, uint(w), uint(h))
	case uint32(len(payload)) == sizeDXT1 || format == 4 || format == 7:
		utils.Debug("Convert: payload DXT1")
		return dxt.DecodeDXT1(payload, uint(w), uint(h))
	case format == 9 && uint32(len(payload)) == sizeRGBA/4:
		// Single-channel depth maps land here.
		utils.Debug("Convert: payload R8")
		pix := make([]byte, sizeRGBA)
		for k := 0; k < int(w*h); k++ {
			v := payload[k]
			pix[k*4] = v
			pix[k*4+1] = v
			pix[k*4+2] = v
			pix[k*4+3] = 255
		}
		return pix, nil
	case format == 8 && uint32(len(payload)) == sizeRGBA/2:
		utils.Debug("Convert: payload RG88")
		pix := make([]byte, sizeRGBA)
		for k := 0; k < int(w*h); k++ {
			v := payload[k*2]
			pix[k*4] = v
			pix[k*4+1] = v
			pix[k*4+2] = v
			pix[k*4+3] = 255
		}
		return pix, nil
	}
	return nil, fmt.Errorf("unsupported format %d with size %d", format, len(payload))
}

// CacheTexture decodes a .tex file and writes the result as a PNG next
// to it (or under outDir when given), returning the PNG path. Already
// converted textures are reused.
func CacheTexture(path, outDir string) (string, error) {
	var pngPath string
	if outDir != "" {
		base := filepath.Base(path)
		pngPath = filepath.Join(outDir, strings.TrimSuffix(base, ".tex")+".png")
	} else {
		pngPath = strings.TrimSuffix(path, ".tex") + ".png"
	}

	if _, err := os.Stat(pngPath); err == nil {
		return pngPath, nil
	}

	img, err := DecodeTexToImage(path)
	if err != nil {
		return "", err
	}

	f, err := os.Create(pngPath)
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(pngPath)
		return "", err
	}
	return pngPath, f.Close()
}
