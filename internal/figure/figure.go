// Package figure materializes renderable images to disk so documents can
// reference them by relative path.
package figure

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
)

// Folder is the directory, relative to the document save directory, that
// holds generated figures.
const Folder = "figures"

// pngHeaderLen covers the 8-byte signature plus the IHDR chunk, which the
// encoder always emits first.
const pngHeaderLen = 8 + 4 + 4 + 13 + 4

// Saver writes figures under <dir>/figures. A dpi of 0 leaves the image's
// default resolution untouched.
type Saver struct {
	dir string
	dpi int
}

func NewSaver(dir string, dpi int) *Saver {
	if dir == "" {
		dir = "."
	}
	return &Saver{dir: dir, dpi: dpi}
}

// Save encodes the image as <name>.png under the figures folder and returns
// the path relative to the save directory.
func (s *Saver) Save(img image.Image, name string) (string, error) {
	if img == nil {
		return "", errors.New("figure: nil image")
	}
	if err := os.MkdirAll(filepath.Join(s.dir, Folder), 0755); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	data := buf.Bytes()
	if s.dpi > 0 {
		data = withDensity(data, s.dpi)
	}

	rel := filepath.Join(Folder, name+".png")
	if err := os.WriteFile(filepath.Join(s.dir, rel), data, 0644); err != nil {
		return "", err
	}
	return rel, nil
}

// withDensity inserts a pHYs chunk right after IHDR so viewers pick up the
// requested resolution. The stdlib encoder never writes one itself.
func withDensity(data []byte, dpi int) []byte {
	if len(data) < pngHeaderLen {
		return data
	}
	ppm := uint32(math.Round(float64(dpi) * 39.3701)) // pixels per metre

	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:4], 9)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], ppm)
	binary.BigEndian.PutUint32(chunk[12:16], ppm)
	chunk[16] = 1 // unit: metre
	binary.BigEndian.PutUint32(chunk[17:21], crc32.ChecksumIEEE(chunk[4:17]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:pngHeaderLen]...)
	out = append(out, chunk...)
	out = append(out, data[pngHeaderLen:]...)
	return out
}
