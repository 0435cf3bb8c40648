package workbench

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/require"
)

func msgBits(msg string) []uint8 {
	var bits []uint8
	for _, b := range []byte(msg) {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1)
		}
	}
	return bits
}

func savePNG(t *testing.T, path string, img image.Image) string {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

// lsbPNG hides msg in the R, G, B least significant bits of an otherwise even image
func lsbPNG(t *testing.T, dir, msg string) string {
	t.Helper()
	bits := msgBits(msg)
	w := 8
	h := len(bits)/(w*3) + 1
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	i := 0
	next := func() uint8 {
		v := uint8(100)
		if i < len(bits) {
			v |= bits[i]
		}
		i++
		return v
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: next(), G: next(), B: next(), A: 255})
		}
	}
	return savePNG(t, filepath.Join(dir, "lsb.png"), img)
}

// hiddenPNG writes a PNG carrying a HiddenData tEXt chunk
func hiddenPNG(t *testing.T, dir, value string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	raw := buf.Bytes()

	data := append([]byte("HiddenData\x00"), value...)
	var chunk bytes.Buffer
	binary.Write(&chunk, binary.BigEndian, uint32(len(data)))
	chunk.WriteString("tEXt")
	chunk.Write(data)
	binary.Write(&chunk, binary.BigEndian, crc32.ChecksumIEEE(append([]byte("tEXt"), data...)))

	// signature and IHDR come first
	out := append([]byte{}, raw[:33]...)
	out = append(out, chunk.Bytes()...)
	out = append(out, raw[33:]...)

	path := filepath.Join(dir, "hidden.png")
	require.NoError(t, os.WriteFile(path, out, 0644))
	return path
}

// squarePNG is black with a white square covering [20,30) on both axes
func squarePNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 50, 50))
	for y := 20; y < 30; y++ {
		for x := 20; x < 30; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return savePNG(t, filepath.Join(dir, "square.png"), img)
}

// messagePDF writes a one-page PDF, adding info properties when props is not empty
func messagePDF(t *testing.T, dir string, props map[string]string) string {
	t.Helper()
	plain := filepath.Join(dir, "plain.pdf")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()
	pdf.Cell(40, 10, "quarterly figures")
	require.NoError(t, pdf.OutputFileAndClose(plain))

	if len(props) == 0 {
		return plain
	}
	tagged := filepath.Join(dir, "tagged.pdf")
	require.NoError(t, api.AddPropertiesFile(plain, tagged, props, nil))
	return tagged
}

// hiddenWAV writes an 8-bit mono file whose sample LSBs spell msg
func hiddenWAV(t *testing.T, dir, msg string) string {
	t.Helper()
	path := filepath.Join(dir, "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	var data []int
	for _, bit := range msgBits(msg) {
		data = append(data, int(0x80|bit))
	}

	enc := gowav.NewEncoder(f, 8000, 8, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: 8,
	}))
	require.NoError(t, enc.Close())
	return path
}
