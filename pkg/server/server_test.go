package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CipherScan/pkg/config"
	"CipherScan/pkg/workbench"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer() *Server {
	conf := config.Default()
	conf.Image.Payloads = false
	return New(workbench.New(conf), conf.Server)
}

func upload(t *testing.T, srv *Server, target, name string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if name != "" {
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeOutcome(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// lsbImage spells "Hi" in the channel LSBs of eight pixels
func lsbImage() image.Image {
	var bits []uint8
	for _, b := range []byte("Hi") {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1)
		}
	}
	bit := func(i int) uint8 {
		if i < len(bits) {
			return bits[i]
		}
		return 0
	}

	img := image.NewNRGBA(image.Rect(0, 0, 8, 1))
	for x := 0; x < 8; x++ {
		img.SetNRGBA(x, 0, color.NRGBA{R: 100 | bit(3*x), G: 100 | bit(3*x+1), B: 100 | bit(3*x+2), A: 255})
	}
	return img
}

func squareImage() image.Image {
	img := image.NewGray(image.Rect(0, 0, 50, 50))
	for y := 20; y < 30; y++ {
		for x := 20; x < 30; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return img
}

func pdfBytes(t *testing.T, props map[string]string) []byte {
	t.Helper()
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.pdf")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()
	pdf.Cell(40, 10, "minutes")
	require.NoError(t, pdf.OutputFileAndClose(plain))

	path := plain
	if len(props) > 0 {
		path = filepath.Join(dir, "tagged.pdf")
		require.NoError(t, api.AddPropertiesFile(plain, path, props, nil))
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func wavBytes(t *testing.T, msg string) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	var data []int
	for _, b := range []byte(msg) {
		for i := 7; i >= 0; i-- {
			data = append(data, int(0x80|(b>>uint(i))&1))
		}
	}
	enc := gowav.NewEncoder(f, 8000, 8, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: 8,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return raw
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeOutcome(t, rec)["status"])
}

func TestFormats(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/formats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Formats []workbench.FormatSupport `json:"formats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	byFormat := map[string]workbench.FormatSupport{}
	for _, f := range body.Formats {
		byFormat[f.Format] = f
	}
	assert.Contains(t, byFormat["pdf"].Analyzers, "Metadata Analyzer")
	assert.Contains(t, byFormat["wav"].Extractors, "WAV LSB Extractor")
}

func TestTheme(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/theme?mode=night", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeOutcome(t, rec)
	assert.Equal(t, "night", body["mode"])
	assert.Equal(t, "day", body["toggle"])

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/theme?mode=sepia", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImageAnalyze(t *testing.T) {
	rec := upload(t, newTestServer(), "/api/v1/image/analyze", "hi.png", pngBytes(t, lsbImage()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decodeOutcome(t, rec)
	assert.Equal(t, "image", out["panel"])
	lines := out["lines"].([]interface{})
	assert.Equal(t, "LSB: Hi", lines[0])
}

func TestImageAnalyzeRejectsGarbage(t *testing.T) {
	rec := upload(t, newTestServer(), "/api/v1/image/analyze", "hi.png", []byte("nope"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "error", decodeOutcome(t, rec)["level"])
}

func TestMissingUpload(t *testing.T) {
	rec := upload(t, newTestServer(), "/api/v1/pdf/analyze", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImageHiddenAbsent(t *testing.T) {
	rec := upload(t, newTestServer(), "/api/v1/image/hidden?report=pdf", "plain.png", pngBytes(t, lsbImage()))
	require.Equal(t, http.StatusOK, rec.Code)

	out := decodeOutcome(t, rec)
	assert.Equal(t, "warning", out["level"])
	assert.Equal(t, "No hidden data found in the image metadata.", out["message"])
}

func TestPDFAnalyzeAndClean(t *testing.T) {
	srv := newTestServer()
	data := pdfBytes(t, map[string]string{"Message": "meet at noon"})

	rec := upload(t, srv, "/api/v1/pdf/analyze", "doc.pdf", data)
	require.Equal(t, http.StatusOK, rec.Code)
	lines := decodeOutcome(t, rec)["lines"].([]interface{})
	assert.Contains(t, lines[0], "Hidden message found: meet at noon")

	rec = upload(t, srv, "/api/v1/pdf/clean", "doc.pdf", data)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Cleaned_PDF.pdf")
	assert.Equal(t, "Cleaned PDF saved at: Cleaned_PDF.pdf", rec.Header().Get(HeaderMessage))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestWatermark(t *testing.T) {
	srv := newTestServer()

	rec := upload(t, srv, "/api/v1/watermark", "square.png", pngBytes(t, squareImage()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "1", rec.Header().Get(HeaderRegions))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 50, 50), img.Bounds())

	rec = upload(t, srv, "/api/v1/watermark?format=json", "square.png", pngBytes(t, squareImage()))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"watermarked_detected.png"}, decodeOutcome(t, rec)["files"])
}

func TestAudioDecode(t *testing.T) {
	srv := newTestServer()
	data := wavBytes(t, "Hi")

	rec := upload(t, srv, "/api/v1/audio/decode", "clip.wav", data)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []interface{}{"Decoded Text: Hi"}, decodeOutcome(t, rec)["lines"])

	rec = upload(t, srv, "/api/v1/audio/decode?report=pdf", "clip.wav", data)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Decoded text saved to PDF: decoded_text.pdf", rec.Header().Get(HeaderMessage))
}

func TestScan(t *testing.T) {
	rec := upload(t, newTestServer(), "/api/v1/scan", "clip.wav", wavBytes(t, "Hi"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decodeOutcome(t, rec)
	assert.Equal(t, "wav", out["format"])
	assert.Equal(t, "clip.wav", out["path"])
	assert.NotEmpty(t, out["extractions"])
}

func TestScanUnsupported(t *testing.T) {
	rec := upload(t, newTestServer(), "/api/v1/scan", "notes.txt", []byte("just words here"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHeaderSafe(t *testing.T) {
	assert.Equal(t, "a b", headerSafe("a\nb"))
	assert.Equal(t, "Saved at: out.pdf", headerSafe("Saved at: "+filepath.Join("tmp", "x", "out.pdf")))
	assert.Equal(t, "LSB: Hi", headerSafe("LSB: Hi"))
}
