package metadata

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/text/encoding/charmap"

	"CipherScan/pkg/models"
)

const (
	// HiddenDataKey is the text key the image panel looks for
	HiddenDataKey = "HiddenData"

	// MsgNoHiddenData is reported when the key is absent
	MsgNoHiddenData = "No hidden data found in the image metadata."

	// CommentKey holds JPEG COM segments
	CommentKey = "comment"

	pngMagic = "\x89PNG\r\n\x1a\n"

	// chunks larger than this are skipped rather than buffered
	maxTextChunk = 16 << 20
)

var (
	// ErrNotImage is returned when the input is not a decodable image
	ErrNotImage = errors.New("not a supported image")

	errShortRead = errors.New("short read")
)

// ImageHiddenData looks up the HiddenData text entry of the image at path
func ImageHiddenData(path string) models.Lookup {
	record, err := ReadImageFile(path)
	if err != nil {
		return models.IOError(err)
	}
	if value, ok := record.Get(HiddenDataKey); ok {
		return models.Found(value)
	}
	return models.NotFound(MsgNoHiddenData)
}

// ReadImageFile reads the text metadata of the image at path
func ReadImageFile(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadImage(f)
}

// ReadImage reads PNG tEXt, zTXt and iTXt chunks or JPEG COM segments.
// Other image formats are accepted and yield an empty record.
func ReadImage(r io.Reader) (Record, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(8)

	switch {
	case string(head) == pngMagic:
		return readPNGText(br)
	case len(head) >= 2 && head[0] == 0xff && head[1] == 0xd8:
		return readJPEGComments(br)
	}

	if _, _, err := image.DecodeConfig(br); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return Record{}, nil
}

func readPNGText(r io.Reader) (Record, error) {
	if _, err := io.CopyN(io.Discard, r, int64(len(pngMagic))); err != nil {
		return nil, err
	}

	record := Record{}
	header := make([]byte, 8)
	for {
		if _, err := io.ReadFull(r, header); err != nil {
			// a stream cut after the last complete chunk still yields what was read
			if errors.Is(err, io.EOF) {
				return record, nil
			}
			return nil, fmt.Errorf("png chunk header: %w", err)
		}
		length := int64(binary.BigEndian.Uint32(header[:4]))
		kind := string(header[4:8])

		if kind == "IEND" {
			return record, nil
		}
		if !isTextChunk(kind) || length > maxTextChunk {
			// data plus CRC32
			if _, err := io.CopyN(io.Discard, r, length+4); err != nil {
				return nil, fmt.Errorf("png %s chunk: %w", kind, errShortRead)
			}
			continue
		}

		data := make([]byte, length+4)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("png %s chunk: %w", kind, errShortRead)
		}
		key, value, err := decodeTextChunk(kind, data[:length])
		if err != nil {
			// a damaged text chunk does not hide the others
			continue
		}
		record.Set(key, value)
	}
}

func isTextChunk(kind string) bool {
	return kind == "tEXt" || kind == "zTXt" || kind == "iTXt"
}

// decodeTextChunk returns the keyword and text of a PNG text chunk
func decodeTextChunk(kind string, data []byte) (string, string, error) {
	sep := bytes.IndexByte(data, 0)
	if sep < 1 {
		return "", "", errors.New("missing keyword")
	}
	key := latin1(data[:sep])
	rest := data[sep+1:]

	switch kind {
	case "tEXt":
		return key, latin1(rest), nil

	case "zTXt":
		// compression method byte, then a zlib stream
		if len(rest) < 1 || rest[0] != 0 {
			return "", "", errors.New("unknown compression method")
		}
		text, err := inflate(rest[1:])
		if err != nil {
			return "", "", err
		}
		return key, latin1(text), nil

	case "iTXt":
		// compression flag, compression method, language tag, translated keyword
		if len(rest) < 2 {
			return "", "", errShortRead
		}
		compressed := rest[0] == 1
		rest = rest[2:]
		for i := 0; i < 2; i++ {
			end := bytes.IndexByte(rest, 0)
			if end < 0 {
				return "", "", errShortRead
			}
			rest = rest[end+1:]
		}
		if compressed {
			text, err := inflate(rest)
			if err != nil {
				return "", "", err
			}
			return key, string(text), nil
		}
		return key, string(rest), nil
	}
	return "", "", fmt.Errorf("unexpected chunk %s", kind)
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(io.LimitReader(zr, maxTextChunk))
}

// readJPEGComments walks the marker segments up to the start of scan
func readJPEGComments(r io.Reader) (Record, error) {
	if _, err := io.CopyN(io.Discard, r, 2); err != nil {
		return nil, err
	}

	record := Record{}
	marker := make([]byte, 2)
	for {
		if _, err := io.ReadFull(r, marker[:1]); err != nil {
			return record, nil
		}
		if marker[0] != 0xff {
			return nil, fmt.Errorf("jpeg: expected marker, got %#x", marker[0])
		}
		// fill bytes
		for marker[0] == 0xff {
			if _, err := io.ReadFull(r, marker[:1]); err != nil {
				return record, nil
			}
		}
		code := marker[0]

		// standalone markers carry no length
		if code == 0x01 || (code >= 0xd0 && code <= 0xd7) {
			continue
		}
		if code == 0xd9 || code == 0xda {
			return record, nil
		}

		if _, err := io.ReadFull(r, marker); err != nil {
			return nil, fmt.Errorf("jpeg segment length: %w", errShortRead)
		}
		length := int64(binary.BigEndian.Uint16(marker)) - 2
		if length < 0 {
			return nil, errors.New("jpeg: invalid segment length")
		}

		if code != 0xfe {
			if _, err := io.CopyN(io.Discard, r, length); err != nil {
				return nil, fmt.Errorf("jpeg segment: %w", errShortRead)
			}
			continue
		}

		data := make([]byte, length)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("jpeg comment: %w", errShortRead)
		}
		if prev, ok := record.Get(CommentKey); ok {
			record.Set(CommentKey, prev+latin1(data))
		} else {
			record.Set(CommentKey, latin1(data))
		}
	}
}

func latin1(b []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}
