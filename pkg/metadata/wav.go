package metadata

import (
	"errors"
	"fmt"
	"io"
	"os"

	gowav "github.com/go-audio/wav"
)

// ErrNotWAV is returned when the input has no readable RIFF/WAVE header
var ErrNotWAV = errors.New("not a wav file")

// ReadWAV reads the RIFF LIST/INFO tags of a WAV stream
func ReadWAV(rs io.ReadSeeker) (Record, error) {
	d := gowav.NewDecoder(rs)
	d.ReadMetadata()
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWAV, err)
	}
	if d.NumChans == 0 {
		return nil, fmt.Errorf("%w: missing fmt chunk", ErrNotWAV)
	}

	record := Record{}
	m := d.Metadata
	if m == nil {
		return record, nil
	}

	for _, f := range []Field{
		{"Title", m.Title},
		{"Artist", m.Artist},
		{"Comments", m.Comments},
		{"Copyright", m.Copyright},
		{"CreationDate", m.CreationDate},
		{"Engineer", m.Engineer},
		{"Technician", m.Technician},
		{"Genre", m.Genre},
		{"Keywords", m.Keywords},
		{"Medium", m.Medium},
		{"Product", m.Product},
		{"Subject", m.Subject},
		{"Software", m.Software},
		{"Source", m.Source},
		{"Location", m.Location},
		{"TrackNbr", m.TrackNbr},
	} {
		if f.Value != "" {
			record.Set(f.Key, f.Value)
		}
	}
	return record, nil
}

// ReadWAVFile reads the INFO tags of the WAV file at path
func ReadWAVFile(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadWAV(f)
}
