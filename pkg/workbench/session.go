package workbench

import (
	"errors"
	"fmt"
	"strings"
)

// Panel identifies one of the four tool panels
type Panel int

const (
	ImagePanel Panel = iota
	PDFPanel
	WatermarkPanel
	AudioPanel
)

var panelNames = map[Panel]string{
	ImagePanel:     "image",
	PDFPanel:       "pdf",
	WatermarkPanel: "watermark",
	AudioPanel:     "audio",
}

func (p Panel) String() string {
	if name, ok := panelNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Panel(%d)", int(p))
}

// MarshalText encodes the panel by name
func (p Panel) MarshalText() ([]byte, error) {
	if _, ok := panelNames[p]; !ok {
		return nil, fmt.Errorf("unknown panel %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a panel name
func (p *Panel) UnmarshalText(text []byte) error {
	parsed, err := ParsePanel(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePanel returns the panel with the given name
func ParsePanel(name string) (Panel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range panelNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown panel %q", name)
}

var (
	// ErrNoPath is returned when an action runs before a file was chosen
	ErrNoPath = errors.New("no file selected")

	// ErrWrongPanel is returned when a session is handed to another panel's action
	ErrWrongPanel = errors.New("session belongs to another panel")
)

// Session is the per-panel state a shell owns: the panel and its chosen file
type Session struct {
	Panel Panel  `json:"panel"`
	Path  string `json:"path"`
}

// NewSession creates a session for panel with path selected
func NewSession(panel Panel, path string) Session {
	return Session{Panel: panel, Path: path}
}

// Select replaces the chosen file
func (s *Session) Select(path string) {
	s.Path = strings.TrimSpace(path)
}

// Selected reports whether a file has been chosen
func (s Session) Selected() bool {
	return s.Path != ""
}

func (s Session) check(panel Panel) error {
	if s.Panel != panel {
		return fmt.Errorf("%w: %s session used by %s action", ErrWrongPanel, s.Panel, panel)
	}
	if !s.Selected() {
		return ErrNoPath
	}
	return nil
}
