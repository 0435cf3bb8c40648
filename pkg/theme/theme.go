// Package theme maps output regions to styles for the day and night modes.
// The console printers and the HTTP theme endpoint both read the same table.
package theme

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Mode selects a style set
type Mode int

const (
	Day Mode = iota
	Night
)

// String returns the mode name
func (m Mode) String() string {
	if m == Night {
		return "night"
	}
	return "day"
}

// Toggle returns the other mode
func (m Mode) Toggle() Mode {
	if m == Night {
		return Day
	}
	return Night
}

// ParseMode accepts "day", "light", "night" or "dark"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day", "light":
		return Day, nil
	case "night", "dark":
		return Night, nil
	}
	return Day, fmt.Errorf("unknown theme mode %q", s)
}

// Region is a kind of output line
type Region int

const (
	Heading Region = iota
	Info
	Success
	Warning
	Error
	Alert
	Result
)

// Regions lists every region in display order
var Regions = []Region{Heading, Info, Success, Warning, Error, Alert, Result}

var regionNames = map[Region]string{
	Heading: "heading",
	Info:    "info",
	Success: "success",
	Warning: "warning",
	Error:   "error",
	Alert:   "alert",
	Result:  "result",
}

// String returns the region name
func (r Region) String() string {
	if name, ok := regionNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Region(%d)", int(r))
}

// Style is how one region is rendered
type Style struct {
	Prefix string            `json:"prefix"`
	Attrs  []color.Attribute `json:"-"`
	// Foreground and Background are hex colours for graphical front ends
	Foreground string `json:"foreground"`
	Background string `json:"background"`
}

// Styles is the style table
var Styles = map[Mode]map[Region]Style{
	Day: {
		Heading: {Prefix: "", Attrs: []color.Attribute{color.FgBlue, color.Bold}, Foreground: "#4a90e2", Background: "#ffffff"},
		Info:    {Prefix: "[*]", Attrs: []color.Attribute{color.FgBlue}, Foreground: "#000000", Background: "#ffffff"},
		Success: {Prefix: "[+]", Attrs: []color.Attribute{color.FgGreen}, Foreground: "#000000", Background: "#ffffff"},
		Warning: {Prefix: "[!]", Attrs: []color.Attribute{color.FgYellow}, Foreground: "#000000", Background: "#ffffff"},
		Error:   {Prefix: "[-]", Attrs: []color.Attribute{color.FgRed}, Foreground: "#000000", Background: "#ffffff"},
		Alert:   {Prefix: "[!!!]", Attrs: []color.Attribute{color.FgRed, color.Bold}, Foreground: "#ffffff", Background: "#4a90e2"},
		Result:  {Prefix: "", Attrs: []color.Attribute{color.FgHiWhite}, Foreground: "#333333", Background: "#f9f9f9"},
	},
	Night: {
		Heading: {Prefix: "", Attrs: []color.Attribute{color.FgHiYellow, color.Bold}, Foreground: "#000000", Background: "#FFCC99"},
		Info:    {Prefix: "[*]", Attrs: []color.Attribute{color.FgHiYellow}, Foreground: "#000000", Background: "#FFFAF0"},
		Success: {Prefix: "[+]", Attrs: []color.Attribute{color.FgHiGreen}, Foreground: "#000000", Background: "#FFFAF0"},
		Warning: {Prefix: "[!]", Attrs: []color.Attribute{color.FgYellow}, Foreground: "#000000", Background: "#FFFAF0"},
		Error:   {Prefix: "[-]", Attrs: []color.Attribute{color.FgHiRed}, Foreground: "#000000", Background: "#FFFAF0"},
		Alert:   {Prefix: "[!!!]", Attrs: []color.Attribute{color.FgHiRed, color.Bold}, Foreground: "#000000", Background: "#FFCC99"},
		Result:  {Prefix: "", Attrs: []color.Attribute{color.FgHiYellow}, Foreground: "#000000", Background: "#FFFAF0"},
	},
}

// Lookup returns the style of region in mode
func Lookup(m Mode, r Region) Style {
	return Styles[m][r]
}

// Palette prints regions in one mode
type Palette struct {
	mode    Mode
	out     io.Writer
	sprints map[Region]func(a ...interface{}) string
}

// NewPalette builds the printers for mode writing to out
func NewPalette(m Mode, out io.Writer) *Palette {
	p := &Palette{
		mode:    m,
		out:     out,
		sprints: make(map[Region]func(a ...interface{}) string, len(Regions)),
	}
	for _, r := range Regions {
		p.sprints[r] = color.New(Lookup(m, r).Attrs...).SprintFunc()
	}
	return p
}

// Mode returns the palette mode
func (p *Palette) Mode() Mode {
	return p.mode
}

// Sprint colours s with the style of region
func (p *Palette) Sprint(r Region, s string) string {
	if sprint, ok := p.sprints[r]; ok {
		return sprint(s)
	}
	return s
}

// Printf writes one line in region style, led by the region prefix
func (p *Palette) Printf(r Region, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if prefix := Lookup(p.mode, r).Prefix; prefix != "" {
		fmt.Fprintf(p.out, "%s %s\n", p.Sprint(r, prefix), msg)
		return
	}
	fmt.Fprintln(p.out, p.Sprint(r, msg))
}
