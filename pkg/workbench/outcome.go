package workbench

import "fmt"

// Level grades an outcome the way the panels surface it
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// User-facing messages shown by the panels
const (
	MsgSelectImage     = "Please select an image first!"
	MsgSelectPDF       = "Please select a PDF file!"
	MsgSelectImageFile = "Please select an image file!"
	MsgSelectAudio     = "Please select an audio file!"
	MsgSelectCleanDir  = "Please select a directory to save the cleaned PDF."
)

// Outcome is what one panel action produced. Lines are appended to the
// panel's result area; Message is shown on its own as a dialog.
type Outcome struct {
	Panel   Panel       `json:"panel"`
	Level   Level       `json:"level"`
	Lines   []string    `json:"lines"`
	Message string      `json:"message,omitempty"`
	Files   []string    `json:"files,omitempty"`
	Result  interface{} `json:"result,omitempty"`
	Err     error       `json:"-"`
}

// Failed reports whether the action ended in an error
func (o Outcome) Failed() bool {
	return o.Level == LevelError
}

func newOutcome(panel Panel) Outcome {
	return Outcome{Panel: panel, Level: LevelSuccess, Lines: []string{}}
}

func (o Outcome) addLine(format string, args ...interface{}) Outcome {
	o.Lines = append(o.Lines, fmt.Sprintf(format, args...))
	return o
}

// fail ends the outcome with an error message
func (o Outcome) fail(err error, format string, args ...interface{}) Outcome {
	o.Level = LevelError
	o.Message = fmt.Sprintf(format, args...)
	o.Err = err
	return o
}
