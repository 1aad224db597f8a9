package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme provides color functions for different output elements
type ColorScheme struct {
	// Context colors context names in the first column
	Context func(format string, a ...interface{}) string

	Success func(format string, a ...interface{}) string
	Error   func(format string, a ...interface{}) string
	Warning func(format string, a ...interface{}) string
	Header  func(format string, a ...interface{}) string

	// Disabled indicates if colors are disabled
	Disabled bool
}

// NewColorScheme creates a new color scheme.
// Colors are disabled for non-TTY outputs or when noColor is true.
func NewColorScheme(w io.Writer, noColor bool) *ColorScheme {
	if noColor || !isTTY(w) {
		plain := color.New().Sprintf
		return &ColorScheme{
			Context:  plain,
			Success:  plain,
			Error:    plain,
			Warning:  plain,
			Header:   plain,
			Disabled: true,
		}
	}

	return &ColorScheme{
		Context: color.New(color.FgCyan, color.Bold).Sprintf,
		Success: color.New(color.FgGreen).Sprintf,
		Error:   color.New(color.FgRed, color.Bold).Sprintf,
		Warning: color.New(color.FgYellow).Sprintf,
		Header:  color.New(color.FgWhite, color.Bold).Sprintf,
	}
}

// isTTY checks if the writer is a TTY
func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// StatusColor returns an appropriate color function based on error status
func (cs *ColorScheme) StatusColor(hasError bool) func(format string, a ...interface{}) string {
	if hasError {
		return cs.Error
	}
	return cs.Success
}
