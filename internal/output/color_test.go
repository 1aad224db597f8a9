package output

import (
	"bytes"
	"testing"
)

func TestNewColorScheme(t *testing.T) {
	tests := []struct {
		name             string
		noColor          bool
		expectedDisabled bool
	}{
		{"colors disabled with noColor flag", true, true},
		{"colors disabled for non-TTY", false, true}, // bytes.Buffer is not a TTY
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := NewColorScheme(&bytes.Buffer{}, tt.noColor)

			if cs.Disabled != tt.expectedDisabled {
				t.Errorf("Disabled = %v, want %v", cs.Disabled, tt.expectedDisabled)
			}
			for name, fn := range map[string]func(string, ...interface{}) string{
				"Context": cs.Context,
				"Success": cs.Success,
				"Error":   cs.Error,
				"Warning": cs.Warning,
				"Header":  cs.Header,
			} {
				if fn == nil {
					t.Errorf("%s function is nil", name)
				}
			}
		})
	}
}

func TestColorScheme_PlainFunctions(t *testing.T) {
	cs := NewColorScheme(&bytes.Buffer{}, true)

	if got := cs.Context("ctx-%d", 1); got != "ctx-1" {
		t.Errorf("got %q", got)
	}
	if got := cs.StatusColor(true)("%s", "disconnected"); got != "disconnected" {
		t.Errorf("got %q", got)
	}
	if got := cs.StatusColor(false)("%s", "connected"); got != "connected" {
		t.Errorf("got %q", got)
	}
}
