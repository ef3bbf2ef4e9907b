//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpImageOpen,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpConfigLoad,
			err:      errors.New("invalid protocol \"iterm\""),
			expected: "Failed to load configuration: invalid protocol \"iterm\"",
		},
		{
			name:     "display operation",
			op:       OpPresent,
			err:      errors.New("surface lost"),
			expected: "Failed to draw image: surface lost",
		},
		{
			name:     "detect operation",
			op:       OpDetect,
			err:      errors.New("terminal supports no image protocol"),
			expected: "Failed to detect terminal image support: terminal supports no image protocol",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpImageOpen,
			context:  "cat.gif",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpImageOpen,
			context:  "cat.gif",
			err:      errors.New("gif: can't recognize format"),
			expected: "Failed to open image 'cat.gif': gif: can't recognize format",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpLogOpen,
			context:  "",
			err:      errors.New("permission denied"),
			expected: "Failed to open log file: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}
