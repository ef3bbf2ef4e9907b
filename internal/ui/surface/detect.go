package surface

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ProtocolEnv names the environment variable that overrides detection.
const ProtocolEnv = "VU_IMAGE_PROTOCOL"

var ErrNoProtocol = errors.New("terminal supports no image protocol")

// Detect returns the best available Protocol for the current terminal.
//
// override selects a protocol explicitly; "" and "auto" fall through to
// the VU_IMAGE_PROTOCOL environment variable and then to detection:
//   - "kitty": force Kitty protocol
//   - "sixel": force Sixel protocol
//   - "none": disable image display
//
// ErrNoProtocol is returned when images cannot be shown.
func Detect(override string) (Protocol, error) {
	choice := strings.ToLower(strings.TrimSpace(override))
	if choice == "" || choice == "auto" {
		choice = strings.ToLower(strings.TrimSpace(os.Getenv(ProtocolEnv)))
	}

	switch choice {
	case "", "auto":
	case "kitty":
		return NewKittyProtocol(), nil
	case "sixel":
		return NewSixelProtocol(), nil
	case "none":
		return nil, ErrNoProtocol
	default:
		return nil, fmt.Errorf("unknown image protocol %q", choice)
	}

	if IsKittySupported() {
		return NewKittyProtocol(), nil
	}
	if IsSixelSupported() {
		return NewSixelProtocol(), nil
	}
	return nil, ErrNoProtocol
}

// IsKittySupported checks if the terminal supports Kitty graphics protocol.
func IsKittySupported() bool {
	// Contour sets CONTOUR_PROFILE but doesn't support Kitty protocol.
	// Check early because parent terminal env vars (e.g. GHOSTTY_RESOURCES_DIR)
	// can leak into Contour when launched from a Kitty-capable terminal.
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return false
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	term := os.Getenv("TERM")
	if os.Getenv("TERM_PROGRAM") == "WezTerm" || os.Getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return true
	}
	if version := os.Getenv("KONSOLE_VERSION"); len(version) >= 4 && version[:4] >= "2204" {
		return true
	}
	return strings.Contains(term, "kitty") || term == "xterm-ghostty"
}

// IsSixelSupported checks if the terminal supports Sixel graphics.
func IsSixelSupported() bool {
	term := os.Getenv("TERM")

	switch os.Getenv("TERM_PROGRAM") {
	case "vscode", "mintty", "iTerm.app", "contour":
		return true
	}
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return true
	}

	switch {
	case term == "foot" || term == "foot-extra":
		return true
	case term == "mlterm" || strings.HasPrefix(term, "yaft"):
		return true
	case term == "xterm" || strings.HasPrefix(term, "xterm-"):
		// xterm supports sixel when built with --enable-sixel-graphics.
		// IsKittySupported is checked first, so xterm-kitty won't reach here.
		return true
	}
	return false
}
