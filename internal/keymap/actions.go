// Package keymap defines key bindings and action dispatch for the viewer.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit            Action = "quit"
	ActionToggleStatusBar Action = "toggle_status_bar"
	ActionHelp            Action = "help"

	// Zoom actions
	ActionZoomIn  Action = "zoom_in"
	ActionZoomOut Action = "zoom_out"
	ActionFit     Action = "fit"   // f - scale to the window
	ActionReset   Action = "reset" // 0 - native size, centered

	// Pan actions
	ActionPanUp    Action = "pan_up"
	ActionPanDown  Action = "pan_down"
	ActionPanLeft  Action = "pan_left"
	ActionPanRight Action = "pan_right"
)
