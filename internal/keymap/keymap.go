package keymap

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "zoom", "pan"
}

// Bindings contains all key bindings.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "esc", "ctrl+c"}, "Quit", "global"},
	{ActionToggleStatusBar, []string{"s"}, "Toggle status bar", "global"},
	{ActionHelp, []string{"?"}, "Show key bindings", "global"},

	// Zoom
	{ActionZoomIn, []string{"+", "="}, "Zoom in", "zoom"},
	{ActionZoomOut, []string{"-"}, "Zoom out", "zoom"},
	{ActionFit, []string{"f"}, "Fit to window", "zoom"},
	{ActionReset, []string{"0"}, "Reset zoom and pan", "zoom"},

	// Pan
	{ActionPanUp, []string{"k", "up"}, "Pan up", "pan"},
	{ActionPanDown, []string{"j", "down"}, "Pan down", "pan"},
	{ActionPanLeft, []string{"h", "left"}, "Pan left", "pan"},
	{ActionPanRight, []string{"l", "right"}, "Pan right", "pan"},
}

// Contexts lists binding contexts in display order.
var Contexts = []string{"global", "zoom", "pan"}

// Filter returns the bindings of the given context.
func Filter(bindings []Binding, context string) []Binding {
	var result []Binding
	for _, kb := range bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
