//go:build !unix

package surface

func getCellSize() (cellW, cellH int) {
	return defaultCellW, defaultCellH
}

func TerminalPixelSize() (width, height int, ok bool) {
	return 0, 0, false
}
