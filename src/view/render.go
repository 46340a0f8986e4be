package view

import (
	"strings"

	"bitlife/src/simulation"
)

//RenderRows draws the frame as text lines, one string per row
//maxW and maxH crop the output, values <= 0 disable cropping
func RenderRows(f simulation.Frame, live string, dead string, maxW int, maxH int) []string {
	rows := f.Height
	if maxH > 0 && rows > maxH {
		rows = maxH
	}
	cols := f.Width
	if maxW > 0 && cols > maxW {
		cols = maxW
	}
	lines := make([]string, 0, rows)
	var b strings.Builder
	for row := 0; row < rows; row++ {
		b.Reset()
		for col := 0; col < cols; col++ {
			if f.Alive(row, col) {
				b.WriteString(live)
			} else {
				b.WriteString(dead)
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}
