package view

import (
	"image/color"

	"bitlife/src/simulation"
)

//FillRGBA converts the frame into RGBA pixels in buf, one pixel per cell
//buf must hold 4*Width*Height bytes
func FillRGBA(buf []byte, f simulation.Frame, on color.Color, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for row := 0; row < f.Height; row++ {
		for col := 0; col < f.Width; col++ {
			base := (row*f.Width + col) * 4
			if f.Alive(row, col) {
				buf[base+0] = uint8(rOn >> 8)
				buf[base+1] = uint8(gOn >> 8)
				buf[base+2] = uint8(bOn >> 8)
				buf[base+3] = uint8(aOn >> 8)
				continue
			}
			buf[base+0] = uint8(rOff >> 8)
			buf[base+1] = uint8(gOff >> 8)
			buf[base+2] = uint8(bOff >> 8)
			buf[base+3] = uint8(aOff >> 8)
		}
	}
}
