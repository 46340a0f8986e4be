//go:build ebiten

package view

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"

	"bitlife/src/simulation"
)

// Window renders the simulation in an ebiten window, one scaled pixel per cell.
type Window struct {
	s     *simulation.Simulation
	scale int

	img  *ebiten.Image
	buf  []byte
	w, h int

	onColor  color.Color
	offColor color.Color
}

// NewWindow constructs a Window drawing every cell as scale x scale pixels.
func NewWindow(scale int) (*Window, error) {
	if scale < 1 {
		scale = 1
	}
	return &Window{scale: scale, onColor: color.White, offColor: color.Black}, nil
}

// Register attaches the simulation.
func (w *Window) Register(s *simulation.Simulation) {
	w.s = s
}

// Refresh is a no-op, frames are pulled on every Draw.
func (w *Window) Refresh() {}

// Start opens the window and blocks until it is closed.
func (w *Window) Start() error {
	o := w.s.Options()
	ebiten.SetWindowTitle("bitlife")
	ebiten.SetWindowSize(o.Width*w.scale, o.Height*w.scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Update handles input, the simulation advances on its own runner.
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if w.s.Status().RunningMode == simulation.RunningStateRun {
			w.s.Stop()
		} else {
			w.s.Run()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		w.s.Step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		w.s.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		w.s.Clear()
	}
	row, col := w.cell()
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		w.s.SettleTemplate("glider", row, col)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		w.s.SettleTemplate("pulsar", row, col)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		w.s.InverseCell(row, col)
	}
	return nil
}

// Draw uploads the current frame and draws it scaled.
func (w *Window) Draw(screen *ebiten.Image) {
	f := w.s.Frame()
	if w.img == nil || f.Width != w.w || f.Height != w.h {
		w.w, w.h = f.Width, f.Height
		w.img = ebiten.NewImage(f.Width, f.Height)
		w.buf = make([]byte, 4*f.Width*f.Height)
	}
	FillRGBA(w.buf, f, w.onColor, w.offColor)
	w.img.WritePixels(w.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w.scale), float64(w.scale))
	screen.DrawImage(w.img, op)
}

// Layout returns the logical screen size.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	o := w.s.Options()
	return o.Width * w.scale, o.Height * w.scale
}

func (w *Window) cell() (row int, col int) {
	x, y := ebiten.CursorPosition()
	return y / w.scale, x / w.scale
}
