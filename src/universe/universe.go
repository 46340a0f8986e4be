// Package universe implements Conway's Game of Life on a toroidal grid backed by
// a dense bitset.
//
// A Universe is owned by a single caller. It has no internal locking and every
// method runs to completion before returning.
package universe

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/bits-and-blooms/bitset"

	"bitlife/src/diag"
	"bitlife/src/rules"
)

//default options
const (
	DefWidth  = 64
	DefHeight = 64
)

// Options configures NewWithOptions. A nil Random picks an unseeded generator.
type Options struct {
	Width  int
	Height int
	Random RandomSource
}

// Universe is a width x height grid of cells stored row-major, one bit per
// cell: cell (row, col) lives at bit row*width + col.
type Universe struct {
	width  int
	height int
	cells  *bitset.BitSet
	next   *bitset.BitSet //scratch generation written by Tick
	random RandomSource
	epoch  uint64 //bumped by every mutating call, invalidates outstanding views
}

// New creates a 64x64 universe with random content.
func New() *Universe {
	u, _ := NewWithOptions(nil)
	return u
}

// NewWithOptions creates a randomly seeded universe of the requested size.
func NewWithOptions(o *Options) (*Universe, error) {
	diag.Install(os.Stderr)

	if o == nil {
		o = &Options{Width: DefWidth, Height: DefHeight}
	}
	if err := checkDimension("NewWithOptions", "width", o.Width); err != nil {
		return nil, err
	}
	if err := checkDimension("NewWithOptions", "height", o.Height); err != nil {
		return nil, err
	}
	u := &Universe{width: o.Width, height: o.Height, random: o.Random}
	if u.random == nil {
		u.random = newUnseededRandom()
	}
	u.alloc()
	u.seed()
	return u, nil
}

// Width returns the number of columns.
func (u *Universe) Width() int {
	return u.width
}

// Height returns the number of rows.
func (u *Universe) Height() int {
	return u.height
}

// SetWidth sets the width of the universe.
//
// Resets all cells to the dead state.
func (u *Universe) SetWidth(width int) error {
	if err := checkDimension("SetWidth", "width", width); err != nil {
		return err
	}
	u.width = width
	u.alloc()
	return nil
}

// SetHeight sets the height of the universe.
//
// Resets all cells to the dead state.
func (u *Universe) SetHeight(height int) error {
	if err := checkDimension("SetHeight", "height", height); err != nil {
		return err
	}
	u.height = height
	u.alloc()
	return nil
}

// Resize changes both dimensions with a single reallocation.
//
// Resets all cells to the dead state. On error the grid is left untouched.
func (u *Universe) Resize(width int, height int) error {
	if err := checkDimension("Resize", "width", width); err != nil {
		return err
	}
	if err := checkDimension("Resize", "height", height); err != nil {
		return err
	}
	u.width, u.height = width, height
	u.alloc()
	return nil
}

// Toggle flips the state of a cell.
func (u *Universe) Toggle(row int, col int) error {
	if err := u.checkCell("Toggle", row, col); err != nil {
		return err
	}
	u.cells.Flip(u.index(row, col))
	u.epoch++
	return nil
}

// SetCells sets every listed cell alive. The call is rejected as a whole when
// any cell is off the grid.
func (u *Universe) SetCells(cells []Cell) error {
	for _, c := range cells {
		if err := u.checkCell("SetCells", c.Row, c.Col); err != nil {
			return err
		}
	}
	for _, c := range cells {
		u.cells.Set(u.index(c.Row, c.Col))
	}
	u.epoch++
	return nil
}

// IsAlive reports the state of a single cell.
func (u *Universe) IsAlive(row int, col int) (bool, error) {
	if err := u.checkCell("IsAlive", row, col); err != nil {
		return false, err
	}
	return u.cells.Test(u.index(row, col)), nil
}

// Clear kills every cell.
func (u *Universe) Clear() {
	u.cells.ClearAll()
	u.epoch++
}

// Reset re-seeds every cell from a fresh random draw.
func (u *Universe) Reset() {
	u.seed()
	u.epoch++
}

// LiveNeighbourCount returns the number of live cells among the 8 toroidal
// neighbours of (row, col).
func (u *Universe) LiveNeighbourCount(row int, col int) (int, error) {
	if err := u.checkCell("LiveNeighbourCount", row, col); err != nil {
		return 0, err
	}
	return u.liveNeighbourCount(row, col), nil
}

// Tick advances the universe by one generation.
//
// Every next state is computed from the current generation into the scratch
// buffer, then the two buffers swap.
func (u *Universe) Tick() {
	for row := 0; row < u.height; row++ {
		for col := 0; col < u.width; col++ {
			idx := u.index(row, col)
			if rules.Next(u.cells.Test(idx), u.liveNeighbourCount(row, col)) {
				u.next.Set(idx)
			} else {
				u.next.Clear(idx)
			}
		}
	}
	u.cells, u.next = u.next, u.cells
	u.epoch++
}

// Population returns the number of live cells.
func (u *Universe) Population() int {
	return int(u.cells.Count())
}

// Fingerprint returns an MD5 digest of the dimensions and the packed cells.
// Equal generations have equal fingerprints.
func (u *Universe) Fingerprint() string {
	h := md5.New()
	var buf []byte
	buf = binary.LittleEndian.AppendUint64(buf, uint64(u.width))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(u.height))
	for _, w := range u.cells.Bytes() {
		buf = binary.LittleEndian.AppendUint64(buf, w)
	}
	h.Write(buf)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Cells returns a read-only view of the packed storage for renderers.
// The view is borrowed: it is valid only until the next mutating call.
func (u *Universe) Cells() View {
	return View{
		owner:  u,
		epoch:  u.epoch,
		width:  u.width,
		height: u.height,
		words:  u.cells.Bytes(),
	}
}

//index maps (row, col) to the linear bit index
func (u *Universe) index(row int, col int) uint {
	return uint(row*u.width + col)
}

//liveNeighbourCount counts live neighbours without bounds checks.
//-1 is written as dimension-1 so the wrap is a plain modulo.
func (u *Universe) liveNeighbourCount(row int, col int) int {
	count := 0
	for _, dr := range [3]int{u.height - 1, 0, 1} {
		for _, dc := range [3]int{u.width - 1, 0, 1} {
			if dr == 0 && dc == 0 {
				continue
			}
			if u.cells.Test(u.index((row+dr)%u.height, (col+dc)%u.width)) {
				count++
			}
		}
	}
	return count
}

//alloc replaces both generations with all-dead buffers of width*height bits
func (u *Universe) alloc() {
	n := uint(u.width * u.height)
	u.cells = bitset.New(n)
	u.next = bitset.New(n)
	u.epoch++
}
