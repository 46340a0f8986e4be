package universe

import "github.com/pkg/errors"

// View is a borrowed, read-only window on a universe's packed cells.
//
// Bit i of the grid (i = row*width + col) is bit i%64 of Words()[i/64].
// A View stays valid only until the next mutating call on its universe
// (resize, toggle, stamp, clear, reset, tick); after that the backing words may
// be reused for another generation or released.
type View struct {
	owner  *Universe
	epoch  uint64
	width  int
	height int
	words  []uint64
}

// Valid reports whether no mutating call happened since the view was taken.
func (v View) Valid() bool {
	return v.owner != nil && v.owner.epoch == v.epoch
}

// Width returns the grid width the view was taken at.
func (v View) Width() int { return v.width }

// Height returns the grid height the view was taken at.
func (v View) Height() int { return v.height }

// Len returns the number of cells covered by the view.
func (v View) Len() int { return v.width * v.height }

// Words exposes the packed words. Callers must not modify or retain them past
// the next mutating call.
func (v View) Words() []uint64 { return v.words }

// Alive reads one cell through the view.
func (v View) Alive(row int, col int) (bool, error) {
	if !v.Valid() {
		return false, errors.WithStack(ErrStaleView)
	}
	if row < 0 || row >= v.height || col < 0 || col >= v.width {
		return false, errors.Wrapf(ErrOutOfRange, "[View.Alive] row %d col %d outside %dx%d grid", row, col, v.width, v.height)
	}
	i := row*v.width + col
	return v.words[i/64]>>(uint(i)%64)&1 == 1, nil
}
