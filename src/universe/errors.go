package universe

import "github.com/pkg/errors"

var (
	ErrOutOfRange      = errors.New("cell out of range")
	ErrZeroDimension   = errors.New("dimension must be at least 1")
	ErrStaleView       = errors.New("cells view invalidated by a mutating call")
	ErrUnknownTemplate = errors.New("unknown template")
)

//checkCell reports an ErrOutOfRange for coordinates outside the grid
func (u *Universe) checkCell(op string, row int, col int) error {
	if row < 0 || row >= u.height || col < 0 || col >= u.width {
		return errors.Wrapf(ErrOutOfRange, "[%s] row %d col %d outside %dx%d grid", op, row, col, u.width, u.height)
	}
	return nil
}

func checkDimension(op string, name string, v int) error {
	if v < 1 {
		return errors.Wrapf(ErrZeroDimension, "[%s] %s %d", op, name, v)
	}
	return nil
}
