package simulation

//Frame is an owned copy of one generation, safe to pass between goroutines.
//Bit row*Width+col of Words is the cell at row, col
type Frame struct {
	Width      int
	Height     int
	Generation int
	Words      []uint64
}

//Alive reports the cell state, coordinates outside the frame are dead
func (f Frame) Alive(row int, col int) bool {
	if row < 0 || row >= f.Height || col < 0 || col >= f.Width {
		return false
	}
	i := row*f.Width + col
	return f.Words[i/64]>>(uint(i)%64)&1 == 1
}

//LiveCells counts the live cells of the frame
func (f Frame) LiveCells() int {
	n := 0
	for row := 0; row < f.Height; row++ {
		for col := 0; col < f.Width; col++ {
			if f.Alive(row, col) {
				n++
			}
		}
	}
	return n
}
