package rules

/*
Next applies Conway's Game of Life rules to a single cell and returns its state
in the next generation.

	alive, neighbours < 2   -> dies (underpopulation)
	alive, neighbours 2..3  -> survives
	alive, neighbours > 3   -> dies (overpopulation)
	dead,  neighbours == 3  -> becomes alive (reproduction)
	otherwise               -> unchanged
*/
func Next(alive bool, neighbours int) bool {
	switch {
	case alive && neighbours < 2:
		return false
	case alive && (neighbours == 2 || neighbours == 3):
		return true
	case alive && neighbours > 3:
		return false
	case !alive && neighbours == 3:
		return true
	}
	return alive
}
