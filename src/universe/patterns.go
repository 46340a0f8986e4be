package universe

import (
	"sort"

	"github.com/pkg/errors"
)

// Cell addresses a single cell by row and column.
type Cell struct {
	Row int
	Col int
}

// Template is a named seeding pattern. Cells are offsets relative to the anchor
// the template is stamped at; they may be negative.
type Template struct {
	Name  string
	Descr string
	Cells []Cell
}

var (
	gliderTemplate = Template{
		Name:  "glider",
		Descr: "5-cell spaceship moving one cell diagonally every 4 generations",
		Cells: []Cell{{0, 0}, {0, 1}, {-1, -1}, {1, 0}, {1, -1}},
	}
	pulsarTemplate = Template{
		Name:  "pulsar",
		Descr: "48-cell oscillator with period 3",
		Cells: pulsarCells(),
	}
	blinkerTemplate = Template{
		Name:  "blinker",
		Descr: "3-cell oscillator with period 2",
		Cells: []Cell{{0, -1}, {0, 0}, {0, 1}},
	}
	blockTemplate = Template{
		Name:  "block",
		Descr: "2x2 still life",
		Cells: []Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
	}
	sampleTemplate = Template{
		Name:  "sample",
		Descr: "the test sample with 3 stable patterns",
		Cells: []Cell{{1, 1}, {2, 1}, {1, 2}, {2, 2}, {3, 3}, {2, 4}, {3, 4}, {3, 5}},
	}

	builtinTemplates = map[string]Template{
		gliderTemplate.Name:  gliderTemplate,
		pulsarTemplate.Name:  pulsarTemplate,
		blinkerTemplate.Name: blinkerTemplate,
		blockTemplate.Name:   blockTemplate,
		sampleTemplate.Name:  sampleTemplate,
	}
)

//pulsarCells builds the pulsar: arms of 3 cells at distance 1 and 6 from both center lines
func pulsarCells() []Cell {
	cells := make([]Cell, 0, 48)
	signs := []int{-1, 1}
	for _, sr := range signs {
		for _, sc := range signs {
			for _, r := range []int{1, 6} {
				for _, c := range []int{2, 3, 4} {
					cells = append(cells, Cell{sr * r, sc * c})
				}
			}
			for _, r := range []int{2, 3, 4} {
				for _, c := range []int{1, 6} {
					cells = append(cells, Cell{sr * r, sc * c})
				}
			}
		}
	}
	return cells
}

// Templates returns the built-in templates sorted by name.
func Templates() []Template {
	names := make([]string, 0, len(builtinTemplates))
	for name := range builtinTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	tmpls := make([]Template, 0, len(names))
	for _, name := range names {
		tmpls = append(tmpls, builtinTemplates[name])
	}
	return tmpls
}

// LookupTemplate returns the built-in template with the given name.
func LookupTemplate(name string) (Template, error) {
	t, ok := builtinTemplates[name]
	if !ok {
		return Template{}, errors.Wrapf(ErrUnknownTemplate, "[LookupTemplate] %q", name)
	}
	return t, nil
}

// Stamp sets the template's cells alive around (row, col).
// The anchor must lie on the grid; offsets wrap toroidally so a pattern placed
// near an edge continues on the opposite one.
func (u *Universe) Stamp(t Template, row int, col int) error {
	if err := u.checkCell("Stamp", row, col); err != nil {
		return err
	}
	cells := make([]Cell, len(t.Cells))
	for i, off := range t.Cells {
		cells[i] = Cell{
			Row: wrap(row+off.Row, u.height),
			Col: wrap(col+off.Col, u.width),
		}
	}
	return u.SetCells(cells)
}

// Glider adds a glider centered on the specified cell.
func (u *Universe) Glider(row int, col int) error {
	return u.Stamp(gliderTemplate, row, col)
}

// Pulsar adds a pulsar centered on the specified cell.
func (u *Universe) Pulsar(row int, col int) error {
	return u.Stamp(pulsarTemplate, row, col)
}

func wrap(v int, n int) int {
	return (v%n + n) % n
}
