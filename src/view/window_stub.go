//go:build !ebiten

package view

import (
	"github.com/pkg/errors"

	"bitlife/src/simulation"
)

// Window is a placeholder that satisfies the API expected by the GUI build.
type Window struct{}

// NewWindow reports that the ebiten build tag is required for window support.
func NewWindow(int) (*Window, error) {
	return nil, errors.New("the window viewer requires building with the 'ebiten' tag")
}

// Register is a no-op placeholder.
func (w *Window) Register(*simulation.Simulation) {}

// Refresh is a no-op placeholder.
func (w *Window) Refresh() {}

// Start always reports that the GUI build tag is missing.
func (w *Window) Start() error {
	return errors.New("the window viewer requires building with the 'ebiten' tag")
}
