//go:build !ebiten

package view

import "testing"

func TestWindowNeedsBuildTag(t *testing.T) {
	if _, err := NewWindow(4); err == nil {
		t.Fatal("NewWindow must fail without the ebiten build tag")
	}
	var w Window
	if err := w.Start(); err == nil {
		t.Fatal("Start must fail without the ebiten build tag")
	}
}
