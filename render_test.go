// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package flirextractor

import (
	"image/color"
	"math"
	"testing"
)

func TestRenderGray(t *testing.T) {
	g := NewTemperatureGrid(3, 1)
	g.Set(0, 0, 10)
	g.Set(1, 0, 60)
	g.Set(2, 0, math.NaN())

	img := RenderGray(g)
	if got := img.GrayAt(0, 0).Y; got != 0 {
		t.Errorf("Coldest cell rendered as %d, expected 0\n", got)
	}
	if got := img.GrayAt(1, 0).Y; got != 255 {
		t.Errorf("Hottest cell rendered as %d, expected 255\n", got)
	}
	if got := img.GrayAt(2, 0).Y; got != 0 {
		t.Errorf("NaN cell rendered as %d, expected 0\n", got)
	}
}

func TestRenderFalseColor(t *testing.T) {
	g := NewTemperatureGrid(3, 1)
	g.Set(0, 0, -5)
	g.Set(1, 0, 120)
	g.Set(2, 0, math.NaN())

	img := RenderFalseColor(g)
	black := color.RGBA{0, 0, 0, 255}
	white := color.RGBA{255, 255, 255, 255}
	if got := img.RGBAAt(0, 0); got != black {
		t.Errorf("Coldest cell rendered as %v, expected black\n", got)
	}
	if got := img.RGBAAt(1, 0); got != white {
		t.Errorf("Hottest cell rendered as %v, expected white\n", got)
	}
	if got := img.RGBAAt(2, 0); got != black {
		t.Errorf("NaN cell rendered as %v, expected black\n", got)
	}
}

func TestPaletteInterpolation(t *testing.T) {
	// midpoints between anchors must sit between them
	for f := 0.0; f <= 1.0; f += 0.05 {
		c := paletteAt(f)
		if c.A != 255 {
			t.Errorf("Palette at %v has alpha %d, expected 255\n", f, c.A)
		}
	}
	if paletteAt(1.0) != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("Palette at 1.0 is %v, expected white\n", paletteAt(1.0))
	}
}
