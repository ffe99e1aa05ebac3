// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package flirextractor

import (
	"image"
	"image/color"
	"math"
)

// ironPalette is the classic FLIR "iron" false colour ramp, darkest to
// hottest. Intermediate colours are interpolated linearly.
var ironPalette = []color.RGBA{
	{0, 0, 0, 255},
	{32, 0, 80, 255},
	{120, 10, 128, 255},
	{187, 55, 84, 255},
	{229, 111, 34, 255},
	{252, 178, 22, 255},
	{255, 235, 120, 255},
	{255, 255, 255, 255},
}

// normalise maps a temperature to 0..1 across the grid's min..max
// range, or -1 for NaN cells.
func normalise(t, min, max float64) float64 {
	if math.IsNaN(t) {
		return -1
	}
	if max <= min {
		return 0
	}
	return (t - min) / (max - min)
}

// RenderGray renders a temperature grid as an 8 bit grayscale image,
// scaling the coldest cell to black and the hottest to white, the same
// linear scaling a camera's AGC applies to raw counts. NaN cells render
// black.
func RenderGray(g *TemperatureGrid) *image.Gray {
	min, _, max := g.Stats()
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			f := normalise(g.At(x, y), min, max)
			if f < 0 {
				f = 0
			}
			img.SetGray(x, y, color.Gray{Y: uint8(math.Round(f * 255))})
		}
	}
	return img
}

// RenderFalseColor renders a temperature grid with the iron palette,
// scaling the grid's full temperature range across the palette. NaN
// cells render black.
func RenderFalseColor(g *TemperatureGrid) *image.RGBA {
	min, _, max := g.Stats()
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			f := normalise(g.At(x, y), min, max)
			if f < 0 {
				img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
				continue
			}
			img.SetRGBA(x, y, paletteAt(f))
		}
	}
	return img
}

// paletteAt interpolates the iron palette at f, which must be in 0..1.
func paletteAt(f float64) color.RGBA {
	segments := float64(len(ironPalette) - 1)
	pos := f * segments
	i := int(pos)
	if i >= len(ironPalette)-1 {
		return ironPalette[len(ironPalette)-1]
	}
	frac := pos - float64(i)
	a, b := ironPalette[i], ironPalette[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + frac*(float64(y)-float64(x))))
	}
	return color.RGBA{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: 255,
	}
}
