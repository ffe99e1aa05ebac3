// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package flirextractor

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
)

// RawThermalGrid holds the raw 16 bit sensor counts of a thermal image,
// row-major, already normalised to host integer values regardless of
// the byte order they were stored in.
type RawThermalGrid struct {
	Width, Height int
	Pix           []uint16
}

// NewRawThermalGrid returns a zeroed grid of the given dimensions.
func NewRawThermalGrid(w, h int) *RawThermalGrid {
	return &RawThermalGrid{Width: w, Height: h, Pix: make([]uint16, w*h)}
}

// At returns the raw count at (x, y).
func (g *RawThermalGrid) At(x, y int) uint16 {
	return g.Pix[y*g.Width+x]
}

// Set sets the raw count at (x, y).
func (g *RawThermalGrid) Set(x, y int, v uint16) {
	g.Pix[y*g.Width+x] = v
}

// TemperatureGrid holds temperatures in Celsius, row-major, with the
// same dimensions as the raw grid it was converted from. Cells that
// could not be converted are NaN.
type TemperatureGrid struct {
	Width, Height int
	Temps         []float64
}

// NewTemperatureGrid returns a zeroed grid of the given dimensions.
func NewTemperatureGrid(w, h int) *TemperatureGrid {
	return &TemperatureGrid{Width: w, Height: h, Temps: make([]float64, w*h)}
}

// At returns the temperature in Celsius at (x, y).
func (g *TemperatureGrid) At(x, y int) float64 {
	return g.Temps[y*g.Width+x]
}

// Set sets the temperature in Celsius at (x, y).
func (g *TemperatureGrid) Set(x, y int, v float64) {
	g.Temps[y*g.Width+x] = v
}

// Stats returns the minimum, mean and maximum temperature of the grid,
// ignoring NaN cells. All three are NaN if no cell is valid.
func (g *TemperatureGrid) Stats() (min, mean, max float64) {
	min = math.NaN()
	max = math.NaN()
	sum := 0.0
	n := 0
	for _, t := range g.Temps {
		if math.IsNaN(t) {
			continue
		}
		if n == 0 || t < min {
			min = t
		}
		if n == 0 || t > max {
			max = t
		}
		sum += t
		n++
	}
	if n == 0 {
		return min, math.NaN(), max
	}
	return min, sum / float64(n), max
}

// WriteCSV writes the grid as comma separated Celsius values, one
// record per image row. NaN cells are written as "NaN".
func (g *TemperatureGrid) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	record := make([]string, g.Width)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			record[x] = strconv.FormatFloat(g.At(x, y), 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
