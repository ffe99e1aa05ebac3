// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package flirextractor

import (
	"bytes"
	"math"
	"testing"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestGraph(t *testing.T) {
	g := NewTemperatureGrid(8, 8)
	for i := range g.Temps {
		g.Temps[i] = 15 + 0.25*float64(i)
	}
	// a NaN cell must not break the histogram
	g.Temps[10] = math.NaN()

	var buf bytes.Buffer
	if err := Graph(g, "testimage", &buf); err != nil {
		t.Fatalf("Could not create graph: %v\n", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Errorf("Graph output does not look like a PNG\n")
	}
}

func TestGraphTooFewTemperatures(t *testing.T) {
	g := NewTemperatureGrid(2, 2)
	for i := range g.Temps {
		g.Temps[i] = math.NaN()
	}
	var buf bytes.Buffer
	if err := Graph(g, "allnan", &buf); err == nil {
		t.Errorf("Expected an error graphing an all-NaN grid\n")
	}

	uniform := NewTemperatureGrid(2, 2)
	for i := range uniform.Temps {
		uniform.Temps[i] = 21.5
	}
	if err := Graph(uniform, "uniform", &buf); err == nil {
		t.Errorf("Expected an error graphing a uniform grid\n")
	}
}
