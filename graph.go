// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package flirextractor

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const histBins = 64
const maxticks = 16

// createVLine creates a vertical dashed marker line at temperature t
// for a graph.
func createVLine(t, height float64, c drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		XValues: []float64{t, t},
		YValues: []float64{0, height},
		Style: chart.Style{
			StrokeColor:     c,
			StrokeDashArray: []float64{5.0, 5.0},
		},
	}
}

// Graph writes a PNG histogram of the temperature distribution of a
// grid, with dashed marker lines at the 10th and 90th percentile
// temperatures.
func Graph(temps *TemperatureGrid, name string, w io.Writer) error {
	return GraphOpts(temps, name, true, w)
}

// GraphOpts writes a PNG histogram of the temperature distribution
// of a grid.
func GraphOpts(temps *TemperatureGrid, name string, guidelines bool, w io.Writer) error {
	var valid []float64
	for _, t := range temps.Temps {
		if !math.IsNaN(t) {
			valid = append(valid, t)
		}
	}
	if len(valid) < 2 {
		return errors.New("Not enough valid temperatures")
	}
	sort.Float64s(valid)
	min := valid[0]
	max := valid[len(valid)-1]
	if max <= min {
		return errors.New("Not enough distinct temperatures")
	}

	// Bin temperatures into a histogram
	binWidth := (max - min) / histBins
	counts := make([]float64, histBins)
	for _, t := range valid {
		bin := int((t - min) / binWidth)
		if bin >= histBins {
			bin = histBins - 1
		}
		counts[bin]++
	}

	var xvalues, yvalues []float64
	var ticks []chart.Tick
	tickevery := histBins / maxticks
	if tickevery < 1 {
		tickevery = 1
	}
	peak := 0.0
	for i, n := range counts {
		centre := min + (float64(i)+0.5)*binWidth
		xvalues = append(xvalues, centre)
		yvalues = append(yvalues, n)
		if n > peak {
			peak = n
		}
		if i%tickevery == 0 {
			ticks = append(ticks, chart.Tick{Value: centre, Label: fmt.Sprintf("%.1f", centre)})
		}
	}
	// Make last tick the hottest bin
	final := xvalues[len(xvalues)-1]
	ticks[len(ticks)-1] = chart.Tick{Value: final, Label: fmt.Sprintf("%.1f", final)}

	mainSeries := chart.ContinuousSeries{
		Style: chart.Style{
			StrokeColor: chart.ColorBlue,
			FillColor:   chart.ColorAlternateBlue,
		},
		XValues: xvalues,
		YValues: yvalues,
	}

	// Create lines marking the coldest and hottest 10% of pixels
	lowtemp := valid[len(valid)/10]
	hightemp := valid[(len(valid)/10)*9]
	lowSeries := createVLine(lowtemp, peak, chart.ColorAlternateGray)
	highSeries := createVLine(hightemp, peak, chart.ColorAlternateGray)

	annotations := []chart.Value2{
		{Label: fmt.Sprintf("%.1f C", lowtemp), XValue: lowtemp, YValue: peak},
		{Label: fmt.Sprintf("%.1f C", hightemp), XValue: hightemp, YValue: peak},
	}

	graph := chart.Chart{
		Title:  name,
		Width:  1920,
		Height: 1080,
		XAxis: chart.XAxis{
			Name:  "Temperature (C)",
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name: "Pixels",
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: peak,
			},
		},
		Series: []chart.Series{
			mainSeries,
		},
	}
	if guidelines {
		graph.Series = append(graph.Series, lowSeries, highSeries,
			chart.AnnotationSeries{Annotations: annotations})
	}
	return graph.Render(chart.PNG, w)
}
