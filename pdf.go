// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package flirextractor

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/jung-kurt/gofpdf"
)

const reportMargin = 36 // pt
const reportImageWidth = 523
const reportLineHeight = 14

// Fpdf builds a PDF report of extracted thermal images, one page per
// image, each with a false colour rendering and summary statistics.
type Fpdf struct {
	fpdf *gofpdf.Fpdf
}

// Setup creates a new PDF with appropriate settings and fonts
func (p *Fpdf) Setup() error {
	p.fpdf = gofpdf.New("P", "pt", "A4", "")
	p.fpdf.SetFont("Helvetica", "", 10)
	p.fpdf.SetAutoPageBreak(false, 0)
	return p.fpdf.Error()
}

// AddReport adds a page with the false colour rendering of a
// temperature grid and its minimum, mean and maximum temperatures.
func (p *Fpdf) AddReport(name string, temps *TemperatureGrid) error {
	var buf bytes.Buffer
	err := png.Encode(&buf, RenderFalseColor(temps))
	if err != nil {
		return fmt.Errorf("Error encoding rendering of %s: %v", name, err)
	}

	p.fpdf.AddPage()
	p.fpdf.SetXY(reportMargin, reportMargin)
	p.fpdf.SetFont("Helvetica", "B", 14)
	p.fpdf.CellFormat(0, reportLineHeight, name, "", 1, "L", false, 0, "")
	p.fpdf.SetFont("Helvetica", "", 10)

	imgname := name + "-falsecolour"
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	_ = p.fpdf.RegisterImageOptionsReader(imgname, opts, &buf)
	imgHeight := reportImageWidth * float64(temps.Height) / float64(temps.Width)
	p.fpdf.ImageOptions(imgname, reportMargin, reportMargin+2*reportLineHeight,
		reportImageWidth, imgHeight, false, opts, 0, "")

	min, mean, max := temps.Stats()
	p.fpdf.SetXY(reportMargin, reportMargin+2*reportLineHeight+imgHeight+reportLineHeight)
	p.fpdf.CellFormat(0, reportLineHeight,
		fmt.Sprintf("%d x %d pixels", temps.Width, temps.Height), "", 1, "L", false, 0, "")
	p.fpdf.SetX(reportMargin)
	p.fpdf.CellFormat(0, reportLineHeight,
		fmt.Sprintf("Min %.1f C    Mean %.1f C    Max %.1f C", min, mean, max),
		"", 1, "L", false, 0, "")
	return p.fpdf.Error()
}

// Save saves the PDF to the file at path
func (p *Fpdf) Save(path string) error {
	return p.fpdf.OutputFileAndClose(path)
}
