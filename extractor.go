// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package flirextractor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log"

	_ "image/png"

	_ "golang.org/x/image/tiff"
)

// rawThermalTag is the metadata tag holding the embedded raw thermal
// payload, itself a small PNG or TIFF image of 16 bit sensor counts.
const rawThermalTag = "RawThermalImage"

// Extractor extracts temperature grids from radiometric FLIR images,
// owning the exiftool process used to do so. Set the exported fields
// before Init() if the defaults don't suit, and Close() when done.
type Extractor struct {
	// these should be set before running Init(), or left to defaults
	ExiftoolPath string // exiftool executable, defaults to "exiftool" in $PATH
	Logger       *log.Logger

	et *Exiftool
}

// Init starts the underlying exiftool process.
func (x *Extractor) Init() error {
	x.et = &Exiftool{Path: x.ExiftoolPath, Logger: x.Logger}
	return x.et.Init()
}

// Close shuts down the underlying exiftool process.
func (x *Extractor) Close() error {
	if x.et == nil {
		return nil
	}
	return x.et.Close()
}

// Thermal extracts the temperature grid from a single FLIR image. Use
// ThermalBatch when loading several images, as it only makes one
// metadata round trip to exiftool for the whole batch.
func (x *Extractor) Thermal(path string) (*TemperatureGrid, error) {
	grids, err := x.ThermalBatch([]string{path})
	if err != nil {
		return nil, err
	}
	return grids[0], nil
}

// ThermalBatch extracts temperature grids from several FLIR images,
// returned in the same order as paths. If any image is non-radiometric
// or malformed the whole batch fails; callers wanting per-image
// results should batch accordingly.
func (x *Extractor) ThermalBatch(paths []string) ([]*TemperatureGrid, error) {
	if x.et == nil {
		return nil, fmt.Errorf("Extractor has not been initialised; run Init() first")
	}
	metas, err := x.et.Tags(ThermalTags, paths)
	if err != nil {
		return nil, err
	}

	grids := make([]*TemperatureGrid, len(paths))
	for i, path := range paths {
		params, err := ResolveMetadata(metas[i])
		if err != nil {
			return nil, fmt.Errorf("Error resolving metadata for %s: %w", path, err)
		}
		raw, err := x.rawGrid(path)
		if err != nil {
			return nil, err
		}
		grids[i] = RawToCelsius(raw, params)
	}
	return grids, nil
}

// rawGrid extracts and decodes the embedded raw thermal payload of one
// image.
func (x *Extractor) rawGrid(path string) (*RawThermalGrid, error) {
	payload, err := x.et.Binary(rawThermalTag, path)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("Error extracting %s: %w", path,
			MissingCalibrationError{Tag: rawThermalTag})
	}
	raw, err := decodeRawPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("Error decoding raw thermal payload of %s: %v", path, err)
	}
	return raw, nil
}

// decodeRawPayload decodes a raw thermal payload into a grid of sensor
// counts, normalising byte order. FLIR cameras write the 16 bit samples
// of PNG payloads in little-endian order, the opposite of what the PNG
// format specifies, so samples from PNG payloads are byte-swapped after
// decoding. TIFF payloads declare their own byte order and come out of
// the decoder correct.
func decodeRawPayload(payload []byte) (*RawThermalGrid, error) {
	img, format, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	grid := NewRawThermalGrid(b.Dx(), b.Dy())

	switch t := img.(type) {
	case *image.Gray16:
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				grid.Pix[i] = t.Gray16At(x, y).Y
				i++
			}
		}
	default:
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				grid.Pix[i] = color.Gray16Model.Convert(img.At(x, y)).(color.Gray16).Y
				i++
			}
		}
	}

	if format == "png" {
		for i, v := range grid.Pix {
			grid.Pix[i] = v<<8 | v>>8
		}
	}
	return grid, nil
}
