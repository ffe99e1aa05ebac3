// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package flirextractor

import "fmt"

// MissingCalibrationError is returned when an image does not contain a
// camera calibration constant which has no safe universal default, such
// as the Planck constants or the raw thermal payload itself. It usually
// means the image is not a radiometric FLIR image at all.
type MissingCalibrationError struct {
	Tag string
}

func (e MissingCalibrationError) Error() string {
	return fmt.Sprintf("No value for required calibration tag %s; is this a radiometric FLIR image?", e.Tag)
}

// MetadataReadError is returned when exiftool produced no metadata for
// a file, most commonly because the file does not exist or cannot be
// opened. Stderr carries exiftool's diagnostic output for the batch.
type MetadataReadError struct {
	Path   string
	Stderr string
}

func (e MetadataReadError) Error() string {
	return fmt.Sprintf("Could not read metadata for %s (stderr: %s)", e.Path, e.Stderr)
}

// MalformedMetadataError is returned when a metadata tag is present but
// its value cannot be parsed as a number.
type MalformedMetadataError struct {
	Tag   string
	Value string
}

func (e MalformedMetadataError) Error() string {
	return fmt.Sprintf("Could not parse metadata tag %s value %q as a number", e.Tag, e.Value)
}
