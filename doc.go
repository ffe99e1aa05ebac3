// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

/*
The flirextractor package extracts per-pixel temperature data from
radiometric FLIR infrared images.

FLIR cameras embed the raw sensor counts and the camera calibration
constants inside the JPEG files they produce. This package uses the
exiftool program to pull both out of the file, resolves the calibration
metadata into a full set of typed parameters, and converts the raw
counts into temperatures in degrees Celsius using the camera's Planck
calibration constants, corrected for emissivity, atmospheric
transmission and any IR window in front of the lens.

exiftool must be installed for extraction to work; see
https://exiftool.org for installation instructions. The conversion
itself (ResolveMetadata and RawToCelsius) needs no external programs
and can be used on its own if the metadata and raw counts have been
obtained some other way.

Basic usage looks like this:

	x := new(flirextractor.Extractor)
	err := x.Init()
	if err != nil {
		log.Fatalln(err)
	}
	defer x.Close()

	temps, err := x.Thermal("flir.jpg")
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Printf("top-left pixel: %.1f C\n", temps.At(0, 0))

Use ThermalBatch to load several images with a single metadata round
trip to exiftool, which is considerably faster than calling Thermal in
a loop.

Images with no thermal calibration data at all (for example a plain
photograph, or a thermal image exported without radiometric data) are
rejected with a MissingCalibrationError. Pixels whose raw value cannot
be converted (masked or invalid sensor readings) come out as NaN and
can be filtered by the caller.

The package also contains some conveniences for working with the
extracted temperatures: CSV export, false-colour and grayscale
rendering, temperature histogram graphs, and one-page PDF reports.
These are used by the flirextract command, which processes images from
the local filesystem, and the flirbucket command, which processes
every image under an S3 prefix.
*/
package flirextractor
