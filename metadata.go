// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package flirextractor

import (
	"strconv"
	"strings"
)

// PlanckConsts are the factory calibration constants relating raw
// sensor counts to radiance, stored in FLIR image metadata. They are
// camera specific, so there is no safe universal default.
type PlanckConsts struct {
	R1, R2, B, F, O float64
}

// AtmosConsts are the empirical constants of the atmospheric
// transmission model.
type AtmosConsts struct {
	Alpha1, Alpha2, Beta1, Beta2, X float64
}

// DefaultAtmos holds the atmospheric transmission constants used by
// FLIR cameras. Per-image metadata carries the same values, so they are
// treated as fixed rather than read from each image.
var DefaultAtmos = AtmosConsts{
	Alpha1: 6.569e-3,
	Alpha2: 12.62e-3,
	Beta1:  -2.276e-3,
	Beta2:  -6.67e-3,
	X:      1.9,
}

// DefaultPlanck holds the Planck constants of the FLIR E-series camera
// family. ResolveMetadata never falls back to these; they are exported
// for callers that knowingly want to convert an image whose calibration
// metadata has been stripped.
var DefaultPlanck = PlanckConsts{
	R1: 21106.77,
	R2: 0.012545258,
	B:  1501,
	F:  1,
	O:  -7340,
}

// CalibrationParameters holds every physical constant needed to convert
// raw sensor counts into temperatures.
type CalibrationParameters struct {
	Emissivity                   float64 // ratio between 0 and 1
	ObjectDistance               float64 // meters
	ReflectedApparentTemperature float64 // Celsius
	AtmosphericTemperature       float64 // Celsius
	IRWindowTemperature          float64 // Celsius
	IRWindowTransmission         float64 // ratio between 0 and 1
	RelativeHumidity             float64 // fraction between 0 and 1
	Planck                       PlanckConsts
	Atmos                        AtmosConsts
}

// ThermalTags lists every metadata tag needed by ResolveMetadata,
// including legacy aliases. Pass these to Exiftool.Tags when reading
// metadata for conversion.
var ThermalTags = []string{
	"Emissivity",
	"ObjectDistance",
	"SubjectDistance",
	"ReflectedApparentTemperature",
	"AtmosphericTemperature",
	"IRWindowTemperature",
	"IRWindowTransmission",
	"RelativeHumidity",
	"PlanckR1",
	"PlanckR2",
	"PlanckB",
	"PlanckF",
	"PlanckO",
}

// parseFloatValue parses a metadata value which may carry a unit
// annotation, such as "20.0 C", "1.00 m" or "45 %". A percentage is
// normalised to a fraction.
func parseFloatValue(tag, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	percent := strings.HasSuffix(s, "%")
	if percent {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	if i := strings.IndexByte(s, ' '); i != -1 {
		s = s[:i]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, MalformedMetadataError{Tag: tag, Value: raw}
	}
	if percent {
		f /= 100
	}
	return f, nil
}

// lookupFloat resolves a parameter from metadata, trying each tag in
// order (the primary tag name first, then any legacy aliases), falling
// back to def if none are present.
func lookupFloat(meta map[string]string, def float64, tags ...string) (float64, error) {
	for _, tag := range tags {
		if raw, ok := meta[tag]; ok {
			return parseFloatValue(tag, raw)
		}
	}
	return def, nil
}

// requireFloat is lookupFloat for tags with no safe default; a missing
// tag is a MissingCalibrationError.
func requireFloat(meta map[string]string, tag string) (float64, error) {
	raw, ok := meta[tag]
	if !ok {
		return 0, MissingCalibrationError{Tag: tag}
	}
	return parseFloatValue(tag, raw)
}

// ResolveMetadata turns raw metadata tag values, as returned by
// exiftool, into a fully populated CalibrationParameters. Documented
// defaults are applied for any absent parameter, except the Planck
// constants, which must be present for the conversion to be meaningful:
// a missing Planck tag fails with a MissingCalibrationError.
//
// Values are not range checked. Real camera metadata sometimes carries
// physically impossible values (an emissivity above 1, say), and these
// are passed through unchanged.
func ResolveMetadata(meta map[string]string) (CalibrationParameters, error) {
	c := CalibrationParameters{Atmos: DefaultAtmos}

	var err error
	if c.Emissivity, err = lookupFloat(meta, 0.95, "Emissivity"); err != nil {
		return c, err
	}
	if c.ObjectDistance, err = lookupFloat(meta, 1.0, "ObjectDistance", "SubjectDistance"); err != nil {
		return c, err
	}
	if c.ReflectedApparentTemperature, err = lookupFloat(meta, 20.0, "ReflectedApparentTemperature"); err != nil {
		return c, err
	}
	if c.AtmosphericTemperature, err = lookupFloat(meta, 20.0, "AtmosphericTemperature"); err != nil {
		return c, err
	}
	// the window temperature defaults to the atmospheric temperature,
	// so it has to be resolved after it
	if c.IRWindowTemperature, err = lookupFloat(meta, c.AtmosphericTemperature, "IRWindowTemperature"); err != nil {
		return c, err
	}
	if c.IRWindowTransmission, err = lookupFloat(meta, 1.0, "IRWindowTransmission"); err != nil {
		return c, err
	}
	if c.RelativeHumidity, err = lookupFloat(meta, 0.5, "RelativeHumidity"); err != nil {
		return c, err
	}
	// exiftool -n prints RelativeHumidity as a bare percentage number,
	// with no % suffix to trigger normalisation above
	if c.RelativeHumidity > 1 {
		c.RelativeHumidity /= 100
	}

	if c.Planck.R1, err = requireFloat(meta, "PlanckR1"); err != nil {
		return c, err
	}
	if c.Planck.R2, err = requireFloat(meta, "PlanckR2"); err != nil {
		return c, err
	}
	if c.Planck.B, err = requireFloat(meta, "PlanckB"); err != nil {
		return c, err
	}
	if c.Planck.F, err = requireFloat(meta, "PlanckF"); err != nil {
		return c, err
	}
	if c.Planck.O, err = requireFloat(meta, "PlanckO"); err != nil {
		return c, err
	}

	return c, nil
}
