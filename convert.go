// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package flirextractor

import "math"

// celsiusKelvinDiff is the offset between 0 Celsius and 0 Kelvin.
const celsiusKelvinDiff = 273.15

// WaterVaporPressure returns the saturated water vapour pressure in
// mmHg for a given temperature in Celsius. The polynomial approximation
// is the one used in FLIR's own atmospheric correction.
func WaterVaporPressure(tempC float64) float64 {
	return math.Exp(1.5587 +
		0.06939*tempC -
		0.00027816*tempC*tempC +
		0.00000068455*tempC*tempC*tempC)
}

// atmosphericTransmission returns the fraction of IR radiance that
// survives a path of distance meters through the atmosphere, for a
// given relative humidity (as a fraction) and atmospheric temperature
// in Celsius. Two exponential decay terms are mixed by the X constant.
//
// See Minkina and Dudzik's "Infrared Thermography: Errors and
// Uncertainties" for background on the model.
func atmosphericTransmission(humidity, tempC, distance float64, a AtmosConsts) float64 {
	h2o := humidity * WaterVaporPressure(tempC)
	sqrtH2o := math.Sqrt(h2o)
	sqrtDist := math.Sqrt(distance)
	term1 := math.Exp(-sqrtDist * (a.Alpha1 + a.Beta1*sqrtH2o))
	term2 := math.Exp(-sqrtDist * (a.Alpha2 + a.Beta2*sqrtH2o))
	return a.X*term1 + (1-a.X)*term2
}

// RawValue returns the raw sensor signal a blackbody at the given
// temperature in Celsius would produce, via the inverse Planck formula.
func (pl PlanckConsts) RawValue(tempC float64) float64 {
	kelvin := tempC + celsiusKelvinDiff
	return pl.R1/(pl.R2*(math.Exp(pl.B/kelvin)-pl.F)) - pl.O
}

// Temperature is the inverse of RawValue: the temperature in Celsius of
// a blackbody producing the given raw signal. The result is NaN when
// the signal is outside the range the constants can represent.
func (pl PlanckConsts) Temperature(raw float64) float64 {
	return pl.B/math.Log(pl.R1/(pl.R2*(raw+pl.O))+pl.F) - celsiusKelvinDiff
}

// signalModel holds the scalar part of the radiometric conversion: the
// combined divisor of the object signal and the raw-count-equivalent
// radiance reaching the sensor from everything that is not the object.
type signalModel struct {
	divisor   float64
	nonObject float64
}

// newSignalModel builds the scalar correction terms for a set of
// calibration parameters. Following the original FLIR tooling, the IR
// window is assumed to sit at the midpoint of the object distance, so
// atmospheric transmission is computed separately for each half of the
// path. The non-object radiance is the sum of the reflected background,
// the atmosphere and the window itself, each weighted by the
// emissivity/transmission factors accumulated up to that point.
func newSignalModel(p CalibrationParameters) signalModel {
	windowEmissivity := 1 - p.IRWindowTransmission
	// anti-reflective coating on the window
	const windowReflection = 0

	objectToWindow := p.ObjectDistance / 2
	windowToSensor := p.ObjectDistance - objectToWindow
	tau1 := atmosphericTransmission(p.RelativeHumidity, p.AtmosphericTemperature, objectToWindow, p.Atmos)
	tau2 := atmosphericTransmission(p.RelativeHumidity, p.AtmosphericTemperature, windowToSensor, p.Atmos)

	divisor := 1.0

	divisor *= p.Emissivity
	reflBeforeWindow := (1 - p.Emissivity) / divisor * p.Planck.RawValue(p.ReflectedApparentTemperature)

	divisor *= tau1
	atmBeforeWindow := (1 - tau1) / divisor * p.Planck.RawValue(p.AtmosphericTemperature)

	divisor *= p.IRWindowTransmission
	window := windowEmissivity / divisor * p.Planck.RawValue(p.IRWindowTemperature)
	reflAfterWindow := windowReflection / divisor * p.Planck.RawValue(p.ReflectedApparentTemperature)

	divisor *= tau2
	atmAfterWindow := (1 - tau2) / divisor * p.Planck.RawValue(p.AtmosphericTemperature)

	return signalModel{
		divisor:   divisor,
		nonObject: reflBeforeWindow + atmBeforeWindow + window + reflAfterWindow + atmAfterWindow,
	}
}

// RawToCelsius converts a grid of raw sensor counts into a grid of
// temperatures in Celsius of the same dimensions. It is a pure
// function; neither input is modified and no state is shared, so it is
// safe to call from multiple goroutines.
//
// Cells whose corrected signal falls outside the representable range
// (raw counts of 0 for masked pixels, say) convert to NaN rather than
// failing, so that callers can post-filter invalid pixels.
func RawToCelsius(raw *RawThermalGrid, p CalibrationParameters) *TemperatureGrid {
	m := newSignalModel(p)
	temps := NewTemperatureGrid(raw.Width, raw.Height)
	for i, v := range raw.Pix {
		objSignal := float64(v)/m.divisor - m.nonObject
		temps.Temps[i] = p.Planck.Temperature(objSignal)
	}
	return temps
}

// CelsiusToRaw is the inverse of RawToCelsius: it derives the raw
// sensor counts that would convert to the given temperatures under the
// same calibration parameters, rounded to the nearest count. Mostly
// useful for synthesising test imagery and for checking a conversion
// round trip.
func CelsiusToRaw(temps *TemperatureGrid, p CalibrationParameters) *RawThermalGrid {
	m := newSignalModel(p)
	raw := NewRawThermalGrid(temps.Width, temps.Height)
	for i, t := range temps.Temps {
		objSignal := p.Planck.RawValue(t)
		raw.Pix[i] = uint16(math.Round((objSignal + m.nonObject) * m.divisor))
	}
	return raw
}
