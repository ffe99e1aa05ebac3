// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package flirextractor

import (
	"errors"
	"testing"
)

// planckMeta returns metadata carrying only the Planck constants, the
// minimum for ResolveMetadata to succeed.
func planckMeta() map[string]string {
	return map[string]string{
		"PlanckR1": "21106.77",
		"PlanckR2": "0.012545258",
		"PlanckB":  "1501",
		"PlanckF":  "1",
		"PlanckO":  "-7340",
	}
}

func TestResolveDefaults(t *testing.T) {
	c, err := ResolveMetadata(planckMeta())
	if err != nil {
		t.Fatalf("Could not resolve metadata: %v\n", err)
	}
	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"Emissivity", c.Emissivity, 0.95},
		{"ObjectDistance", c.ObjectDistance, 1.0},
		{"ReflectedApparentTemperature", c.ReflectedApparentTemperature, 20.0},
		{"AtmosphericTemperature", c.AtmosphericTemperature, 20.0},
		{"IRWindowTemperature", c.IRWindowTemperature, 20.0},
		{"IRWindowTransmission", c.IRWindowTransmission, 1.0},
		{"RelativeHumidity", c.RelativeHumidity, 0.5},
	}
	for _, cs := range cases {
		if cs.got != cs.want {
			t.Errorf("Default for %s is %v, expected %v\n", cs.name, cs.got, cs.want)
		}
	}
	if c.Planck != DefaultPlanck {
		t.Errorf("Parsed Planck constants %+v differ from %+v\n", c.Planck, DefaultPlanck)
	}
	if c.Atmos != DefaultAtmos {
		t.Errorf("Atmospheric constants %+v differ from fixed %+v\n", c.Atmos, DefaultAtmos)
	}
}

func TestResolveMissingCalibration(t *testing.T) {
	cases := []struct {
		name   string
		remove string
	}{
		{"nometadata", ""},
		{"noplanckr2", "PlanckR2"},
		{"noplancko", "PlanckO"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			meta := planckMeta()
			want := "PlanckR1"
			if c.remove == "" {
				meta = map[string]string{}
			} else {
				delete(meta, c.remove)
				want = c.remove
			}
			_, err := ResolveMetadata(meta)
			var missing MissingCalibrationError
			if !errors.As(err, &missing) {
				t.Fatalf("Expected MissingCalibrationError, got %v\n", err)
			}
			if missing.Tag != want {
				t.Errorf("Error names tag %s, expected %s\n", missing.Tag, want)
			}
		})
	}
}

func TestResolveDependentDefault(t *testing.T) {
	meta := planckMeta()
	meta["AtmosphericTemperature"] = "30.0"
	c, err := ResolveMetadata(meta)
	if err != nil {
		t.Fatalf("Could not resolve metadata: %v\n", err)
	}
	if c.IRWindowTemperature != 30.0 {
		t.Errorf("IRWindowTemperature is %v, expected the atmospheric temperature 30.0\n", c.IRWindowTemperature)
	}

	meta["IRWindowTemperature"] = "25.0"
	c, err = ResolveMetadata(meta)
	if err != nil {
		t.Fatalf("Could not resolve metadata: %v\n", err)
	}
	if c.IRWindowTemperature != 25.0 {
		t.Errorf("Explicit IRWindowTemperature is %v, expected 25.0\n", c.IRWindowTemperature)
	}
}

func TestResolveUnits(t *testing.T) {
	cases := []struct {
		tag   string
		value string
		field func(CalibrationParameters) float64
		want  float64
	}{
		{"AtmosphericTemperature", "20.0 C", func(c CalibrationParameters) float64 { return c.AtmosphericTemperature }, 20.0},
		{"ObjectDistance", "1.50 m", func(c CalibrationParameters) float64 { return c.ObjectDistance }, 1.5},
		{"RelativeHumidity", "45%", func(c CalibrationParameters) float64 { return c.RelativeHumidity }, 0.45},
		{"RelativeHumidity", "45.0 %", func(c CalibrationParameters) float64 { return c.RelativeHumidity }, 0.45},
		{"RelativeHumidity", "45.0", func(c CalibrationParameters) float64 { return c.RelativeHumidity }, 0.45},
		{"RelativeHumidity", "0.45", func(c CalibrationParameters) float64 { return c.RelativeHumidity }, 0.45},
		{"Emissivity", "0.80", func(c CalibrationParameters) float64 { return c.Emissivity }, 0.8},
		// out of range values pass through unchecked
		{"Emissivity", "1.2", func(c CalibrationParameters) float64 { return c.Emissivity }, 1.2},
	}
	for _, cs := range cases {
		t.Run(cs.tag+"_"+cs.value, func(t *testing.T) {
			meta := planckMeta()
			meta[cs.tag] = cs.value
			c, err := ResolveMetadata(meta)
			if err != nil {
				t.Fatalf("Could not resolve metadata: %v\n", err)
			}
			if got := cs.field(c); got != cs.want {
				t.Errorf("Tag %s value %q resolved to %v, expected %v\n", cs.tag, cs.value, got, cs.want)
			}
		})
	}
}

func TestResolveAlias(t *testing.T) {
	meta := planckMeta()
	meta["SubjectDistance"] = "3.0"
	c, err := ResolveMetadata(meta)
	if err != nil {
		t.Fatalf("Could not resolve metadata: %v\n", err)
	}
	if c.ObjectDistance != 3.0 {
		t.Errorf("Legacy SubjectDistance resolved to %v, expected 3.0\n", c.ObjectDistance)
	}

	meta["ObjectDistance"] = "5.0"
	c, err = ResolveMetadata(meta)
	if err != nil {
		t.Fatalf("Could not resolve metadata: %v\n", err)
	}
	if c.ObjectDistance != 5.0 {
		t.Errorf("ObjectDistance resolved to %v, expected the primary tag to win with 5.0\n", c.ObjectDistance)
	}
}

func TestResolveMalformed(t *testing.T) {
	meta := planckMeta()
	meta["Emissivity"] = "abc"
	_, err := ResolveMetadata(meta)
	var malformed MalformedMetadataError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedMetadataError, got %v\n", err)
	}
	if malformed.Tag != "Emissivity" {
		t.Errorf("Error names tag %s, expected Emissivity\n", malformed.Tag)
	}
	if malformed.Value != "abc" {
		t.Errorf("Error carries value %q, expected \"abc\"\n", malformed.Value)
	}
}
