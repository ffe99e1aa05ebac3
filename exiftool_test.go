// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package flirextractor

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReadResponse(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"text", "abc\n{ready}\n", "abc\n"},
		{"empty", "{ready}\n", ""},
		{"binary_no_trailing_newline", "\x89PNG\r\nrawdata{ready}\n", "\x89PNG\r\nrawdata"},
		{"marker_split_across_reads", strings.Repeat("x", 5000) + "\n{ready}\n", strings.Repeat("x", 5000) + "\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := bufio.NewReader(strings.NewReader(c.input))
			got, err := readResponse(r)
			if err != nil {
				t.Fatalf("Could not read response: %v\n", err)
			}
			if !bytes.Equal(got, []byte(c.want)) {
				t.Errorf("Read %q, expected %q\n", got, c.want)
			}
		})
	}
}

func TestReadResponseSequential(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("first\n{ready}\nsecond\n{ready}\n"))
	got, err := readResponse(r)
	if err != nil {
		t.Fatalf("Could not read first response: %v\n", err)
	}
	if string(got) != "first\n" {
		t.Errorf("First response was %q, expected \"first\\n\"\n", got)
	}
	got, err = readResponse(r)
	if err != nil {
		t.Fatalf("Could not read second response: %v\n", err)
	}
	if string(got) != "second\n" {
		t.Errorf("Second response was %q, expected \"second\\n\"\n", got)
	}
}

func TestParseTagOutput(t *testing.T) {
	out := []byte(`[
		{"SourceFile": "b.jpg", "Emissivity": 0.95},
		{"SourceFile": "a.jpg", "Emissivity": "0.90", "AtmosphericTemperature": "20.0 C"}
	]`)
	metas, err := parseTagOutput(out, []string{"a.jpg", "b.jpg"}, "")
	if err != nil {
		t.Fatalf("Could not parse tag output: %v\n", err)
	}
	if metas[0]["Emissivity"] != "0.90" || metas[0]["AtmosphericTemperature"] != "20.0 C" {
		t.Errorf("Wrong metadata matched to a.jpg: %v\n", metas[0])
	}
	if metas[1]["Emissivity"] != "0.95" {
		t.Errorf("Wrong metadata matched to b.jpg: %v\n", metas[1])
	}
}

// A file exiftool could not open is skipped in its json output, with
// the open failure reported only on stderr; that has to surface as a
// typed error naming the file.
func TestParseTagOutputMissingFile(t *testing.T) {
	out := []byte(`[{"SourceFile": "a.jpg", "Emissivity": 0.95}]`)
	stderr := "Error: File not found - gone.jpg"
	_, err := parseTagOutput(out, []string{"a.jpg", "gone.jpg"}, stderr)
	if err == nil {
		t.Fatalf("Expected an error for a file with no metadata in the output\n")
	}
	var mre MetadataReadError
	if !errors.As(err, &mre) {
		t.Fatalf("Expected a MetadataReadError, got %T: %v\n", err, err)
	}
	if mre.Path != "gone.jpg" {
		t.Errorf("Error names path %q, expected \"gone.jpg\"\n", mre.Path)
	}
	if mre.Stderr != stderr {
		t.Errorf("Error carries stderr %q, expected %q\n", mre.Stderr, stderr)
	}
}

func TestReadResponseTruncated(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("output with no marker"))
	_, err := readResponse(r)
	if err == nil {
		t.Errorf("Expected an error for output with no end marker\n")
	}
}
