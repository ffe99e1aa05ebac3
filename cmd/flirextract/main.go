// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// flirextract extracts per-pixel temperatures from radiometric FLIR
// images on the local filesystem.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/aloisklink/flirextractor"
	"github.com/aloisklink/flirextractor/internal/batch"
)

const usage = `Usage: flirextract [-workers n] [-exiftool path] [-d dir] [-png] [-graph] [-pdf] [-v] file.jpg ...

Extracts per-pixel temperatures in Celsius from radiometric FLIR
images, writing a .csv next to each image (or into the directory given
with -d). The -png, -graph and -pdf flags additionally write a false
colour rendering, a temperature histogram, and a one-page PDF report
per image.

exiftool must be installed; -exiftool selects a specific executable.
Each worker runs its own exiftool process, so -workers 4 will spawn 4
of them.
`

// null writer to enable non-verbose logging to be discarded
type NullWriter bool

func (w NullWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

var verboselog *log.Logger

// outpath returns the output path for an image, replacing its
// extension, in dir if set.
func outpath(imgpath, dir, ext string) string {
	base := filepath.Base(imgpath)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ext
	if dir == "" {
		dir = filepath.Dir(imgpath)
	}
	return filepath.Join(dir, base)
}

func writeCSV(temps *flirextractor.TemperatureGrid, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return temps.WriteCSV(f)
}

func writePNG(temps *flirextractor.TemperatureGrid, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, flirextractor.RenderFalseColor(temps))
}

func writeGraph(temps *flirextractor.TemperatureGrid, name, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return flirextractor.Graph(temps, name, f)
}

func writePDF(temps *flirextractor.TemperatureGrid, name, path string) error {
	var p flirextractor.Fpdf
	err := p.Setup()
	if err != nil {
		return err
	}
	err = p.AddReport(name, temps)
	if err != nil {
		return err
	}
	return p.Save(path)
}

func main() {
	workers := flag.Int("workers", 1, "number of parallel extractions (each spawns an exiftool process)")
	exiftool := flag.String("exiftool", "", "path to the exiftool executable")
	outdir := flag.String("d", "", "directory to write output files to (default: next to each image)")
	dopng := flag.Bool("png", false, "also write a false colour rendering of each image")
	dograph := flag.Bool("graph", false, "also write a temperature histogram of each image")
	dopdf := flag.Bool("pdf", false, "also write a one-page PDF report of each image")
	verbose := flag.Bool("v", false, "Verbose")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		return
	}
	paths := flag.Args()

	if *verbose {
		verboselog = log.New(os.Stdout, "", log.LstdFlags)
	} else {
		var n NullWriter
		verboselog = log.New(n, "", log.LstdFlags)
	}

	var report func(batch.Result)
	if !*verbose {
		bar := progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("Extracting"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
		)
		report = func(r batch.Result) {
			_ = bar.Add(1)
		}
	} else {
		report = func(r batch.Result) {
			if r.Err != nil {
				verboselog.Println("Failed", r.Path)
			} else {
				verboselog.Println("Extracted", r.Path)
			}
		}
	}

	results := batch.Process(context.Background(), paths, *workers, *exiftool, verboselog, report)
	fmt.Fprintln(os.Stderr)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			log.Printf("Error processing %s: %v\n", r.Path, r.Err)
			failed++
			continue
		}
		name := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))

		err := writeCSV(r.Temps, outpath(r.Path, *outdir, ".csv"))
		if err == nil && *dopng {
			err = writePNG(r.Temps, outpath(r.Path, *outdir, ".png"))
		}
		if err == nil && *dograph {
			err = writeGraph(r.Temps, name, outpath(r.Path, *outdir, "-graph.png"))
		}
		if err == nil && *dopdf {
			err = writePDF(r.Temps, name, outpath(r.Path, *outdir, ".pdf"))
		}
		if err != nil {
			log.Printf("Error writing results for %s: %v\n", r.Path, err)
			failed++
		}
	}
	if failed > 0 {
		log.Fatalf("%d of %d images failed\n", failed, len(paths))
	}
}
