// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// flirbucket downloads every FLIR image under an S3 prefix, extracts
// per-pixel temperatures from them, and optionally uploads the
// resulting CSVs back to the bucket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/aloisklink/flirextractor"
	"github.com/aloisklink/flirextractor/internal/batch"
)

const usage = `Usage: flirbucket [-r region] [-workers n] [-exiftool path] [-d dir] [-upload] [-v] bucket [prefix]

Downloads every .jpg under prefix in an S3 bucket, extracts per-pixel
temperatures from each, and writes a temperature CSV per image to dir
(default: a temporary directory). With -upload, each CSV is also
stored back to the bucket next to its source image.
`

// null writer to enable non-verbose logging to be discarded
type NullWriter bool

func (w NullWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

var verboselog *log.Logger

func main() {
	region := flag.String("r", "", "AWS region the bucket is in")
	workers := flag.Int("workers", 1, "number of parallel extractions (each spawns an exiftool process)")
	exiftool := flag.String("exiftool", "", "path to the exiftool executable")
	outdir := flag.String("d", "", "directory to write CSVs to (default: a temporary directory)")
	upload := flag.Bool("upload", false, "upload each CSV back to the bucket")
	verbose := flag.Bool("v", false, "Verbose")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		return
	}
	bucket := flag.Arg(0)
	prefix := flag.Arg(1)

	if *verbose {
		verboselog = log.New(os.Stdout, "", log.LstdFlags)
	} else {
		var n NullWriter
		verboselog = log.New(n, "", log.LstdFlags)
	}

	conn := &flirextractor.AwsConn{Region: *region, Logger: verboselog}
	err := conn.Init()
	if err != nil {
		log.Fatalln("Failed to set up aws connection:", err)
	}

	verboselog.Println("Listing images in bucket", bucket)
	keys, err := conn.ListObjects(bucket, prefix)
	if err != nil {
		log.Fatalln("Failed to list bucket:", err)
	}
	var imgkeys []string
	for _, k := range keys {
		ext := strings.ToLower(filepath.Ext(k))
		if ext == ".jpg" || ext == ".jpeg" {
			imgkeys = append(imgkeys, k)
		}
	}
	if len(imgkeys) == 0 {
		log.Fatalf("No images found under s3://%s/%s\n", bucket, prefix)
	}

	dir := *outdir
	if dir == "" {
		dir, err = os.MkdirTemp("", "flirbucket")
		if err != nil {
			log.Fatalln("Failed to create temporary directory:", err)
		}
	}

	paths := make([]string, len(imgkeys))
	for i, k := range imgkeys {
		paths[i] = filepath.Join(dir, strings.ReplaceAll(k, "/", "_"))
		verboselog.Println("Downloading", k)
		err = conn.Download(bucket, k, paths[i])
		if err != nil {
			log.Fatalf("Failed to download %s: %v\n", k, err)
		}
	}

	results := batch.Process(context.Background(), paths, *workers, *exiftool, verboselog, func(r batch.Result) {
		if r.Err != nil {
			verboselog.Println("Failed", r.Path)
		} else {
			verboselog.Println("Extracted", r.Path)
		}
	})

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			log.Printf("Error processing %s: %v\n", imgkeys[r.Index], r.Err)
			failed++
			continue
		}
		csvpath := strings.TrimSuffix(r.Path, filepath.Ext(r.Path)) + ".csv"
		f, err := os.Create(csvpath)
		if err == nil {
			err = r.Temps.WriteCSV(f)
			f.Close()
		}
		if err != nil {
			log.Printf("Error writing csv for %s: %v\n", imgkeys[r.Index], err)
			failed++
			continue
		}
		if *upload {
			key := strings.TrimSuffix(imgkeys[r.Index], filepath.Ext(imgkeys[r.Index])) + ".csv"
			verboselog.Println("Uploading", key)
			err = conn.Upload(bucket, key, csvpath)
			if err != nil {
				log.Printf("Error uploading %s: %v\n", key, err)
				failed++
			}
		}
	}
	fmt.Printf("Wrote CSVs for %d images to %s\n", len(results)-failed, dir)
	if failed > 0 {
		log.Fatalf("%d of %d images failed\n", failed, len(imgkeys))
	}
}
