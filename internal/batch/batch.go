// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// batch is a package used by the flirextract and flirbucket commands
// to run extractions over many images concurrently, using channels to
// coordinate jobs. Note that it is considered an "internal" package,
// not intended for external use, and no guarantee is made of the
// stability of any interfaces provided.
package batch

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/aloisklink/flirextractor"
)

// Result is the outcome of extracting one image.
type Result struct {
	Index int
	Path  string
	Temps *flirextractor.TemperatureGrid
	Err   error
}

// Process extracts the temperature grid from every path, fanning the
// work out to the given number of workers. Each worker owns a private
// exiftool process, since the wrapper is not safe for concurrent use.
// Results come back sorted in input order; an image that failed has its
// Err set, without affecting the rest of the batch.
//
// report, if not nil, is called once per completed image from the
// collecting goroutine, in completion order; useful for progress
// reporting. Cancelling ctx stops new jobs being dispatched, so the
// returned slice may be shorter than paths.
func Process(ctx context.Context, paths []string, workers int, exiftoolPath string, logger *log.Logger, report func(Result)) []Result {
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			x := &flirextractor.Extractor{ExiftoolPath: exiftoolPath, Logger: logger}
			err := x.Init()
			if err != nil {
				// consume the rest of the jobs channel so it
				// isn't blocked, failing each job
				for j := range jobs {
					results <- Result{Index: j, Path: paths[j], Err: fmt.Errorf("Error starting exiftool: %v", err)}
				}
				return
			}
			defer x.Close()
			for j := range jobs {
				temps, err := x.Thermal(paths[j])
				results <- Result{Index: j, Path: paths[j], Temps: temps, Err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range paths {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]Result, 0, len(paths))
	for r := range results {
		if report != nil {
			report(r)
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
