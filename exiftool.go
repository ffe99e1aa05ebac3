// Copyright 2019 Alois Klink.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package flirextractor

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
)

// readyMarker is printed by exiftool after each command's output when
// running with -stay_open.
var readyMarker = []byte("{ready}")

// Exiftool wraps a long-lived exiftool child process running in
// -stay_open mode, so that many extractions can share one process
// rather than paying the perl startup cost per image.
//
// An Exiftool must be Init()ed before use and Close()d afterwards;
// Close shuts the child process down on every exit path, so the usual
// pattern is to defer it immediately after a successful Init. Methods
// must not be called concurrently from multiple goroutines; use one
// Exiftool per goroutine instead.
type Exiftool struct {
	// these should be set before running Init(), or left to defaults
	Path   string // exiftool executable, defaults to "exiftool" in $PATH
	Logger *log.Logger

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	stderr bytes.Buffer
}

// Init starts the exiftool child process. On failure no process is left
// behind.
func (e *Exiftool) Init() error {
	if e.Path == "" {
		e.Path = "exiftool"
	}
	if e.Logger == nil {
		e.Logger = log.New(os.Stdout, "", 0)
	}

	cmd := exec.Command(e.Path, "-stay_open", "True", "-@", "-")
	cmd.Stderr = &e.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("Error creating stdin pipe for exiftool: %v", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("Error creating stdout pipe for exiftool: %v", err)
	}

	e.Logger.Println("Starting exiftool process")
	err = cmd.Start()
	if err != nil {
		return fmt.Errorf("Error starting %s: %v", e.Path, err)
	}
	e.cmd = cmd
	e.stdin = stdin
	e.stdout = bufio.NewReader(stdout)
	return nil
}

// Close asks the exiftool process to shut down and waits for it to
// exit. Safe to call after a failed Init.
func (e *Exiftool) Close() error {
	if e.cmd == nil {
		return nil
	}
	fmt.Fprint(e.stdin, "-stay_open\nFalse\n")
	e.stdin.Close()
	err := e.cmd.Wait()
	e.cmd = nil
	if err != nil {
		return fmt.Errorf("Error shutting down exiftool: %v", err)
	}
	e.Logger.Println("Shut down exiftool process")
	return nil
}

// execute sends one command to the exiftool process and returns its
// output.
func (e *Exiftool) execute(args ...string) ([]byte, error) {
	if e.cmd == nil {
		return nil, fmt.Errorf("Exiftool has not been initialised; run Init() first")
	}
	e.stderr.Reset()
	for _, a := range args {
		fmt.Fprintln(e.stdin, a)
	}
	_, err := fmt.Fprintln(e.stdin, "-execute")
	if err != nil {
		return nil, fmt.Errorf("Error writing to exiftool: %v", err)
	}
	out, err := readResponse(e.stdout)
	if err != nil {
		return nil, fmt.Errorf("Error reading from exiftool: %v (stderr: %s)", err, e.stderr.String())
	}
	return out, nil
}

// readResponse reads one command's output, which ends with a marker
// line. The marker is not necessarily at the start of a line, as binary
// output need not end with a newline, so every line's tail is checked.
// Reading is line-wise so that nothing beyond the marker is consumed
// from the reader.
func readResponse(r *bufio.Reader) ([]byte, error) {
	markerLine := append(append([]byte{}, readyMarker...), '\n')
	var buf []byte
	for {
		line, err := r.ReadBytes('\n')
		if bytes.HasSuffix(line, markerLine) {
			return append(buf, line[:len(line)-len(markerLine)]...), nil
		}
		buf = append(buf, line...)
		if err != nil {
			return nil, fmt.Errorf("exiftool exited before finishing its output: %v", err)
		}
	}
}

// Tags reads the given metadata tags from several files in a single
// exiftool round trip. It returns one tag name to value text mapping
// per path, in the same order as paths. Numeric values are returned in
// their printed form, which may carry a unit annotation such as
// "20.0 C"; ResolveMetadata knows how to deal with those.
func (e *Exiftool) Tags(tags []string, paths []string) ([]map[string]string, error) {
	args := []string{"-j"}
	for _, t := range tags {
		args = append(args, "-"+t)
	}
	args = append(args, paths...)

	out, err := e.execute(args...)
	if err != nil {
		return nil, err
	}
	return parseTagOutput(out, paths, e.stderr.String())
}

// parseTagOutput decodes exiftool's -j output and matches one metadata
// map to each requested path. exiftool skips unreadable files rather
// than failing the whole batch, so results are matched back to paths by
// SourceFile; a path with no result yields a MetadataReadError carrying
// exiftool's stderr, which is where the underlying open failure ends up.
func parseTagOutput(out []byte, paths []string, stderr string) ([]map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(out))
	dec.UseNumber()
	var objs []map[string]interface{}
	if err := dec.Decode(&objs); err != nil {
		return nil, fmt.Errorf("Error parsing exiftool json output: %v (stderr: %s)", err, stderr)
	}

	bySource := make(map[string]map[string]string, len(objs))
	for _, obj := range objs {
		meta := make(map[string]string, len(obj))
		source := ""
		for k, v := range obj {
			if k == "SourceFile" {
				source, _ = v.(string)
				continue
			}
			switch t := v.(type) {
			case string:
				meta[k] = t
			case json.Number:
				meta[k] = t.String()
			default:
				meta[k] = fmt.Sprint(t)
			}
		}
		bySource[source] = meta
	}

	metas := make([]map[string]string, len(paths))
	for i, p := range paths {
		meta, ok := bySource[p]
		if !ok {
			return nil, MetadataReadError{Path: p, Stderr: stderr}
		}
		metas[i] = meta
	}
	return metas, nil
}

// Binary extracts the raw bytes of a single tag from a file. A nil
// result with no error means the file does not have the tag.
func (e *Exiftool) Binary(tag string, path string) ([]byte, error) {
	out, err := e.execute("-b", "-"+tag, path)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
