// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package batch writes AR tags for lists of codes into a directory.

Each marker is written to a file named after its code, zero padded to
four digits, e.g. "0042.png".  Files are written to a temporary name in
the same directory and renamed into place.
*/
package batch // import "github.com/unixdj/artag/batch"

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/unixdj/artag"
)

// An EncodeFunc writes an image of the marker to w.
type EncodeFunc func(w io.Writer, m *artag.Marker) error

// Stats counts processed codes.
type Stats struct {
	Written int // files written
	Skipped int // codes rejected by artag.Encode
}

// A Generator writes markers to files.
type Generator struct {
	Fs     afero.Fs    // file system, afero.NewOsFs() if nil
	Dir    string      // output directory
	Ext    string      // file name suffix, including the dot
	Force  bool        // passed to artag.Encode
	Encode EncodeFunc  // image encoder
	Log    *log.Logger // verbose log, discarded if nil
	Jobs   int         // concurrent encoders, runtime.NumCPU() if < 1
	Perm   os.FileMode // mode of written files, DefaultPerm if 0
}

// DefaultPerm is the default mode of written files.
const DefaultPerm os.FileMode = 0644

// Name returns the file name for code.
func (g *Generator) Name(code int) string {
	return filepath.Join(g.Dir, fmt.Sprintf("%04d%s", code, g.Ext))
}

// Run creates the output directory if absent and writes a marker for
// each code.  Codes rejected by artag.Encode are skipped.  The first
// other error stops the run.
func (g *Generator) Run(ctx context.Context, codes []int) (Stats, error) {
	if g.Encode == nil {
		return Stats{}, errors.New("batch: no encoder")
	}
	fs := g.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	logger := g.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := mkdir(fs, g.Dir); err != nil {
		return Stats{}, err
	}

	jobs := g.Jobs
	if jobs < 1 {
		jobs = runtime.NumCPU()
	}
	var written, skipped atomic.Int64
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for _, code := range codes {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			m, err := artag.Encode(code, g.Force)
			if err != nil {
				if !Skippable(err) {
					return err
				}
				logger.Printf("skipping %d: %v", code, err)
				skipped.Add(1)
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			name := g.Name(code)
			if err := g.write(fs, name, m); err != nil {
				return err
			}
			logger.Printf("wrote %s", name)
			written.Add(1)
			return nil
		})
	}
	err := eg.Wait()
	return Stats{int(written.Load()), int(skipped.Load())}, err
}

// mkdir creates dir unless it exists.
func mkdir(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0777); err != nil {
		return err
	}
	info, err := fs.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("batch: %s: not a directory", dir)
	}
	return nil
}

// Skippable reports whether err is a rejection by artag.Encode.
func Skippable(err error) bool {
	return errors.Is(err, artag.ErrRange) || errors.Is(err, artag.ErrChecksum)
}

// write writes m to a temporary file and renames it to name.
func (g *Generator) write(fs afero.Fs, name string, m *artag.Marker) (err error) {
	f, err := afero.TempFile(fs, g.Dir, ".artag-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			fs.Remove(tmp)
		}
	}()
	if err = g.Encode(f, m); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	perm := g.Perm
	if perm == 0 {
		perm = DefaultPerm
	}
	if err = fs.Chmod(tmp, perm); err != nil {
		return err
	}
	return fs.Rename(tmp, name)
}

// Print writes markers for codes to w in order, skipping codes
// rejected by artag.Encode.  Skipped codes are logged to logger unless
// it is nil.
func Print(w io.Writer, codes []int, force bool, enc EncodeFunc,
	logger *log.Logger) (Stats, error) {
	var st Stats
	for _, code := range codes {
		m, err := artag.Encode(code, force)
		if err != nil {
			if Skippable(err) {
				if logger != nil {
					logger.Printf("skipping %d: %v", code, err)
				}
				st.Skipped++
				continue
			}
			return st, err
		}
		if err := enc(w, m); err != nil {
			return st, err
		}
		st.Written++
	}
	return st, nil
}
