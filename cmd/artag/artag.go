package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/unixdj/artag"
	"github.com/unixdj/artag/batch"
	"github.com/unixdj/artag/split"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
)

var g = struct {
	scale   int           // pixels per cell
	palette artag.Palette // colours of opaque cells
	dir     string        // output directory, "-" for standard output
	format  int           // output file format
	jobs    int           // concurrent encoders
	force   bool          // ignore structural check
	verbose bool          // log to standard error
}{
	scale: artag.DefaultCellSize,
	dir:   ".",
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	fmt.Fprint(w, "AR marker tag generator\nUsage: ", cl.Program(), " ",
		cl.UsageLine(), ` N[..M] ...
Each argument is an integer code N or an inclusive range N..M.  Codes
from 0 to `, artag.MaxCode, ` are encodable; codes failing the marker
self-check are skipped unless -f is given.  Files are named after the
code, zero padded to four digits.

`)
	var b bytes.Buffer
	cl.PrintOptions(&b)
	w.Write(b.Bytes())
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`artag version 0.1.0
Copyright (c) 2025 Vadim Vygonets`)
	os.Exit(0)
}

// paletteValue parses palettes while parsing options, rejecting
// unknown ones before any marker is drawn.
type paletteValue struct{ p *artag.Palette }

func (v paletteValue) String() string { return v.p.String() }

func (v paletteValue) Set(s string, _ getopt.Option) error {
	p, err := artag.ParsePalette(s)
	if err != nil {
		return err
	}
	*v.p = p
	return nil
}

var formats = []string{
	"png", "PNG", "gif", "bmp", "tiff", "ppm", "pbm", "utf8", "ascii",
}

var suffixes = [...]string{
	".png", ".png", ".gif", ".bmp", ".tiff", ".ppm", ".pbm", ".txt", ".txt",
}

// text reports whether format f is printable on a terminal.
func text(f int) bool { return formats[f] == "utf8" || formats[f] == "ascii" }

var encoders = [...]batch.EncodeFunc{
	func(w io.Writer, m *artag.Marker) error {
		img, err := artag.Paletted(m, g.palette, g.scale)
		if err != nil {
			return err
		}
		return artag.EncodePNG(w, img, fmt.Sprintf("AR tag %04d", m.Code))
	},
	rgba(artag.EncodeStdPNG),
	rgba(func(w io.Writer, img image.Image) error {
		return artag.EncodeGIF(w, img, len(g.palette.Colors()))
	}),
	func(w io.Writer, m *artag.Marker) error {
		img, err := artag.Paletted(m, g.palette, g.scale)
		if err != nil {
			return err
		}
		return artag.EncodeBMP(w, img)
	},
	rgba(artag.EncodeTIFF),
	rgba(artag.EncodePPM),
	func(w io.Writer, m *artag.Marker) error {
		return artag.EncodePBM(w, m, g.scale)
	},
	func(w io.Writer, m *artag.Marker) error {
		_, err := fmt.Fprint(w, m)
		return err
	},
	artag.EncodeASCII,
}

// rgba returns an EncodeFunc rendering markers to RGBA images for enc.
func rgba(enc func(io.Writer, image.Image) error) batch.EncodeFunc {
	return func(w io.Writer, m *artag.Marker) error {
		img, err := artag.Render(m, g.palette, g.scale)
		if err != nil {
			return err
		}
		return enc(w, img)
	}
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.FlagLong(opt(help), "help", 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.FlagLong(&g.force, "force", 'f',
		"draw codes failing the marker self-check")
	getopt.FlagLong(&g.verbose, "verbose", 'v',
		"log skipped codes and written files")
	getopt.FlagLong(&g.dir, "out-dir", 'o', `output directory, `+
		`created if absent, or "-" for standard output`, "dir")
	getopt.FlagLong(paletteValue{&g.palette}, "palette", 'p',
		"palette: 0 black and white, 1 red, green and blue", "P")
	scale := getopt.UnsignedLong("box-size", 's', artag.DefaultCellSize,
		&getopt.UnsignedLimit{Base: 0, Bits: 32, Min: 1, Max: 1 << 16},
		"cell size per side in pixels", "size")
	jobs := getopt.Unsigned('j', 0, &getopt.UnsignedLimit{Base: 0, Bits: 16, Min: 0, Max: 1024},
		"number of markers encoded concurrently, "+
			"0 for the number of CPUs", "jobs")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+`; "png" uses a bespoke `+
		`paletted PNG encoder, "PNG" the standard Go encoder; `+
		`if -o is "-" and standard output is a TTY, default is `+
		`utf8, otherwise png`, "type")

	getopt.Parse()
	g.scale = int(*scale)
	g.jobs = int(*jobs)
	if *ff == "" {
		if g.dir == "-" && isTerminal(os.Stdout) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	for i, v := range formats {
		if *ff == v {
			g.format = i
			break
		}
	}
	if g.dir == "-" && !text(g.format) && isTerminal(os.Stdout) {
		fmt.Fprintln(os.Stderr, "not writing", *ff, "images to a terminal")
		usage()
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func main() {
	log.SetFlags(0)
	parseFlags()

	args := getopt.Args()
	if len(args) == 0 {
		usage()
	}
	codes, err := split.Codes(args)
	if err != nil {
		log.Fatalln(err)
	}

	logger := log.New(io.Discard, "", 0)
	if g.verbose {
		logger.SetOutput(os.Stderr)
	}

	var st batch.Stats
	if g.dir == "-" {
		w := bufio.NewWriter(os.Stdout)
		st, err = batch.Print(w, codes, g.force, encoders[g.format],
			logger)
		if ferr := w.Flush(); err == nil {
			err = ferr
		}
	} else {
		ctx, stop := signal.NotifyContext(context.Background(),
			os.Interrupt)
		defer stop()
		gen := batch.Generator{
			Dir:    g.dir,
			Ext:    suffixes[g.format],
			Force:  g.force,
			Encode: encoders[g.format],
			Log:    logger,
			Jobs:   g.jobs,
		}
		st, err = gen.Run(ctx, codes)
		if errors.Is(err, context.Canceled) {
			err = errors.New("interrupted")
		}
	}
	logger.Printf("%d written, %d skipped", st.Written, st.Skipped)
	if err != nil {
		log.Fatalln(err)
	}
}
