// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package split splits command line arguments into lists of AR tag
codes.

Each argument is either a decimal code N or an inclusive range N..M.
A range with M less than N is empty.  Codes are not checked against the
valid code range; encoding rejects them later.
*/
package split // import "github.com/unixdj/artag/split"

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// MaxRange is the maximum number of codes returned by Codes.
const MaxRange = 1 << 20

const sep = ".."

var ErrTooMany = errors.New("split: too many codes")

// A SyntaxError reports a malformed argument.
type SyntaxError struct {
	Arg string // argument
	Err error  // underlying error
}

func (e *SyntaxError) Error() string {
	return "split: bad code " + strconv.Quote(e.Arg) + ": " + e.Err.Error()
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// A Range is an inclusive range of codes.
type Range struct {
	Lo, Hi int
}

// Len returns the number of codes in r.
func (r Range) Len() int {
	if r.Hi < r.Lo {
		return 0
	}
	return int(min(uint(r.Hi-r.Lo), math.MaxInt-1) + 1)
}

func (r Range) String() string {
	if r.Lo == r.Hi {
		return strconv.Itoa(r.Lo)
	}
	return strconv.Itoa(r.Lo) + sep + strconv.Itoa(r.Hi)
}

// Parse parses a single argument.
func Parse(arg string) (Range, error) {
	lo, hi, ok := strings.Cut(arg, sep)
	n, err := atoi(lo)
	if err != nil {
		return Range{}, &SyntaxError{arg, err}
	}
	r := Range{n, n}
	if ok {
		if r.Hi, err = atoi(hi); err != nil {
			return Range{}, &SyntaxError{arg, err}
		}
	}
	return r, nil
}

// atoi parses a decimal number, reporting the error without the
// strconv prefix.
func atoi(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if ne, ok := err.(*strconv.NumError); ok {
		err = ne.Err
	}
	return n, err
}

// Ranges parses args.
func Ranges(args []string) ([]Range, error) {
	rr := make([]Range, 0, len(args))
	for _, arg := range args {
		r, err := Parse(arg)
		if err != nil {
			return nil, err
		}
		rr = append(rr, r)
	}
	return rr, nil
}

// Codes parses args and returns the codes in order, duplicates
// included.
func Codes(args []string) ([]int, error) {
	rr, err := Ranges(args)
	if err != nil {
		return nil, err
	}
	n := 0
	for _, r := range rr {
		if n += r.Len(); n > MaxRange || n < 0 {
			return nil, ErrTooMany
		}
	}
	codes := make([]int, 0, n)
	for _, r := range rr {
		for i := 0; i < r.Len(); i++ {
			codes = append(codes, r.Lo+i)
		}
	}
	return codes, nil
}
