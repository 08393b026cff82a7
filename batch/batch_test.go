// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unixdj/artag"
)

func bitString(w io.Writer, m *artag.Marker) error {
	_, err := io.WriteString(w, m.Bits.String())
	return err
}

func TestRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	var logBuf bytes.Buffer
	g := Generator{
		Fs:     fs,
		Dir:    "out/tags",
		Ext:    ".txt",
		Encode: bitString,
		Log:    log.New(&logBuf, "", 0),
		Jobs:   3,
	}
	// 42 fails the structural check, 8192 and -1 are out of range.
	st, err := g.Run(context.Background(), []int{0, 42, 8192, -1, 3, 0})
	require.NoError(t, err)
	assert.Equal(t, Stats{Written: 3, Skipped: 3}, st)

	data, err := afero.ReadFile(fs, "out/tags/0000.txt")
	require.NoError(t, err)
	assert.Equal(t, "1000000000001000", string(data))
	data, err = afero.ReadFile(fs, "out/tags/0003.txt")
	require.NoError(t, err)
	assert.Equal(t, "1000000000001110", string(data))

	names, err := afero.ReadDir(fs, "out/tags")
	require.NoError(t, err)
	assert.Len(t, names, 2, "temporary files left behind")
	assert.Contains(t, logBuf.String(), "skipping 42")
	assert.Contains(t, logBuf.String(), "skipping 8192")
}

func TestRunForce(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := Generator{Fs: fs, Dir: "tags", Ext: ".txt", Force: true, Encode: bitString}
	st, err := g.Run(context.Background(), []int{42, 8191, 8192})
	require.NoError(t, err)
	assert.Equal(t, Stats{Written: 2, Skipped: 1}, st)
	ok, err := afero.Exists(fs, "tags/8191.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunExistingDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("out", 0755))
	g := Generator{Fs: fs, Dir: "out", Ext: ".txt", Encode: bitString}
	st, err := g.Run(context.Background(), []int{0})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Written)
}

func TestRunDirError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "out", []byte("file"), 0644))
	g := Generator{Fs: fs, Dir: "out", Ext: ".txt", Encode: bitString}
	_, err := g.Run(context.Background(), []int{0})
	assert.Error(t, err)
}

func TestRunReadOnly(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("out", 0755))
	g := Generator{
		Fs:     afero.NewReadOnlyFs(base),
		Dir:    "out",
		Ext:    ".txt",
		Encode: bitString,
	}
	_, err := g.Run(context.Background(), []int{0})
	assert.Error(t, err)
}

func TestRunEncodeError(t *testing.T) {
	fs := afero.NewMemMapFs()
	errBoom := errors.New("boom")
	g := Generator{
		Fs:  fs,
		Dir: "out",
		Ext: ".txt",
		Encode: func(w io.Writer, m *artag.Marker) error {
			if m.Code == 3 {
				return errBoom
			}
			return bitString(w, m)
		},
		Jobs: 1,
	}
	_, err := g.Run(context.Background(), []int{0, 3, 5})
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "0003.txt")
	ok, _ := afero.Exists(fs, "out/0003.txt")
	assert.False(t, ok)
	names, _ := afero.ReadDir(fs, "out")
	for _, fi := range names {
		assert.False(t, strings.HasPrefix(fi.Name(), ".artag-"), fi.Name())
	}
}

func TestRunPerm(t *testing.T) {
	dir := t.TempDir()
	g := Generator{Dir: dir, Ext: ".txt", Encode: bitString}
	_, err := g.Run(context.Background(), []int{0})
	require.NoError(t, err)
	info, err := os.Stat(filepath.Join(dir, "0000.txt"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPerm, info.Mode().Perm())

	fs := afero.NewMemMapFs()
	g = Generator{Fs: fs, Dir: "out", Ext: ".txt", Encode: bitString, Perm: 0600}
	_, err = g.Run(context.Background(), []int{3})
	require.NoError(t, err)
	info, err = fs.Stat("out/0003.txt")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestRunNoEncoder(t *testing.T) {
	var g Generator
	_, err := g.Run(context.Background(), []int{0})
	assert.Error(t, err)
}

func TestName(t *testing.T) {
	g := Generator{Dir: "tags", Ext: ".png"}
	assert.Equal(t, "tags/0042.png", g.Name(42))
	assert.Equal(t, "tags/8191.png", g.Name(8191))
}

func TestPrint(t *testing.T) {
	var b bytes.Buffer
	enc := func(w io.Writer, m *artag.Marker) error {
		if err := bitString(w, m); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}
	var logBuf bytes.Buffer
	st, err := Print(&b, []int{3, 42, 0}, false, enc, log.New(&logBuf, "", 0))
	require.NoError(t, err)
	assert.Equal(t, Stats{Written: 2, Skipped: 1}, st)
	assert.Equal(t, "1000000000001110\n1000000000001000\n", b.String())
	assert.Contains(t, logBuf.String(), "skipping 42")

	b.Reset()
	st, err = Print(&b, []int{8192, 0}, false, enc, nil)
	require.NoError(t, err)
	assert.Equal(t, Stats{Written: 1, Skipped: 1}, st)
}

func TestSkippable(t *testing.T) {
	assert.True(t, Skippable(artag.ErrRange))
	assert.True(t, Skippable(artag.ErrChecksum))
	assert.False(t, Skippable(artag.ErrArgs))
	assert.False(t, Skippable(nil))
}
