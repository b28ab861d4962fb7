// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package main

import (
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// OpenInput opens a file for reading. Depending on the file name suffix,
// the content gets decompressed with Brotli (.br), Zstandard (.zst),
// bzip2 (.bz2), xz (.xz) or gzip (.gz). The path "-" stands for stdin.
func OpenInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var r io.Reader
	switch {
	case strings.HasSuffix(path, ".br"):
		r = brotli.NewReader(f)

	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		rc := dec.IOReadCloser()
		return &multiCloser{rc, []io.Closer{rc, f}}, nil

	case strings.HasSuffix(path, ".bz2"):
		bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
		if err != nil {
			f.Close()
			return nil, err
		}
		return &multiCloser{bz, []io.Closer{bz, f}}, nil

	case strings.HasSuffix(path, ".xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		r = xzr

	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &multiCloser{gz, []io.Closer{gz, f}}, nil

	default:
		return f, nil
	}

	return &multiCloser{r, []io.Closer{f}}, nil
}

// NewOutputWriter wraps w into a compressor chosen by the suffix of path,
// using Brotli (.br) or Zstandard (.zst). Other files are not compressed.
// Closing the returned writer flushes the compressor but leaves w open.
func NewOutputWriter(path string, w io.Writer) (io.WriteCloser, error) {
	switch {
	case strings.HasSuffix(path, ".br"):
		return brotli.NewWriterLevel(w, 9), nil

	case strings.HasSuffix(path, ".zst"):
		zstdLevel := zstd.WithEncoderLevel(zstd.SpeedBestCompression)
		return zstd.NewWriter(w, zstdLevel)

	default:
		return nopWriteCloser{w}, nil
	}
}

// ContentType returns the MIME type for storing a file in object storage.
func ContentType(path string) string {
	switch {
	case strings.HasSuffix(path, ".br"):
		return "application/x-brotli"
	case strings.HasSuffix(path, ".zst"):
		return "application/zstd"
	default:
		return "text/plain; charset=utf-8"
	}
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var firstErr error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
