// Tool for plotting a bounding box index onto a map of the world.
//
// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/brawer/bboxindex/spatialkey"
	"github.com/fogleman/gg"
	"github.com/klauspost/compress/zstd"
)

func main() {
	in := flag.String("in", "", "path to index report built by bboxindex-builder")
	out := flag.String("out", "bboxindex.png", "path to output file being written")
	size := flag.Int("size", 1024, "width and height of the plot in pixels")
	gridZoom := flag.Int("grid-zoom", 2, "zoom level of the tile grid drawn in the background")
	flag.Parse()

	if err := PlotFile(*in, *out, *size, uint8(*gridZoom)); err != nil {
		log.Fatal(err)
	}
}

// PlotFile reads an index report and writes a PNG plot of its records.
func PlotFile(inPath, outPath string, size int, gridZoom uint8) error {
	r, err := openReport(inPath)
	if err != nil {
		return err
	}
	defer r.Close()

	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	if err := PlotIndex(r, outFile, size, gridZoom); err != nil {
		return err
	}
	return outFile.Close()
}

// PlotIndex draws the records of an index report onto a square
// Web Mercator canvas. Records are connected in the order of their
// keys, which traces the Z-order curve through the index.
func PlotIndex(r io.Reader, w io.Writer, size int, gridZoom uint8) error {
	points, err := readPoints(r)
	if err != nil {
		return err
	}

	plotSize := float64(size)
	dc := gg.NewContext(size, size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if gridZoom > 0 && gridZoom <= spatialkey.MaxZoom {
		n := 1 << gridZoom
		dc.SetRGB(0.85, 0.85, 0.85)
		dc.SetLineWidth(1)
		for i := 1; i < n; i++ {
			pos := plotSize * float64(i) / float64(n)
			dc.DrawLine(pos, 0, pos, plotSize)
			dc.DrawLine(0, pos, plotSize, pos)
		}
		dc.Stroke()
	}

	type point struct{ x, y float64 }
	graph := make([]point, 0, len(points))
	for _, p := range points {
		x := float64(p.X) / (1 << spatialkey.GridZoom) * plotSize
		y := float64(p.Y) / (1 << spatialkey.GridZoom) * plotSize
		graph = append(graph, point{x, y})
	}

	dc.SetRGB(0, 0.4, 1)
	dc.SetLineWidth(1)
	for i, p := range graph {
		if i == 0 {
			dc.MoveTo(p.x, p.y)
		} else {
			dc.LineTo(p.x, p.y)
		}
	}
	dc.Stroke()

	dc.SetRGB(0.8, 0, 0)
	for _, p := range graph {
		dc.DrawCircle(p.x, p.y, 3)
		dc.Fill()
	}

	return dc.EncodePNG(w)
}

// readPoints returns the decoded grid points of the records
// in an index report, in the order in which they appear.
func readPoints(r io.Reader) ([]spatialkey.GridPoint, error) {
	points := make([]spatialkey.GridPoint, 0, 1000)
	scanner := bufio.NewScanner(r)
	var line int64
	for scanner.Scan() {
		line += 1
		text := scanner.Text()
		if text == "" || text[0] == '\t' {
			continue
		}
		fields := strings.Fields(text)
		key, err := spatialkey.ParseKey(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		_, p, err := spatialkey.Decode(key)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

type reportReader struct {
	io.Reader
	closers []io.Closer
}

func (r *reportReader) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// openReport opens an index report, decompressing it if its file name
// ends in .br or .zst.
func openReport(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".br"):
		return &reportReader{brotli.NewReader(f), []io.Closer{f}}, nil

	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		rc := dec.IOReadCloser()
		return &reportReader{rc, []io.Closer{rc, f}}, nil

	default:
		return f, nil
	}
}
