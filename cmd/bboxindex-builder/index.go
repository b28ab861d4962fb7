// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/brawer/bboxindex/spatialkey"
	"github.com/lanrat/extsort"
	"golang.org/x/sync/errgroup"
)

// Stats counts what happened to the input lines.
type Stats struct {
	Lines       int64
	Indexed     int64
	Malformed   int64
	OutOfDomain int64
}

// buildIndexFile reads bounding boxes from inPath and writes the sorted
// index report to outPath. We write to a temporary file first, and rename
// it atomically once it is finished in usable state. This prevents hiccups
// in case the process crashes (or the machine dies) while the output file
// is being written.
func buildIndexFile(inPath, outPath string, ctx context.Context) (Stats, error) {
	if logger != nil {
		logger.Printf("building %s from %s", outPath, inPath)
	}
	start := time.Now()

	r, err := OpenInput(inPath)
	if err != nil {
		return Stats{}, err
	}
	defer r.Close()

	tmppath := outPath + ".tmp"
	tmpfile, err := os.Create(tmppath)
	if err != nil {
		return Stats{}, err
	}
	defer tmpfile.Close()

	writer, err := NewOutputWriter(outPath, tmpfile)
	if err != nil {
		return Stats{}, err
	}
	defer writer.Close()

	stats, err := buildIndex(r, writer, ctx)
	if err != nil {
		return stats, err
	}

	// Close writer/compressor, ask kernel to ensure temp file is on disk, and close it.
	if err := writer.Close(); err != nil {
		return stats, err
	}
	if err := tmpfile.Sync(); err != nil {
		return stats, err
	}
	if err := tmpfile.Close(); err != nil {
		return stats, err
	}

	// Now that we have the result on disk, rename it to final path.
	if err := os.Rename(tmppath, outPath); err != nil {
		return stats, err
	}

	if logger != nil {
		logger.Printf("built %s in %.1fs", outPath, time.Since(start).Seconds())
	}
	return stats, nil
}

// buildIndex reads bounding boxes from r, sorts them by spatial key,
// and writes a report for each of them to w.
func buildIndex(r io.Reader, w io.Writer, ctx context.Context) (Stats, error) {
	var stats Stats
	ch := make(chan extsort.SortType, 50000)
	g, subCtx := errgroup.WithContext(ctx)
	config := extsort.DefaultConfig()
	config.NumWorkers = runtime.NumCPU()
	sorter, outChan, errChan := extsort.New(ch, BoundingBoxFromBytes, BoundingBoxLess, config)
	g.Go(func() error {
		return readBoundingBoxes(r, ch, &stats, subCtx)
	})
	g.Go(func() error {
		sorter.Sort(ctx) // not subCtx, as per extsort docs
		return nil
	})
	if err := g.Wait(); err != nil {
		return stats, err
	}

	bw := bufio.NewWriter(w)
	for data := range outChan {
		if err := writeRecord(bw, data.(BoundingBox)); err != nil {
			return stats, err
		}
	}

	// Check for errors from the external sorting library.
	if err := <-errChan; err != nil {
		return stats, err
	}

	if err := bw.Flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

// readBoundingBoxes parses lines of the form "lat1,lon1 lat2,lon2"
// and sends them to a channel. Lines that cannot be parsed or projected
// are skipped and counted in stats.
func readBoundingBoxes(r io.Reader, ch chan<- extsort.SortType, stats *Stats, ctx context.Context) error {
	defer close(ch)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		stats.Lines += 1
		bbox, err := ParseBoundingBox(scanner.Text())
		if err != nil {
			var parseErr *ParseError
			var domainErr *spatialkey.DomainError
			if errors.As(err, &parseErr) {
				stats.Malformed += 1
			} else if errors.As(err, &domainErr) {
				stats.OutOfDomain += 1
			} else {
				return err
			}
			if logger != nil {
				logger.Printf("line %d: %v", stats.Lines, err)
			}
			continue
		}

		// Check if our task has been canceled. Typically this can happen
		// because of an error in another goroutine in the same x.sync.errroup.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- bbox:
			stats.Indexed += 1
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return nil
}
