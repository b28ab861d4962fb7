// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/brawer/bboxindex/spatialkey"
	"github.com/lanrat/extsort"
)

// BoundingBox is an input record, together with its spatial key.
type BoundingBox struct {
	Key                    spatialkey.Key
	Lat1, Lon1, Lat2, Lon2 float64
}

// ParseError tells that an input line is not of the form "lat1,lon1 lat2,lon2".
type ParseError struct {
	Line string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("expected \"lat1,lon1 lat2,lon2\", got %q", e.Line)
}

const decimalPattern = `([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)`

// Anything after the fourth number, such as a label, gets ignored.
var boundingBoxRegexp = regexp.MustCompile(
	`^\s*` + decimalPattern + `,` + decimalPattern + `\s+` + decimalPattern + `,` + decimalPattern + `(?:\s|$)`)

// ParseBoundingBox parses a line with two corners of a bounding box.
// Lines that do not match the format yield a ParseError; corners that
// cannot be projected to Web Mercator yield a spatialkey.DomainError.
func ParseBoundingBox(s string) (BoundingBox, error) {
	match := boundingBoxRegexp.FindStringSubmatch(s)
	if match == nil || len(match) != 5 {
		return BoundingBox{}, &ParseError{Line: s}
	}

	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(match[i+1], 64)
		if err != nil {
			return BoundingBox{}, &ParseError{Line: s}
		}
		v[i] = f
	}

	p1, err := spatialkey.GridPointOf(v[0], v[1])
	if err != nil {
		return BoundingBox{}, err
	}
	p2, err := spatialkey.GridPointOf(v[2], v[3])
	if err != nil {
		return BoundingBox{}, err
	}

	return BoundingBox{
		Key:  spatialkey.EncodeBoundingBox(p1, p2),
		Lat1: v[0], Lon1: v[1],
		Lat2: v[2], Lon2: v[3],
	}, nil
}

// ToBytes serializes a BoundingBox into a byte array.
func (b BoundingBox) ToBytes() []byte {
	var buf [40]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(b.Key))
	binary.BigEndian.PutUint64(buf[8:16], math.Float64bits(b.Lat1))
	binary.BigEndian.PutUint64(buf[16:24], math.Float64bits(b.Lon1))
	binary.BigEndian.PutUint64(buf[24:32], math.Float64bits(b.Lat2))
	binary.BigEndian.PutUint64(buf[32:40], math.Float64bits(b.Lon2))
	return buf[:]
}

// BoundingBoxFromBytes de-serializes a BoundingBox from a byte array.
// The result is returned as an extsort.SortType because that is
// needed by the library for external sorting.
func BoundingBoxFromBytes(b []byte) extsort.SortType {
	return BoundingBox{
		Key:  spatialkey.Key(binary.BigEndian.Uint64(b[0:8])),
		Lat1: math.Float64frombits(binary.BigEndian.Uint64(b[8:16])),
		Lon1: math.Float64frombits(binary.BigEndian.Uint64(b[16:24])),
		Lat2: math.Float64frombits(binary.BigEndian.Uint64(b[24:32])),
		Lon2: math.Float64frombits(binary.BigEndian.Uint64(b[32:40])),
	}
}

// BoundingBoxLess returns true if BoundingBox a should be sorted before b.
// Records with the same key are ordered by their corners, so that
// the output does not depend on the order of the input.
func BoundingBoxLess(a, b extsort.SortType) bool {
	aa := a.(BoundingBox)
	bb := b.(BoundingBox)
	if aa.Key != bb.Key {
		return aa.Key < bb.Key
	}
	for _, c := range [][2]float64{
		{aa.Lat1, bb.Lat1}, {aa.Lon1, bb.Lon1},
		{aa.Lat2, bb.Lat2}, {aa.Lon2, bb.Lon2},
	} {
		if c[0] != c[1] {
			return c[0] < c[1]
		}
	}
	return false
}
