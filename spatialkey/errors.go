// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package spatialkey

import (
	"fmt"
)

// DomainError reports a geographic position that cannot be placed
// on the Web Mercator grid, such as a latitude at or beyond the poles.
type DomainError struct {
	Op       string
	Lat, Lon float64
	Reason   string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("spatialkey: %s(%g, %g): %s", e.Op, e.Lat, e.Lon, e.Reason)
}

// RangeError reports an argument outside its permitted range,
// typically a zoom level above MaxZoom. Min and Max are inclusive.
type RangeError struct {
	Op       string
	Arg      string
	Value    uint64
	Min, Max uint64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("spatialkey: %s: %s %d out of range [%d, %d]",
		e.Op, e.Arg, e.Value, e.Min, e.Max)
}
