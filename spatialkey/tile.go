// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package spatialkey

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Tile is a web mercator tile, addressed by zoom/x/y.
type Tile struct {
	Zoom uint8
	X, Y uint32
}

// WorldTile is the tile for the entire planet, to the extent it is visible
// in the Web Mercator projection.
var WorldTile = Tile{}

// MakeTile returns a Tile after checking that its coordinates exist
// at the given zoom level.
func MakeTile(zoom uint8, x, y uint32) (Tile, error) {
	if zoom > MaxZoom {
		return Tile{}, &RangeError{Op: "MakeTile", Arg: "zoom", Value: uint64(zoom), Max: MaxZoom}
	}
	if err := checkTileCoords("MakeTile", zoom, uint64(x), uint64(y)); err != nil {
		return Tile{}, err
	}
	return Tile{Zoom: zoom, X: x, Y: y}, nil
}

func checkTileCoords(op string, zoom uint8, x, y uint64) error {
	limit := uint64(1)<<zoom - 1
	if x > limit {
		return &RangeError{Op: op, Arg: "x", Value: x, Max: limit}
	}
	if y > limit {
		return &RangeError{Op: op, Arg: "y", Value: y, Max: limit}
	}
	return nil
}

// TileOf returns the tile at the given zoom level that contains p.
func TileOf(p GridPoint, zoom uint8) Tile {
	shift := GridZoom - zoom
	return Tile{Zoom: zoom, X: uint32(uint64(p.X) >> shift), Y: uint32(uint64(p.Y) >> shift)}
}

var tileRegexp = regexp.MustCompile(`^(\d+)/(\d+)/(\d+)$`)

// ParseTile parses a tile in zoom/x/y notation, such as "7/42/23".
func ParseTile(s string) (Tile, error) {
	match := tileRegexp.FindStringSubmatch(s)
	if match == nil {
		return Tile{}, fmt.Errorf("tile not in zoom/x/y format: %q", s)
	}

	var v [3]uint64
	for i := range v {
		n, err := strconv.ParseUint(match[i+1], 10, 64)
		if err != nil {
			return Tile{}, fmt.Errorf("bad tile %q: %w", s, err)
		}
		v[i] = n
	}

	if v[0] > MaxZoom {
		return Tile{}, &RangeError{Op: "ParseTile", Arg: "zoom", Value: v[0], Max: MaxZoom}
	}
	zoom := uint8(v[0])
	if err := checkTileCoords("ParseTile", zoom, v[1], v[2]); err != nil {
		return Tile{}, err
	}
	return Tile{Zoom: zoom, X: uint32(v[1]), Y: uint32(v[2])}, nil
}

// String formats the tile coordinates into a string.
func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Zoom, t.X, t.Y)
}

// ToZoom returns the tile at zoom z that is aligned with t. For coarser
// zoom levels, this is the ancestor that contains t; for finer ones,
// it is the north-western descendant.
func (t Tile) ToZoom(z uint8) Tile {
	if z <= t.Zoom {
		shift := t.Zoom - z
		return Tile{Zoom: z, X: t.X >> shift, Y: t.Y >> shift}
	}
	shift := z - t.Zoom
	return Tile{Zoom: z, X: t.X << shift, Y: t.Y << shift}
}

// Contains returns true if this tile strictly contains `other`.
func (t Tile) Contains(other Tile) bool {
	if other.Zoom > t.Zoom {
		return t == other.ToZoom(t.Zoom)
	}
	return false
}

// Bounds returns the edges of the tile in degrees.
func (t Tile) Bounds() (north, west, south, east float64) {
	north = TileLatitude(t.Zoom, t.Y) * 180 / math.Pi
	south = TileLatitude(t.Zoom, t.Y+1) * 180 / math.Pi
	west = TileLongitude(t.Zoom, t.X)
	east = TileLongitude(t.Zoom, t.X+1)
	return north, west, south, east
}

// Area returns the area of a web mercator tile in km².
func (t Tile) Area() float64 {
	earthSurface := 510065623.0 // in km²
	latFraction := (TileLatitude(t.Zoom, t.Y) - TileLatitude(t.Zoom, t.Y+1)) / math.Pi
	return earthSurface * latFraction / float64(uint64(1)<<t.Zoom)
}
