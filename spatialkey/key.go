// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package spatialkey

import (
	"fmt"
	"strconv"
)

// Key is a sortable 64-bit spatial key. From the most significant bit,
// it holds 5 bits of zoom level, 56 bits of interleaved y/x coordinates,
// and 3 tag bits which are reserved and currently always zero.
//
// Coordinate bits are interleaved from the most significant bit
// downwards, with the y bit above the x bit of each pair. When sorting
// keys of the same zoom, the resulting order is a Morton (Z-order)
// traversal; keys sharing a coordinate prefix lie in the same tile.
// Keys of coarser zoom levels sort before those of finer ones.
type Key uint64

const (
	zoomShift = 59
	tagBits   = 3
	tagMask   = 1<<tagBits - 1
	zoomMask  = uint64(0x1f) << zoomShift
)

// Encode returns the Key for grid point p at the given zoom level.
// The lowest GridZoom-MaxZoom bits of each axis do not fit into
// the key and get dropped.
func Encode(p GridPoint, zoom uint8) (Key, error) {
	if zoom > MaxZoom {
		return 0, &RangeError{Op: "Encode", Arg: "zoom", Value: uint64(zoom), Max: MaxZoom}
	}
	return makeKey(zoom, p.X, p.Y), nil
}

// EncodeBoundingBox returns the Key for a bounding box whose corners
// are p1 and p2. The zoom is the finest one whose tiles contain
// both corners; the coordinates are those of p1.
func EncodeBoundingBox(p1, p2 GridPoint) Key {
	return makeKey(ResolveZoom(p1, p2), p1.X, p1.Y)
}

// Decode splits a Key into its zoom level and grid point. The bits that
// Encode had to drop are zero in the returned point.
func Decode(k Key) (zoom uint8, p GridPoint, err error) {
	zoom = k.Zoom()
	if zoom > MaxZoom {
		return 0, GridPoint{}, &RangeError{Op: "Decode", Arg: "zoom", Value: uint64(zoom), Max: MaxZoom}
	}
	return zoom, k.Point(), nil
}

func makeKey(zoom uint8, x, y uint32) Key {
	val := uint64(zoom) << zoomShift
	shift := uint8(tagBits)
	for bit := uint8(GridZoom - MaxZoom); bit < GridZoom; bit++ {
		xm := uint64((x>>bit)&1) << shift
		ym := uint64((y>>bit)&1) << (shift + 1)
		val |= xm | ym
		shift += 2
	}
	return Key(val)
}

// Zoom returns the zoom level of a Key.
func (k Key) Zoom() uint8 {
	return uint8(k >> zoomShift)
}

// Point returns the grid point of a Key, without checking its zoom.
func (k Key) Point() (p GridPoint) {
	val := uint64(k)
	shift := uint8(tagBits)
	for bit := uint8(GridZoom - MaxZoom); bit < GridZoom; bit++ {
		p.X |= (uint32(val>>shift) & 1) << bit
		p.Y |= (uint32(val>>(shift+1)) & 1) << bit
		shift += 2
	}
	return p
}

// Tags returns the reserved tag bits.
func (k Key) Tags() uint8 {
	return uint8(k) & tagMask
}

// Tile returns the tile at the key’s own zoom level that contains its point.
func (k Key) Tile() Tile {
	return TileOf(k.Point(), k.Zoom())
}

// String formats the key as 16 hex digits.
func (k Key) String() string {
	return fmt.Sprintf("%016x", uint64(k))
}

// ParseKey parses a key formatted by String. It does not check
// the zoom field; use Decode for that.
func ParseKey(s string) (Key, error) {
	val, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, err
	}
	return Key(val), nil
}
