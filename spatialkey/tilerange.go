// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package spatialkey

import (
	"fmt"
)

// TileRange is an inclusive interval of keys.
type TileRange struct {
	Start, End Key
}

// ComputeRange returns the keys of zoom level queryZoom whose
// coordinates fall into tile x/y at zoom tileZoom. The two zoom levels
// play different roles: queryZoom goes into the zoom field of the keys,
// while tileZoom determines the footprint. Use Tile.AncestorRange
// and Tile.DescendantRange unless you need both to vary freely.
func ComputeRange(queryZoom, tileZoom uint8, x, y uint32) (TileRange, error) {
	if queryZoom > MaxZoom {
		return TileRange{}, &RangeError{Op: "ComputeRange", Arg: "queryZoom", Value: uint64(queryZoom), Max: MaxZoom}
	}
	if tileZoom > MaxZoom {
		return TileRange{}, &RangeError{Op: "ComputeRange", Arg: "tileZoom", Value: uint64(tileZoom), Max: MaxZoom}
	}
	if err := checkTileCoords("ComputeRange", tileZoom, uint64(x), uint64(y)); err != nil {
		return TileRange{}, err
	}

	shift := GridZoom - tileZoom
	start := makeKey(queryZoom, uint32(uint64(x)<<shift), uint32(uint64(y)<<shift))

	// Below the 5 zoom bits and the 2*tileZoom bits of the tile
	// prefix, every bit may take any value inside the tile.
	end := uint64(start) | ^uint64(0)>>(2*uint(tileZoom)+5)
	return TileRange{Start: start, End: Key(end)}, nil
}

// AncestorRange returns the range of keys at queryZoom that lie in
// the ancestor of t at queryZoom, which must not be finer than t.
func (t Tile) AncestorRange(queryZoom uint8) (TileRange, error) {
	if queryZoom > t.Zoom {
		return TileRange{}, &RangeError{Op: "AncestorRange", Arg: "queryZoom", Value: uint64(queryZoom), Max: uint64(t.Zoom)}
	}
	a := t.ToZoom(queryZoom)
	return ComputeRange(queryZoom, a.Zoom, a.X, a.Y)
}

// DescendantRange returns the range of keys at queryZoom that lie
// inside t, for a queryZoom that must not be coarser than t.
func (t Tile) DescendantRange(queryZoom uint8) (TileRange, error) {
	if queryZoom < t.Zoom || queryZoom > MaxZoom {
		return TileRange{}, &RangeError{Op: "DescendantRange", Arg: "queryZoom", Value: uint64(queryZoom), Min: uint64(t.Zoom), Max: MaxZoom}
	}
	return ComputeRange(queryZoom, t.Zoom, t.X, t.Y)
}

// Ranges returns, for every zoom level from 0 to MaxZoom, the range of
// keys which may overlap with t. Keys are assigned the finest zoom
// level that contains their whole bounding box, so boxes overlapping t
// are either keyed in an ancestor of t, or somewhere inside t.
func (t Tile) Ranges() ([]TileRange, error) {
	if t.Zoom > MaxZoom {
		return nil, &RangeError{Op: "Ranges", Arg: "zoom", Value: uint64(t.Zoom), Max: MaxZoom}
	}

	result := make([]TileRange, 0, MaxZoom+1)
	for zoom := uint8(0); zoom <= MaxZoom; zoom++ {
		var r TileRange
		var err error
		if zoom < t.Zoom {
			r, err = t.AncestorRange(zoom)
		} else {
			r, err = t.DescendantRange(zoom)
		}
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, nil
}

// Contains returns true if k falls within the range.
func (r TileRange) Contains(k Key) bool {
	return r.Start <= k && k <= r.End
}

// Footprint returns the range with the zoom field cleared, so that
// ranges of different zoom levels can be compared geographically.
func (r TileRange) Footprint() TileRange {
	return TileRange{
		Start: Key(uint64(r.Start) &^ zoomMask),
		End:   Key(uint64(r.End) &^ zoomMask),
	}
}

// Covers returns true if the footprint of r includes that of other.
func (r TileRange) Covers(other TileRange) bool {
	a, b := r.Footprint(), other.Footprint()
	return a.Start <= b.Start && b.End <= a.End
}

// String formats the range as two keys in hex.
func (r TileRange) String() string {
	return fmt.Sprintf("%s %s", r.Start, r.End)
}
