// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/brawer/bboxindex/spatialkey"
)

// writeRecord writes the report for one bounding box. The first line
// holds the key, its zoom, the decoded corner and the original input;
// the second line is the tile of the key. Then follows one line for every
// zoom level, giving the range of keys which overlap with that tile.
// For zoom levels coarser than the tile, the range is that of the
// ancestor; for finer ones, it is the tile’s own footprint.
//
//	<key> <zoom> <lat>,<lon>    <lat1>,<lon1> <lat2>,<lon2>
//		<zoom>/<x>/<y>
//		<start> <end> 0 0/0/0
//		...
//		<start> <end> 28 <zoom>/<x>/<y>
func writeRecord(w io.Writer, b BoundingBox) error {
	zoom, p, err := spatialkey.Decode(b.Key)
	if err != nil {
		return err
	}
	lat, lon, err := spatialkey.ToLatLon(p.X, p.Y, spatialkey.GridZoom)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s %d %f,%f    %f,%f %f,%f\n",
		b.Key, zoom, lat, lon, b.Lat1, b.Lon1, b.Lat2, b.Lon2)
	if err != nil {
		return err
	}

	tile := b.Key.Tile()
	if _, err := fmt.Fprintf(w, "\t%s\n", tile); err != nil {
		return err
	}

	ranges, err := tile.Ranges()
	if err != nil {
		return err
	}
	for zz, r := range ranges {
		shown := tile
		if uint8(zz) < tile.Zoom {
			shown = tile.ToZoom(uint8(zz))
		}
		if _, err := fmt.Fprintf(w, "\t%s %d %s\n", r, zz, shown); err != nil {
			return err
		}
	}
	return nil
}
