// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package spatialkey

import (
	"math"
)

// GridZoom is the zoom level of the fixed-point grid. At this zoom,
// the world is 2³² tiles wide and high, so a tile coordinate fits
// exactly into an uint32.
const GridZoom = 32

// MaxLatitude is the northernmost latitude visible in Web Mercator,
// in degrees. The southern limit is -MaxLatitude.
var MaxLatitude = TileLatitude(0, 0) * 180 / math.Pi

// GridPoint is a position on the grid at GridZoom.
type GridPoint struct {
	X, Y uint32
}

// ToGrid projects a latitude/longitude pair, given in degrees, onto
// the tile grid at the given zoom level. The result is truncated
// towards the north-western corner of the containing tile.
// See https://wiki.openstreetmap.org/wiki/Slippy_map_tilenames
func ToGrid(lat, lon float64, zoom uint8) (x, y uint32, err error) {
	if zoom > GridZoom {
		return 0, 0, &RangeError{Op: "ToGrid", Arg: "zoom", Value: uint64(zoom), Max: GridZoom}
	}
	if math.IsNaN(lat) || lat <= -90 || lat >= 90 {
		return 0, 0, &DomainError{Op: "ToGrid", Lat: lat, Lon: lon,
			Reason: "latitude must be within (-90, 90)"}
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return 0, 0, &DomainError{Op: "ToGrid", Lat: lat, Lon: lon,
			Reason: "longitude must be within [-180, 180]"}
	}

	n := float64(uint64(1) << zoom)
	latRad := lat * math.Pi / 180
	xf := math.Trunc(n * (lon + 180) / 360)
	yf := math.Trunc(n * (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2)

	// Longitude 180 is the antimeridian, which is also longitude -180.
	if xf >= n {
		xf -= n
	}
	if yf < 0 || yf >= n {
		return 0, 0, &DomainError{Op: "ToGrid", Lat: lat, Lon: lon,
			Reason: "latitude outside of Web Mercator"}
	}

	return uint32(xf), uint32(yf), nil
}

// GridPointOf projects a latitude/longitude pair onto the grid at GridZoom.
func GridPointOf(lat, lon float64) (GridPoint, error) {
	x, y, err := ToGrid(lat, lon, GridZoom)
	if err != nil {
		return GridPoint{}, err
	}
	return GridPoint{X: x, Y: y}, nil
}

// ToLatLon returns the latitude and longitude, in degrees, of the
// north-western corner of tile x/y at the given zoom level.
func ToLatLon(x, y uint32, zoom uint8) (lat, lon float64, err error) {
	if zoom > GridZoom {
		return 0, 0, &RangeError{Op: "ToLatLon", Arg: "zoom", Value: uint64(zoom), Max: GridZoom}
	}
	return TileLatitude(zoom, y) * 180 / math.Pi, TileLongitude(zoom, x), nil
}

// TileLatitude returns the latitude of a web mercator tile’s northern edge,
// in radians. For degrees, multiply by 180/π.
func TileLatitude(zoom uint8, y uint32) float64 {
	yf := 1.0 - 2.0*float64(y)/float64(uint64(1)<<zoom)
	return math.Atan(math.Sinh(math.Pi * yf))
}

// TileLongitude returns the longitude of a web mercator tile’s western edge,
// in degrees.
func TileLongitude(zoom uint8, x uint32) float64 {
	return 360.0*float64(x)/float64(uint64(1)<<zoom) - 180.0
}
