// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package spatialkey

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"
)

func ExampleKey_String() {
	key, _ := Encode(GridPoint{X: 1 << 31, Y: 1 << 31}, 1)
	fmt.Println(key)
	// Output: 0e00000000000000
}

func ExampleEncodeBoundingBox() {
	p1, _ := GridPointOf(40.0, -75.0)
	p2, _ := GridPointOf(40.1, -75.1)
	key := EncodeBoundingBox(p1, p2)
	fmt.Println(key.Zoom(), key.Tile())
	// Output: 10 10/298/387
}

func TestEncode_BitLayout(t *testing.T) {
	for _, tc := range []struct {
		p        GridPoint
		zoom     uint8
		expected uint64
	}{
		{GridPoint{0, 0}, 0, 0},
		{GridPoint{1 << 31, 0}, 0, 1 << 57},
		{GridPoint{0, 1 << 31}, 0, 1 << 58},
		{GridPoint{1 << 30, 0}, 0, 1 << 55},
		{GridPoint{0, 1 << 30}, 0, 1 << 56},
		{GridPoint{1 << 4, 0}, 0, 1 << 3},
		{GridPoint{0, 1 << 4}, 0, 1 << 4},
		{GridPoint{15, 15}, 0, 0},
		{GridPoint{0, 0}, 1, 1 << 59},
		{GridPoint{0, 0}, 28, 0xe000000000000000},
		{GridPoint{0xffffffff, 0xffffffff}, 28, 0xe7fffffffffffff8},
	} {
		got, err := Encode(tc.p, tc.zoom)
		if err != nil {
			t.Error(err)
			continue
		}
		if uint64(got) != tc.expected {
			t.Errorf("expected Encode(%v, %d) = %016x, got %v", tc.p, tc.zoom, tc.expected, got)
		}
		if got.Tags() != 0 {
			t.Errorf("expected no tags in %v, got %d", got, got.Tags())
		}
	}
}

func TestEncode_RangeError(t *testing.T) {
	_, err := Encode(GridPoint{}, MaxZoom+1)
	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected RangeError, got %v", err)
	}
	if rangeErr.Op != "Encode" || rangeErr.Value != 29 {
		t.Errorf("unexpected %#v", rangeErr)
	}
}

func TestDecode_RangeError(t *testing.T) {
	for zoom := uint64(29); zoom < 32; zoom++ {
		_, _, err := Decode(Key(zoom << 59))
		var rangeErr *RangeError
		if !errors.As(err, &rangeErr) {
			t.Errorf("expected RangeError for zoom %d, got %v", zoom, err)
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	for n := 0; n < 5000; n++ {
		p := GridPoint{rand.Uint32(), rand.Uint32()}
		zoom := uint8(rand.Intn(MaxZoom + 1))
		key, err := Encode(p, zoom)
		if err != nil {
			t.Fatal(err)
		}
		gotZoom, got, err := Decode(key)
		if err != nil {
			t.Fatal(err)
		}
		want := GridPoint{p.X &^ 0xf, p.Y &^ 0xf}
		if gotZoom != zoom || got != want {
			t.Errorf("expected %d %v, got %d %v", zoom, want, gotZoom, got)
		}
	}
}

func TestEncodeBoundingBox(t *testing.T) {
	p1, err := GridPointOf(40.0, -75.0)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := GridPointOf(40.1, -75.1)
	if err != nil {
		t.Fatal(err)
	}

	zoom := ResolveZoom(p1, p2)
	if zoom != 10 {
		t.Errorf("expected zoom 10, got %d", zoom)
	}
	if TileOf(p1, zoom) != TileOf(p2, zoom) || TileOf(p1, zoom+1) == TileOf(p2, zoom+1) {
		t.Errorf("corners %v and %v should first diverge at zoom %d", p1, p2, zoom+1)
	}

	key := EncodeBoundingBox(p1, p2)
	gotZoom, got, err := Decode(key)
	if err != nil {
		t.Fatal(err)
	}
	if gotZoom != zoom || got != (GridPoint{p1.X &^ 0xf, p1.Y &^ 0xf}) {
		t.Errorf("expected %d %v, got %d %v", zoom, p1, gotZoom, got)
	}

	lat, lon, err := ToLatLon(got.X, got.Y, GridZoom)
	if err != nil {
		t.Fatal(err)
	}
	if lat < 40.0 || lat > 40.0001 || lon < -75.0001 || lon > -75.0 {
		t.Errorf("expected decoded corner near 40.0,-75.0, got %f,%f", lat, lon)
	}

	ranges, err := key.Tile().Ranges()
	if err != nil {
		t.Fatal(err)
	}
	if !ranges[zoom].Contains(key) {
		t.Errorf("expected %v to contain %v", ranges[zoom], key)
	}
	for zz := 1; zz < len(ranges); zz++ {
		if !ranges[zz-1].Covers(ranges[zz]) {
			t.Errorf("expected range %v at zoom %d to cover %v at zoom %d",
				ranges[zz-1], zz-1, ranges[zz], zz)
		}
	}
}

// Containing tiles get sorted before their content, and the content
// of a tile is contiguous in sort order.
func TestKey_Order(t *testing.T) {
	coarse, _ := Encode(GridPoint{0xffffffff, 0xffffffff}, 3)
	fine, _ := Encode(GridPoint{0, 0}, 4)
	if !(coarse < fine) {
		t.Errorf("expected %v < %v", coarse, fine)
	}

	tile := Tile{Zoom: 5, X: 17, Y: 11}
	keys := make([]Key, 0, 1000)
	for n := 0; n < 1000; n++ {
		p := GridPoint{rand.Uint32(), rand.Uint32()}
		if n%2 == 0 {
			p.X = tile.X<<27 | p.X>>5
			p.Y = tile.Y<<27 | p.Y>>5
		}
		key, _ := Encode(p, 20)
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	first, last := -1, -1
	for i, key := range keys {
		if TileOf(key.Point(), tile.Zoom) == tile {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	for i := first; i <= last; i++ {
		if got := TileOf(keys[i].Point(), tile.Zoom); got != tile {
			t.Errorf("keys inside %v are not contiguous, found %v at position %d", tile, got, i)
		}
	}
}

var benchKey Key

func BenchmarkEncode(b *testing.B) {
	points := makeTestGridPoints(64)
	for n := 0; n < b.N; n++ {
		benchKey, _ = Encode(points[n%64], uint8(n%29))
	}
}

var benchPoint GridPoint

func BenchmarkDecode(b *testing.B) {
	keys := make([]Key, 0, 64)
	for i, p := range makeTestGridPoints(64) {
		key, _ := Encode(p, uint8(i%29))
		keys = append(keys, key)
	}
	for n := 0; n < b.N; n++ {
		_, benchPoint, _ = Decode(keys[n%64])
	}
}

func makeTestGridPoints(n int) []GridPoint {
	points := make([]GridPoint, n)
	for i := 0; i < n; i++ {
		points[i] = GridPoint{rand.Uint32(), rand.Uint32()}
	}
	return points
}

func TestParseKey(t *testing.T) {
	for _, k := range []Key{0, 0x0e00000000000000, 0xe7fffffffffffff8} {
		got, err := ParseKey(k.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != k {
			t.Errorf("ParseKey(%q): expected %v, got %v", k.String(), k, got)
		}
	}
	for _, s := range []string{"", "xyz", "10000000000000000"} {
		if _, err := ParseKey(s); err == nil {
			t.Errorf("ParseKey(%q): expected error", s)
		}
	}
}
