// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package spatialkey

import (
	"math/rand"
	"testing"
)

func TestResolveZoom(t *testing.T) {
	for _, tc := range []struct {
		p1, p2   GridPoint
		expected uint8
	}{
		{GridPoint{0, 0}, GridPoint{0, 0}, 28},
		{GridPoint{0, 0}, GridPoint{1 << 31, 0}, 0},
		{GridPoint{0, 0}, GridPoint{0, 1 << 31}, 0},
		{GridPoint{0, 0}, GridPoint{1 << 30, 0}, 1},
		{GridPoint{0, 0}, GridPoint{0, 1 << 20}, 11},
		{GridPoint{0, 0}, GridPoint{1 << 4, 0}, 27},
		{GridPoint{0, 0}, GridPoint{1 << 3, 0}, 28}, // below key precision
		{GridPoint{0, 0}, GridPoint{15, 15}, 28},
		{GridPoint{0xffffffff, 0xffffffff}, GridPoint{0xffffffff, 0xffffffff}, 28},
		{GridPoint{0x12345678, 0}, GridPoint{0x12345678, 0x00400000}, 9},
	} {
		if got := ResolveZoom(tc.p1, tc.p2); got != tc.expected {
			t.Errorf("expected ResolveZoom(%v, %v) = %d, got %d",
				tc.p1, tc.p2, tc.expected, got)
		}
		if got := ResolveZoom(tc.p2, tc.p1); got != tc.expected {
			t.Errorf("expected ResolveZoom(%v, %v) = %d, got %d",
				tc.p2, tc.p1, tc.expected, got)
		}
	}
}

func TestResolveZoom_SameTile(t *testing.T) {
	for n := 0; n < 5000; n++ {
		p1 := GridPoint{rand.Uint32(), rand.Uint32()}
		mask := uint32(0xffffffff) >> rand.Intn(29)
		p2 := GridPoint{
			X: p1.X&^mask | rand.Uint32()&mask,
			Y: p1.Y&^mask | rand.Uint32()&mask,
		}

		if got := ResolveZoom(p1, p1); got != MaxZoom {
			t.Errorf("expected ResolveZoom(p, p) = %d, got %d", MaxZoom, got)
		}

		z := ResolveZoom(p1, p2)
		if TileOf(p1, z) != TileOf(p2, z) {
			t.Errorf("ResolveZoom(%v, %v) = %d, but tiles %v and %v differ",
				p1, p2, z, TileOf(p1, z), TileOf(p2, z))
		}
		if z < MaxZoom && TileOf(p1, z+1) == TileOf(p2, z+1) {
			t.Errorf("ResolveZoom(%v, %v) = %d, but tile %v is shared",
				p1, p2, z, TileOf(p1, z+1))
		}
	}
}
