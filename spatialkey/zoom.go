// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package spatialkey

import (
	"math/bits"
)

// MaxZoom is the finest zoom level that can be stored in a Key.
// The 56 coordinate bits of a key hold 28 bits for each axis.
const MaxZoom = 28

// ResolveZoom returns the finest zoom level at which p1 and p2 still
// fall into the same tile, which is the number of leading bits that
// agree on both axes. Points that coincide in their top 28 bits
// resolve to MaxZoom.
func ResolveZoom(p1, p2 GridPoint) uint8 {
	diff := (p1.X ^ p2.X) | (p1.Y ^ p2.Y)
	if zoom := bits.LeadingZeros32(diff); zoom < MaxZoom {
		return uint8(zoom)
	}
	return MaxZoom
}
