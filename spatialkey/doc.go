// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

// Package spatialkey maps geographic bounding boxes to sortable 64-bit
// keys over a Web Mercator tile grid, and computes the key ranges that
// cover a tile.
//
// A bounding box is keyed by the finest tile that contains both of its
// corners. When sorting such keys, boxes get grouped by zoom level,
// and within a zoom level they are in Morton order, so that all boxes
// inside a tile form one contiguous run of keys.
package spatialkey
