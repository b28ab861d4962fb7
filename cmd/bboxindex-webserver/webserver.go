// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/brawer/bboxindex/spatialkey"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Webserver struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

func NewWebserver() *Webserver {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bboxindex_http_requests_total",
		Help: "Number of HTTP requests, partitioned by handler and status code.",
	}, []string{"handler", "code"})
	registry.MustRegister(requests)

	return &Webserver{registry: registry, requests: requests}
}

// Handler returns the routes of the web server, each instrumented
// for counting its requests.
func (ws *Webserver) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/key", ws.instrument("key", ws.HandleKey))
	mux.Handle("/tile/", ws.instrument("tile", ws.HandleTile))
	mux.Handle("/robots.txt", ws.instrument("robots", ws.HandleRobotsTxt))
	mux.Handle("/metrics", promhttp.HandlerFor(ws.registry, promhttp.HandlerOpts{}))
	return mux
}

func (ws *Webserver) instrument(name string, h http.HandlerFunc) http.Handler {
	counter := ws.requests.MustCurryWith(prometheus.Labels{"handler": name})
	return promhttp.InstrumentHandlerCounter(counter, h)
}

type keyResponse struct {
	Key  string  `json:"key"`
	Zoom uint8   `json:"zoom"`
	Tile string  `json:"tile"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// HandleKey computes the spatial key for the bounding box given
// in the "bbox" query parameter as "lat1,lon1,lat2,lon2".
func (ws *Webserver) HandleKey(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	key, err := parseBoundingBoxKey(req.URL.Query().Get("bbox"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	zoom, p, err := spatialkey.Decode(key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	lat, lon, err := spatialkey.ToLatLon(p.X, p.Y, spatialkey.GridZoom)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, keyResponse{
		Key:  key.String(),
		Zoom: zoom,
		Tile: key.Tile().String(),
		Lat:  lat,
		Lon:  lon,
	})
}

func parseBoundingBoxKey(s string) (spatialkey.Key, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return 0, fmt.Errorf(`expected bbox=lat1,lon1,lat2,lon2, got %q`, s)
	}

	var v [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, fmt.Errorf("bad bbox %q: %w", s, err)
		}
		v[i] = f
	}

	p1, err := spatialkey.GridPointOf(v[0], v[1])
	if err != nil {
		return 0, err
	}
	p2, err := spatialkey.GridPointOf(v[2], v[3])
	if err != nil {
		return 0, err
	}
	return spatialkey.EncodeBoundingBox(p1, p2), nil
}

type tileBounds struct {
	North float64 `json:"north"`
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
}

type tileRange struct {
	Zoom  int    `json:"zoom"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type tileResponse struct {
	Tile    string      `json:"tile"`
	Bounds  tileBounds  `json:"bounds"`
	AreaKm2 float64     `json:"area_km2"`
	Ranges  []tileRange `json:"ranges"`
}

// HandleTile describes the tile at /tile/{zoom}/{x}/{y}, together with
// the key ranges that overlap with it at every zoom level.
func (ws *Webserver) HandleTile(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tile, err := spatialkey.ParseTile(strings.TrimPrefix(req.URL.Path, "/tile/"))
	if err != nil {
		var rangeErr *spatialkey.RangeError
		if errors.As(err, &rangeErr) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.NotFound(w, req)
		}
		return
	}

	ranges, err := tile.Ranges()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	north, west, south, east := tile.Bounds()
	resp := tileResponse{
		Tile:    tile.String(),
		Bounds:  tileBounds{North: north, West: west, South: south, East: east},
		AreaKm2: tile.Area(),
		Ranges:  make([]tileRange, 0, len(ranges)),
	}
	for zoom, r := range ranges {
		resp.Ranges = append(resp.Ranges, tileRange{
			Zoom:  zoom,
			Start: r.Start.String(),
			End:   r.End.String(),
		})
	}
	writeJSON(w, resp)
}

// HandleRobotsTxt sends a constant robots.txt file back to the
// client, allowing web crawlers to access our entire site.
func (ws *Webserver) HandleRobotsTxt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "%s", "User-Agent: *\nAllow: /\n")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := json.NewEncoder(w).Encode(v); err != nil && logger != nil {
		logger.Printf("failed to send response: %v", err)
	}
}
