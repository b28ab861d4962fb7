// SPDX-FileCopyrightText: 2022 Sascha Brawer <sascha@brawer.ch>
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func sendRequest(ws *Webserver, method, path string) (status int, h http.Header, body []byte, err error) {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	ws.Handler().ServeHTTP(w, req)
	res := w.Result()
	defer res.Body.Close()
	body, err = io.ReadAll(res.Body)
	return res.StatusCode, res.Header, body, err
}

func TestWebserver_Key(t *testing.T) {
	status, header, body, err := sendRequest(NewWebserver(), "GET", "/key?bbox=40.0,-75.0,40.1,-75.1")
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK {
		t.Fatalf("want StatusCode %d, got %d: %s", http.StatusOK, status, body)
	}

	want := "application/json"
	if got := header.Get("Content-Type"); got != want {
		t.Errorf(`want "Content-Type: %s", got "%s"`, want, got)
	}

	var got keyResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Zoom != 10 || got.Tile != "10/298/387" || len(got.Key) != 16 {
		t.Errorf("unexpected response %s", body)
	}
	if got.Lat < 40.0 || got.Lat > 40.0001 || got.Lon < -75.0001 || got.Lon > -75.0 {
		t.Errorf("expected decoded corner near 40.0,-75.0, got %s", body)
	}
}

func TestWebserver_KeyBadRequest(t *testing.T) {
	ws := NewWebserver()
	for _, path := range []string{
		"/key",
		"/key?bbox=junk",
		"/key?bbox=1,2,3",
		"/key?bbox=1,2,3,x",
		"/key?bbox=90,0,0,0",
		"/key?bbox=0,0,0,181",
	} {
		status, _, _, err := sendRequest(ws, "GET", path)
		if err != nil {
			t.Fatal(err)
		}
		if status != http.StatusBadRequest {
			t.Errorf("%s: want StatusCode %d, got %d", path, http.StatusBadRequest, status)
		}
	}
}

func TestWebserver_Tile(t *testing.T) {
	status, _, body, err := sendRequest(NewWebserver(), "GET", "/tile/2/3/1")
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK {
		t.Fatalf("want StatusCode %d, got %d: %s", http.StatusOK, status, body)
	}

	var got tileResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Tile != "2/3/1" {
		t.Errorf(`want tile "2/3/1", got %q`, got.Tile)
	}
	if got.Bounds.West != 90 || got.Bounds.East != 180 {
		t.Errorf("unexpected bounds %+v", got.Bounds)
	}
	if got.Bounds.North <= got.Bounds.South || got.Bounds.South != 0 {
		t.Errorf("unexpected bounds %+v", got.Bounds)
	}
	if got.AreaKm2 <= 0 {
		t.Errorf("want positive area, got %f", got.AreaKm2)
	}
	if len(got.Ranges) != 29 {
		t.Fatalf("want 29 ranges, got %d", len(got.Ranges))
	}
	want := tileRange{Zoom: 2, Start: "1380000000000000", End: "13ffffffffffffff"}
	if got.Ranges[2] != want {
		t.Errorf("want %+v, got %+v", want, got.Ranges[2])
	}
}

func TestWebserver_TileErrors(t *testing.T) {
	ws := NewWebserver()
	for _, tc := range []struct {
		path   string
		status int
	}{
		{"/tile/2/4/0", http.StatusBadRequest},
		{"/tile/29/0/0", http.StatusBadRequest},
		{"/tile/", http.StatusNotFound},
		{"/tile/2/3", http.StatusNotFound},
		{"/tile/a/b/c", http.StatusNotFound},
	} {
		status, _, _, err := sendRequest(ws, "GET", tc.path)
		if err != nil {
			t.Fatal(err)
		}
		if status != tc.status {
			t.Errorf("%s: want StatusCode %d, got %d", tc.path, tc.status, status)
		}
	}
}

func TestWebserver_MethodNotAllowed(t *testing.T) {
	status, header, _, err := sendRequest(NewWebserver(), "DELETE", "/tile/2/3/1")
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusMethodNotAllowed {
		t.Errorf("want StatusCode %d, got %d", http.StatusMethodNotAllowed, status)
	}
	if got := header.Get("Allow"); got != "GET" {
		t.Errorf(`expected "Allow: GET", got "%s"`, got)
	}
}

func TestWebserver_RobotsTxt(t *testing.T) {
	status, _, body, err := sendRequest(NewWebserver(), "GET", "/robots.txt")
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK || string(body) != "User-Agent: *\nAllow: /\n" {
		t.Errorf("got %d %q", status, body)
	}
}

func TestWebserver_Metrics(t *testing.T) {
	ws := NewWebserver()
	sendRequest(ws, "GET", "/key?bbox=40.0,-75.0,40.1,-75.1")
	sendRequest(ws, "GET", "/key?bbox=junk")
	sendRequest(ws, "GET", "/key?bbox=junk")

	status, _, body, err := sendRequest(ws, "GET", "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK {
		t.Fatalf("want StatusCode %d, got %d", http.StatusOK, status)
	}
	for _, want := range []string{
		`bboxindex_http_requests_total{code="200",handler="key"} 1`,
		`bboxindex_http_requests_total{code="400",handler="key"} 2`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected metrics to contain %q", want)
		}
	}
}
