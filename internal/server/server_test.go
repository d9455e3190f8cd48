/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/mwangiq/playlist-wrapped/internal/analytics"
	"github.com/mwangiq/playlist-wrapped/internal/store"
)

func createTestServer(t *testing.T, refresh RefreshFunc) (*Server, *store.Store) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "playlist.db")
	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if refresh == nil {
		refresh = func(ctx context.Context) error { return nil }
	}
	return New(st, "pl1", "secret", refresh), st
}

func seedInsights(t *testing.T, st *store.Store) time.Time {
	t.Helper()
	generatedAt := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	insights := &analytics.Insights{Playlist: analytics.PlaylistInfo{ID: "pl1", Name: "Road Trip", TotalTracks: 42}}
	if err := st.SaveInsights("pl1", generatedAt, insights); err != nil {
		t.Fatalf("SaveInsights: %v", err)
	}
	return generatedAt
}

func TestPlaylistDataNoCache(t *testing.T) {
	s, _ := createTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/data", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPlaylistData(t *testing.T) {
	s, st := createTestServer(t, nil)
	generatedAt := seedInsights(t, st)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/data", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q, want *", got)
	}

	var body struct {
		Data        analytics.Insights `json:"data"`
		LastUpdated string             `json:"lastUpdated"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Data.Playlist.Name != "Road Trip" {
		t.Errorf("playlist name = %q", body.Data.Playlist.Name)
	}
	if body.LastUpdated != generatedAt.Format(time.RFC3339) {
		t.Errorf("lastUpdated = %q, want %q", body.LastUpdated, generatedAt.Format(time.RFC3339))
	}
}

func TestStatus(t *testing.T) {
	s, st := createTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/status", nil))
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["hasData"] != false {
		t.Errorf("hasData = %v, want false", body["hasData"])
	}

	seedInsights(t, st)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/status", nil))
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["hasData"] != true {
		t.Errorf("hasData = %v, want true", body["hasData"])
	}
	if _, ok := body["lastUpdated"]; !ok {
		t.Error("lastUpdated missing from status")
	}
	if body["playlistName"] != "Road Trip" {
		t.Errorf("playlistName = %v, want Road Trip", body["playlistName"])
	}
	if body["tracksCount"] != float64(42) {
		t.Errorf("tracksCount = %v, want 42", body["tracksCount"])
	}
}

func TestRefreshRequiresPassword(t *testing.T) {
	called := false
	s, _ := createTestServer(t, func(ctx context.Context) error {
		called = true
		return nil
	})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/refresh", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("refresh ran without a password")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/refresh", nil)
	req.Header.Set("X-Admin-Password", "wrong")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRefresh(t *testing.T) {
	called := false
	s, _ := createTestServer(t, func(ctx context.Context) error {
		called = true
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/refresh", nil)
	req.Header.Set("X-Admin-Password", "secret")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !called {
		t.Error("refresh was not invoked")
	}
}

func TestRefreshSingleFlight(t *testing.T) {
	s, _ := createTestServer(t, nil)

	// Simulate an in-progress refresh.
	if !s.beginRefresh() {
		t.Fatal("beginRefresh failed on a fresh server")
	}
	defer s.endRefresh()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/refresh", nil)
	req.Header.Set("X-Admin-Password", "secret")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestRefreshDisabledWithoutPassword(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "playlist.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	defer st.Close()
	s := New(st, "pl1", "", func(ctx context.Context) error { return nil })

	req := httptest.NewRequest(http.MethodPost, "/api/admin/refresh", nil)
	req.Header.Set("X-Admin-Password", "")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	// An empty configured password must never match.
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s, _ := createTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/public/data", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("preflight missing Allow-Methods header")
	}
}

func TestNextRunAfter(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)

	// Before 9AM: today.
	now := time.Date(2024, 6, 1, 7, 30, 0, 0, loc)
	next := nextRunAfter(now)
	want := time.Date(2024, 6, 1, 9, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("nextRunAfter(%v) = %v, want %v", now, next, want)
	}

	// After 9AM: tomorrow.
	now = time.Date(2024, 6, 1, 10, 0, 0, 0, loc)
	next = nextRunAfter(now)
	want = time.Date(2024, 6, 2, 9, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("nextRunAfter(%v) = %v, want %v", now, next, want)
	}

	// Exactly 9AM: strictly after means tomorrow.
	now = want
	next = nextRunAfter(now)
	if !next.Equal(want.AddDate(0, 0, 1)) {
		t.Errorf("nextRunAfter(exactly 9) = %v, want next day", next)
	}
}
