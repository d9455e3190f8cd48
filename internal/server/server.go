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

// Package server exposes the cached insights over HTTP. Reads never
// touch the Spotify API; the refresh endpoint and the daily scheduler
// are the only writers.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/mwangiq/playlist-wrapped/internal/store"
)

// RefreshFunc re-fetches the playlist, recomputes insights, and writes
// them to the store.
type RefreshFunc func(ctx context.Context) error

type Server struct {
	store         *store.Store
	playlistID    string
	adminPassword string
	refresh       RefreshFunc

	mu         sync.Mutex
	refreshing bool
}

func New(st *store.Store, playlistID, adminPassword string, refresh RefreshFunc) *Server {
	return &Server{
		store:         st,
		playlistID:    playlistID,
		adminPassword: adminPassword,
		refresh:       refresh,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/public/data", recoveryMiddleware(corsMiddleware(s.handlePlaylistData)))
	mux.HandleFunc("/api/public/status", recoveryMiddleware(corsMiddleware(s.handleStatus)))
	mux.HandleFunc("/api/admin/refresh", recoveryMiddleware(corsMiddleware(s.handleRefresh)))
	mux.HandleFunc("/health", recoveryMiddleware(s.handleHealth))
	return mux
}

func recoveryMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC: %v\n%s", err, debug.Stack())
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Admin-Password")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func (s *Server) handlePlaylistData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	insights, generatedAt, err := s.store.LatestInsights(s.playlistID)
	if err != nil {
		log.Printf("reading cached insights: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if insights == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error":   "No data available. Admin needs to fetch data first.",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"data":        insights,
		"lastUpdated": generatedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	insights, generatedAt, err := s.store.LatestInsights(s.playlistID)
	if err != nil {
		log.Printf("reading cached insights: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	status := map[string]any{
		"hasData":    insights != nil,
		"refreshing": s.isRefreshing(),
	}
	if insights != nil {
		status["lastUpdated"] = generatedAt.Format(time.RFC3339)
		status["tracksCount"] = insights.Playlist.TotalTracks
		status["playlistName"] = insights.Playlist.Name
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.adminPassword == "" || r.Header.Get("X-Admin-Password") != s.adminPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Invalid password"})
		return
	}

	if !s.beginRefresh() {
		writeJSON(w, http.StatusConflict, map[string]any{"error": "Refresh already in progress"})
		return
	}
	defer s.endRefresh()

	if err := s.refresh(r.Context()); err != nil {
		log.Printf("manual refresh failed: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": fmt.Sprintf("Refresh failed: %v", err)})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "refreshed"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) beginRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshing {
		return false
	}
	s.refreshing = true
	return true
}

func (s *Server) endRefresh() {
	s.mu.Lock()
	s.refreshing = false
	s.mu.Unlock()
}

func (s *Server) isRefreshing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshing
}

// RunScheduledRefresh is the scheduler's entry point; it shares the
// single-flight guard with the manual endpoint.
func (s *Server) RunScheduledRefresh(ctx context.Context) {
	if !s.beginRefresh() {
		log.Println("scheduled refresh skipped: already refreshing")
		return
	}
	defer s.endRefresh()

	if err := s.refresh(ctx); err != nil {
		log.Printf("scheduled refresh failed: %v", err)
		return
	}
	log.Println("scheduled refresh complete")
}
