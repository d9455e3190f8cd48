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

// Package store caches computed playlist insights in a local SQLite
// database so the serving path never waits on the Spotify API.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mwangiq/playlist-wrapped/internal/analytics"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	query := `
CREATE TABLE IF NOT EXISTS Insights (
  playlist_id TEXT NOT NULL,
  generated_at DATETIME NOT NULL,
  payload TEXT NOT NULL,
  PRIMARY KEY (playlist_id, generated_at)
);

CREATE INDEX IF NOT EXISTS idx_insights_playlist
  ON Insights (playlist_id, generated_at DESC);
`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("creating insights table: %w", err)
	}
	return nil
}

// SaveInsights appends one computed run for the playlist. History is
// kept so a bad fetch never destroys the last good result; Prune trims
// it.
func (s *Store) SaveInsights(playlistID string, generatedAt time.Time, insights *analytics.Insights) error {
	payload, err := json.Marshal(insights)
	if err != nil {
		return fmt.Errorf("encoding insights: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO Insights (playlist_id, generated_at, payload) VALUES (?, ?, ?)",
		playlistID, generatedAt.UTC(), string(payload))
	if err != nil {
		return fmt.Errorf("inserting insights: %w", err)
	}
	return nil
}

// LatestInsights returns the most recent cached run, or (nil, zero
// time, nil) when the playlist has never been analyzed.
func (s *Store) LatestInsights(playlistID string) (*analytics.Insights, time.Time, error) {
	row := s.db.QueryRow(
		"SELECT generated_at, payload FROM Insights WHERE playlist_id = ? ORDER BY generated_at DESC LIMIT 1",
		playlistID)

	var generatedAt time.Time
	var payload string
	err := row.Scan(&generatedAt, &payload)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("reading insights: %w", err)
	}

	var insights analytics.Insights
	if err := json.Unmarshal([]byte(payload), &insights); err != nil {
		return nil, time.Time{}, fmt.Errorf("decoding insights: %w", err)
	}
	return &insights, generatedAt, nil
}

// LastUpdated reports when the playlist was last analyzed; the zero
// time when never.
func (s *Store) LastUpdated(playlistID string) (time.Time, error) {
	row := s.db.QueryRow(
		"SELECT generated_at FROM Insights WHERE playlist_id = ? ORDER BY generated_at DESC LIMIT 1",
		playlistID)

	var t sql.NullTime
	err := row.Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting last updated: %w", err)
	}
	return t.Time, nil
}

// Prune keeps the newest `keep` runs per playlist and deletes the rest.
func (s *Store) Prune(playlistID string, keep int) error {
	_, err := s.db.Exec(`
DELETE FROM Insights
WHERE playlist_id = ?
  AND generated_at NOT IN (
    SELECT generated_at FROM Insights
    WHERE playlist_id = ?
    ORDER BY generated_at DESC
    LIMIT ?
  )`, playlistID, playlistID, keep)
	if err != nil {
		return fmt.Errorf("pruning insights: %w", err)
	}
	return nil
}
