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
package analytics

import (
	"strings"
	"testing"
)

// rankedContributor builds a contributor with n plain tracks of the
// given popularity. Fields the individual tests care about get set
// afterwards.
func rankedContributor(id string, tracksAdded, popularity int) *Contributor {
	c := &Contributor{
		ID:            id,
		Name:          "Name " + id,
		TracksAdded:   tracksAdded,
		AvgPopularity: float64(popularity),
		Badges:        []Badge{},
	}
	for i := 0; i < tracksAdded; i++ {
		c.Tracks = append(c.Tracks, TrackDetail{Name: "Track", Popularity: popularity})
	}
	return c
}

func hasBadge(c *Contributor, id string) bool {
	for _, b := range c.Badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

func badgeByID(t *testing.T, c *Contributor, id string) Badge {
	t.Helper()
	for _, b := range c.Badges {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("contributor %s has no badge %s (got %v)", c.ID, id, c.Badges)
	return Badge{}
}

func TestTopCurator(t *testing.T) {
	a := rankedContributor("a", 6, 50)
	b := rankedContributor("b", 3, 50)
	assignBadges([]*Contributor{a, b})

	badge := badgeByID(t, a, "top_curator")
	if badge.Name != "🔥 Top Curator" {
		t.Errorf("badge name = %q", badge.Name)
	}
	if badge.Description != "Added the most tracks (6) to this playlist" {
		t.Errorf("badge description = %q", badge.Description)
	}
	if hasBadge(b, "top_curator") {
		t.Error("runner-up must not get top_curator")
	}
}

func TestTopCuratorNeedsMoreThanFive(t *testing.T) {
	a := rankedContributor("a", 5, 50)
	assignBadges([]*Contributor{a})
	if hasBadge(a, "top_curator") {
		t.Error("5 tracks must not earn top_curator")
	}
}

func TestEclecticEar(t *testing.T) {
	a := rankedContributor("a", 4, 50)
	a.GenreDiversity = 7
	b := rankedContributor("b", 3, 50)
	b.GenreDiversity = 6
	assignBadges([]*Contributor{a, b})

	badge := badgeByID(t, a, "eclectic_ear")
	if badge.Description != "Most diverse taste with 7 different genres" {
		t.Errorf("badge description = %q", badge.Description)
	}
	if hasBadge(b, "eclectic_ear") {
		t.Error("only the most diverse contributor gets eclectic_ear")
	}
}

func TestEclecticEarThreshold(t *testing.T) {
	a := rankedContributor("a", 4, 50)
	a.GenreDiversity = 5
	assignBadges([]*Contributor{a})
	if hasBadge(a, "eclectic_ear") {
		t.Error("diversity of exactly 5 must not earn eclectic_ear")
	}
}

func TestGenreGuru(t *testing.T) {
	// With the once-per-track genre counting, any contributor with at
	// least one genre and tracksAdded >= max(3, 0.4*tracksAdded) earns
	// the badge for the first genre in their set.
	a := rankedContributor("a", 4, 50)
	a.Genres = []string{"amapiano", "house"}
	assignBadges([]*Contributor{a, rankedContributor("b", 3, 50)})

	badge := badgeByID(t, a, "genre_guru")
	if badge.Description != "Master of amapiano with 4 tracks" {
		t.Errorf("badge description = %q", badge.Description)
	}
}

func TestGenreGuruNeedsGenres(t *testing.T) {
	a := rankedContributor("a", 4, 50)
	assignBadges([]*Contributor{a})
	if hasBadge(a, "genre_guru") {
		t.Error("no genres must mean no genre_guru")
	}
}

func TestUndergroundHero(t *testing.T) {
	a := rankedContributor("a", 3, 70)
	b := rankedContributor("b", 3, 35)
	b.AvgPopularity = 35.5
	assignBadges([]*Contributor{a, b})

	badge := badgeByID(t, b, "underground_hero")
	if badge.Description != "Discovers hidden gems (avg popularity: 35.5)" {
		t.Errorf("badge description = %q", badge.Description)
	}
}

func TestUndergroundHeroTrimsWholeNumbers(t *testing.T) {
	a := rankedContributor("a", 3, 70)
	b := rankedContributor("b", 3, 35)
	assignBadges([]*Contributor{a, b})

	badge := badgeByID(t, b, "underground_hero")
	if !strings.HasSuffix(badge.Description, "avg popularity: 35)") {
		t.Errorf("whole-number average rendered wrong: %q", badge.Description)
	}
}

func TestUndergroundHeroNeedsTwoSignificant(t *testing.T) {
	a := rankedContributor("a", 3, 20)
	assignBadges([]*Contributor{a, rankedContributor("b", 1, 20)})
	if hasBadge(a, "underground_hero") {
		t.Error("a lone significant contributor must not get underground_hero")
	}
}

func TestTrendsetter(t *testing.T) {
	a := rankedContributor("a", 4, 25)
	assignBadges([]*Contributor{a, rankedContributor("b", 3, 80)})

	badge := badgeByID(t, a, "trendsetter")
	if badge.Description != "Early adopter with 4 underground picks" {
		t.Errorf("badge description = %q", badge.Description)
	}
	// 0 low-popularity picks vs floor of 2.
	for _, c := range []*Contributor{rankedContributor("c", 3, 80)} {
		assignBadges([]*Contributor{c, a})
		if hasBadge(c, "trendsetter") {
			t.Error("mainstream contributor must not get trendsetter")
		}
	}
}

func TestOldSoulAndFreshDropper(t *testing.T) {
	a := rankedContributor("a", 3, 50)
	a.Tracks[0].Name = "Ancient"
	a.Tracks[0].ReleaseDate = "1973-03-01"
	a.Tracks[1].ReleaseDate = "2005"
	b := rankedContributor("b", 3, 50)
	b.Tracks[0].Name = "Brand New"
	b.Tracks[0].ReleaseDate = "2024-06-01"
	assignBadges([]*Contributor{a, b})

	oldSoul := badgeByID(t, a, "old_soul")
	if oldSoul.Description != `Added oldest track: "Ancient" (1973)` {
		t.Errorf("old_soul description = %q", oldSoul.Description)
	}
	fresh := badgeByID(t, b, "fresh_dropper")
	if fresh.Description != `Added newest track: "Brand New" (2024)` {
		t.Errorf("fresh_dropper description = %q", fresh.Description)
	}
}

func TestOldSoulYearOnlyDates(t *testing.T) {
	// "1973" sorts before "1973-03-01" lexicographically; the year-only
	// date wins the oldest slot.
	a := rankedContributor("a", 3, 50)
	a.Tracks[0].Name = "Year Only"
	a.Tracks[0].ReleaseDate = "1973"
	b := rankedContributor("b", 3, 50)
	b.Tracks[0].Name = "Full Date"
	b.Tracks[0].ReleaseDate = "1973-03-01"
	assignBadges([]*Contributor{a, b})

	if !hasBadge(a, "old_soul") {
		t.Error("year-only 1973 must beat 1973-03-01 for old_soul")
	}
}

func TestReleaseDateBadgesSkipEmptyDates(t *testing.T) {
	a := rankedContributor("a", 3, 50)
	b := rankedContributor("b", 3, 50)
	assignBadges([]*Contributor{a, b})
	if hasBadge(a, "old_soul") || hasBadge(a, "fresh_dropper") {
		t.Error("no release dates must mean no date badges")
	}
}

func TestCollector(t *testing.T) {
	a := rankedContributor("a", 4, 50)
	a.ArtistDiversity = 11
	assignBadges([]*Contributor{a, rankedContributor("b", 3, 50)})

	badge := badgeByID(t, a, "collector")
	if badge.Description != "Music explorer with 11 different artists" {
		t.Errorf("badge description = %q", badge.Description)
	}
}

func TestEnergyDealer(t *testing.T) {
	a := rankedContributor("a", 3, 50)
	a.AvgAudioFeatures.Energy = 0.85
	b := rankedContributor("b", 3, 50)
	b.AvgAudioFeatures.Energy = 0.6
	assignBadges([]*Contributor{a, b})

	badge := badgeByID(t, a, "energy_dealer")
	if badge.Description != "High-energy music curator (85% energy)" {
		t.Errorf("badge description = %q", badge.Description)
	}
}

func TestEnergyDealerThresholdNotCrossed(t *testing.T) {
	a := rankedContributor("a", 3, 50)
	a.AvgAudioFeatures.Energy = 0.75
	b := rankedContributor("b", 3, 50)
	b.AvgAudioFeatures.Energy = 0.5
	assignBadges([]*Contributor{a, b})
	if hasBadge(a, "energy_dealer") {
		t.Error("0.75 energy must not earn energy_dealer")
	}
}

func TestMoodBadgesIgnoreZeroAverages(t *testing.T) {
	// a has no feature data at all; b crosses the bar and must win even
	// though a ranks higher.
	a := rankedContributor("a", 5, 50)
	b := rankedContributor("b", 3, 50)
	b.AvgAudioFeatures.Danceability = 0.9
	assignBadges([]*Contributor{a, b})

	badge := badgeByID(t, b, "dancefloor_commander")
	if badge.Description != "Makes everyone move (90% danceability)" {
		t.Errorf("badge description = %q", badge.Description)
	}
}

func TestVibesMasterAndSadBoi(t *testing.T) {
	happy := rankedContributor("happy", 3, 50)
	happy.AvgAudioFeatures.Valence = 0.75
	sad := rankedContributor("sad", 3, 50)
	sad.AvgAudioFeatures.Valence = 0.2
	assignBadges([]*Contributor{happy, sad})

	vibes := badgeByID(t, happy, "vibes_master")
	if vibes.Description != "Spreads positive energy (75% positivity)" {
		t.Errorf("vibes_master description = %q", vibes.Description)
	}
	sadBoi := badgeByID(t, sad, "sad_boi")
	if sadBoi.Description != "Embraces melancholy (20% positivity)" {
		t.Errorf("sad_boi description = %q", sadBoi.Description)
	}
}

func TestBadgesIndependent(t *testing.T) {
	// One dominant contributor can sweep several badges in a single run.
	a := rankedContributor("a", 8, 20)
	a.GenreDiversity = 9
	a.ArtistDiversity = 12
	a.Genres = []string{"gqom"}
	b := rankedContributor("b", 3, 80)
	assignBadges([]*Contributor{a, b})

	for _, id := range []string{"top_curator", "eclectic_ear", "genre_guru", "underground_hero", "trendsetter", "collector"} {
		if !hasBadge(a, id) {
			t.Errorf("expected badge %s, got %v", id, a.Badges)
		}
	}
}

func TestAssignBadgesEmpty(t *testing.T) {
	// Must not panic.
	assignBadges(nil)
	assignBadges([]*Contributor{})
}
