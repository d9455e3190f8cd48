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
	"fmt"
	"math"
	"strconv"
)

// significantTracks is the eligibility floor most badge rules share: a
// contributor must have added at least this many tracks to be judged on
// taste rather than noise.
const significantTracks = 3

// badgeContext is what every rule sees: the ranked contributor list and
// the significant subset, both in rank order.
type badgeContext struct {
	ranked      []*Contributor
	significant []*Contributor
}

// badgeRule is one independent, deterministic award. Rules never read
// each other's results; a contributor can hold any combination of
// badges including none.
type badgeRule struct {
	id     string
	assign func(ctx *badgeContext)
}

// badgeRules is the full rule table, evaluated in one pass. Thresholds
// are fixed business rules, not tunable parameters.
var badgeRules = []badgeRule{
	{id: "top_curator", assign: awardTopCurator},
	{id: "eclectic_ear", assign: awardEclecticEar},
	{id: "genre_guru", assign: awardGenreGuru},
	{id: "underground_hero", assign: awardUndergroundHero},
	{id: "trendsetter", assign: awardTrendsetter},
	{id: "old_soul", assign: awardOldSoul},
	{id: "fresh_dropper", assign: awardFreshDropper},
	{id: "collector", assign: awardCollector},
	{id: "energy_dealer", assign: awardEnergyDealer},
	{id: "dancefloor_commander", assign: awardDancefloorCommander},
	{id: "vibes_master", assign: awardVibesMaster},
	{id: "sad_boi", assign: awardSadBoi},
}

func assignBadges(ranked []*Contributor) {
	if len(ranked) == 0 {
		return
	}
	ctx := &badgeContext{ranked: ranked}
	for _, c := range ranked {
		if c.TracksAdded >= significantTracks {
			ctx.significant = append(ctx.significant, c)
		}
	}
	for _, rule := range badgeRules {
		rule.assign(ctx)
	}
}

func award(c *Contributor, id, name, description string) {
	c.Badges = append(c.Badges, Badge{ID: id, Name: name, Description: description})
}

// Top Curator goes to the #1-ranked contributor regardless of
// significance, but only past 5 tracks.
func awardTopCurator(ctx *badgeContext) {
	top := ctx.ranked[0]
	if top.TracksAdded > 5 {
		award(top, "top_curator", "🔥 Top Curator",
			fmt.Sprintf("Added the most tracks (%d) to this playlist", top.TracksAdded))
	}
}

func awardEclecticEar(ctx *badgeContext) {
	winner := maxBy(ctx.significant, func(c *Contributor) float64 { return float64(c.GenreDiversity) })
	if winner != nil && winner.GenreDiversity > 5 {
		award(winner, "eclectic_ear", "🧠 Eclectic Ear",
			fmt.Sprintf("Most diverse taste with %d different genres", winner.GenreDiversity))
	}
}

// Genre Guru counts every genre in the contributor's genre set once per
// attributed track, an approximation inherited from the source system:
// no per-track genre attribution exists, so the dominant genre is the
// first genre the contributor's tracks introduced.
func awardGenreGuru(ctx *badgeContext) {
	for _, c := range ctx.significant {
		genreCounts := newCounter()
		for range c.Tracks {
			for _, g := range c.Genres {
				genreCounts.Add(g)
			}
		}
		if genreCounts.Len() == 0 {
			continue
		}

		maxCount := 0
		dominant := ""
		for _, g := range genreCounts.Keys() {
			if n := genreCounts.Get(g); n > maxCount {
				maxCount = n
				dominant = g
			}
		}

		if float64(maxCount) >= math.Max(3, float64(c.TracksAdded)*0.4) {
			award(c, "genre_guru", "🎖️ Genre Guru",
				fmt.Sprintf("Master of %s with %d tracks", dominant, maxCount))
		}
	}
}

func awardUndergroundHero(ctx *badgeContext) {
	if len(ctx.significant) < 2 {
		return
	}
	winner := minBy(ctx.significant, func(c *Contributor) float64 { return c.AvgPopularity })
	if winner != nil && winner.AvgPopularity < 40 {
		award(winner, "underground_hero", "🌚 Underground Hero",
			fmt.Sprintf("Discovers hidden gems (avg popularity: %s)", trimFloat(winner.AvgPopularity)))
	}
}

func awardTrendsetter(ctx *badgeContext) {
	for _, c := range ctx.significant {
		lowPop := 0
		for _, t := range c.Tracks {
			if t.Popularity < 30 {
				lowPop++
			}
		}
		if float64(lowPop) >= math.Max(2, float64(c.TracksAdded)*0.3) {
			award(c, "trendsetter", "📈 Trendsetter",
				fmt.Sprintf("Early adopter with %d underground picks", lowPop))
		}
	}
}

// Old Soul and Fresh Dropper compare ISO release-date strings
// lexicographically, which orders year-only and full dates together the
// same way the source system did.
func awardOldSoul(ctx *badgeContext) {
	track, holder := extremeReleaseDate(ctx.significant, func(candidate, best string) bool {
		return candidate < best
	})
	if holder != nil {
		year, _ := releaseYearOf(track.ReleaseDate)
		award(holder, "old_soul", "💿 Old Soul",
			fmt.Sprintf("Added oldest track: %q (%d)", track.Name, year))
	}
}

func awardFreshDropper(ctx *badgeContext) {
	track, holder := extremeReleaseDate(ctx.significant, func(candidate, best string) bool {
		return candidate > best
	})
	if holder != nil {
		year, _ := releaseYearOf(track.ReleaseDate)
		award(holder, "fresh_dropper", "🆕 Fresh Dropper",
			fmt.Sprintf("Added newest track: %q (%d)", track.Name, year))
	}
}

func extremeReleaseDate(contributors []*Contributor, better func(candidate, best string) bool) (*TrackDetail, *Contributor) {
	var best *TrackDetail
	var holder *Contributor
	for _, c := range contributors {
		for i := range c.Tracks {
			t := &c.Tracks[i]
			if t.ReleaseDate == "" {
				continue
			}
			if best == nil || better(t.ReleaseDate, best.ReleaseDate) {
				best = t
				holder = c
			}
		}
	}
	return best, holder
}

func awardCollector(ctx *badgeContext) {
	winner := maxBy(ctx.significant, func(c *Contributor) float64 { return float64(c.ArtistDiversity) })
	if winner != nil && winner.ArtistDiversity > 10 {
		award(winner, "collector", "📀 Collector",
			fmt.Sprintf("Music explorer with %d different artists", winner.ArtistDiversity))
	}
}

func awardEnergyDealer(ctx *badgeContext) {
	awardFeatureExtreme(ctx, "energy_dealer", "⚡ Energy Dealer",
		func(c *Contributor) float64 { return c.AvgAudioFeatures.Energy },
		false, 0.8, "High-energy music curator (%d%% energy)")
}

func awardDancefloorCommander(ctx *badgeContext) {
	awardFeatureExtreme(ctx, "dancefloor_commander", "💃 Dancefloor Commander",
		func(c *Contributor) float64 { return c.AvgAudioFeatures.Danceability },
		false, 0.8, "Makes everyone move (%d%% danceability)")
}

func awardVibesMaster(ctx *badgeContext) {
	awardFeatureExtreme(ctx, "vibes_master", "🌈 Vibes Master",
		func(c *Contributor) float64 { return c.AvgAudioFeatures.Valence },
		false, 0.7, "Spreads positive energy (%d%% positivity)")
}

func awardSadBoi(ctx *badgeContext) {
	awardFeatureExtreme(ctx, "sad_boi", "🌧️ Sad Boi",
		func(c *Contributor) float64 { return c.AvgAudioFeatures.Valence },
		true, 0.4, "Embraces melancholy (%d%% positivity)")
}

// awardFeatureExtreme implements the shared shape of the mood badges:
// at least 2 significant contributors, only contributors with a
// non-zero average for the feature compete, and the max (or min) holder
// must cross the threshold.
func awardFeatureExtreme(ctx *badgeContext, id, name string, value func(*Contributor) float64, wantMin bool, threshold float64, descFormat string) {
	if len(ctx.significant) < 2 {
		return
	}
	var eligible []*Contributor
	for _, c := range ctx.significant {
		if value(c) > 0 {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return
	}

	var winner *Contributor
	if wantMin {
		winner = minBy(eligible, value)
	} else {
		winner = maxBy(eligible, value)
	}

	v := value(winner)
	crossed := v > threshold
	if wantMin {
		crossed = v < threshold
	}
	if crossed {
		award(winner, id, name, fmt.Sprintf(descFormat, int(math.Round(v*100))))
	}
}

// maxBy and minBy keep the first contributor on ties, matching the
// rank-order reduction the rules are specified with.
func maxBy(contributors []*Contributor, value func(*Contributor) float64) *Contributor {
	var best *Contributor
	for _, c := range contributors {
		if best == nil || value(c) > value(best) {
			best = c
		}
	}
	return best
}

func minBy(contributors []*Contributor, value func(*Contributor) float64) *Contributor {
	var best *Contributor
	for _, c := range contributors {
		if best == nil || value(c) < value(best) {
			best = c
		}
	}
	return best
}

// trimFloat renders 35.0 as "35" and 35.5 as "35.5", the way the
// descriptions read in the source system.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
