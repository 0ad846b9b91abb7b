package ledger

import "sort"

// PublishedViewSize is how many rows of a partition the public leaderboard
// shows.
const PublishedViewSize = 10

// DefaultPointsPerKillRate converts kills into points when a row arrives
// without an explicit score.
const DefaultPointsPerKillRate = 10

// Rank orders entries by points descending, kills descending, then the order
// they were supplied in. The sort is stable so rows with identical
// (points, kills) never swap between calls on the same input. Rank numbers
// are rewritten as 1-based positions; they are derived, never the ordering
// key.
func Rank(entries []Entry) []Entry {
	ranked := append([]Entry(nil), entries...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].Kills > ranked[j].Kills
	})
	for idx := range ranked {
		ranked[idx].Rank = idx + 1
	}
	return ranked
}

// PublishedView truncates a ranked list to the public top rows.
func PublishedView(ranked []Entry) []Entry {
	if len(ranked) <= PublishedViewSize {
		return ranked
	}
	return ranked[:PublishedViewSize]
}

// DefaultPoints is the scoring rule applied when a row omits points.
func DefaultPoints(kills int) int {
	return kills * DefaultPointsPerKillRate
}
