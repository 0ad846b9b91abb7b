package ledger

import "testing"

func TestRank_OrdersByPointsThenKillsThenInsertion(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{TeamName: "TeamA", Kills: 5, Points: 50},
		{TeamName: "TeamB", Kills: 5, Points: 50},
		{TeamName: "TeamC", Kills: 10, Points: 100},
	}

	ranked := Rank(entries)

	if ranked[0].TeamName != "TeamC" || ranked[0].Rank != 1 {
		t.Fatalf("unexpected rank 1 row: %+v", ranked[0])
	}
	if ranked[1].TeamName != "TeamA" || ranked[1].Rank != 2 {
		t.Fatalf("tie must keep insertion order, got: %+v", ranked[1])
	}
	if ranked[2].TeamName != "TeamB" || ranked[2].Rank != 3 {
		t.Fatalf("unexpected rank 3 row: %+v", ranked[2])
	}
}

func TestRank_StableAcrossRepeatedCalls(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{TeamName: "First", Kills: 4, Points: 40},
		{TeamName: "Second", Kills: 4, Points: 40},
		{TeamName: "Third", Kills: 4, Points: 40},
	}

	for run := 0; run < 5; run++ {
		ranked := Rank(entries)
		for idx, want := range []string{"First", "Second", "Third"} {
			if ranked[idx].TeamName != want {
				t.Fatalf("run %d: position %d got %s want %s", run, idx, ranked[idx].TeamName, want)
			}
		}
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{TeamName: "Low", Points: 1},
		{TeamName: "High", Points: 9},
	}

	_ = Rank(entries)

	if entries[0].TeamName != "Low" || entries[0].Rank != 0 {
		t.Fatalf("input slice was mutated: %+v", entries[0])
	}
}

func TestPublishedView_TruncatesToTopTen(t *testing.T) {
	t.Parallel()

	entries := make([]Entry, 0, 12)
	for i := 0; i < 12; i++ {
		entries = append(entries, Entry{TeamName: "team", Points: 100 - i})
	}

	view := PublishedView(Rank(entries))
	if len(view) != PublishedViewSize {
		t.Fatalf("expected %d rows, got %d", PublishedViewSize, len(view))
	}
	if view[0].Points != 100 || view[len(view)-1].Points != 91 {
		t.Fatalf("unexpected view boundaries: first=%d last=%d", view[0].Points, view[len(view)-1].Points)
	}
}

func TestPointsPerKill_ZeroKills(t *testing.T) {
	t.Parallel()

	e := Entry{TeamName: "NoKills", Kills: 0, Points: 35}
	if got := e.PointsPerKill(); got != 0 {
		t.Fatalf("expected 0 points per kill, got %v", got)
	}
}

func TestPointsPerKill_RoundsToOneDecimal(t *testing.T) {
	t.Parallel()

	e := Entry{TeamName: "Sharp", Kills: 3, Points: 35}
	if got := e.PointsPerKill(); got != 11.7 {
		t.Fatalf("expected 11.7, got %v", got)
	}
}

func TestDefaultPoints(t *testing.T) {
	t.Parallel()

	if got := DefaultPoints(7); got != 70 {
		t.Fatalf("expected 70, got %d", got)
	}
}
