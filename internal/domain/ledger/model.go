package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window is the competition window a partition covers.
type Window string

const (
	WindowWeekly  Window = "WEEKLY"
	WindowMonthly Window = "MONTHLY"
)

// Source identifies how a batch of rows entered the ledger.
type Source string

const (
	SourceManual    Source = "MANUAL"
	SourceExtracted Source = "EXTRACTED"
)

// Lobbies is the closed set of lobby identifiers the site runs.
var Lobbies = []string{"35", "45", "55"}

// Partition is the (lobby, window) key every entry belongs to.
type Partition struct {
	Lobby  string
	Window Window
}

func (p Partition) String() string {
	return p.Lobby + "/" + string(p.Window)
}

func (p Partition) Validate() error {
	if !ValidLobby(p.Lobby) {
		return fmt.Errorf("unknown lobby %q", p.Lobby)
	}
	if !ValidWindow(p.Window) {
		return fmt.Errorf("unknown competition window %q", p.Window)
	}
	return nil
}

func ValidLobby(lobby string) bool {
	for _, candidate := range Lobbies {
		if candidate == lobby {
			return true
		}
	}
	return false
}

func ValidWindow(w Window) bool {
	return w == WindowWeekly || w == WindowMonthly
}

func ParseWindow(v string) (Window, error) {
	w := Window(strings.ToUpper(strings.TrimSpace(v)))
	if !ValidWindow(w) {
		return "", fmt.Errorf("unknown competition window %q", v)
	}
	return w, nil
}

func ParseSource(v string) (Source, error) {
	s := Source(strings.ToUpper(strings.TrimSpace(v)))
	if s != SourceManual && s != SourceExtracted {
		return "", fmt.Errorf("unknown source %q", v)
	}
	return s, nil
}

// Entry is one team's result row inside a partition.
type Entry struct {
	ID        int64
	TeamName  string
	Kills     int
	Points    int
	Lobby     string
	Window    Window
	BatchID   string
	Source    Source
	Rank      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Entry) Partition() Partition {
	return Partition{Lobby: e.Lobby, Window: e.Window}
}

// PointsPerKill is points/kills rounded to one decimal, 0 when the team
// recorded no kills.
func (e Entry) PointsPerKill() float64 {
	if e.Kills == 0 {
		return 0
	}
	ratio := float64(e.Points) / float64(e.Kills)
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(ratio, 'f', 1, 64), 64)
	if err != nil {
		return 0
	}
	return rounded
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.TeamName) == "" {
		return fmt.Errorf("team name is required")
	}
	if e.Kills < 0 {
		return fmt.Errorf("kills cannot be negative")
	}
	if e.Points < 0 {
		return fmt.Errorf("points cannot be negative")
	}
	if err := e.Partition().Validate(); err != nil {
		return err
	}
	return nil
}

// BatchRecord is the single source of truth that an ingestion happened.
// Reverting a batch removes the record and its entries together.
type BatchRecord struct {
	BatchID   string
	Lobby     string
	Window    Window
	TeamCount int
	Source    Source
	Actor     string
	CreatedAt time.Time
}

// NewBatchID builds a time-ordered batch identifier for an ingestion event.
func NewBatchID(source Source, at time.Time) string {
	return string(source) + "-" + strconv.FormatInt(at.UnixMilli(), 10)
}
