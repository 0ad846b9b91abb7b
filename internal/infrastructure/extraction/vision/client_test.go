package vision

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	jsoniter "github.com/json-iterator/go"

	"github.com/Raushanritik30891/zyro-sub000/internal/platform/resilience"
	"github.com/Raushanritik30891/zyro-sub000/internal/usecase"
)

func TestClientExtractScoreboard_ParsesRows(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/scoreboard:extract" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer vision-key" {
			t.Fatalf("unexpected authorization header: %s", got)
		}
		if got := r.Header.Get("Content-Type"); got != "image/png" {
			t.Fatalf("unexpected content type: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{
			"rows": []map[string]any{
				{"team_name": "Alpha", "kills": 7, "points": 82},
				{"team_name": "Bravo", "kills": 3},
				{"team_name": "  ", "kills": 1},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL:        srv.URL,
		APIKey:         "vision-key",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	rows, err := client.ExtractScoreboard(context.Background(), []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("ExtractScoreboard error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected blank team skipped, got %d rows", len(rows))
	}
	if rows[0].TeamName != "Alpha" || rows[0].Kills != 7 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[0].Points == nil || *rows[0].Points != 82 {
		t.Fatalf("expected explicit points kept, got %+v", rows[0].Points)
	}
	if rows[1].Points != nil {
		t.Fatalf("expected omitted points to stay nil, got %+v", rows[1].Points)
	}
}

func TestClientExtractScoreboard_CapsRows(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		rows := make([]map[string]any, 0, 14)
		for i := 0; i < 14; i++ {
			rows = append(rows, map[string]any{"team_name": "Team", "kills": i})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{"rows": rows})
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL:        srv.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	rows, err := client.ExtractScoreboard(context.Background(), []byte("x"), "image/jpeg")
	if err != nil {
		t.Fatalf("ExtractScoreboard error: %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("expected row cap of 10, got %d", len(rows))
	}
}

func TestClientExtractScoreboard_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"not a scoreboard"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL:        srv.URL,
		MaxRetries:     2,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	_, err := client.ExtractScoreboard(context.Background(), []byte("x"), "image/png")
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected no retries on non-retryable status, got %d calls", calls.Load())
	}
}

func TestClientExtractScoreboard_BreakerShieldsService(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
		},
	})

	if _, err := client.ExtractScoreboard(context.Background(), []byte("x"), "image/png"); err == nil {
		t.Fatalf("expected error from failing service")
	}

	_, err := client.ExtractScoreboard(context.Background(), []byte("x"), "image/png")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected breaker rejection, got %v", err)
	}
}
