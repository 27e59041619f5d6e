package royale

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const playerJSON = `{
	"tag": "#ABC123",
	"name": "Tester",
	"expLevel": 13,
	"trophies": 5200,
	"bestTrophies": 5600,
	"wins": 2100,
	"losses": 1900,
	"currentDeck": [
		{"name": "Hog Rider", "elixirCost": 4},
		{"name": "Ice Spirit", "elixirCost": 1},
		{"name": "Skeletons", "elixirCost": 1},
		{"name": "Cannon", "elixirCost": 3},
		{"name": "Fireball", "elixirCost": 4},
		{"name": "The Log", "elixirCost": 2},
		{"name": "Musketeer", "elixirCost": 4},
		{"name": "Ice Golem", "elixirCost": 2}
	]
}`

const battleLogJSON = `[
	{
		"type": "PvP",
		"battleTime": "20260825T181530.000Z",
		"team": [{"tag": "#ABC123", "crowns": 2, "trophyChange": 30}],
		"opponent": [{"tag": "#ENEMY", "crowns": 1, "trophyChange": -30}]
	},
	{
		"type": "PvP",
		"battleTime": "not-a-time",
		"team": [{"tag": "#ABC123", "crowns": 0}],
		"opponent": [{"tag": "#ENEMY", "crowns": 3}]
	},
	{
		"type": "challenge",
		"battleTime": "20260825T175500.000Z",
		"team": [{"tag": "#ABC123", "crowns": 0}],
		"opponent": [{"tag": "#ENEMY", "crowns": 3}]
	}
]`

func TestPlayer(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, playerJSON)
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	stats, err := c.Player(context.Background(), "#ABC123")
	if err != nil {
		t.Fatalf("Player() error = %v", err)
	}

	if gotPath != "/players/%23ABC123" {
		t.Errorf("request path = %q, expected tag to be escaped", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, expected bearer token", gotAuth)
	}
	if stats.Name != "Tester" || stats.Trophies != 5200 {
		t.Errorf("stats = %+v, expected parsed profile", stats)
	}
	if len(stats.CurrentDeck) != 8 {
		t.Fatalf("CurrentDeck = %d cards, expected 8", len(stats.CurrentDeck))
	}
	// 21 total elixir over 8 cards
	if got := stats.AvgElixir; got < 2.62 || got > 2.63 {
		t.Errorf("AvgElixir = %v, expected 2.625", got)
	}
}

func TestPlayer_AddsTagPrefix(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		fmt.Fprint(w, `{"tag": "#ABC123"}`)
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	if _, err := c.Player(context.Background(), "ABC123"); err != nil {
		t.Fatalf("Player() error = %v", err)
	}
	if gotPath != "/players/%23ABC123" {
		t.Errorf("request path = %q, expected normalized #-prefixed tag", gotPath)
	}
}

func TestBattleLog_SkipsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, battleLogJSON)
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	records, err := c.BattleLog(context.Background(), "#ABC123")
	if err != nil {
		t.Fatalf("BattleLog() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("BattleLog() = %d records, expected 2 (malformed battle skipped)", len(records))
	}

	first := records[0]
	want := time.Date(2026, 8, 25, 18, 15, 30, 0, time.UTC)
	if !first.Time.Equal(want) {
		t.Errorf("records[0].Time = %v, expected %v", first.Time, want)
	}
	if !first.Win || first.Crowns != 2 || first.OpponentCrowns != 1 {
		t.Errorf("records[0] = %+v, expected a 2-1 win", first)
	}
	if first.TrophyChange == nil || *first.TrophyChange != 30 {
		t.Errorf("records[0].TrophyChange = %v, expected 30", first.TrophyChange)
	}

	second := records[1]
	if second.Win || second.Type != "challenge" {
		t.Errorf("records[1] = %+v, expected a challenge loss", second)
	}
	if second.TrophyChange != nil {
		t.Errorf("records[1].TrophyChange = %v, expected nil for a challenge", second.TrophyChange)
	}
}

func TestGet_RetriesOnTooManyRequests(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"tag": "#ABC123"}`)
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	if _, err := c.Player(context.Background(), "#ABC123"); err != nil {
		t.Fatalf("Player() error = %v, expected success after retries", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server saw %d calls, expected 3", got)
	}
}

func TestGet_NotFoundIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	if _, err := c.Player(context.Background(), "#MISSING"); err == nil {
		t.Fatal("Player() expected error for 404")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server saw %d calls, expected no retries on 404", got)
	}
}
