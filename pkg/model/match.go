package model

import "time"

// MatchRecord is a single battle from a player's battle log. Records arrive
// from the API newest-first; the segmenter re-sorts before building sessions
// rather than assuming the order.
type MatchRecord struct {
	Time           time.Time `json:"time"`
	Win            bool      `json:"win"`
	Crowns         int       `json:"crowns"`
	OpponentCrowns int       `json:"opponentCrowns"`
	TrophyChange   *int      `json:"trophyChange,omitempty"`
	Type           string    `json:"type"`
}

// CrownDifference is positive for a winning margin, negative for a losing one.
func (m MatchRecord) CrownDifference() int {
	return m.Crowns - m.OpponentCrowns
}

// IsClose reports whether the match was decided by one crown or less.
func (m MatchRecord) IsClose() bool {
	diff := m.CrownDifference()
	if diff < 0 {
		diff = -diff
	}
	return diff <= 1
}

// PlayerStats is the player's profile snapshot as returned by the game API.
type PlayerStats struct {
	Tag          string   `json:"tag"`
	Name         string   `json:"name"`
	Level        int      `json:"level"`
	Trophies     int      `json:"trophies"`
	BestTrophies int      `json:"bestTrophies"`
	Wins         int      `json:"wins"`
	Losses       int      `json:"losses"`
	CurrentDeck  []string `json:"currentDeck,omitempty"`
	AvgElixir    float64  `json:"avgElixir,omitempty"`
}

// WinRate is the lifetime win rate as a percentage.
func (p PlayerStats) WinRate() float64 {
	total := p.Wins + p.Losses
	if total == 0 {
		return 0
	}
	return float64(p.Wins) / float64(total) * 100
}
