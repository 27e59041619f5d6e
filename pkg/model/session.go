package model

import "time"

// Session is a maximal run of matches separated by gaps no larger than the
// configured threshold. Records are owned by exactly one session and are
// ordered by time descending (index 0 is the last match played). Sessions
// are immutable once built; a fresh analysis pass always rebuilds the full
// list from raw records.
type Session struct {
	ID        int           `json:"id"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Records   []MatchRecord `json:"records"`
}

// Duration is the wall-clock span from the first to the last match.
func (s Session) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// SessionMetrics is the derived, read-only view of one session.
type SessionMetrics struct {
	SessionID     int       `json:"sessionId"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	TotalBattles  int       `json:"totalBattles"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	CrownsFor     int       `json:"crownsFor"`
	CrownsAgainst int       `json:"crownsAgainst"`
	TrophyChange  int       `json:"trophyChange"`
	CloseMatches  int       `json:"closeMatches"`
	EndReason     EndReason `json:"endReason"`
	Satisfaction  float64   `json:"satisfaction"`
}

// DurationMinutes is the session length in minutes.
func (m SessionMetrics) DurationMinutes() float64 {
	return m.EndTime.Sub(m.StartTime).Minutes()
}

// WinRate is the session win rate as a percentage.
func (m SessionMetrics) WinRate() float64 {
	if m.TotalBattles == 0 {
		return 0
	}
	return float64(m.Wins) / float64(m.TotalBattles) * 100
}

// CloseMatchRate is the fraction of matches decided by one crown or less.
func (m SessionMetrics) CloseMatchRate() float64 {
	if m.TotalBattles == 0 {
		return 0
	}
	return float64(m.CloseMatches) / float64(m.TotalBattles)
}
