// Package retention turns segmented session history into a retention score,
// a churn risk, and a recommended next-match outcome for one player.
package retention

import (
	"github.com/sirupsen/logrus"

	"github.com/crlabs/royale-retention/pkg/model"
	"github.com/crlabs/royale-retention/pkg/stats"
)

// scoringWindow caps how many recent sessions feed the retention score.
const scoringWindow = 10

// Fixed factor weights; they sum to 1.0.
const (
	weightSatisfaction      = 0.35
	weightSatisfactionTrend = 0.15
	weightFrequency         = 0.25
	weightWinRateStability  = 0.15
	weightLengthConsistency = 0.10
)

// ScoreRetention computes the retention score in [0,1] for a profile; higher
// means more likely to return. A profile with no history scores the neutral
// new-player default of 0.5.
func ScoreRetention(p *model.PlayerProfile) float64 {
	if len(p.Sessions) == 0 {
		return 0.5
	}

	// Sessions are newest-first; the window keeps the most recent ones.
	window := p.Sessions
	if len(window) > scoringWindow {
		window = window[:scoringWindow]
	}

	satisfactions := make([]float64, len(window))
	// Trend runs over chronological order so a positive slope means the
	// player's sessions are getting more satisfying.
	for i, s := range window {
		satisfactions[len(window)-1-i] = s.Satisfaction
	}
	avgSatisfaction := stats.Mean(satisfactions)
	trend := stats.Clamp(stats.Slope(satisfactions), -1, 1)

	frequency := frequencyScore(window)

	winRates := make([]float64, len(window))
	for i, s := range window {
		winRates[i] = s.WinRate()
	}
	stability := 1 - stats.StdDev(winRates)/100

	lengths := make([]float64, len(window))
	for i, s := range window {
		lengths[i] = s.DurationMinutes()
	}
	consistency := 0.0
	if meanLength := stats.Mean(lengths); meanLength > 0 && len(lengths) >= 2 {
		consistency = 1 - stats.StdDev(lengths)/meanLength
	}

	score := avgSatisfaction*weightSatisfaction +
		trend*weightSatisfactionTrend +
		frequency*weightFrequency +
		stability*weightWinRateStability +
		consistency*weightLengthConsistency

	logrus.Debugf("retention score for %s: satisfaction=%.3f trend=%.3f frequency=%.3f stability=%.3f consistency=%.3f -> %.3f",
		p.Tag, avgSatisfaction, trend, frequency, stability, consistency, score)
	return stats.Clamp01(score)
}

// frequencyScore maps the average gap between sessions to [0,1]: daily or
// more frequent play scores 1.0, decaying linearly to 0 past 24 hours.
// A single session has no gaps to measure and scores neutral.
func frequencyScore(window []model.SessionMetrics) float64 {
	if len(window) < 2 {
		return 0.5
	}
	gaps := make([]float64, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		// window[i-1] is the newer session: gap runs from the end of the
		// older session to the start of the newer one.
		gap := window[i-1].StartTime.Sub(window[i].EndTime).Hours()
		gaps = append(gaps, gap)
	}
	avgGap := stats.Mean(gaps)
	if score := 1 - avgGap/24; score > 0 {
		return score
	}
	return 0
}
