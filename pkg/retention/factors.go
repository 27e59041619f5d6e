package retention

import (
	"math"

	"github.com/crlabs/royale-retention/pkg/model"
)

// ComputeFactors derives the player-level retention factors from the full
// session history plus the raw records the sessions were built from. With no
// history it returns the new-player defaults instead of failing.
//
// Deck experimentation and meta adaptation need deck history and longer-term
// data than a single battle log provides, so they stay at their defaults;
// the fields exist so the predictor's shape does not change when those
// signals arrive.
func ComputeFactors(sessions []model.SessionMetrics, records []model.MatchRecord) model.RetentionFactors {
	if len(sessions) == 0 {
		return model.RetentionFactors{
			WinRateConsistency:      0.5,
			SessionLengthPreference: 15.0,
			LossTolerance:           3,
			ComebackPotential:       0.6,
			CloseMatchPreference:    0.7,
			TrophySensitivity:       0.5,
			TimeOfDayPatterns:       map[int]float64{},
			DeckExperimentation:     0.3,
			MetaAdaptation:          0.4,
		}
	}

	n := float64(len(sessions))

	var rateSum float64
	for _, s := range sessions {
		rateSum += s.WinRate()
	}
	rateMean := rateSum / n
	var devSq float64
	for _, s := range sessions {
		d := s.WinRate() - rateMean
		devSq += d * d
	}
	spread := math.Sqrt(devSq)
	if spread < 0.1 {
		spread = 0.1
	} else if spread > 50 {
		spread = 50
	}
	consistency := math.Max(0, 1-spread/50)

	var lengthSum float64
	for _, s := range sessions {
		lengthSum += s.DurationMinutes()
	}

	var frustrationEndings int
	for _, s := range sessions {
		if s.EndReason == model.EndReasonFrustrationLoss {
			frustrationEndings++
		}
	}
	lossTolerance := 5 - int(float64(frustrationEndings)/n*4)
	if lossTolerance < 1 {
		lossTolerance = 1
	}

	// A comeback session is one where the player kept playing through
	// losses and still took wins.
	var comebacks int
	for _, s := range sessions {
		if s.Losses >= 2 && s.Wins > 0 {
			comebacks++
		}
	}
	comebackPotential := math.Min(1, float64(comebacks)/n)

	var closeMatches, battles int
	for _, s := range sessions {
		closeMatches += s.CloseMatches
		battles += s.TotalBattles
	}
	closeRate := float64(closeMatches) / math.Max(1, float64(battles))
	closePreference := math.Min(1, closeRate*2)

	trophySensitivity := 0.5
	var trophyAbs float64
	var trophyCount int
	for _, rec := range records {
		if rec.TrophyChange != nil {
			trophyAbs += math.Abs(float64(*rec.TrophyChange))
			trophyCount++
		}
	}
	if trophyCount > 0 {
		trophySensitivity = math.Min(1, trophyAbs/float64(trophyCount)/50)
	}

	hourCounts := make(map[int]float64)
	for _, s := range sessions {
		hourCounts[s.StartTime.Hour()]++
	}
	var maxCount float64
	for _, c := range hourCounts {
		if c > maxCount {
			maxCount = c
		}
	}
	patterns := make(map[int]float64, len(hourCounts))
	for h, c := range hourCounts {
		patterns[h] = c / maxCount
	}

	return model.RetentionFactors{
		WinRateConsistency:      consistency,
		SessionLengthPreference: lengthSum / n,
		LossTolerance:           lossTolerance,
		ComebackPotential:       comebackPotential,
		CloseMatchPreference:    closePreference,
		TrophySensitivity:       trophySensitivity,
		TimeOfDayPatterns:       patterns,
		DeckExperimentation:     0.3,
		MetaAdaptation:          0.4,
	}
}
