package session

import (
	"errors"

	"github.com/crlabs/royale-retention/pkg/model"
	"github.com/crlabs/royale-retention/pkg/stats"
)

// ErrEmptySession is returned when metrics are requested for a session that
// owns no records. Sessions built by Segment are never empty, so hitting
// this means the caller constructed the session by hand.
var ErrEmptySession = errors.New("session has no records")

// frustrationLossCount is how many consecutive losses at the end of a
// session indicate a frustration quit.
const frustrationLossCount = 3

// endReasonSatisfactionBonus maps each end-reason classification to its
// fixed satisfaction adjustment.
var endReasonSatisfactionBonus = map[model.EndReason]float64{
	model.EndReasonSatisfactionWin:   0.2,
	model.EndReasonCloseMatchHigh:    0.15,
	model.EndReasonTrophyGoalReached: 0.1,
	model.EndReasonTimeConstraint:    0.0,
	model.EndReasonBoredom:           -0.1,
	model.EndReasonFrustrationLoss:   -0.3,
	model.EndReasonUnknown:           0.0,
}

// ExtractMetrics computes the derived metrics for one session. It is a pure
// function of the session's records and is deterministic: the same session
// always yields the same metrics.
func ExtractMetrics(s model.Session) (model.SessionMetrics, error) {
	if len(s.Records) == 0 {
		return model.SessionMetrics{}, ErrEmptySession
	}

	m := model.SessionMetrics{
		SessionID: s.ID,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
	for _, rec := range s.Records {
		m.TotalBattles++
		if rec.Win {
			m.Wins++
		} else {
			m.Losses++
		}
		m.CrownsFor += rec.Crowns
		m.CrownsAgainst += rec.OpponentCrowns
		if rec.TrophyChange != nil {
			m.TrophyChange += *rec.TrophyChange
		}
		if rec.IsClose() {
			m.CloseMatches++
		}
	}

	m.EndReason = classifyEndReason(s.Records, m.TrophyChange)
	m.Satisfaction = satisfactionScore(m)
	return m, nil
}

// classifyEndReason infers why the session ended from its final matches.
// Records are newest-first, so index 0 is the last match before the player
// stopped. Sessions with fewer than two records carry too little signal and
// classify as unknown.
func classifyEndReason(records []model.MatchRecord, trophyChange int) model.EndReason {
	if len(records) < 2 {
		return model.EndReasonUnknown
	}

	if len(records) >= frustrationLossCount {
		allLosses := true
		for _, rec := range records[:frustrationLossCount] {
			if rec.Win {
				allLosses = false
				break
			}
		}
		if allLosses {
			return model.EndReasonFrustrationLoss
		}
	}

	if last := records[0]; last.Win {
		if last.IsClose() {
			return model.EndReasonCloseMatchHigh
		}
		return model.EndReasonSatisfactionWin
	}

	if trophyChange > 0 {
		return model.EndReasonTrophyGoalReached
	}
	return model.EndReasonUnknown
}

// satisfactionScore estimates how satisfying the session felt, in [0,1].
// Baseline 0.5, shifted by win rate, close-match rate, and the end-reason
// bonus, then clamped.
func satisfactionScore(m model.SessionMetrics) float64 {
	score := 0.5
	score += (m.WinRate()/100 - 0.5) * 0.4
	score += m.CloseMatchRate() * 0.2
	score += endReasonSatisfactionBonus[m.EndReason]
	return stats.Clamp01(score)
}
