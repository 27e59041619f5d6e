package royale

import (
	"github.com/crlabs/royale-retention/pkg/model"
)

// PlayPatterns summarizes raw battle-log behavior before any session
// segmentation: streaks, close matches, trophy swing, and pacing.
type PlayPatterns struct {
	TotalBattles       int     `json:"totalBattles"`
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	WinRate            float64 `json:"winRate"`
	MaxWinStreak       int     `json:"maxWinStreak"`
	MaxLossStreak      int     `json:"maxLossStreak"`
	AvgWinStreak       float64 `json:"avgWinStreak"`
	AvgLossStreak      float64 `json:"avgLossStreak"`
	CloseMatches       int     `json:"closeMatches"`
	CloseMatchRate     float64 `json:"closeMatchRate"`
	AvgCrownDifference float64 `json:"avgCrownDifference"`
	AvgTrophyChange    float64 `json:"avgTrophyChange"`
	AvgMinutesBetween  float64 `json:"avgMinutesBetween"`
}

// AnalyzePlayPatterns computes play-pattern statistics over a battle log.
// Records are expected newest-first (the order BattleLog returns them); an
// empty log yields the zero value.
func AnalyzePlayPatterns(records []model.MatchRecord) PlayPatterns {
	var p PlayPatterns
	if len(records) == 0 {
		return p
	}

	p.TotalBattles = len(records)

	var winStreaks, lossStreaks []int
	streak := 1
	streakIsWin := records[0].Win
	flush := func() {
		if streakIsWin {
			winStreaks = append(winStreaks, streak)
			if streak > p.MaxWinStreak {
				p.MaxWinStreak = streak
			}
		} else {
			lossStreaks = append(lossStreaks, streak)
			if streak > p.MaxLossStreak {
				p.MaxLossStreak = streak
			}
		}
	}

	var crownDiffSum float64
	var trophySum, trophyCount int
	for i, rec := range records {
		if rec.Win {
			p.Wins++
		} else {
			p.Losses++
		}
		if rec.IsClose() {
			p.CloseMatches++
		}
		crownDiffSum += float64(rec.CrownDifference())
		if rec.TrophyChange != nil {
			trophySum += *rec.TrophyChange
			trophyCount++
		}

		if i == 0 {
			continue
		}
		if rec.Win == streakIsWin {
			streak++
		} else {
			flush()
			streakIsWin = rec.Win
			streak = 1
		}
	}
	flush()

	p.WinRate = float64(p.Wins) / float64(p.TotalBattles) * 100
	p.CloseMatchRate = float64(p.CloseMatches) / float64(p.TotalBattles) * 100
	p.AvgCrownDifference = crownDiffSum / float64(p.TotalBattles)
	if trophyCount > 0 {
		p.AvgTrophyChange = float64(trophySum) / float64(trophyCount)
	}
	if len(winStreaks) > 0 {
		var sum int
		for _, s := range winStreaks {
			sum += s
		}
		p.AvgWinStreak = float64(sum) / float64(len(winStreaks))
	}
	if len(lossStreaks) > 0 {
		var sum int
		for _, s := range lossStreaks {
			sum += s
		}
		p.AvgLossStreak = float64(sum) / float64(len(lossStreaks))
	}
	if len(records) > 1 {
		var gapSum float64
		for i := 1; i < len(records); i++ {
			gapSum += records[i-1].Time.Sub(records[i].Time).Minutes()
		}
		p.AvgMinutesBetween = gapSum / float64(len(records)-1)
	}
	return p
}
