package retention

import "github.com/crlabs/royale-retention/pkg/model"

// ClassifySkill bands a trophy count into a skill level.
func ClassifySkill(trophies int) model.SkillLevel {
	switch {
	case trophies < 2000:
		return model.SkillBeginner
	case trophies < 4000:
		return model.SkillIntermediate
	case trophies < 6000:
		return model.SkillAdvanced
	default:
		return model.SkillExpert
	}
}

// ClassifyStyle infers a play style from the player's current deck and
// battle patterns. Without a deck snapshot the classification defaults to
// balanced.
func ClassifyStyle(stats model.PlayerStats, records []model.MatchRecord) model.PlayStyle {
	if len(stats.CurrentDeck) == 0 {
		return model.StyleBalanced
	}

	var crownDiffSum float64
	if len(records) > 0 {
		for _, rec := range records {
			crownDiffSum += float64(rec.CrownDifference())
		}
		crownDiffSum /= float64(len(records))
	}

	unique := make(map[string]struct{}, len(stats.CurrentDeck))
	for _, card := range stats.CurrentDeck {
		unique[card] = struct{}{}
	}

	switch {
	case stats.AvgElixir < 3.5 && crownDiffSum > 0:
		return model.StyleAggressive
	case stats.AvgElixir > 4.0:
		return model.StyleDefensive
	case len(unique) > 6:
		return model.StyleExperimental
	default:
		return model.StyleBalanced
	}
}
