package deck

import (
	"math"
	"testing"

	"github.com/crlabs/royale-retention/pkg/model"
)

func TestAnalyzeVsMeta(t *testing.T) {
	r := DefaultRegistry()

	got := r.AnalyzeVsMeta(hogCycleDeck(), []string{"Royal Giant", "Giant Beatdown", "LavaLoon"})
	if got.Archetype != "Hog Cycle" {
		t.Errorf("Archetype = %q, expected Hog Cycle", got.Archetype)
	}
	// (0.45 + 0.55 + 0.35) / 3
	if math.Abs(got.MetaWinRate-0.45) > 1e-9 {
		t.Errorf("MetaWinRate = %v, expected 0.45", got.MetaWinRate)
	}
	if len(got.Matchups) != 3 {
		t.Errorf("Matchups = %d entries, expected 3", len(got.Matchups))
	}
	if math.Abs(got.Matchups["LavaLoon"]-0.35) > 1e-9 {
		t.Errorf("Matchups[LavaLoon] = %v, expected 0.35", got.Matchups["LavaLoon"])
	}
}

func TestAnalyzeVsMeta_NoMeta(t *testing.T) {
	r := DefaultRegistry()

	got := r.AnalyzeVsMeta(hogCycleDeck(), nil)
	if got.MetaWinRate != 0.50 {
		t.Errorf("MetaWinRate = %v, expected neutral 0.50 without meta archetypes", got.MetaWinRate)
	}
}

func TestRecommendForOutcome_Ordering(t *testing.T) {
	r := DefaultRegistry()

	recs := r.RecommendForOutcome(0.65, "LavaLoon", model.SkillIntermediate)
	if len(recs) == 0 {
		t.Fatal("RecommendForOutcome() returned no recommendations")
	}
	if len(recs) > 5 {
		t.Errorf("RecommendForOutcome() returned %d recommendations, expected at most 5", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Score > recs[i-1].Score {
			t.Errorf("recommendations not sorted: score %v follows %v", recs[i].Score, recs[i-1].Score)
		}
	}
	// Royal Giant is 0.60 vs LavaLoon, the closest to the 0.65 target
	if recs[0].Archetype != "Royal Giant" {
		t.Errorf("top recommendation = %q, expected Royal Giant", recs[0].Archetype)
	}
	if recs[0].Reasoning == "" {
		t.Error("top recommendation has empty reasoning")
	}
}

func TestRecommendForOutcome_SampleDecksComplete(t *testing.T) {
	r := DefaultRegistry()

	for _, rec := range r.RecommendForOutcome(0.35, "Hog Cycle", model.SkillExpert) {
		if len(rec.SampleDeck) != DeckSize {
			t.Errorf("%s sample deck has %d cards, expected %d", rec.Archetype, len(rec.SampleDeck), DeckSize)
		}
		seen := make(map[string]bool)
		for _, card := range rec.SampleDeck {
			if seen[card] {
				t.Errorf("%s sample deck repeats %q", rec.Archetype, card)
			}
			seen[card] = true
		}
	}
}

func TestOptimizeForRetention(t *testing.T) {
	r := DefaultRegistry()

	lavaloon := []string{
		"Balloon", "Lightning", "Wizard", "Valkyrie",
		"Tesla", "Zap", "Lava Hound", "Minions",
	}

	got := r.OptimizeForRetention(hogCycleDeck(), lavaloon, model.OutcomeWin, model.SkillAdvanced)
	if got.TargetOutcome != model.OutcomeWin {
		t.Errorf("TargetOutcome = %q, expected win", got.TargetOutcome)
	}
	if got.OpponentArchetype != "LavaLoon" {
		t.Errorf("OpponentArchetype = %q, expected LavaLoon", got.OpponentArchetype)
	}
	if got.CurrentDeckAnalysis.Archetype != "Hog Cycle" {
		t.Errorf("CurrentDeckAnalysis.Archetype = %q, expected Hog Cycle", got.CurrentDeckAnalysis.Archetype)
	}
	// Hog Cycle is 0.35 vs LavaLoon, 0.30 away from the 0.65 win target
	if !got.ShouldChangeDeck {
		t.Error("ShouldChangeDeck = false, expected a deck change into a bad matchup")
	}
	if got.RecommendedChange == nil {
		t.Fatal("RecommendedChange is nil")
	}
	if len(got.Options) == 0 || len(got.Options) > 3 {
		t.Errorf("Options = %d, expected 1 to 3", len(got.Options))
	}
}

func TestOptimizeForRetention_UnknownOpponent(t *testing.T) {
	r := DefaultRegistry()

	got := r.OptimizeForRetention(hogCycleDeck(), nil, model.OutcomeLoss, model.SkillBeginner)
	if got.OpponentArchetype != UnknownArchetype {
		t.Errorf("OpponentArchetype = %q, expected Unknown without an opponent deck", got.OpponentArchetype)
	}
	if got.OpponentConfidence != 0 {
		t.Errorf("OpponentConfidence = %v, expected 0", got.OpponentConfidence)
	}
	// Every archetype sits at the 0.50 default against an unknown opponent
	for _, opt := range got.Options {
		if opt.ExpectedWinRate != 0.50 {
			t.Errorf("%s ExpectedWinRate = %v, expected 0.50", opt.Archetype, opt.ExpectedWinRate)
		}
	}
}
