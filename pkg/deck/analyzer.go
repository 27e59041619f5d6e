package deck

import (
	"fmt"
	"sort"

	"github.com/crlabs/royale-retention/pkg/model"
)

// Target win rates when steering a matchup toward an outcome: favorable but
// not guaranteed for a win, challenging but winnable for a loss.
const (
	targetWinRateForWin  = 0.65
	targetWinRateForLoss = 0.35
)

// MetaAnalysis summarizes how a deck performs against a set of meta
// archetypes.
type MetaAnalysis struct {
	Archetype           string             `json:"archetype"`
	ArchetypeConfidence float64            `json:"archetypeConfidence"`
	MetaWinRate         float64            `json:"metaWinRate"`
	Matchups            map[string]float64 `json:"matchups"`
}

// Recommendation is one candidate archetype for achieving a target win rate
// against a specific opponent.
type Recommendation struct {
	Archetype       string   `json:"archetype"`
	SampleDeck      []string `json:"sampleDeck"`
	ExpectedWinRate float64  `json:"expectedWinRate"`
	WinRateDelta    float64  `json:"winRateDelta"`
	MetaViability   float64  `json:"metaViability"`
	Score           float64  `json:"score"`
	Playstyle       string   `json:"playstyle"`
	AvgElixir       float64  `json:"avgElixir"`
	Reasoning       string   `json:"reasoning"`
}

// Optimization is the full deck-strategy recommendation for one matchup.
type Optimization struct {
	TargetOutcome       model.Outcome    `json:"targetOutcome"`
	OpponentArchetype   string           `json:"opponentArchetype"`
	OpponentConfidence  float64          `json:"opponentConfidence"`
	CurrentDeckAnalysis MetaAnalysis     `json:"currentDeckAnalysis"`
	RecommendedChange   *Recommendation  `json:"recommendedChange,omitempty"`
	ShouldChangeDeck    bool             `json:"shouldChangeDeck"`
	Options             []Recommendation `json:"options"`
}

// WinRate returns the expected win rate of archetype a against archetype b,
// defaulting to an even 0.50 when the table has no data for the pair.
func (r *Registry) WinRate(a, b string) float64 {
	if rates, ok := r.winRates[a]; ok {
		if rate, ok := rates[b]; ok {
			return rate
		}
	}
	return 0.50
}

// AnalyzeVsMeta identifies the deck's archetype and averages its expected
// win rate over the given meta archetypes.
func (r *Registry) AnalyzeVsMeta(deckCards []string, metaArchetypes []string) MetaAnalysis {
	name, confidence := r.Match(deckCards)

	matchups := make(map[string]float64, len(metaArchetypes))
	var total float64
	for _, opponent := range metaArchetypes {
		rate := r.WinRate(name, opponent)
		matchups[opponent] = rate
		total += rate
	}

	metaWinRate := 0.50
	if len(metaArchetypes) > 0 {
		metaWinRate = total / float64(len(metaArchetypes))
	}

	return MetaAnalysis{
		Archetype:           name,
		ArchetypeConfidence: confidence,
		MetaWinRate:         metaWinRate,
		Matchups:            matchups,
	}
}

// RecommendForOutcome ranks archetypes by how closely their expected win
// rate against the opponent matches the target, weighted by current meta
// viability and skill fit. At most the top five are returned.
func (r *Registry) RecommendForOutcome(targetWinRate float64, opponentArchetype string, skill model.SkillLevel) []Recommendation {
	skillMultiplier := map[model.SkillLevel]float64{
		model.SkillBeginner:     0.8,
		model.SkillIntermediate: 1.0,
		model.SkillAdvanced:     1.2,
		model.SkillExpert:       1.4,
	}[skill]
	if skillMultiplier == 0 {
		skillMultiplier = 1.0
	}

	recommendations := make([]Recommendation, 0, len(r.archetypes))
	for _, archetype := range r.archetypes {
		winRate := r.WinRate(archetype.Name, opponentArchetype)
		delta := winRate - targetWinRate
		if delta < 0 {
			delta = -delta
		}

		score := (1.0-delta)*0.5 + archetype.MetaViability*0.3 + skillMultiplier*0.2

		recommendations = append(recommendations, Recommendation{
			Archetype:       archetype.Name,
			SampleDeck:      r.sampleDeck(archetype),
			ExpectedWinRate: winRate,
			WinRateDelta:    delta,
			MetaViability:   archetype.MetaViability,
			Score:           score,
			Playstyle:       archetype.Playstyle,
			AvgElixir:       archetype.AvgElixir,
			Reasoning:       reasoning(archetype.Name, winRate, targetWinRate, opponentArchetype),
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}
	return recommendations
}

// OptimizeForRetention recommends whether and how the player should change
// decks so the next match lands on the target outcome.
func (r *Registry) OptimizeForRetention(currentDeck, opponentDeck []string, target model.Outcome, skill model.SkillLevel) Optimization {
	opponentArchetype, opponentConfidence := r.Match(opponentDeck)

	targetWinRate := targetWinRateForLoss
	if target == model.OutcomeWin {
		targetWinRate = targetWinRateForWin
	}

	options := r.RecommendForOutcome(targetWinRate, opponentArchetype, skill)
	currentAnalysis := r.AnalyzeVsMeta(currentDeck, []string{opponentArchetype})

	var best *Recommendation
	if len(options) > 0 {
		best = &options[0]
	}

	currentDelta := currentAnalysis.MetaWinRate - targetWinRate
	if currentDelta < 0 {
		currentDelta = -currentDelta
	}

	if len(options) > 3 {
		options = options[:3]
	}
	return Optimization{
		TargetOutcome:       target,
		OpponentArchetype:   opponentArchetype,
		OpponentConfidence:  opponentConfidence,
		CurrentDeckAnalysis: currentAnalysis,
		RecommendedChange:   best,
		ShouldChangeDeck:    best != nil && best.Score > 0.7 && currentDelta > 0.15,
		Options:             options,
	}
}

// sampleDeck assembles a representative 8-card deck for an archetype: core
// cards first, then common cards, then generic fillers.
func (r *Registry) sampleDeck(archetype Archetype) []string {
	deck := make([]string, 0, DeckSize)
	seen := make(map[string]bool)
	add := func(card string) {
		if len(deck) < DeckSize && !seen[card] {
			deck = append(deck, card)
			seen[card] = true
		}
	}

	for _, card := range archetype.CoreCards {
		add(card)
	}
	for _, card := range archetype.CommonCards {
		add(card)
	}
	for _, card := range []string{"Zap", "Fireball", "Musketeer", "Valkyrie", "Cannon", "Ice Spirit", "Skeletons", "Tesla"} {
		add(card)
	}
	return deck
}

func reasoning(archetype string, expected, target float64, opponent string) string {
	delta := expected - target
	if delta < 0 {
		delta = -delta
	}
	switch {
	case delta < 0.05:
		return fmt.Sprintf("%s has excellent matchup vs %s (~%.0f%% win rate), closely matching the target.",
			archetype, opponent, expected*100)
	case expected > target:
		return fmt.Sprintf("%s over-performs vs %s (~%.0f%% win rate), which may be too strong for retention goals.",
			archetype, opponent, expected*100)
	default:
		return fmt.Sprintf("%s is slightly unfavored vs %s (~%.0f%% win rate), creating engaging challenge.",
			archetype, opponent, expected*100)
	}
}
