package deck

// DeckSize is the number of cards in a valid deck.
const DeckSize = 8

// UnknownArchetype is returned when no archetype can be identified.
const UnknownArchetype = "Unknown"

// Match score weights: core cards define the archetype, common cards support
// it, and the win condition anchors it.
const (
	coreWeight   = 0.5
	commonWeight = 0.3
	winConWeight = 0.2
)

// Match identifies which archetype the deck most closely resembles and how
// strong the resemblance is, in [0,1]. A deck that is not exactly 8 cards
// cannot be classified and returns (Unknown, 0). Ties keep the first
// archetype in registry declaration order, so matching the same deck against
// the same registry is fully deterministic.
func (r *Registry) Match(deckCards []string) (string, float64) {
	if len(deckCards) != DeckSize {
		return UnknownArchetype, 0.0
	}

	inDeck := make(map[string]bool, len(deckCards))
	for _, card := range deckCards {
		inDeck[card] = true
	}

	bestName := UnknownArchetype
	bestScore := 0.0
	for _, archetype := range r.archetypes {
		score := matchScore(inDeck, archetype)
		if score > bestScore {
			bestScore = score
			bestName = archetype.Name
		}
	}
	return bestName, bestScore
}

func matchScore(inDeck map[string]bool, a Archetype) float64 {
	var coreScore float64
	if len(a.CoreCards) > 0 {
		var matches int
		for _, card := range a.CoreCards {
			if inDeck[card] {
				matches++
			}
		}
		coreScore = float64(matches) / float64(len(a.CoreCards))
	}

	var commonScore float64
	if len(a.CommonCards) > 0 {
		var matches int
		for _, card := range a.CommonCards {
			if inDeck[card] {
				matches++
			}
		}
		commonScore = float64(matches) / float64(len(a.CommonCards))
	}

	var winConScore float64
	if inDeck[a.WinCondition] {
		winConScore = 1.0
	}

	return coreScore*coreWeight + commonScore*commonWeight + winConScore*winConWeight
}
