package deck

import (
	"math"
	"testing"
)

func hogCycleDeck() []string {
	return []string{
		"Hog Rider", "Ice Spirit", "Skeletons", "Cannon",
		"Fireball", "Zap", "Musketeer", "Ice Golem",
	}
}

func TestMatch_WrongDeckSize(t *testing.T) {
	r := DefaultRegistry()

	for _, deck := range [][]string{nil, {"Hog Rider"}, make([]string, 9)} {
		name, score := r.Match(deck)
		if name != UnknownArchetype || score != 0 {
			t.Errorf("Match(%d cards) = (%q, %v), expected (Unknown, 0)", len(deck), name, score)
		}
	}
}

func TestMatch_IdentifiesArchetype(t *testing.T) {
	r := DefaultRegistry()

	name, score := r.Match(hogCycleDeck())
	if name != "Hog Cycle" {
		t.Errorf("Match() = %q, expected Hog Cycle", name)
	}
	// All core cards, all common cards, and the win condition present
	if math.Abs(score-1.0) > 1e-9 {
		t.Errorf("Match() score = %v, expected 1.0 for a perfect match", score)
	}
}

func TestMatch_PartialMatch(t *testing.T) {
	r := DefaultRegistry()

	deck := []string{
		"Hog Rider", "Ice Spirit", "Goblin Barrel", "Princess",
		"Rocket", "The Log", "Goblin Gang", "Inferno Tower",
	}
	name, score := r.Match(deck)
	if name != "Hog Cycle" {
		t.Errorf("Match() = %q, expected Hog Cycle from core cards alone", name)
	}
	// 2 of 3 core cards, 0 of 4 common, win condition present
	want := (2.0/3.0)*0.5 + 0.2
	if math.Abs(score-want) > 1e-9 {
		t.Errorf("Match() score = %v, expected %v", score, want)
	}
}

func TestMatch_NoResemblance(t *testing.T) {
	r := DefaultRegistry()

	deck := []string{
		"Goblin Barrel", "Princess", "The Log", "Rocket",
		"Inferno Tower", "Goblin Gang", "Ice Wizard", "Tornado",
	}
	name, score := r.Match(deck)
	if name != UnknownArchetype {
		t.Errorf("Match() = %q, expected Unknown for a bait deck", name)
	}
	if score != 0 {
		t.Errorf("Match() score = %v, expected 0", score)
	}
}

func TestMatch_Deterministic(t *testing.T) {
	r := DefaultRegistry()
	deck := hogCycleDeck()

	firstName, firstScore := r.Match(deck)
	for i := 0; i < 20; i++ {
		name, score := r.Match(deck)
		if name != firstName || score != firstScore {
			t.Fatalf("Match() run %d = (%q, %v), expected stable (%q, %v)", i, name, score, firstName, firstScore)
		}
	}
}
