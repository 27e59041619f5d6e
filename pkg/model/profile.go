package model

import "time"

// RetentionFactors bundles the player-level behavioral factors that feed the
// retention scorer and outcome predictor. Computed fresh from the full
// session history on every analysis pass; there is no partial-update path.
type RetentionFactors struct {
	WinRateConsistency      float64         `json:"winRateConsistency"`
	SessionLengthPreference float64         `json:"sessionLengthPreference"` // minutes
	LossTolerance           int             `json:"lossTolerance"`           // losses before likely quit
	ComebackPotential       float64         `json:"comebackPotential"`
	CloseMatchPreference    float64         `json:"closeMatchPreference"`
	TrophySensitivity       float64         `json:"trophySensitivity"`
	TimeOfDayPatterns       map[int]float64 `json:"timeOfDayPatterns"` // hour -> normalized frequency
	DeckExperimentation     float64         `json:"deckExperimentation"`
	MetaAdaptation          float64         `json:"metaAdaptation"`
}

// PlayerProfile aggregates everything the retention engine knows about one
// player. Historical sessions are ordered newest-first, matching the battle
// log they were segmented from. ChurnRisk is always 1 minus the retention
// score; 1.0 means highest risk of churning.
type PlayerProfile struct {
	Tag            string           `json:"tag"`
	SkillLevel     SkillLevel       `json:"skillLevel"`
	PlayStyle      PlayStyle        `json:"playStyle"`
	Factors        RetentionFactors `json:"factors"`
	Sessions       []SessionMetrics `json:"sessions"`
	CurrentSession *SessionMetrics  `json:"currentSession,omitempty"`
	LastActive     time.Time        `json:"lastActive"`
	ChurnRisk      float64          `json:"churnRisk"`
}

// AverageSessionLength is the mean historical session length in minutes.
func (p *PlayerProfile) AverageSessionLength() float64 {
	if len(p.Sessions) == 0 {
		return 0
	}
	var total float64
	for _, s := range p.Sessions {
		total += s.DurationMinutes()
	}
	return total / float64(len(p.Sessions))
}

// OverallWinRate is the win rate percentage across all historical sessions.
func (p *PlayerProfile) OverallWinRate() float64 {
	var wins, battles int
	for _, s := range p.Sessions {
		wins += s.Wins
		battles += s.TotalBattles
	}
	if battles == 0 {
		return 0
	}
	return float64(wins) / float64(battles) * 100
}

// RecentSession returns the most recently played session, or nil if the
// player has no history.
func (p *PlayerProfile) RecentSession() *SessionMetrics {
	if len(p.Sessions) == 0 {
		return nil
	}
	return &p.Sessions[0]
}

// RetentionPrediction is the engine's output for one player: independent
// continuation probabilities, the recommended next-match outcome with its
// confidence, the signed factor breakdown behind the decision, and a
// human-readable suggested action.
type RetentionPrediction struct {
	NextSessionProbability float64            `json:"nextSessionProbability"`
	NextDayProbability     float64            `json:"nextDayProbability"`
	NextWeekProbability    float64            `json:"nextWeekProbability"`
	OptimalOutcome         Outcome            `json:"optimalOutcome"`
	Confidence             float64            `json:"confidence"`
	Factors                map[string]float64 `json:"factors"`
	RecommendedAction      string             `json:"recommendedAction"`
}
