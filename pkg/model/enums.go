package model

import (
	"encoding/json"
	"fmt"
)

// EndReason classifies why a play session most likely ended.
// Values are derived from battle patterns only; TimeConstraint and Boredom
// are reserved for external signal sources (session-duration caps, explicit
// quits) and are never produced by the battle-log classifier.
type EndReason int

const (
	EndReasonUnknown EndReason = iota
	EndReasonFrustrationLoss
	EndReasonSatisfactionWin
	EndReasonCloseMatchHigh
	EndReasonTrophyGoalReached
	EndReasonTimeConstraint
	EndReasonBoredom
)

var endReasonNames = map[EndReason]string{
	EndReasonUnknown:           "unknown",
	EndReasonFrustrationLoss:   "frustration_loss",
	EndReasonSatisfactionWin:   "satisfaction_win",
	EndReasonCloseMatchHigh:    "close_match_high",
	EndReasonTrophyGoalReached: "trophy_goal_reached",
	EndReasonTimeConstraint:    "time_constraint",
	EndReasonBoredom:           "boredom",
}

func (r EndReason) String() string {
	if name, ok := endReasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON encodes the reason as its string name so exported analyses
// stay readable.
func (r EndReason) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a string name back into an EndReason. Unrecognized
// names decode as EndReasonUnknown rather than failing the whole document.
func (r *EndReason) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("failed to unmarshal end reason: %w", err)
	}
	for reason, n := range endReasonNames {
		if n == name {
			*r = reason
			return nil
		}
	}
	*r = EndReasonUnknown
	return nil
}

// SkillLevel is a coarse skill classification banded by trophy count.
type SkillLevel int

const (
	SkillBeginner SkillLevel = iota
	SkillIntermediate
	SkillAdvanced
	SkillExpert
)

var skillLevelNames = map[SkillLevel]string{
	SkillBeginner:     "beginner",
	SkillIntermediate: "intermediate",
	SkillAdvanced:     "advanced",
	SkillExpert:       "expert",
}

func (s SkillLevel) String() string {
	if name, ok := skillLevelNames[s]; ok {
		return name
	}
	return "intermediate"
}

func (s SkillLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// PlayStyle is a coarse play-style classification derived from deck elixir
// cost and crown differentials.
type PlayStyle int

const (
	StyleBalanced PlayStyle = iota
	StyleAggressive
	StyleDefensive
	StyleExperimental
)

var playStyleNames = map[PlayStyle]string{
	StyleBalanced:     "balanced",
	StyleAggressive:   "aggressive",
	StyleDefensive:    "defensive",
	StyleExperimental: "experimental",
}

func (s PlayStyle) String() string {
	if name, ok := playStyleNames[s]; ok {
		return name
	}
	return "balanced"
}

func (s PlayStyle) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Outcome is the recommended result of the player's next match.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)
