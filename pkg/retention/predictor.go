package retention

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/crlabs/royale-retention/pkg/model"
)

// Engagement sweet spot: the win-rate band considered optimally engaging.
// Below it the predictor biases toward a win, above it toward a loss.
const (
	sweetSpotLow  = 0.45
	sweetSpotHigh = 0.65
)

// decisionBand is the total-score magnitude below which the prediction falls
// into the ambiguous middle and takes the retention-biased default.
const decisionBand = 0.2

// endReasonOutcomeWeight is the fixed signed contribution of the last
// session's end reason. Negative favors recommending a win next.
var endReasonOutcomeWeight = map[model.EndReason]float64{
	model.EndReasonFrustrationLoss:   -0.8,
	model.EndReasonSatisfactionWin:   0.2,
	model.EndReasonCloseMatchHigh:    0.1,
	model.EndReasonTrophyGoalReached: 0.0,
	model.EndReasonTimeConstraint:    0.0,
	model.EndReasonBoredom:           -0.3,
	model.EndReasonUnknown:           0.0,
}

// PredictOutcome recommends the next-match outcome that maximizes the
// player's retention, with a confidence value and the signed factor
// breakdown behind the decision. The profile must already carry its churn
// risk. A player with no session history gets the fixed new-player default.
func PredictOutcome(p *model.PlayerProfile) model.RetentionPrediction {
	recent := p.RecentSession()
	if recent == nil {
		return model.RetentionPrediction{
			NextSessionProbability: 0.8,
			NextDayProbability:     0.7,
			NextWeekProbability:    0.9,
			OptimalOutcome:         model.OutcomeWin,
			Confidence:             0.6,
			Factors:                map[string]float64{"new_player": 1.0},
			RecommendedAction:      "Provide positive first experience",
		}
	}

	factors := map[string]float64{}

	satisfaction := recent.Satisfaction
	factors["recent_satisfaction"] = satisfaction

	factors["end_reason"] = endReasonOutcomeWeight[recent.EndReason]

	recentWinRate := recent.WinRate() / 100
	switch {
	case recentWinRate < sweetSpotLow:
		factors["win_rate_factor"] = 0.6
	case recentWinRate > sweetSpotHigh:
		factors["win_rate_factor"] = -0.4
	default:
		factors["win_rate_factor"] = 0.1
	}

	factors["comeback_potential"] = (p.Factors.ComebackPotential - 0.5) * 0.3

	if recent.Losses >= p.Factors.LossTolerance {
		factors["loss_tolerance"] = 0.7
	} else {
		factors["loss_tolerance"] = -0.1 * float64(recent.Losses)
	}

	factors["churn_risk"] = p.ChurnRisk * 0.5

	var total float64
	for _, v := range factors {
		total += v
	}

	var outcome model.Outcome
	var confidence float64
	switch {
	case total > decisionBand:
		outcome = model.OutcomeWin
		confidence = math.Min(0.95, 0.5+math.Abs(total))
	case total < -decisionBand:
		outcome = model.OutcomeLoss
		confidence = math.Min(0.95, 0.5+math.Abs(total))
	default:
		// Ambiguous middle: bias toward a win for retention rather than
		// flipping a coin.
		outcome = model.OutcomeWin
		confidence = 0.5
	}

	baseRetention := 1.0 - p.ChurnRisk
	satisfactionMultiplier := 1.0 + (satisfaction-0.5)*0.4

	prediction := model.RetentionPrediction{
		NextSessionProbability: math.Min(0.95, baseRetention*satisfactionMultiplier*0.8),
		NextDayProbability:     math.Min(0.9, baseRetention*0.7),
		NextWeekProbability:    math.Min(0.95, baseRetention*0.9),
		OptimalOutcome:         outcome,
		Confidence:             confidence,
		Factors:                factors,
		RecommendedAction:      recommendedAction(outcome, confidence),
	}

	logrus.Debugf("predicted outcome for %s: total=%.3f outcome=%s confidence=%.2f",
		p.Tag, total, outcome, confidence)
	return prediction
}

func recommendedAction(outcome model.Outcome, confidence float64) string {
	if outcome == model.OutcomeWin {
		if confidence > 0.8 {
			return "Provide strong positive experience - player needs confidence boost"
		}
		return "Provide slight advantage - maintain engagement without being obvious"
	}
	if confidence > 0.8 {
		return "Provide engaging challenge - player can handle difficulty"
	}
	return "Provide close competitive match - maintain tension"
}
