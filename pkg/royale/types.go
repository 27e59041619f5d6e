package royale

import (
	"fmt"
	"time"

	"github.com/crlabs/royale-retention/pkg/model"
)

// battleTimeLayout is the timestamp format used by the battle log API.
const battleTimeLayout = "20060102T150405.000Z"

type playerResponse struct {
	Tag            string         `json:"tag"`
	Name           string         `json:"name"`
	ExpLevel       int            `json:"expLevel"`
	Trophies       int            `json:"trophies"`
	BestTrophies   int            `json:"bestTrophies"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	TotalDonations int            `json:"totalDonations"`
	CurrentDeck    []cardResponse `json:"currentDeck"`
}

type cardResponse struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	MaxLevel   int    `json:"maxLevel"`
	Rarity     string `json:"rarity"`
	ElixirCost int    `json:"elixirCost"`
}

type battleResponse struct {
	Type               string              `json:"type"`
	BattleTime         string              `json:"battleTime"`
	IsLadderTournament bool                `json:"isLadderTournament"`
	Team               []battleParticipant `json:"team"`
	Opponent           []battleParticipant `json:"opponent"`
}

type battleParticipant struct {
	Tag          string `json:"tag"`
	Name         string `json:"name"`
	Crowns       int    `json:"crowns"`
	TrophyChange *int   `json:"trophyChange"`
}

func (p playerResponse) toStats() model.PlayerStats {
	stats := model.PlayerStats{
		Tag:          p.Tag,
		Name:         p.Name,
		Level:        p.ExpLevel,
		Trophies:     p.Trophies,
		BestTrophies: p.BestTrophies,
		Wins:         p.Wins,
		Losses:       p.Losses,
	}
	if len(p.CurrentDeck) > 0 {
		var elixir int
		for _, card := range p.CurrentDeck {
			stats.CurrentDeck = append(stats.CurrentDeck, card.Name)
			elixir += card.ElixirCost
		}
		stats.AvgElixir = float64(elixir) / float64(len(p.CurrentDeck))
	}
	return stats
}

func (b battleResponse) toRecord() (model.MatchRecord, error) {
	if len(b.Team) == 0 || len(b.Opponent) == 0 {
		return model.MatchRecord{}, fmt.Errorf("battle at %s has no participants", b.BattleTime)
	}

	battleTime, err := time.Parse(battleTimeLayout, b.BattleTime)
	if err != nil {
		return model.MatchRecord{}, fmt.Errorf("failed to parse battle time %q: %w", b.BattleTime, err)
	}

	teamCrowns := b.Team[0].Crowns
	opponentCrowns := b.Opponent[0].Crowns
	return model.MatchRecord{
		Time:           battleTime,
		Win:            teamCrowns > opponentCrowns,
		Crowns:         teamCrowns,
		OpponentCrowns: opponentCrowns,
		TrophyChange:   b.Team[0].TrophyChange,
		Type:           b.Type,
	}, nil
}
