// Package collector runs the end-to-end pipeline for a set of tracked
// players: fetch battle logs from the game API, persist them, rebuild
// retention profiles, cache the results, and export report files.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/crlabs/royale-retention/pkg/common"
	"github.com/crlabs/royale-retention/pkg/deck"
	"github.com/crlabs/royale-retention/pkg/model"
	"github.com/crlabs/royale-retention/pkg/retention"
	"github.com/crlabs/royale-retention/pkg/royale"
	"github.com/crlabs/royale-retention/pkg/store"
)

// historyLimit caps how many archived records feed one analysis. The live
// battle log only covers the most recent battles; the archive extends it.
const historyLimit = 500

// RecordArchive persists fetched battle records beyond the short window the
// game API exposes. *storage.MatchStore implements it.
type RecordArchive interface {
	SaveRecords(ctx context.Context, tag string, records []model.MatchRecord) (int, error)
	LoadRecords(ctx context.Context, tag string, limit int) ([]model.MatchRecord, error)
}

// Config wires the collector's dependencies. Source, Analyzer and Registry
// are required; Archive, Redis and Metrics are optional.
type Config struct {
	Source    retention.RecordSource
	Analyzer  *retention.Analyzer
	Registry  *deck.Registry
	Archive   RecordArchive
	Redis     *redis.Client
	Metrics   *Metrics
	OutputDir string
}

// Collector orchestrates collection and analysis for tracked players.
type Collector struct {
	cfg Config
}

// New creates a collector from cfg.
func New(cfg Config) (*Collector, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if cfg.Analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	return &Collector{cfg: cfg}, nil
}

// Summary reports the outcome of one collection run.
type Summary struct {
	Players          int           `json:"players"`
	Analyzed         int           `json:"analyzed"`
	Failed           int           `json:"failed"`
	BattlesCollected int           `json:"battlesCollected"`
	NewBattles       int           `json:"newBattles"`
	Duration         time.Duration `json:"duration"`
}

// PlayerReport is the full analysis output for one player.
type PlayerReport struct {
	Tag          string                    `json:"tag"`
	CollectedAt  time.Time                 `json:"collectedAt"`
	Stats        model.PlayerStats         `json:"stats"`
	Patterns     royale.PlayPatterns       `json:"patterns"`
	Profile      model.PlayerProfile       `json:"profile"`
	Prediction   model.RetentionPrediction `json:"prediction"`
	DeckAnalysis *deck.MetaAnalysis        `json:"deckAnalysis,omitempty"`
	DeckStrategy *deck.Optimization        `json:"deckStrategy,omitempty"`
}

// Collect runs the pipeline for each tag. A failing player is logged and
// skipped; the run continues with the remaining tags.
func (c *Collector) Collect(ctx context.Context, tags []string) Summary {
	start := time.Now()
	summary := Summary{Players: len(tags)}

	logrus.Infof("starting collection run for %d players", len(tags))

	for _, tag := range tags {
		report, newBattles, err := c.CollectPlayer(ctx, tag)
		if err != nil {
			logrus.Errorf("collection failed for player %s: %v", tag, err)
			summary.Failed++
			continue
		}
		summary.Analyzed++
		summary.BattlesCollected += report.Patterns.TotalBattles
		summary.NewBattles += newBattles
	}

	summary.Duration = time.Since(start)
	logrus.Infof("collection run finished: %d analyzed, %d failed, %d new battles in %v",
		summary.Analyzed, summary.Failed, summary.NewBattles, summary.Duration)
	return summary
}

// CollectPlayer runs the pipeline for a single player and returns the report
// together with the number of newly archived battles.
func (c *Collector) CollectPlayer(ctx context.Context, tag string) (*PlayerReport, int, error) {
	scope := common.NewScope(ctx, "collector.collect_player")
	defer scope.Finish()
	scope.AddBaggage("player.tag", tag)

	if c.cfg.Metrics != nil {
		timer := prometheusTimer(c.cfg.Metrics)
		defer timer()
	}

	stats, err := c.cfg.Source.Player(scope.Ctx, tag)
	if err != nil {
		c.countAPIFailure()
		scope.TraceError(err)
		return nil, 0, fmt.Errorf("failed to fetch player %s: %w", tag, err)
	}

	records, err := c.cfg.Source.BattleLog(scope.Ctx, tag)
	if err != nil {
		c.countAPIFailure()
		scope.TraceError(err)
		return nil, 0, fmt.Errorf("failed to fetch battle log for %s: %w", tag, err)
	}
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.BattlesCollectedTotal.Add(float64(len(records)))
	}
	scope.SetAttributes("battles.fetched", len(records))

	newBattles, history := c.archive(scope, tag, records)

	profile, err := c.cfg.Analyzer.BuildProfile(tag, stats, history)
	if err != nil {
		scope.TraceError(err)
		return nil, newBattles, fmt.Errorf("failed to build profile for %s: %w", tag, err)
	}
	prediction := retention.PredictOutcome(profile)

	report := &PlayerReport{
		Tag:         tag,
		CollectedAt: time.Now().UTC(),
		Stats:       stats,
		Patterns:    royale.AnalyzePlayPatterns(history),
		Profile:     *profile,
		Prediction:  prediction,
	}
	c.analyzeDeck(report, stats, prediction, profile)

	if c.cfg.Redis != nil {
		analysis := &store.PlayerAnalysis{
			Profile:    *profile,
			Prediction: prediction,
			AnalyzedAt: report.CollectedAt,
		}
		if err := store.SaveAnalysis(scope.Ctx, c.cfg.Redis, tag, analysis); err != nil {
			scope.Log.Warnf("failed to cache analysis for %s: %v", tag, err)
		}
	}

	if c.cfg.OutputDir != "" {
		if err := c.export(report); err != nil {
			scope.TraceError(err)
			return nil, newBattles, err
		}
	}

	if c.cfg.Metrics != nil {
		c.cfg.Metrics.AnalysesTotal.WithLabelValues(string(prediction.OptimalOutcome)).Inc()
	}
	scope.Log.Infof("collected player %s: %d battles, churn_risk=%.2f, optimal_outcome=%s",
		tag, len(history), profile.ChurnRisk, prediction.OptimalOutcome)
	return report, newBattles, nil
}

// archive persists the fetched records and returns the merged history to
// analyze. Without an archive the fetched window is used directly.
func (c *Collector) archive(scope *common.Scope, tag string, records []model.MatchRecord) (int, []model.MatchRecord) {
	if c.cfg.Archive == nil {
		return 0, records
	}

	inserted, err := c.cfg.Archive.SaveRecords(scope.Ctx, tag, records)
	if err != nil {
		scope.Log.Warnf("failed to archive records for %s: %v", tag, err)
		return 0, records
	}

	history, err := c.cfg.Archive.LoadRecords(scope.Ctx, tag, historyLimit)
	if err != nil {
		scope.Log.Warnf("failed to load archived records for %s: %v", tag, err)
		return inserted, records
	}
	scope.SetAttributes("battles.archived", inserted)
	return inserted, history
}

// analyzeDeck fills in the deck sections when the player has a full deck.
func (c *Collector) analyzeDeck(report *PlayerReport, stats model.PlayerStats, prediction model.RetentionPrediction, profile *model.PlayerProfile) {
	if len(stats.CurrentDeck) != deck.DeckSize {
		return
	}

	archetypes := c.cfg.Registry.Archetypes()
	metaNames := make([]string, 0, len(archetypes))
	for _, a := range archetypes {
		metaNames = append(metaNames, a.Name)
	}

	analysis := c.cfg.Registry.AnalyzeVsMeta(stats.CurrentDeck, metaNames)
	report.DeckAnalysis = &analysis

	strategy := c.cfg.Registry.OptimizeForRetention(stats.CurrentDeck, nil, prediction.OptimalOutcome, profile.SkillLevel)
	report.DeckStrategy = &strategy
}

func (c *Collector) countAPIFailure() {
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.APIFailuresTotal.Inc()
	}
}

func prometheusTimer(m *Metrics) func() {
	start := time.Now()
	return func() {
		m.CollectionDuration.Observe(time.Since(start).Seconds())
	}
}
