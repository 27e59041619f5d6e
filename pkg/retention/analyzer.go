package retention

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crlabs/royale-retention/pkg/model"
	"github.com/crlabs/royale-retention/pkg/session"
)

// RecordSource supplies the raw inputs for one player's analysis. The game
// API client implements it; tests substitute fixtures.
type RecordSource interface {
	Player(ctx context.Context, tag string) (model.PlayerStats, error)
	BattleLog(ctx context.Context, tag string) ([]model.MatchRecord, error)
}

// Analyzer builds and caches player profiles. Profiles are rebuilt from raw
// records on every fresh analysis; the cache only avoids repeated rebuilds
// within a process run. Concurrent analyses of different players run freely
// in parallel; analyses of the same player serialize on a per-tag lock so
// two callers never race to rebuild and overwrite the same entry.
type Analyzer struct {
	source RecordSource
	gap    time.Duration

	mu       sync.Mutex
	profiles map[string]*model.PlayerProfile
	locks    map[string]*sync.Mutex
}

// NewAnalyzer creates an analyzer reading from source. A non-positive gap
// falls back to the default session gap threshold.
func NewAnalyzer(source RecordSource, gap time.Duration) *Analyzer {
	if gap <= 0 {
		gap = session.DefaultGapThreshold
	}
	return &Analyzer{
		source:   source,
		gap:      gap,
		profiles: make(map[string]*model.PlayerProfile),
		locks:    make(map[string]*sync.Mutex),
	}
}

// AnalyzePlayer returns the player's profile, building it from fresh records
// when it is not cached or when force is set.
func (a *Analyzer) AnalyzePlayer(ctx context.Context, tag string, force bool) (*model.PlayerProfile, error) {
	lock := a.tagLock(tag)
	lock.Lock()
	defer lock.Unlock()

	if !force {
		a.mu.Lock()
		cached, ok := a.profiles[tag]
		a.mu.Unlock()
		if ok {
			return cached, nil
		}
	}

	logrus.Infof("analyzing retention for player %s", tag)

	profile, err := a.buildProfile(ctx, tag)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.profiles[tag] = profile
	a.mu.Unlock()
	return profile, nil
}

// Predict analyzes the player (from cache when warm) and recommends the
// next-match outcome.
func (a *Analyzer) Predict(ctx context.Context, tag string) (model.RetentionPrediction, error) {
	profile, err := a.AnalyzePlayer(ctx, tag, false)
	if err != nil {
		return model.RetentionPrediction{}, err
	}
	return PredictOutcome(profile), nil
}

// Invalidate drops the cached profile for a player so the next analysis
// rebuilds it.
func (a *Analyzer) Invalidate(tag string) {
	a.mu.Lock()
	delete(a.profiles, tag)
	a.mu.Unlock()
}

func (a *Analyzer) tagLock(tag string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	lock, ok := a.locks[tag]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[tag] = lock
	}
	return lock
}

func (a *Analyzer) buildProfile(ctx context.Context, tag string) (*model.PlayerProfile, error) {
	playerStats, err := a.source.Player(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player %s: %w", tag, err)
	}
	records, err := a.source.BattleLog(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch battle log for %s: %w", tag, err)
	}
	return a.BuildProfile(tag, playerStats, records)
}

// BuildProfile constructs a profile from already fetched inputs. Callers that
// keep their own record history (for example merged from storage) use this
// instead of AnalyzePlayer; the result is not cached.
func (a *Analyzer) BuildProfile(tag string, playerStats model.PlayerStats, records []model.MatchRecord) (*model.PlayerProfile, error) {
	sessions := session.Segment(records, a.gap)
	metrics := make([]model.SessionMetrics, 0, len(sessions))
	for _, s := range sessions {
		m, err := session.ExtractMetrics(s)
		if err != nil {
			return nil, fmt.Errorf("failed to extract metrics for session %d: %w", s.ID, err)
		}
		metrics = append(metrics, m)
	}

	profile := &model.PlayerProfile{
		Tag:        tag,
		SkillLevel: ClassifySkill(playerStats.Trophies),
		PlayStyle:  ClassifyStyle(playerStats, records),
		Factors:    ComputeFactors(metrics, records),
		Sessions:   metrics,
	}
	if len(records) > 0 {
		profile.LastActive = records[0].Time
	}
	profile.ChurnRisk = 1.0 - ScoreRetention(profile)

	logrus.Infof("built profile for %s: %d sessions, skill=%s style=%s churn_risk=%.2f",
		tag, len(metrics), profile.SkillLevel, profile.PlayStyle, profile.ChurnRisk)
	return profile, nil
}
