// Package session partitions a player's battle log into play sessions and
// derives per-session metrics from them.
package session

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crlabs/royale-retention/pkg/model"
)

// DefaultGapThreshold is the maximum time between consecutive matches that
// still counts as the same play session.
const DefaultGapThreshold = 30 * time.Minute

// Segment partitions records into sessions using the maximum-gap rule. The
// input may arrive in any order; records are sorted by timestamp descending
// before segmenting, so index 0 of every session is its last real-time
// match. Two records exactly gap apart stay in the same session. An empty
// input produces an empty slice, not an error. Session IDs are assigned in
// emission order starting at 0, newest session first.
func Segment(records []model.MatchRecord, gap time.Duration) []model.Session {
	if len(records) == 0 {
		return nil
	}
	if gap <= 0 {
		gap = DefaultGapThreshold
	}

	sorted := make([]model.MatchRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.After(sorted[j].Time)
	})

	var sessions []model.Session
	buffer := []model.MatchRecord{sorted[0]}
	for _, rec := range sorted[1:] {
		// Walking newest to oldest, so the previously buffered record is
		// the later one in real time.
		elapsed := buffer[len(buffer)-1].Time.Sub(rec.Time)
		if elapsed > gap {
			sessions = append(sessions, buildSession(buffer, len(sessions)))
			buffer = []model.MatchRecord{rec}
		} else {
			buffer = append(buffer, rec)
		}
	}
	sessions = append(sessions, buildSession(buffer, len(sessions)))

	logrus.Debugf("segmented %d records into %d sessions (gap threshold %v)",
		len(records), len(sessions), gap)
	return sessions
}

func buildSession(records []model.MatchRecord, id int) model.Session {
	owned := make([]model.MatchRecord, len(records))
	copy(owned, records)
	return model.Session{
		ID:        id,
		StartTime: owned[len(owned)-1].Time,
		EndTime:   owned[0].Time,
		Records:   owned,
	}
}
