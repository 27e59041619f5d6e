package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crlabs/royale-retention/pkg/model"
)

// timeLayout is the stored battle_time format. Times are stored in UTC with a
// fixed-width millisecond fraction so string comparison matches chronological
// order, which the descending load query relies on.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// MatchStore persists collected match records keyed by player tag.
type MatchStore struct {
	db *DB
}

// NewMatchStore creates a MatchStore backed by db.
func NewMatchStore(db *DB) *MatchStore {
	return &MatchStore{db: db}
}

// SaveRecords inserts the given records for a player, skipping any battle
// already stored. It returns the number of newly inserted rows.
func (s *MatchStore) SaveRecords(ctx context.Context, tag string, records []model.MatchRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO matches
			(player_tag, battle_time, win, crowns, opponent_crowns, trophy_change, battle_type, collected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(timeLayout)
	inserted := 0
	for _, rec := range records {
		var trophyChange sql.NullInt64
		if rec.TrophyChange != nil {
			trophyChange = sql.NullInt64{Int64: int64(*rec.TrophyChange), Valid: true}
		}

		res, err := stmt.ExecContext(ctx,
			tag,
			rec.Time.UTC().Format(timeLayout),
			rec.Win,
			rec.Crowns,
			rec.OpponentCrowns,
			trophyChange,
			rec.Type,
			now,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert match for %s at %s: %w", tag, rec.Time, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted, nil
}

// LoadRecords returns stored records for a player, newest first.
// A limit of 0 or less returns all stored records.
func (s *MatchStore) LoadRecords(ctx context.Context, tag string, limit int) ([]model.MatchRecord, error) {
	query := `
		SELECT battle_time, win, crowns, opponent_crowns, trophy_change, battle_type
		FROM matches
		WHERE player_tag = ?
		ORDER BY battle_time DESC`
	args := []interface{}{tag}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for %s: %w", tag, err)
	}
	defer rows.Close()

	var records []model.MatchRecord
	for rows.Next() {
		var (
			battleTime   string
			rec          model.MatchRecord
			trophyChange sql.NullInt64
		)
		if err := rows.Scan(&battleTime, &rec.Win, &rec.Crowns, &rec.OpponentCrowns, &trophyChange, &rec.Type); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		rec.Time, err = time.Parse(timeLayout, battleTime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse battle time %q: %w", battleTime, err)
		}
		if trophyChange.Valid {
			change := int(trophyChange.Int64)
			rec.TrophyChange = &change
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate match rows: %w", err)
	}
	return records, nil
}

// CountRecords returns the number of stored matches for a player.
func (s *MatchStore) CountRecords(ctx context.Context, tag string) (int, error) {
	var count int
	err := s.db.Conn().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM matches WHERE player_tag = ?", tag).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches for %s: %w", tag, err)
	}
	return count, nil
}
