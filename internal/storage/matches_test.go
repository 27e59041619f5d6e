package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/crlabs/royale-retention/pkg/model"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := DefaultConfig(filepath.Join(t.TempDir(), "matches.db"))
	cfg.AutoMigrate = true

	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func intPtr(v int) *int { return &v }

func TestSaveAndLoadRecords(t *testing.T) {
	db := setupTestDB(t)
	store := NewMatchStore(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC)
	records := []model.MatchRecord{
		{Time: base.Add(40 * time.Minute), Win: true, Crowns: 3, OpponentCrowns: 1, TrophyChange: intPtr(30), Type: "PvP"},
		{Time: base.Add(10 * time.Minute), Win: false, Crowns: 0, OpponentCrowns: 2, TrophyChange: intPtr(-28), Type: "PvP"},
		{Time: base, Win: true, Crowns: 2, OpponentCrowns: 1, Type: "challenge"},
	}

	inserted, err := store.SaveRecords(ctx, "#PLAYER1", records)
	if err != nil {
		t.Fatalf("SaveRecords() error = %v", err)
	}
	if inserted != 3 {
		t.Errorf("SaveRecords() inserted = %d, expected 3", inserted)
	}

	loaded, err := store.LoadRecords(ctx, "#PLAYER1", 0)
	if err != nil {
		t.Fatalf("LoadRecords() error = %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("LoadRecords() returned %d records, expected 3", len(loaded))
	}

	// Newest first regardless of insert order
	if !loaded[0].Time.Equal(base.Add(40 * time.Minute)) {
		t.Errorf("loaded[0].Time = %v, expected %v", loaded[0].Time, base.Add(40*time.Minute))
	}
	if !loaded[2].Time.Equal(base) {
		t.Errorf("loaded[2].Time = %v, expected %v", loaded[2].Time, base)
	}

	if loaded[0].TrophyChange == nil || *loaded[0].TrophyChange != 30 {
		t.Errorf("loaded[0].TrophyChange = %v, expected 30", loaded[0].TrophyChange)
	}
	if loaded[2].TrophyChange != nil {
		t.Errorf("loaded[2].TrophyChange = %v, expected nil", loaded[2].TrophyChange)
	}
	if loaded[2].Type != "challenge" {
		t.Errorf("loaded[2].Type = %q, expected %q", loaded[2].Type, "challenge")
	}
}

func TestSaveRecords_DuplicatesIgnored(t *testing.T) {
	db := setupTestDB(t)
	store := NewMatchStore(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC)
	records := []model.MatchRecord{
		{Time: base, Win: true, Crowns: 1},
		{Time: base.Add(5 * time.Minute), Win: false, Crowns: 0, OpponentCrowns: 3},
	}

	if _, err := store.SaveRecords(ctx, "#PLAYER2", records); err != nil {
		t.Fatalf("SaveRecords() error = %v", err)
	}

	// Second save overlaps entirely with the first
	inserted, err := store.SaveRecords(ctx, "#PLAYER2", records)
	if err != nil {
		t.Fatalf("SaveRecords() second call error = %v", err)
	}
	if inserted != 0 {
		t.Errorf("SaveRecords() inserted = %d, expected 0 for duplicates", inserted)
	}

	count, err := store.CountRecords(ctx, "#PLAYER2")
	if err != nil {
		t.Fatalf("CountRecords() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountRecords() = %d, expected 2", count)
	}
}

func TestLoadRecords_Limit(t *testing.T) {
	db := setupTestDB(t)
	store := NewMatchStore(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC)
	var records []model.MatchRecord
	for i := 0; i < 5; i++ {
		records = append(records, model.MatchRecord{
			Time: base.Add(time.Duration(i) * time.Minute),
			Win:  i%2 == 0,
		})
	}

	if _, err := store.SaveRecords(ctx, "#PLAYER3", records); err != nil {
		t.Fatalf("SaveRecords() error = %v", err)
	}

	loaded, err := store.LoadRecords(ctx, "#PLAYER3", 2)
	if err != nil {
		t.Fatalf("LoadRecords() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("LoadRecords() returned %d records, expected 2", len(loaded))
	}
	if !loaded[0].Time.Equal(base.Add(4 * time.Minute)) {
		t.Errorf("loaded[0].Time = %v, expected newest record", loaded[0].Time)
	}
}

func TestLoadRecords_TagsIsolated(t *testing.T) {
	db := setupTestDB(t)
	store := NewMatchStore(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 23, 8, 0, 0, 0, time.UTC)
	if _, err := store.SaveRecords(ctx, "#AAA", []model.MatchRecord{{Time: base, Win: true}}); err != nil {
		t.Fatalf("SaveRecords() error = %v", err)
	}
	if _, err := store.SaveRecords(ctx, "#BBB", []model.MatchRecord{{Time: base, Win: false}}); err != nil {
		t.Fatalf("SaveRecords() error = %v", err)
	}

	loaded, err := store.LoadRecords(ctx, "#AAA", 0)
	if err != nil {
		t.Fatalf("LoadRecords() error = %v", err)
	}
	if len(loaded) != 1 || !loaded[0].Win {
		t.Errorf("LoadRecords(#AAA) = %+v, expected single win record", loaded)
	}
}
