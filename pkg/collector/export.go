package collector

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const exportTimeLayout = "20060102_150405"

// export writes the JSON report and the per-session CSV summary for one
// player into the configured output directory.
func (c *Collector) export(report *PlayerReport) error {
	if err := os.MkdirAll(c.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	stamp := report.CollectedAt.Format(exportTimeLayout)
	base := sanitizeTag(report.Tag)

	jsonPath := filepath.Join(c.cfg.OutputDir, fmt.Sprintf("%s_analysis_%s.json", base, stamp))
	if err := writeJSON(jsonPath, report); err != nil {
		return err
	}

	csvPath := filepath.Join(c.cfg.OutputDir, fmt.Sprintf("%s_sessions_%s.csv", base, stamp))
	if err := writeSessionCSV(csvPath, report); err != nil {
		return err
	}

	logrus.Debugf("exported analysis for %s to %s", report.Tag, jsonPath)
	return nil
}

// sanitizeTag makes a player tag safe for use in file names.
func sanitizeTag(tag string) string {
	return strings.ToLower(strings.TrimPrefix(tag, "#"))
}

func writeJSON(path string, report *PlayerReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

func writeSessionCSV(path string, report *PlayerReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create session summary %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"session_id", "start_time", "end_time", "duration_minutes",
		"battles", "wins", "losses", "win_rate",
		"crowns_for", "crowns_against", "trophy_change",
		"close_matches", "end_reason", "satisfaction",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write session summary header: %w", err)
	}

	for _, s := range report.Profile.Sessions {
		row := []string{
			strconv.Itoa(s.SessionID),
			s.StartTime.UTC().Format(time.RFC3339),
			s.EndTime.UTC().Format(time.RFC3339),
			strconv.FormatFloat(s.DurationMinutes(), 'f', 1, 64),
			strconv.Itoa(s.TotalBattles),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Losses),
			strconv.FormatFloat(s.WinRate(), 'f', 1, 64),
			strconv.Itoa(s.CrownsFor),
			strconv.Itoa(s.CrownsAgainst),
			strconv.Itoa(s.TrophyChange),
			strconv.Itoa(s.CloseMatches),
			s.EndReason.String(),
			strconv.FormatFloat(s.Satisfaction, 'f', 3, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write session summary row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush session summary: %w", err)
	}
	return nil
}
