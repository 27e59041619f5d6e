package deck

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testConfigYAML = `
archetypes:
  - name: Hog Cycle
    core_cards: [Hog Rider, Ice Spirit, Skeletons]
    common_cards: [Musketeer, Cannon]
    playstyle: cycle
    avg_elixir: 2.8
    win_condition: Hog Rider
    meta_viability: ${HOG_VIABILITY:0.75}
  - name: LavaLoon
    core_cards: [Balloon, Lightning]
    common_cards: [Tesla]
    playstyle: beatdown
    avg_elixir: 4.3
    win_condition: Balloon
    meta_viability: 0.6
matchups:
  - archetype_a: Hog Cycle
    archetype_b: LavaLoon
    win_rate_a: 0.35
    sample_size: 600
`

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archetypes.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadRegistry(t *testing.T) {
	r, err := LoadRegistry(writeConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}

	if len(r.Archetypes()) != 2 {
		t.Fatalf("Archetypes() = %d, expected 2", len(r.Archetypes()))
	}

	hog, ok := r.Archetype("Hog Cycle")
	if !ok {
		t.Fatal("Archetype(Hog Cycle) not found")
	}
	// default from the ${HOG_VIABILITY:0.75} placeholder
	if math.Abs(hog.MetaViability-0.75) > 1e-9 {
		t.Errorf("MetaViability = %v, expected 0.75 default", hog.MetaViability)
	}
}

func TestLoadRegistry_EnvOverride(t *testing.T) {
	t.Setenv("HOG_VIABILITY", "0.9")

	r, err := LoadRegistry(writeConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}

	hog, _ := r.Archetype("Hog Cycle")
	if math.Abs(hog.MetaViability-0.9) > 1e-9 {
		t.Errorf("MetaViability = %v, expected env override 0.9", hog.MetaViability)
	}
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadRegistry() expected error for missing file")
	}
}

func TestLoadRegistry_BadYAML(t *testing.T) {
	if _, err := LoadRegistry(writeConfig(t, "archetypes: [")); err == nil {
		t.Error("LoadRegistry() expected error for malformed YAML")
	}
}

func TestNewRegistry_ReverseMatchups(t *testing.T) {
	r, err := LoadRegistry(writeConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}

	if got := r.WinRate("Hog Cycle", "LavaLoon"); math.Abs(got-0.35) > 1e-9 {
		t.Errorf("WinRate(Hog Cycle, LavaLoon) = %v, expected 0.35", got)
	}
	if got := r.WinRate("LavaLoon", "Hog Cycle"); math.Abs(got-0.65) > 1e-9 {
		t.Errorf("WinRate(LavaLoon, Hog Cycle) = %v, expected derived 0.65", got)
	}
	if got := r.WinRate("Hog Cycle", "Unknown"); got != 0.50 {
		t.Errorf("WinRate vs unknown = %v, expected default 0.50", got)
	}
}

func TestNewRegistry_Validation(t *testing.T) {
	valid := Archetype{
		Name: "Hog Cycle", CoreCards: []string{"Hog Rider"},
		WinCondition: "Hog Rider", MetaViability: 0.7,
	}

	tests := []struct {
		name       string
		archetypes []Archetype
		matchups   []Matchup
		wantErr    string
	}{
		{
			name:    "empty",
			wantErr: "no archetypes",
		},
		{
			name:       "duplicate name",
			archetypes: []Archetype{valid, valid},
			wantErr:    "duplicate",
		},
		{
			name: "no core cards",
			archetypes: []Archetype{{
				Name: "Empty", WinCondition: "Hog Rider", MetaViability: 0.5,
			}},
			wantErr: "no core cards",
		},
		{
			name: "viability out of range",
			archetypes: []Archetype{{
				Name: "Hot", CoreCards: []string{"X"}, WinCondition: "X", MetaViability: 1.2,
			}},
			wantErr: "meta viability",
		},
		{
			name:       "matchup references unknown archetype",
			archetypes: []Archetype{valid},
			matchups:   []Matchup{{ArchetypeA: "Hog Cycle", ArchetypeB: "Ghost", WinRateA: 0.5}},
			wantErr:    "unknown archetype",
		},
		{
			name:       "win rate out of range",
			archetypes: []Archetype{valid},
			matchups:   []Matchup{{ArchetypeA: "Hog Cycle", ArchetypeB: "Hog Cycle", WinRateA: 1.5}},
			wantErr:    "win rate",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.archetypes, tt.matchups)
			if err == nil {
				t.Fatal("NewRegistry() expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewRegistry() error = %q, expected to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	if len(r.Archetypes()) != 4 {
		t.Errorf("DefaultRegistry() has %d archetypes, expected 4", len(r.Archetypes()))
	}
	for _, a := range r.Archetypes() {
		if _, ok := r.Archetype(a.Name); !ok {
			t.Errorf("Archetype(%q) not found", a.Name)
		}
	}
}
