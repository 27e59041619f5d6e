// Package deck scores deck compositions against known archetypes and
// recommends archetypes that steer a matchup toward a target outcome.
package deck

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Archetype is a named reference pattern of deck composition: the cards that
// define it, the cards commonly seen alongside them, and its primary win
// condition.
type Archetype struct {
	Name          string   `yaml:"name"`
	CoreCards     []string `yaml:"core_cards"`
	CommonCards   []string `yaml:"common_cards"`
	Playstyle     string   `yaml:"playstyle"`
	AvgElixir     float64  `yaml:"avg_elixir"`
	WinCondition  string   `yaml:"win_condition"`
	MetaViability float64  `yaml:"meta_viability"`
}

// Matchup is the observed win rate of archetype A against archetype B.
type Matchup struct {
	ArchetypeA string  `yaml:"archetype_a"`
	ArchetypeB string  `yaml:"archetype_b"`
	WinRateA   float64 `yaml:"win_rate_a"`
	SampleSize int     `yaml:"sample_size"`
}

// Registry holds the static archetype definitions and the archetype-pair
// win-rate table. Both are read-only for the lifetime of an analysis run.
// Archetypes keep their declaration order, which makes matching ties
// deterministic.
type Registry struct {
	archetypes []Archetype
	winRates   map[string]map[string]float64
}

type registryFile struct {
	Archetypes []Archetype `yaml:"archetypes"`
	Matchups   []Matchup   `yaml:"matchups"`
}

// LoadRegistry reads archetype and matchup definitions from a YAML file.
// Values support environment variable expansion in the form ${VAR} or
// ${VAR:default}.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archetype config %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var file registryFile
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, fmt.Errorf("failed to parse archetype config: %w", err)
	}

	reg, err := NewRegistry(file.Archetypes, file.Matchups)
	if err != nil {
		return nil, fmt.Errorf("invalid archetype config %s: %w", path, err)
	}
	return reg, nil
}

// NewRegistry builds a registry from in-memory definitions, validating them
// and filling in the reverse direction of every matchup.
func NewRegistry(archetypes []Archetype, matchups []Matchup) (*Registry, error) {
	if err := validate(archetypes, matchups); err != nil {
		return nil, err
	}

	winRates := make(map[string]map[string]float64)
	put := func(a, b string, rate float64) {
		if winRates[a] == nil {
			winRates[a] = make(map[string]float64)
		}
		winRates[a][b] = rate
	}
	for _, m := range matchups {
		put(m.ArchetypeA, m.ArchetypeB, m.WinRateA)
		put(m.ArchetypeB, m.ArchetypeA, 1.0-m.WinRateA)
	}

	return &Registry{archetypes: archetypes, winRates: winRates}, nil
}

// Archetypes returns the registered archetypes in declaration order.
func (r *Registry) Archetypes() []Archetype {
	return r.archetypes
}

// Archetype looks up an archetype by name.
func (r *Registry) Archetype(name string) (Archetype, bool) {
	for _, a := range r.archetypes {
		if a.Name == name {
			return a, true
		}
	}
	return Archetype{}, false
}

func validate(archetypes []Archetype, matchups []Matchup) error {
	if len(archetypes) == 0 {
		return fmt.Errorf("no archetypes defined")
	}

	names := make(map[string]bool)
	for _, a := range archetypes {
		if a.Name == "" {
			return fmt.Errorf("archetype with empty name found")
		}
		if names[a.Name] {
			return fmt.Errorf("duplicate archetype name: %s", a.Name)
		}
		names[a.Name] = true

		if len(a.CoreCards) == 0 {
			return fmt.Errorf("archetype %s has no core cards", a.Name)
		}
		if a.WinCondition == "" {
			return fmt.Errorf("archetype %s has no win condition", a.Name)
		}
		if a.MetaViability < 0 || a.MetaViability > 1 {
			return fmt.Errorf("archetype %s has meta viability %.2f outside [0,1]", a.Name, a.MetaViability)
		}
	}

	for _, m := range matchups {
		if !names[m.ArchetypeA] {
			return fmt.Errorf("matchup references unknown archetype: %s", m.ArchetypeA)
		}
		if !names[m.ArchetypeB] {
			return fmt.Errorf("matchup references unknown archetype: %s", m.ArchetypeB)
		}
		if m.WinRateA < 0 || m.WinRateA > 1 {
			return fmt.Errorf("matchup %s vs %s has win rate %.2f outside [0,1]",
				m.ArchetypeA, m.ArchetypeB, m.WinRateA)
		}
	}
	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or
// ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
