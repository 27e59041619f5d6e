package deck

// DefaultRegistry returns the built-in archetype and matchup reference data.
// It mirrors config/archetypes.yaml and is used when no config file is
// configured. In production the matchup table would come from real ladder
// statistics.
func DefaultRegistry() *Registry {
	archetypes := []Archetype{
		{
			Name:          "Hog Cycle",
			CoreCards:     []string{"Hog Rider", "Ice Spirit", "Skeletons"},
			CommonCards:   []string{"Musketeer", "Cannon", "Fireball", "Zap"},
			Playstyle:     "cycle",
			AvgElixir:     2.8,
			WinCondition:  "Hog Rider",
			MetaViability: 0.75,
		},
		{
			Name:          "Royal Giant",
			CoreCards:     []string{"Royal Giant", "Lightning"},
			CommonCards:   []string{"Wizard", "Valkyrie", "Musketeer", "Zap"},
			Playstyle:     "beatdown",
			AvgElixir:     4.2,
			WinCondition:  "Royal Giant",
			MetaViability: 0.65,
		},
		{
			Name:          "Giant Beatdown",
			CoreCards:     []string{"Giant", "Wizard"},
			CommonCards:   []string{"Musketeer", "Valkyrie", "Fireball", "Zap"},
			Playstyle:     "beatdown",
			AvgElixir:     4.0,
			WinCondition:  "Giant",
			MetaViability: 0.70,
		},
		{
			Name:          "LavaLoon",
			CoreCards:     []string{"Balloon", "Lightning"},
			CommonCards:   []string{"Wizard", "Valkyrie", "Tesla", "Zap"},
			Playstyle:     "beatdown",
			AvgElixir:     4.3,
			WinCondition:  "Balloon",
			MetaViability: 0.60,
		},
	}

	matchups := []Matchup{
		{ArchetypeA: "Hog Cycle", ArchetypeB: "Royal Giant", WinRateA: 0.45, SampleSize: 1000},
		{ArchetypeA: "Hog Cycle", ArchetypeB: "Giant Beatdown", WinRateA: 0.55, SampleSize: 800},
		{ArchetypeA: "Hog Cycle", ArchetypeB: "LavaLoon", WinRateA: 0.35, SampleSize: 600},
		{ArchetypeA: "Royal Giant", ArchetypeB: "Giant Beatdown", WinRateA: 0.50, SampleSize: 900},
		{ArchetypeA: "Royal Giant", ArchetypeB: "LavaLoon", WinRateA: 0.60, SampleSize: 700},
		{ArchetypeA: "Giant Beatdown", ArchetypeB: "LavaLoon", WinRateA: 0.40, SampleSize: 500},
	}

	reg, err := NewRegistry(archetypes, matchups)
	if err != nil {
		// Static data validated by tests; this cannot happen at runtime.
		panic(err)
	}
	return reg
}
