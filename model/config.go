package model

// CoverageConfig controls how coverage is projected into a graph
type CoverageConfig struct {
	// UseIntensity styles nodes by attribute coverage intensity instead of a binary flag
	UseIntensity   bool   `json:"use_intensity"`
	CoveredColor   string `json:"covered_color"`
	UncoveredColor string `json:"uncovered_color"`
}

// DefaultCoverageConfig returns the binary styling used by the coverage view
func DefaultCoverageConfig() CoverageConfig {
	return CoverageConfig{
		UseIntensity:   false,
		CoveredColor:   "lightgreen",
		UncoveredColor: "lightgray",
	}
}
