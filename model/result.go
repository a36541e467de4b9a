package model

// ClassificationResult is the outcome of classifying a free-text description
type ClassificationResult struct {
	Domain         Domain       `json:"domain"`
	StepID         int          `json:"step_id"`
	Clarifications []string     `json:"clarifications"`
	Step           JourneyStep  `json:"step"`
	Next           *JourneyStep `json:"next,omitempty"` // nil on the final step
}

// IsFinalStep reports whether there is no step after the classified one
func (r *ClassificationResult) IsFinalStep() bool {
	return r.Next == nil
}

// EdgeKey identifies a covered (from, to) entity pair
type EdgeKey struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CoverageResult is the part of an ontology evidenced by a dataset header
type CoverageResult struct {
	CoveredEntities      map[string]bool    `json:"covered_entities"`
	CoveredRelationships map[EdgeKey]bool   `json:"covered_relationships"`
	MissingColumns       []string           `json:"missing_columns"` // sorted
	EntityIntensity      map[string]float64 `json:"entity_intensity,omitempty"`
}

// IsEntityCovered reports whether the entity takes part in a covered relationship
func (r *CoverageResult) IsEntityCovered(name string) bool {
	return r.CoveredEntities[name]
}

// IsEdgeCovered reports whether any relationship between from and to is covered
func (r *CoverageResult) IsEdgeCovered(from, to string) bool {
	return r.CoveredRelationships[EdgeKey{From: from, To: to}]
}
