package coverage

import (
	"sort"

	"github.com/siherrmann/carepath/model"
)

// Evaluate computes which entities and relationships of the ontology are
// evidenced by the column set. A relationship is covered when at least one of
// its evidence columns is present; both endpoints become covered entities.
// MissingColumns lists every evidence column absent from the set, also those
// of relationships covered through another column.
func Evaluate(ontology *model.Ontology, columns map[string]bool) *model.CoverageResult {
	result := &model.CoverageResult{
		CoveredEntities:      map[string]bool{},
		CoveredRelationships: map[model.EdgeKey]bool{},
		MissingColumns:       []string{},
	}
	if ontology == nil {
		return result
	}

	missing := map[string]bool{}
	for _, rel := range ontology.Relationships {
		covered := false
		for _, c := range rel.EvidenceColumns {
			column := normalize(c)
			if columns[column] {
				covered = true
			} else {
				missing[column] = true
			}
		}

		if covered {
			result.CoveredEntities[rel.From] = true
			result.CoveredEntities[rel.To] = true
			result.CoveredRelationships[model.EdgeKey{From: rel.From, To: rel.To}] = true
		}
	}

	for column := range missing {
		result.MissingColumns = append(result.MissingColumns, column)
	}
	sort.Strings(result.MissingColumns)

	result.EntityIntensity = EntityIntensity(ontology, columns)

	return result
}

// EntityIntensity scores each entity by how many of its attributes appear as
// columns, normalised by the highest count so the best entity scores 1.
// When no attribute is present at all every entity scores 0.
func EntityIntensity(ontology *model.Ontology, columns map[string]bool) map[string]float64 {
	intensity := make(map[string]float64, len(ontology.Entities))

	counts := make(map[string]int, len(ontology.Entities))
	max := 0
	for _, entity := range ontology.Entities {
		count := 0
		for _, attribute := range entity.Attributes {
			if columns[normalize(attribute)] {
				count++
			}
		}
		counts[entity.Name] = count
		if count > max {
			max = count
		}
	}

	divisor := float64(max)
	if max == 0 {
		divisor = 1
	}
	for name, count := range counts {
		intensity[name] = float64(count) / divisor
	}

	return intensity
}
