package resources

import (
	"testing"

	"github.com/siherrmann/carepath/core/coverage"
	"github.com/siherrmann/carepath/core/journey"
	"github.com/siherrmann/carepath/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJourneyTables(t *testing.T) {
	t.Run("Loads both built-in tables", func(t *testing.T) {
		tables, err := JourneyTables()

		require.NoError(t, err, "Expected JourneyTables to not return an error")
		require.Len(t, tables, 2)
		assert.Equal(t, 8, tables[model.DomainMentalHealth].MaxStepID())
		assert.Equal(t, 6, tables[model.DomainOrthopedic].MaxStepID())
	})

	t.Run("Built-in tables are valid", func(t *testing.T) {
		tables, err := JourneyTables()
		require.NoError(t, err)

		for domain, table := range tables {
			assert.NoError(t, table.Validate(), "Expected %s table to be valid", domain)
			assert.Equal(t, domain, table.Domain)
		}
	})

	t.Run("Every rule target exists in its table", func(t *testing.T) {
		tables, err := JourneyTables()
		require.NoError(t, err)

		for _, domain := range model.Domains {
			for _, rule := range journey.RulesFor(domain) {
				_, err := journey.StepInfo(tables[domain], rule.Target)
				assert.NoError(t, err, "Expected step %d of rule %q in %s table", rule.Target, rule.Name, domain)
			}
		}
	})

	t.Run("Insurance step asks a clarification", func(t *testing.T) {
		table, err := MentalHealthJourney()
		require.NoError(t, err)

		text := "I'm feeling anxious and want to find a therapist but I'm not sure about my insurance"
		step, clarifications := journey.Infer(text, journey.DetectDomain(text), table)

		assert.Equal(t, 3, step)
		require.Len(t, clarifications, 1)
		assert.Contains(t, clarifications[0], "insurance plan")
	})
}

func TestOrthopedicOntology(t *testing.T) {
	t.Run("Loads entities and relationships", func(t *testing.T) {
		ontology, err := OrthopedicOntology()

		require.NoError(t, err, "Expected OrthopedicOntology to not return an error")
		assert.Equal(t, "orthopedic_claims", ontology.Name)
		assert.Len(t, ontology.Entities, 6)
		assert.Len(t, ontology.Relationships, 7)
		assert.Equal(t, model.EntityID("orthopedic_claims", "Patient"), ontology.Entity("Patient").ID)
	})

	t.Run("Relationship endpoints are declared entities", func(t *testing.T) {
		ontology, err := OrthopedicOntology()
		require.NoError(t, err)

		for _, rel := range ontology.Relationships {
			assert.NotNil(t, ontology.Entity(rel.From), "Expected entity %s", rel.From)
			assert.NotNil(t, ontology.Entity(rel.To), "Expected entity %s", rel.To)
		}
	})

	t.Run("Provider and payer header", func(t *testing.T) {
		ontology, err := OrthopedicOntology()
		require.NoError(t, err)

		result := coverage.Evaluate(ontology, coverage.ExtractColumns([]string{"provider_id", "payer_id"}))

		assert.Len(t, result.CoveredRelationships, 4)
		for _, edge := range [][2]string{{"Patient", "Provider"}, {"Patient", "Payer"}, {"Claim", "Provider"}, {"Claim", "Payer"}} {
			assert.True(t, result.IsEdgeCovered(edge[0], edge[1]), "Expected %s->%s covered", edge[0], edge[1])
		}
		for _, name := range []string{"Patient", "Provider", "Payer"} {
			assert.True(t, result.IsEntityCovered(name))
		}
		assert.Subset(t, result.MissingColumns, []string{"insurance_id", "facility_id", "claim_id"})
		assert.NotContains(t, result.MissingColumns, "provider_id")
	})
}
