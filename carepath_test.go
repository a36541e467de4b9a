package carepath

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"strings"
	"testing"

	"github.com/siherrmann/carepath/core/journey"
	"github.com/siherrmann/carepath/helper"
	"github.com/siherrmann/carepath/model"
	"github.com/siherrmann/carepath/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var dbPort string

func TestMain(m *testing.M) {
	var teardown func(ctx context.Context, opts ...testcontainers.TerminateOption) error
	var err error
	teardown, dbPort, err = helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("error starting postgres container: %v", err)
	}

	m.Run()

	if teardown != nil && teardown(context.Background()) != nil {
		log.Fatalf("error tearing down postgres container: %v", err)
	}
}

func initCarepath(t *testing.T) *Carepath {
	tables, err := resources.JourneyTables()
	require.NoError(t, err, "failed to load journey tables")
	ontology, err := resources.OrthopedicOntology()
	require.NoError(t, err, "failed to load ontology")

	c, err := New(Options{
		Logger:   slog.New(slog.DiscardHandler),
		Tables:   tables,
		Ontology: ontology,
	})
	require.NoError(t, err, "failed to create carepath")
	require.NotNil(t, c, "expected carepath to be non-nil")

	return c
}

func claimsDataset() *model.Dataset {
	return &model.Dataset{
		Name:    "claims.csv",
		Columns: []string{"patient_id", "provider_id", "payer_id", "billed_amount"},
		Rows: [][]string{
			{"P1", "D1", "UHC", "100"},
			{"P2", "D1", "UHC", "250.5"},
			{"P1", "D2", "AET", "49.5"},
		},
	}
}

func TestNew(t *testing.T) {
	t.Run("Valid call NewDefault", func(t *testing.T) {
		c, err := NewDefault()
		require.NoError(t, err, "Expected NewDefault to not return an error")
		require.NotNil(t, c, "Expected NewDefault to return a non-nil instance")
		assert.NotNil(t, c.Table(model.DomainMentalHealth), "Expected mental health table to be loaded")
		assert.NotNil(t, c.Table(model.DomainOrthopedic), "Expected orthopedic table to be loaded")
		assert.NotNil(t, c.Ontology(), "Expected ontology to be loaded")
		assert.Nil(t, c.DB, "Expected no database without Connect")
		assert.NoError(t, c.Close(), "Expected Close without database to not return an error")
	})

	t.Run("Invalid call New without tables", func(t *testing.T) {
		_, err := New(Options{Logger: slog.New(slog.DiscardHandler)})
		assert.Error(t, err, "Expected New to reject missing tables")
		assert.Contains(t, err.Error(), "no journey tables given", "Expected specific error message")
	})

	t.Run("Invalid call New with a broken table", func(t *testing.T) {
		_, err := New(Options{
			Logger: slog.New(slog.DiscardHandler),
			Tables: map[model.Domain]*model.JourneyTable{
				model.DomainOrthopedic: {
					Domain: model.DomainOrthopedic,
					Steps:  []model.JourneyStep{{StepID: 1}, {StepID: 3}},
				},
			},
		})
		assert.Error(t, err, "Expected New to reject a table with a gap")
	})

	t.Run("Invalid call New with an empty table", func(t *testing.T) {
		_, err := New(Options{
			Logger: slog.New(slog.DiscardHandler),
			Tables: map[model.Domain]*model.JourneyTable{
				model.DomainMentalHealth: {Domain: model.DomainMentalHealth},
			},
		})
		assert.Error(t, err, "Expected New to reject a table without steps")
		assert.Contains(t, err.Error(), "journey table has no steps", "Expected specific error message")
	})

	t.Run("Custom coverage config is used", func(t *testing.T) {
		tables, err := resources.JourneyTables()
		require.NoError(t, err)
		ontology, err := resources.OrthopedicOntology()
		require.NoError(t, err)

		config := model.CoverageConfig{UseIntensity: true, CoveredColor: "green", UncoveredColor: "red"}
		c, err := New(Options{
			Logger:         slog.New(slog.DiscardHandler),
			Tables:         tables,
			Ontology:       ontology,
			CoverageConfig: &config,
		})
		require.NoError(t, err)

		g, err := c.CoverageGraph([]string{"provider_id"})
		require.NoError(t, err)
		patient := g.Node("Patient")
		require.NotNil(t, patient)
		assert.Equal(t, "green", patient.Color, "Expected covered color from config")
		facility := g.Node("Facility")
		require.NotNil(t, facility)
		assert.Equal(t, "red", facility.Color, "Expected uncovered color from config")
	})
}

func TestClassify(t *testing.T) {
	c := initCarepath(t)

	t.Run("Anxious user unsure about insurance", func(t *testing.T) {
		result, err := c.Classify("I'm feeling anxious and want to find a therapist but I'm not sure about my insurance")
		require.NoError(t, err, "Expected Classify to not return an error")
		assert.Equal(t, model.DomainMentalHealth, result.Domain, "Expected mental health domain")
		assert.Equal(t, 3, result.StepID, "Expected insurance step")
		assert.Equal(t, 3, result.Step.StepID, "Expected resolved step to match step id")
		require.Len(t, result.Clarifications, 1, "Expected the insurance clarification question")
		assert.Equal(t, result.Step.ClarificationQuestion, result.Clarifications[0])
		require.NotNil(t, result.Next, "Expected a next step")
		assert.Equal(t, 4, result.Next.StepID)
	})

	t.Run("Knee pain and booking", func(t *testing.T) {
		result, err := c.Classify("I have knee pain and need to book an appointment")
		require.NoError(t, err, "Expected Classify to not return an error")
		assert.Equal(t, model.DomainOrthopedic, result.Domain, "Expected orthopedic domain")
		assert.Equal(t, 5, result.StepID, "Expected booking step")
		assert.Empty(t, result.Clarifications, "Expected no clarification for the booking step")
	})

	t.Run("Empty text lands on the first step of the default domain", func(t *testing.T) {
		result, err := c.Classify("")
		require.NoError(t, err)
		assert.Equal(t, model.DefaultDomain, result.Domain)
		assert.Equal(t, 1, result.StepID)
		assert.NotNil(t, result.Clarifications, "Expected an empty, non-nil clarification list")
	})

	t.Run("Step beyond a short table is clamped", func(t *testing.T) {
		short := &model.JourneyTable{
			Domain: model.DomainOrthopedic,
			Steps: []model.JourneyStep{
				{Domain: model.DomainOrthopedic, StepID: 1, StepName: "Notice"},
				{Domain: model.DomainOrthopedic, StepID: 2, StepName: "Specialist"},
			},
		}
		clamped, err := New(Options{
			Logger: slog.New(slog.DiscardHandler),
			Tables: map[model.Domain]*model.JourneyTable{model.DomainOrthopedic: short},
		})
		require.NoError(t, err)

		result, err := clamped.Classify("my knee hurts, I want to book an appointment")
		require.NoError(t, err, "Expected Classify to clamp instead of failing")
		assert.Equal(t, 2, result.StepID, "Expected step to be clamped to the table maximum")
		assert.Nil(t, result.Next, "Expected the clamped step to be final")
	})

	t.Run("Missing table for the detected domain", func(t *testing.T) {
		orthoOnly, err := New(Options{
			Logger: slog.New(slog.DiscardHandler),
			Tables: map[model.Domain]*model.JourneyTable{model.DomainOrthopedic: c.Table(model.DomainOrthopedic)},
		})
		require.NoError(t, err)

		_, err = orthoOnly.Classify("I feel depressed")
		assert.Error(t, err, "Expected Classify to fail without a mental health table")
		assert.False(t, errors.Is(err, journey.ErrStepNotFound), "Expected a missing table error, not a missing step")
	})
}

func TestCoverage(t *testing.T) {
	c := initCarepath(t)

	t.Run("Provider and payer header", func(t *testing.T) {
		result, err := c.Coverage([]string{"provider_id", "payer_id"})
		require.NoError(t, err, "Expected Coverage to not return an error")

		for _, name := range []string{"Patient", "Provider", "Payer", "Claim"} {
			assert.True(t, result.IsEntityCovered(name), "Expected %s to be covered", name)
		}
		assert.False(t, result.IsEntityCovered("Facility"), "Expected Facility to be uncovered")

		assert.True(t, result.IsEdgeCovered("Patient", "Provider"))
		assert.True(t, result.IsEdgeCovered("Patient", "Payer"))
		assert.True(t, result.IsEdgeCovered("Claim", "Provider"))
		assert.True(t, result.IsEdgeCovered("Claim", "Payer"))
		assert.Len(t, result.CoveredRelationships, 4, "Expected exactly four covered edges")

		assert.Contains(t, result.MissingColumns, "insurance_id")
		assert.Contains(t, result.MissingColumns, "facility_id")
		assert.Contains(t, result.MissingColumns, "claim_id")
		assert.NotContains(t, result.MissingColumns, "provider_id")
	})

	t.Run("Header case does not matter", func(t *testing.T) {
		lower, err := c.Coverage([]string{"provider_id"})
		require.NoError(t, err)
		upper, err := c.Coverage([]string{" PROVIDER_ID "})
		require.NoError(t, err)
		assert.Equal(t, lower.CoveredEntities, upper.CoveredEntities, "Expected case-insensitive matching")
	})

	t.Run("Graph mirrors the ontology", func(t *testing.T) {
		g, err := c.CoverageGraph([]string{"provider_id", "payer_id"})
		require.NoError(t, err, "Expected CoverageGraph to not return an error")
		assert.Len(t, g.Nodes, len(c.Ontology().Entities), "Expected one node per entity")
		assert.Len(t, g.Edges, len(c.Ontology().Relationships), "Expected one edge per relationship")
		assert.Equal(t, model.StyleCovered, g.Node("Provider").Style)
		assert.Equal(t, model.StyleUncovered, g.Node("Diagnosis").Style)
	})

	t.Run("Reachable over covered relationships", func(t *testing.T) {
		results, err := c.Reachable([]string{"provider_id", "payer_id"}, "Patient", 2)
		require.NoError(t, err, "Expected Reachable to not return an error")

		distances := map[string]int{}
		for _, r := range results {
			distances[r.Node.Name] = r.Distance
		}
		assert.Equal(t, map[string]int{"Patient": 0, "Provider": 1, "Payer": 1, "Claim": 2}, distances)
	})

	t.Run("Reachable from unknown entity", func(t *testing.T) {
		_, err := c.Reachable([]string{"provider_id"}, "Nobody", 2)
		assert.Error(t, err)
	})
}

func TestAnswer(t *testing.T) {
	c := initCarepath(t)
	dataset := claimsDataset()

	t.Run("Unique patients", func(t *testing.T) {
		assert.Equal(t, "patient_id: 2 unique values", c.Answer("How many unique patients?", dataset))
	})

	t.Run("Average billed amount", func(t *testing.T) {
		assert.Equal(t, "Average billed_amount: 133.33", c.Answer("What is the average billed amount?", dataset))
	})

	t.Run("Unmatched question", func(t *testing.T) {
		assert.Equal(t, "Sorry, I couldn't match your question to the data.", c.Answer("What is the weather?", dataset))
	})
}

func TestDatabaseCatalog(t *testing.T) {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err, "failed to create database configuration")

	t.Run("Seed without database", func(t *testing.T) {
		c := initCarepath(t)
		err := c.SeedDatabase()
		assert.Error(t, err, "Expected SeedDatabase to fail without Connect")
	})

	t.Run("Seed and reload catalog", func(t *testing.T) {
		c := initCarepath(t)
		require.NoError(t, c.Connect(dbConfig), "Expected Connect to not return an error")
		t.Cleanup(func() { c.Close() })

		assert.Error(t, c.Connect(dbConfig), "Expected a second Connect to fail")
		require.NoError(t, c.SeedDatabase(), "Expected SeedDatabase to not return an error")

		pristineTables, err := resources.JourneyTables()
		require.NoError(t, err)
		pristineOntology, err := resources.OrthopedicOntology()
		require.NoError(t, err)
		for _, domain := range model.Domains {
			assert.Equal(t, pristineTables[domain], c.Table(domain), "Expected in-memory %s table to be unchanged by seeding", domain)
		}
		assert.Equal(t, pristineOntology, c.Ontology(), "Expected in-memory ontology to be unchanged by seeding")

		loaded, err := NewFromDatabase(dbConfig, c.Ontology().Name)
		require.NoError(t, err, "Expected NewFromDatabase to not return an error")
		t.Cleanup(func() { loaded.Close() })

		for _, domain := range model.Domains {
			require.NotNil(t, loaded.Table(domain))
			assert.Len(t, loaded.Table(domain).Steps, len(c.Table(domain).Steps), "Expected stored table of %s", domain)
		}

		text := "I have knee pain and need to book an appointment"
		expected, err := c.Classify(text)
		require.NoError(t, err)
		actual, err := loaded.Classify(text)
		require.NoError(t, err)
		assert.Equal(t, expected.StepID, actual.StepID, "Expected stored catalog to classify the same way")
		assert.Equal(t, expected.Step.StepName, actual.Step.StepName)

		header := []string{"provider_id", "payer_id"}
		expectedCoverage, err := c.Coverage(header)
		require.NoError(t, err)
		actualCoverage, err := loaded.Coverage(header)
		require.NoError(t, err)
		assert.Equal(t, expectedCoverage.CoveredRelationships, actualCoverage.CoveredRelationships)
		assert.Equal(t, expectedCoverage.MissingColumns, actualCoverage.MissingColumns)
	})

	t.Run("Load unknown ontology", func(t *testing.T) {
		_, err := NewFromDatabase(dbConfig, "does_not_exist")
		assert.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "does_not_exist"), "Expected the ontology name in the error")
	})

	t.Run("Unreachable database returns an error", func(t *testing.T) {
		unreachable := *dbConfig
		unreachable.Port = "1"

		var err error
		assert.NotPanics(t, func() {
			_, err = NewFromDatabase(&unreachable, "orthopedic_claims")
		}, "Expected NewFromDatabase to not panic")
		assert.Error(t, err, "Expected NewFromDatabase to fail for an unreachable host")

		c := initCarepath(t)
		assert.Error(t, c.Connect(&unreachable), "Expected Connect to fail for an unreachable host")
		assert.Nil(t, c.DB, "Expected no database after a failed Connect")
	})

	t.Run("Invalid call NewFromDatabase with nil config", func(t *testing.T) {
		_, err := NewFromDatabase(nil, "orthopedic_claims")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database configuration is nil")
	})
}
