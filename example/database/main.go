package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/carepath"
	"github.com/siherrmann/carepath/helper"
	"github.com/siherrmann/carepath/model"
)

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	// Seed the catalog from the embedded resources
	seeder, err := carepath.NewDefault()
	if err != nil {
		log.Fatalf("Failed to create carepath: %v", err)
	}
	if err := seeder.Connect(dbConfig); err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	if err := seeder.SeedDatabase(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	ontologyName := seeder.Ontology().Name
	seeder.Close()

	// Load everything back from postgres
	c, err := carepath.NewFromDatabase(dbConfig, ontologyName)
	if err != nil {
		log.Fatalf("Failed to load carepath from database: %v", err)
	}
	defer c.Close()

	for _, domain := range model.Domains {
		table := c.Table(domain)
		fmt.Printf("\n%s journey (%d steps)\n", domain, len(table.Steps))
		for _, step := range table.Steps {
			fmt.Printf("  %d. %s [%s]\n", step.StepID, step.StepName, step.RID)
		}
	}

	step, err := c.Journeys.SelectStep(model.DomainOrthopedic, 3)
	if err != nil {
		log.Fatalf("Failed to select step: %v", err)
	}
	fmt.Printf("\nStored orthopedic step 3: %s\n", step.StepName)

	result, err := c.Classify("My knee hurts and I need to check my insurance")
	if err != nil {
		log.Fatalf("Failed to classify: %v", err)
	}
	fmt.Printf("\nClassified onto %s step %d: %s\n", result.Domain, result.StepID, result.Step.StepName)

	fmt.Printf("\nOntology %s (%s)\n", c.Ontology().Name, c.Ontology().RID)
	for _, entity := range c.Ontology().Entities {
		fmt.Printf("  %s %s %v\n", entity.ID, entity.Name, entity.Attributes)
	}
}
