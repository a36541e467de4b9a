package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/siherrmann/carepath"
	"github.com/siherrmann/carepath/model"
)

const sampleClaims = `claim_id,patient_id,provider_id,payer_id,billed_amount
C1,P1,D1,UHC,120.00
C2,P2,D1,UHC,310.50
C3,P1,D2,AET,95.25
C4,P3,D3,UHC,480.00
`

var questions = []string{
	"How many unique patients?",
	"What is the total billed amount?",
	"What is the average billed amount?",
	"What is the maximum billed amount?",
	"Which diagnosis is most common?",
}

func main() {
	c, err := carepath.NewDefault()
	if err != nil {
		log.Fatalf("Failed to create carepath: %v", err)
	}
	defer c.Close()

	// Use a CSV file from the command line or the built-in sample
	var dataset *model.Dataset
	if len(os.Args) > 1 {
		dataset, err = model.NewDatasetFromFile(os.Args[1])
	} else {
		dataset, err = model.NewDatasetFromCSV(strings.NewReader(sampleClaims), "sample_claims.csv")
	}
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	result, err := c.Coverage(dataset.Columns)
	if err != nil {
		log.Fatalf("Failed to evaluate coverage: %v", err)
	}

	fmt.Printf("Dataset %s with columns %v\n", dataset.Name, dataset.Columns)
	for _, entity := range c.Ontology().Entities {
		fmt.Printf("  %-10s covered=%-5t intensity=%.2f\n", entity.Name, result.IsEntityCovered(entity.Name), result.EntityIntensity[entity.Name])
	}
	fmt.Printf("Missing columns: %s\n", strings.Join(result.MissingColumns, ", "))

	g, err := c.CoverageGraph(dataset.Columns)
	if err != nil {
		log.Fatalf("Failed to project graph: %v", err)
	}
	fmt.Println("\nGraph edges:")
	for _, edge := range g.Edges {
		fmt.Printf("  %s -[%s]-> %s (%s)\n", edge.From, edge.Label, edge.To, edge.Style)
	}

	reachable, err := c.Reachable(dataset.Columns, "Patient", 3)
	if err != nil {
		log.Fatalf("Failed to traverse graph: %v", err)
	}
	fmt.Println("\nReachable from Patient:")
	for _, r := range reachable {
		fmt.Printf("  %s (%d hops) via %s\n", r.Node.Name, r.Distance, strings.Join(r.Path, " > "))
	}

	fmt.Println("\nQuestions:")
	for _, question := range questions {
		fmt.Printf("  %s\n    %s\n", question, c.Answer(question, dataset))
	}
}
