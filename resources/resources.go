package resources

import (
	"bytes"
	_ "embed"

	"github.com/siherrmann/carepath/helper"
	"github.com/siherrmann/carepath/model"
)

//go:embed mental_health_journey.csv
var mentalHealthJourneyCSV []byte

//go:embed orthopedic_journey.csv
var orthopedicJourneyCSV []byte

//go:embed orthopedic_ontology.yaml
var orthopedicOntologyYAML []byte

// MentalHealthJourney returns the built-in mental health journey table
func MentalHealthJourney() (*model.JourneyTable, error) {
	table, err := model.NewJourneyTableFromCSV(bytes.NewReader(mentalHealthJourneyCSV), model.DomainMentalHealth)
	if err != nil {
		return nil, helper.NewError("load mental health journey", err)
	}
	return table, nil
}

// OrthopedicJourney returns the built-in orthopedic journey table
func OrthopedicJourney() (*model.JourneyTable, error) {
	table, err := model.NewJourneyTableFromCSV(bytes.NewReader(orthopedicJourneyCSV), model.DomainOrthopedic)
	if err != nil {
		return nil, helper.NewError("load orthopedic journey", err)
	}
	return table, nil
}

// JourneyTables returns the built-in tables keyed by domain
func JourneyTables() (map[model.Domain]*model.JourneyTable, error) {
	mentalHealth, err := MentalHealthJourney()
	if err != nil {
		return nil, err
	}
	orthopedic, err := OrthopedicJourney()
	if err != nil {
		return nil, err
	}

	return map[model.Domain]*model.JourneyTable{
		model.DomainMentalHealth: mentalHealth,
		model.DomainOrthopedic:   orthopedic,
	}, nil
}

// OrthopedicOntology returns the built-in claims ontology
func OrthopedicOntology() (*model.Ontology, error) {
	ontology, err := model.NewOntologyFromYAML(bytes.NewReader(orthopedicOntologyYAML))
	if err != nil {
		return nil, helper.NewError("load orthopedic ontology", err)
	}
	return ontology, nil
}
