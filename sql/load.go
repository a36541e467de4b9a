package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed journeys.sql
var journeysSQL string

//go:embed ontologies.sql
var ontologiesSQL string

// Function lists for verification
var JourneysFunctions = []string{
	"init_journeys",
	"insert_journey_step",
	"select_journey_step",
	"select_journey_steps",
	"delete_journey_domain",
}

var OntologiesFunctions = []string{
	"init_ontologies",
	"insert_ontology",
	"insert_ontology_entity",
	"insert_ontology_relationship",
	"select_ontology",
	"select_ontology_entities",
	"select_ontology_relationships",
	"delete_ontology",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadJourneysSql loads journey-related SQL functions
func LoadJourneysSql(db *sql.DB, force bool) error {
	return loadSql(db, "journeys", journeysSQL, JourneysFunctions, force)
}

// LoadOntologiesSql loads ontology-related SQL functions
func LoadOntologiesSql(db *sql.DB, force bool) error {
	return loadSql(db, "ontologies", ontologiesSQL, OntologiesFunctions, force)
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadJourneysSql(db, force); err != nil {
		return err
	}

	if err := LoadOntologiesSql(db, force); err != nil {
		return err
	}

	return nil
}

func loadSql(db *sql.DB, name string, script string, functions []string, force bool) error {
	if !force {
		exist, err := checkFunctions(db, functions)
		if err != nil {
			return fmt.Errorf("error checking existing %s functions: %w", name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(script)
	if err != nil {
		return fmt.Errorf("error executing %s SQL: %w", name, err)
	}

	exist, err := checkFunctions(db, functions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Printf("SQL %s functions loaded successfully", name)
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
