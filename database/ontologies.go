package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/siherrmann/carepath/helper"
	"github.com/siherrmann/carepath/model"
	"github.com/siherrmann/carepath/sql"
)

// OntologiesDBHandlerFunctions defines the interface for ontology database operations.
type OntologiesDBHandlerFunctions interface {
	InsertOntology(ontology *model.Ontology) error
	SelectOntology(name string) (*model.Ontology, error)
	DeleteOntology(name string) (int, error)
}

// OntologiesDBHandler handles ontology database operations
type OntologiesDBHandler struct {
	db *helper.Database
}

// NewOntologiesDBHandler creates a new ontologies database handler.
// It initializes the database connection and loads ontology-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewOntologiesDBHandler(db *helper.Database, force bool) (*OntologiesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	ontologiesDbHandler := &OntologiesDBHandler{
		db: db,
	}

	err := sql.LoadOntologiesSql(ontologiesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load ontologies sql", err)
	}

	err = ontologiesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized OntologiesDBHandler")

	return ontologiesDbHandler, nil
}

// CreateTable creates the ontology tables in the database.
// If the tables already exist, it does not create them again.
func (h *OntologiesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_ontologies();`)
	if err != nil {
		log.Panicf("error initializing ontology tables: %#v", err)
	}

	h.db.Logger.Info("Checked/created tables ontologies, ontology_entities, ontology_relationships")

	return nil
}

// InsertOntology stores the ontology with its entities and relationships.
// An ontology with the same name is replaced. The ontology receives the
// stored ids only after a successful commit.
func (h *OntologiesDBHandler) InsertOntology(ontology *model.Ontology) error {
	tx, err := h.db.Instance.Begin()
	if err != nil {
		return helper.NewError("begin", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`SELECT delete_ontology($1)`, ontology.Name)
	if err != nil {
		return helper.NewError("delete existing ontology", err)
	}

	stored := ontology.Clone()
	err = tx.QueryRow(
		`SELECT * FROM insert_ontology($1)`,
		ontology.Name,
	).Scan(
		&stored.ID,
		&stored.RID,
		&stored.Name,
	)
	if err != nil {
		return helper.NewError("insert ontology", err)
	}

	stored.AssignIDs()
	for i, entity := range stored.Entities {
		_, err = tx.Exec(
			`SELECT insert_ontology_entity($1, $2, $3, $4, $5)`,
			stored.ID,
			i,
			entity.ID,
			entity.Name,
			pq.Array(entity.Attributes),
		)
		if err != nil {
			return helper.NewError(fmt.Sprintf("insert entity %s", entity.Name), err)
		}
	}

	for i, relationship := range stored.Relationships {
		_, err = tx.Exec(
			`SELECT insert_ontology_relationship($1, $2, $3, $4, $5, $6)`,
			stored.ID,
			i,
			relationship.From,
			relationship.To,
			relationship.Type,
			pq.Array(relationship.EvidenceColumns),
		)
		if err != nil {
			return helper.NewError(fmt.Sprintf("insert relationship %s", relationship.Type), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return helper.NewError("commit", err)
	}

	// Only a committed ontology gets the stored ids
	*ontology = *stored

	h.db.Logger.Info("Inserted ontology", "name", ontology.Name, "entities", len(ontology.Entities), "relationships", len(ontology.Relationships))

	return nil
}

// SelectOntology retrieves an ontology by name with entities and relationships in stored order
func (h *OntologiesDBHandler) SelectOntology(name string) (*model.Ontology, error) {
	ontology := &model.Ontology{}
	err := h.db.Instance.QueryRow(
		`SELECT * FROM select_ontology($1)`,
		name,
	).Scan(
		&ontology.ID,
		&ontology.RID,
		&ontology.Name,
	)
	if err != nil {
		return nil, helper.NewError("scan ontology", err)
	}

	entityRows, err := h.db.Instance.Query(`SELECT * FROM select_ontology_entities($1)`, ontology.ID)
	if err != nil {
		return nil, helper.NewError("query entities", err)
	}
	defer entityRows.Close()

	for entityRows.Next() {
		entity := model.OntologyEntity{}
		err := entityRows.Scan(
			&entity.ID,
			&entity.Name,
			pq.Array(&entity.Attributes),
		)
		if err != nil {
			return nil, helper.NewError("scan entity", err)
		}
		ontology.Entities = append(ontology.Entities, entity)
	}
	if err := entityRows.Err(); err != nil {
		return nil, helper.NewError("entity rows error", err)
	}

	relationshipRows, err := h.db.Instance.Query(`SELECT * FROM select_ontology_relationships($1)`, ontology.ID)
	if err != nil {
		return nil, helper.NewError("query relationships", err)
	}
	defer relationshipRows.Close()

	for relationshipRows.Next() {
		relationship := model.OntologyRelationship{}
		err := relationshipRows.Scan(
			&relationship.From,
			&relationship.To,
			&relationship.Type,
			pq.Array(&relationship.EvidenceColumns),
		)
		if err != nil {
			return nil, helper.NewError("scan relationship", err)
		}
		ontology.Relationships = append(ontology.Relationships, relationship)
	}
	if err := relationshipRows.Err(); err != nil {
		return nil, helper.NewError("relationship rows error", err)
	}

	return ontology, nil
}

// DeleteOntology deletes an ontology by name and returns the number of removed ontologies
func (h *OntologiesDBHandler) DeleteOntology(name string) (int, error) {
	var deleted int
	err := h.db.Instance.QueryRow(`SELECT delete_ontology($1)`, name).Scan(&deleted)
	if err != nil {
		return 0, helper.NewError("exec", err)
	}
	return deleted, nil
}
