package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/siherrmann/carepath/helper"
	"github.com/siherrmann/carepath/model"
	"github.com/siherrmann/carepath/sql"
)

// JourneysDBHandlerFunctions defines the interface for journey step database operations.
type JourneysDBHandlerFunctions interface {
	InsertStep(step *model.JourneyStep) error
	InsertTable(table *model.JourneyTable) error
	SelectStep(domain model.Domain, stepID int) (*model.JourneyStep, error)
	SelectTable(domain model.Domain) (*model.JourneyTable, error)
	DeleteDomain(domain model.Domain) (int, error)
}

// JourneysDBHandler handles journey step database operations
type JourneysDBHandler struct {
	db *helper.Database
}

// NewJourneysDBHandler creates a new journeys database handler.
// It initializes the database connection and loads journey-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewJourneysDBHandler(db *helper.Database, force bool) (*JourneysDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	journeysDbHandler := &JourneysDBHandler{
		db: db,
	}

	err := sql.LoadJourneysSql(journeysDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load journeys sql", err)
	}

	err = journeysDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized JourneysDBHandler")

	return journeysDbHandler, nil
}

// CreateTable creates the 'journey_steps' table in the database.
// If the table already exists, it does not create it again.
func (h *JourneysDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_journeys();`)
	if err != nil {
		log.Panicf("error initializing journey_steps table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table journey_steps")

	return nil
}

// InsertStep inserts a step, replacing an existing step with the same domain and id
func (h *JourneysDBHandler) InsertStep(step *model.JourneyStep) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_journey_step($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		string(step.Domain),
		step.StepID,
		step.StepName,
		step.Description,
		step.EstimatedTime,
		step.StuckPoints,
		step.Resources,
		step.DecisionRequired,
		step.ClarificationQuestion,
	)

	err := scanStep(row, step)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// InsertTable replaces all steps of the table's domain in a single transaction.
// The table's steps are replaced with the stored rows only after a successful commit.
func (h *JourneysDBHandler) InsertTable(table *model.JourneyTable) error {
	if err := table.Validate(); err != nil {
		return helper.NewError("validate journey table", err)
	}

	tx, err := h.db.Instance.Begin()
	if err != nil {
		return helper.NewError("begin", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`SELECT delete_journey_domain($1)`, string(table.Domain))
	if err != nil {
		return helper.NewError("delete domain", err)
	}

	stored := make([]model.JourneyStep, len(table.Steps))
	for i, step := range table.Steps {
		row := tx.QueryRow(
			`SELECT * FROM insert_journey_step($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			string(table.Domain),
			step.StepID,
			step.StepName,
			step.Description,
			step.EstimatedTime,
			step.StuckPoints,
			step.Resources,
			step.DecisionRequired,
			step.ClarificationQuestion,
		)
		if err := scanStep(row, &stored[i]); err != nil {
			return helper.NewError(fmt.Sprintf("insert step %d", step.StepID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return helper.NewError("commit", err)
	}

	// Only a committed table gets the stored ids
	table.Steps = stored

	h.db.Logger.Info("Inserted journey table", "domain", table.Domain, "steps", len(table.Steps))

	return nil
}

// SelectStep retrieves a single step by domain and step id
func (h *JourneysDBHandler) SelectStep(domain model.Domain, stepID int) (*model.JourneyStep, error) {
	step := &model.JourneyStep{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_journey_step($1, $2)`,
		string(domain),
		stepID,
	)

	err := scanStep(row, step)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return step, nil
}

// SelectTable retrieves all steps of a domain ordered by step id
func (h *JourneysDBHandler) SelectTable(domain model.Domain) (*model.JourneyTable, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_journey_steps($1)`,
		string(domain),
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	table := &model.JourneyTable{Domain: domain}
	for rows.Next() {
		step := model.JourneyStep{}
		if err := scanStep(rows, &step); err != nil {
			return nil, helper.NewError("scan", err)
		}
		table.Steps = append(table.Steps, step)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return table, nil
}

// DeleteDomain deletes all steps of a domain and returns how many were removed
func (h *JourneysDBHandler) DeleteDomain(domain model.Domain) (int, error) {
	var deleted int
	err := h.db.Instance.QueryRow(
		`SELECT delete_journey_domain($1)`,
		string(domain),
	).Scan(&deleted)
	if err != nil {
		return 0, helper.NewError("exec", err)
	}
	return deleted, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStep(row scanner, step *model.JourneyStep) error {
	var domain string
	err := row.Scan(
		&step.ID,
		&step.RID,
		&domain,
		&step.StepID,
		&step.StepName,
		&step.Description,
		&step.EstimatedTime,
		&step.StuckPoints,
		&step.Resources,
		&step.DecisionRequired,
		&step.ClarificationQuestion,
	)
	if err != nil {
		return err
	}
	step.Domain = model.Domain(domain)
	return nil
}
