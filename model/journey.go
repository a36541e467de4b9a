package model

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/siherrmann/carepath/helper"
)

// Domain is the care domain a journey table belongs to
type Domain string

const (
	DomainMentalHealth Domain = "mental_health"
	DomainOrthopedic   Domain = "orthopedic"

	// DefaultDomain is returned when no domain keyword matches
	DefaultDomain = DomainMentalHealth
)

// Domains lists all known domains
var Domains = []Domain{DomainMentalHealth, DomainOrthopedic}

// Journey table CSV column headers
const (
	ColumnStepID                 = "Step ID"
	ColumnStepName               = "Step Name"
	ColumnDescription            = "Description"
	ColumnEstimatedTime          = "Estimated Time"
	ColumnStuckPoints            = "Stuck Points"
	ColumnResources              = "Resources"
	ColumnDecisionRequired       = "Decision Required?"
	ColumnClarificationQuestions = "Clarification Questions"
)

// JourneyStep is a single step of a care journey
type JourneyStep struct {
	ID                    int64     `json:"id,omitempty"`
	RID                   uuid.UUID `json:"rid,omitempty"`
	Domain                Domain    `json:"domain"`
	StepID                int       `json:"step_id"`
	StepName              string    `json:"step_name"`
	Description           string    `json:"description"`
	EstimatedTime         string    `json:"estimated_time"`
	StuckPoints           string    `json:"stuck_points"`
	Resources             string    `json:"resources"`
	DecisionRequired      bool      `json:"decision_required"`
	ClarificationQuestion string    `json:"clarification_question,omitempty"`
}

// HasClarification reports whether the step asks the user a clarification question
func (s *JourneyStep) HasClarification() bool {
	return s.DecisionRequired && strings.TrimSpace(s.ClarificationQuestion) != ""
}

// JourneyTable is the ordered list of steps for one domain
type JourneyTable struct {
	Domain Domain        `json:"domain"`
	Steps  []JourneyStep `json:"steps"`
}

// Clone returns a copy of the table that shares no steps with the original
func (t *JourneyTable) Clone() *JourneyTable {
	clone := &JourneyTable{Domain: t.Domain}
	if t.Steps != nil {
		clone.Steps = make([]JourneyStep, len(t.Steps))
		copy(clone.Steps, t.Steps)
	}
	return clone
}

// MaxStepID returns the highest step id in the table, 0 for an empty table
func (t *JourneyTable) MaxStepID() int {
	max := 0
	for _, s := range t.Steps {
		if s.StepID > max {
			max = s.StepID
		}
	}
	return max
}

// Validate checks that step ids are unique and contiguous starting at 1
func (t *JourneyTable) Validate() error {
	if len(t.Steps) == 0 {
		return fmt.Errorf("journey table has no steps")
	}
	seen := make(map[int]bool, len(t.Steps))
	for _, s := range t.Steps {
		if seen[s.StepID] {
			return fmt.Errorf("duplicate step id %d", s.StepID)
		}
		seen[s.StepID] = true
	}
	for i := 1; i <= len(t.Steps); i++ {
		if !seen[i] {
			return fmt.Errorf("step ids are not contiguous, missing step %d", i)
		}
	}
	return nil
}

// NewJourneyTableFromCSV parses a journey table with the standard headers.
// Rows are sorted by step id and the table is validated.
func NewJourneyTableFromCSV(r io.Reader, domain Domain) (*JourneyTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, helper.NewError("read journey csv", err)
	}
	if len(records) == 0 {
		return nil, helper.NewError("read journey csv", errors.New("missing header row"))
	}

	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{ColumnStepID, ColumnStepName} {
		if _, ok := index[strings.ToLower(required)]; !ok {
			return nil, helper.NewError("read journey csv", fmt.Errorf("missing column %q", required))
		}
	}

	field := func(record []string, column string) string {
		i, ok := index[strings.ToLower(column)]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	table := &JourneyTable{Domain: domain}
	for line, record := range records[1:] {
		stepID, err := strconv.Atoi(field(record, ColumnStepID))
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("parse step id on row %d", line+2), err)
		}

		table.Steps = append(table.Steps, JourneyStep{
			Domain:                domain,
			StepID:                stepID,
			StepName:              field(record, ColumnStepName),
			Description:           field(record, ColumnDescription),
			EstimatedTime:         field(record, ColumnEstimatedTime),
			StuckPoints:           field(record, ColumnStuckPoints),
			Resources:             field(record, ColumnResources),
			DecisionRequired:      parseYesNo(field(record, ColumnDecisionRequired)),
			ClarificationQuestion: field(record, ColumnClarificationQuestions),
		})
	}

	sort.Slice(table.Steps, func(i, j int) bool {
		return table.Steps[i].StepID < table.Steps[j].StepID
	})

	if err := table.Validate(); err != nil {
		return nil, helper.NewError("validate journey table", err)
	}

	return table, nil
}

// NewJourneyTableFromFile reads a journey table CSV from disk
func NewJourneyTableFromFile(filePath string, domain Domain) (*JourneyTable, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return NewJourneyTableFromCSV(file, domain)
}

func parseYesNo(value string) bool {
	switch strings.ToLower(value) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}
