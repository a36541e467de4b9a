package journey

import (
	"errors"
	"fmt"

	"github.com/siherrmann/carepath/helper"
	"github.com/siherrmann/carepath/model"
)

// ErrStepNotFound is returned when no step of a table carries the requested id
var ErrStepNotFound = errors.New("step not found")

// StepInfo returns the step with exactly the given id
func StepInfo(table *model.JourneyTable, stepID int) (*model.JourneyStep, error) {
	if table != nil {
		for i := range table.Steps {
			if table.Steps[i].StepID == stepID {
				return &table.Steps[i], nil
			}
		}
	}
	return nil, helper.NewError(fmt.Sprintf("step info %d", stepID), ErrStepNotFound)
}

// NextStep returns the step following stepID, nil if stepID is the final step
func NextStep(table *model.JourneyTable, stepID int) *model.JourneyStep {
	next, err := StepInfo(table, stepID+1)
	if err != nil {
		return nil
	}
	return next
}
