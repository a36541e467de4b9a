package pipeline

import (
	"fmt"

	"github.com/siherrmann/carepath/core/coverage"
	"github.com/siherrmann/carepath/core/graph"
	"github.com/siherrmann/carepath/core/journey"
	"github.com/siherrmann/carepath/helper"
	"github.com/siherrmann/carepath/model"
)

// DetectFunc maps free text to a care domain
type DetectFunc func(text string) model.Domain

// InferFunc maps free text to a step of the domain's journey table and
// returns the clarification questions for that step
type InferFunc func(text string, domain model.Domain, table *model.JourneyTable) (int, []string)

// ExtractFunc turns a table header into a normalised column set
type ExtractFunc func(header []string) map[string]bool

// EvaluateFunc computes ontology coverage for a column set
type EvaluateFunc func(ontology *model.Ontology, columns map[string]bool) *model.CoverageResult

// ProjectFunc builds a declarative graph from an ontology and its coverage
type ProjectFunc func(ontology *model.Ontology, coverage *model.CoverageResult, config model.CoverageConfig) *model.Graph

// JourneyPipeline chains domain detection, step inference and journey lookup
type JourneyPipeline struct {
	Detector   DetectFunc
	Inferencer InferFunc
}

// NewJourneyPipeline creates a journey pipeline from the given functions
func NewJourneyPipeline(detector DetectFunc, inferencer InferFunc) *JourneyPipeline {
	return &JourneyPipeline{
		Detector:   detector,
		Inferencer: inferencer,
	}
}

// DefaultJourneyPipeline uses the keyword detector and rule table inferencer
func DefaultJourneyPipeline() *JourneyPipeline {
	return NewJourneyPipeline(journey.DetectDomain, journey.Infer)
}

// Process classifies text against the journey table of the detected domain
func (p *JourneyPipeline) Process(text string, tables map[model.Domain]*model.JourneyTable) (*model.ClassificationResult, error) {
	if p.Detector == nil || p.Inferencer == nil {
		return nil, helper.NewError("journey pipeline", fmt.Errorf("detector and inferencer must be set"))
	}

	domain := p.Detector(text)

	table, ok := tables[domain]
	if !ok || table == nil {
		return nil, helper.NewError("journey pipeline", fmt.Errorf("no journey table for domain %s", domain))
	}

	stepID, clarifications := p.Inferencer(text, domain, table)

	step, err := journey.StepInfo(table, stepID)
	if err != nil {
		return nil, helper.NewError("journey pipeline", err)
	}

	if clarifications == nil {
		clarifications = []string{}
	}

	return &model.ClassificationResult{
		Domain:         domain,
		StepID:         stepID,
		Clarifications: clarifications,
		Step:           *step,
		Next:           journey.NextStep(table, stepID),
	}, nil
}

// CoveragePipeline chains column extraction, coverage evaluation and graph projection
type CoveragePipeline struct {
	Extractor ExtractFunc
	Evaluator EvaluateFunc
	Projector ProjectFunc // Optional
}

// NewCoveragePipeline creates a coverage pipeline from the given functions
func NewCoveragePipeline(extractor ExtractFunc, evaluator EvaluateFunc) *CoveragePipeline {
	return &CoveragePipeline{
		Extractor: extractor,
		Evaluator: evaluator,
	}
}

// DefaultCoveragePipeline uses case-folded column sets and graph projection
func DefaultCoveragePipeline() *CoveragePipeline {
	p := NewCoveragePipeline(coverage.ExtractColumns, coverage.Evaluate)
	p.SetProjector(graph.Project)
	return p
}

// SetProjector sets the graph projection function
func (p *CoveragePipeline) SetProjector(projector ProjectFunc) {
	p.Projector = projector
}

// CoverageOutput contains the coverage of a header and optionally its graph
type CoverageOutput struct {
	Columns  map[string]bool
	Coverage *model.CoverageResult
	Graph    *model.Graph
}

// Process evaluates a header against the ontology. The graph is only
// projected when a projector is set.
func (p *CoveragePipeline) Process(ontology *model.Ontology, header []string, config model.CoverageConfig) (*CoverageOutput, error) {
	if p.Extractor == nil || p.Evaluator == nil {
		return nil, helper.NewError("coverage pipeline", fmt.Errorf("extractor and evaluator must be set"))
	}
	if ontology == nil {
		return nil, helper.NewError("coverage pipeline", fmt.Errorf("ontology is nil"))
	}

	columns := p.Extractor(header)
	result := p.Evaluator(ontology, columns)

	output := &CoverageOutput{
		Columns:  columns,
		Coverage: result,
	}
	if p.Projector != nil {
		output.Graph = p.Projector(ontology, result, config)
	}

	return output, nil
}
