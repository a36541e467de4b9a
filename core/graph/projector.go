package graph

import (
	"github.com/google/uuid"
	"github.com/siherrmann/carepath/model"
)

// Project turns an ontology and its coverage into a declarative graph.
// Nodes and edges keep ontology order; relationships sharing an entity pair
// stay distinct edges.
func Project(ontology *model.Ontology, coverage *model.CoverageResult, config model.CoverageConfig) *model.Graph {
	graph := &model.Graph{
		Nodes: []model.GraphNode{},
		Edges: []model.GraphEdge{},
	}
	if ontology == nil {
		return graph
	}
	if coverage == nil {
		coverage = &model.CoverageResult{}
	}

	for _, entity := range ontology.Entities {
		covered := coverage.IsEntityCovered(entity.Name)

		intensity := binary(covered)
		if config.UseIntensity {
			intensity = coverage.EntityIntensity[entity.Name]
		}

		id := entity.ID
		if id == uuid.Nil {
			id = model.EntityID(ontology.Name, entity.Name)
		}

		graph.Nodes = append(graph.Nodes, model.GraphNode{
			ID:         id,
			Name:       entity.Name,
			Style:      model.StyleFor(covered),
			Color:      colorFor(covered, config),
			Intensity:  intensity,
			Attributes: entity.Attributes,
		})
	}

	for _, rel := range ontology.Relationships {
		covered := coverage.IsEdgeCovered(rel.From, rel.To)

		graph.Edges = append(graph.Edges, model.GraphEdge{
			From:      rel.From,
			To:        rel.To,
			Label:     rel.Type,
			Style:     model.StyleFor(covered),
			Color:     colorFor(covered, config),
			Intensity: binary(covered),
		})
	}

	return graph
}

func binary(covered bool) float64 {
	if covered {
		return 1
	}
	return 0
}

func colorFor(covered bool, config model.CoverageConfig) string {
	if covered {
		return config.CoveredColor
	}
	return config.UncoveredColor
}
