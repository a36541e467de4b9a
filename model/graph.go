package model

import "github.com/google/uuid"

// StyleTag marks a node or edge for rendering
type StyleTag string

const (
	StyleCovered   StyleTag = "covered"
	StyleUncovered StyleTag = "uncovered"
)

// StyleFor returns the style tag for a coverage flag
func StyleFor(covered bool) StyleTag {
	if covered {
		return StyleCovered
	}
	return StyleUncovered
}

// GraphNode is an ontology entity projected for rendering
type GraphNode struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Style      StyleTag  `json:"style"`
	Color      string    `json:"color"`
	Intensity  float64   `json:"intensity"` // 0..1, gradient styling
	Attributes []string  `json:"attributes,omitempty"`
}

// GraphEdge is an ontology relationship projected for rendering
type GraphEdge struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Label     string   `json:"label"`
	Style     StyleTag `json:"style"`
	Color     string   `json:"color"`
	Intensity float64  `json:"intensity"`
}

// Graph is a declarative, layout-free graph. Layout and drawing belong to the caller.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Node returns the node with the given name or nil
func (g *Graph) Node(name string) *GraphNode {
	for i := range g.Nodes {
		if g.Nodes[i].Name == name {
			return &g.Nodes[i]
		}
	}
	return nil
}
