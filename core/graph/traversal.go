package graph

import (
	"fmt"

	"github.com/siherrmann/carepath/helper"
	"github.com/siherrmann/carepath/model"
)

// TraversalResult contains a node and its distance from the source
type TraversalResult struct {
	Node     *model.GraphNode
	Distance int
	Path     []string // entity names from source to this node
}

// BFS performs breadth-first search over the projected graph from the named entity.
// With coveredOnly set, only covered edges are followed. With followBidirectional
// set, edges are also walked from their target back to their source.
func BFS(g *model.Graph, source string, maxHops int, coveredOnly bool, followBidirectional bool) ([]*TraversalResult, error) {
	if g == nil {
		return nil, helper.NewError("bfs", fmt.Errorf("graph is nil"))
	}

	sourceNode := g.Node(source)
	if sourceNode == nil {
		return nil, helper.NewError("bfs", fmt.Errorf("node %s not found", source))
	}

	visited := map[string]bool{source: true}
	queue := []TraversalResult{{
		Node:     sourceNode,
		Distance: 0,
		Path:     []string{source},
	}}

	var results []*TraversalResult
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		results = append(results, &current)

		// Stop if we've reached max hops
		if current.Distance >= maxHops {
			continue
		}

		for _, edge := range g.Edges {
			if coveredOnly && edge.Style != model.StyleCovered {
				continue
			}

			var target string
			if edge.From == current.Node.Name {
				target = edge.To
			} else if followBidirectional && edge.To == current.Node.Name {
				target = edge.From
			} else {
				continue
			}

			if visited[target] {
				continue
			}

			targetNode := g.Node(target)
			if targetNode == nil {
				continue // dangling relationship endpoint
			}

			visited[target] = true

			newPath := make([]string, len(current.Path), len(current.Path)+1)
			copy(newPath, current.Path)
			newPath = append(newPath, target)

			queue = append(queue, TraversalResult{
				Node:     targetNode,
				Distance: current.Distance + 1,
				Path:     newPath,
			})
		}
	}

	return results, nil
}

// Neighbors retrieves the immediate neighbours (1-hop) of an entity
func Neighbors(g *model.Graph, name string, coveredOnly bool) ([]*model.GraphNode, error) {
	results, err := BFS(g, name, 1, coveredOnly, true)
	if err != nil {
		return nil, err
	}

	// Skip the source node itself (first result)
	neighbors := make([]*model.GraphNode, 0, len(results)-1)
	for i := 1; i < len(results); i++ {
		neighbors = append(neighbors, results[i].Node)
	}

	return neighbors, nil
}
