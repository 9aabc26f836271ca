package models

// GraphNode is a node of a graph snapshot, keyed by its element id.
type GraphNode struct {
	ID         string                 `json:"id"`
	Labels     []string               `json:"labels"`
	Properties map[string]interface{} `json:"properties"`
}

// Edge is a directed relationship between two GraphNodes.
type Edge struct {
	ID         string                 `json:"id"`
	Source     string                 `json:"source"`
	Target     string                 `json:"target"`
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
}

// GraphResult is a de-duplicated set of nodes and edges.
type GraphResult struct {
	Nodes []*GraphNode `json:"nodes"`
	Edges []*Edge      `json:"edges"`
}

// CountEdges returns how many edges of the given type the result holds.
func (g *GraphResult) CountEdges(relType string) int {
	n := 0
	for _, e := range g.Edges {
		if e.Type == relType {
			n++
		}
	}
	return n
}

// CountNodes returns how many nodes carry the given label.
func (g *GraphResult) CountNodes(label string) int {
	n := 0
	for _, node := range g.Nodes {
		for _, l := range node.Labels {
			if l == label {
				n++
				break
			}
		}
	}
	return n
}
