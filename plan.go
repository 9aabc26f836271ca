package neotpch

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// PlanNode is a single operator of the execution plan the server returned
// for an EXPLAIN statement.
type PlanNode struct {
	Operator    string
	Arguments   map[string]any
	Identifiers []string
	Children    []*PlanNode
}

// PlanFromDriver copies the driver's plan tree into PlanNodes.
// It returns nil when the server sent no plan.
func PlanFromDriver(p neo4j.Plan) *PlanNode {
	if p == nil {
		return nil
	}
	node := &PlanNode{
		Operator:    p.Operator(),
		Arguments:   p.Arguments(),
		Identifiers: p.Identifiers(),
	}
	for _, child := range p.Children() {
		node.Children = append(node.Children, PlanFromDriver(child))
	}
	return node
}

// RenderPlan returns the plan as an indented tree, depth-first, one operator
// per line with its argument map.
func RenderPlan(root *PlanNode) string {
	var sb strings.Builder
	root.format(&sb, 0)
	return sb.String()
}

func (n *PlanNode) format(sb *strings.Builder, depth int) {
	if n == nil {
		return
	}
	operator := n.Operator
	if operator == "" {
		operator = "UnknownOperator"
	}
	// Neo4j 4+ already tags operators with their runtime, e.g. "Filter@neo4j".
	if !strings.Contains(operator, "@") {
		operator += "@neo4j"
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString("- ")
	sb.WriteString(operator)
	sb.WriteString(": ")
	sb.WriteString(formatMap(n.Arguments))
	sb.WriteString("\n")

	for _, child := range n.Children {
		child.format(sb, depth+1)
	}
}

// FormatRecord renders one result row with its columns in result order.
func FormatRecord(record *neo4j.Record) string {
	parts := make([]string, 0, len(record.Keys))
	for i, key := range record.Keys {
		var value any
		if i < len(record.Values) {
			value = record.Values[i]
		}
		parts = append(parts, key+"="+formatValue(value))
	}
	return "<Record " + strings.Join(parts, " ") + ">"
}

// formatMap renders a map with sorted keys so output is stable between runs.
func formatMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+formatValue(m[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", val)
	case float64:
		return formatFloat(val)
	case neo4j.Date:
		return time.Time(val).Format("2006-01-02")
	case neo4j.Node:
		return fmt.Sprintf("(%s %s)", strings.Join(val.Labels, ":"), formatMap(val.Props))
	case neo4j.Relationship:
		return fmt.Sprintf("[%s %s]", val.Type, formatMap(val.Props))
	case map[string]any:
		return formatMap(val)
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			items = append(items, formatValue(item))
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return fmt.Sprint(val)
	}
}

// formatFloat keeps a decimal point on whole numbers so float columns read
// as floats ("1845.0", not "1845").
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}
