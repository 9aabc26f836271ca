package neotpch

import (
	"context"
	"fmt"
	"strings"

	"github.com/saulfrancisco-ruizacevedo/gocypher"
	"github.com/sirupsen/logrus"
)

// ConstraintDef is a uniqueness constraint on one node property.
type ConstraintDef struct {
	Label    string
	Property string
}

// Statement returns the DDL that creates the constraint.
func (c ConstraintDef) Statement() string {
	return fmt.Sprintf("CREATE CONSTRAINT FOR (x:%s) REQUIRE x.%s IS UNIQUE", c.Label, c.Property)
}

// IndexDef is a named secondary index on a node label or relationship type.
type IndexDef struct {
	Name         string
	Target       string
	Properties   []string
	Relationship bool
}

// Statement returns the DDL that creates the index.
func (i IndexDef) Statement() string {
	props := make([]string, 0, len(i.Properties))
	for _, p := range i.Properties {
		props = append(props, "x."+p)
	}
	pattern := fmt.Sprintf("(x:%s)", i.Target)
	if i.Relationship {
		pattern = fmt.Sprintf("()-[x:%s]->()", i.Target)
	}
	return fmt.Sprintf("CREATE INDEX %s FOR %s ON (%s)", i.Name, pattern, strings.Join(props, ", "))
}

// Constraints are the unique keys of the TPC-H entities.
var Constraints = []ConstraintDef{
	{Label: "Part", Property: "partkey"},
	{Label: "Sup", Property: "suppkey"},
	{Label: "Customer", Property: "custkey"},
	{Label: "Order", Property: "orderkey"},
	{Label: "Nation", Property: "nationkey"},
	{Label: "Region", Property: "regionkey"},
}

// Indexes back the filters used by the canned queries.
var Indexes = []IndexDef{
	{Name: "shipdate", Target: "LINE_ITEM", Properties: []string{"shipdate"}, Relationship: true},
	{Name: "size_type", Target: "Part", Properties: []string{"size", "type"}},
	{Name: "name", Target: "Region", Properties: []string{"name"}},
	{Name: "c_mktsegment", Target: "Customer", Properties: []string{"mktsegment"}},
	{Name: "o_orderdate", Target: "Order", Properties: []string{"orderdate"}},
}

// SchemaObject describes a constraint or index as reported by the server.
type SchemaObject struct {
	Name             string
	Type             string
	EntityType       string
	LabelsOrTypes    []string
	Properties       []string
	OwningConstraint string
}

// ListConstraints returns the constraints currently defined on the server.
func ListConstraints(ctx context.Context, runner DBRunner) ([]SchemaObject, error) {
	return listSchema(ctx, runner,
		"SHOW CONSTRAINTS YIELD name, type, entityType, labelsOrTypes, properties RETURN *")
}

// ListIndexes returns the indexes currently defined on the server, including
// the ones that back uniqueness constraints.
func ListIndexes(ctx context.Context, runner DBRunner) ([]SchemaObject, error) {
	return listSchema(ctx, runner,
		"SHOW INDEXES YIELD name, type, entityType, labelsOrTypes, properties, owningConstraint RETURN *")
}

func listSchema(ctx context.Context, runner DBRunner, query string) ([]SchemaObject, error) {
	result, err := runner.Run(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	objects := make([]SchemaObject, 0, len(result.Records))
	for _, record := range result.Records {
		m := record.AsMap()
		objects = append(objects, SchemaObject{
			Name:             asString(m["name"]),
			Type:             asString(m["type"]),
			EntityType:       asString(m["entityType"]),
			LabelsOrTypes:    asStrings(m["labelsOrTypes"]),
			Properties:       asStrings(m["properties"]),
			OwningConstraint: asString(m["owningConstraint"]),
		})
	}
	return objects, nil
}

// DropConstraints drops every constraint by name and reports how many were dropped.
func DropConstraints(ctx context.Context, runner DBRunner) (int, error) {
	constraints, err := ListConstraints(ctx, runner)
	if err != nil {
		return 0, fmt.Errorf("could not list constraints: %w", err)
	}
	for i, c := range constraints {
		if _, err := runner.Run(ctx, "DROP CONSTRAINT "+quoteName(c.Name), nil); err != nil {
			return i, fmt.Errorf("could not drop constraint %s: %w", c.Name, err)
		}
	}
	return len(constraints), nil
}

// DropIndexes drops every index by name and reports how many were dropped.
// Indexes owned by constraints are gone already once DropConstraints ran.
func DropIndexes(ctx context.Context, runner DBRunner) (int, error) {
	indexes, err := ListIndexes(ctx, runner)
	if err != nil {
		return 0, fmt.Errorf("could not list indexes: %w", err)
	}
	for i, idx := range indexes {
		if _, err := runner.Run(ctx, "DROP INDEX "+quoteName(idx.Name), nil); err != nil {
			return i, fmt.Errorf("could not drop index %s: %w", idx.Name, err)
		}
	}
	return len(indexes), nil
}

// ClearDatabase deletes every node together with its relationships.
func ClearDatabase(ctx context.Context, runner DBRunner) error {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", "")).
		DetachDelete("n").
		Build()
	if err != nil {
		return fmt.Errorf("could not build clear query: %w", err)
	}
	if _, err := runner.Run(ctx, query, params); err != nil {
		return fmt.Errorf("could not clear database: %w", err)
	}
	return nil
}

// ResetSchema returns the database to an empty, schema-free state.
// Running it on an empty database changes nothing.
func ResetSchema(ctx context.Context, runner DBRunner) error {
	constraints, err := DropConstraints(ctx, runner)
	if err != nil {
		return err
	}
	indexes, err := DropIndexes(ctx, runner)
	if err != nil {
		return err
	}
	if err := ClearDatabase(ctx, runner); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"step":        "reset",
		"constraints": constraints,
		"indexes":     indexes,
	}).Info("Database reset")
	return nil
}

// ProvisionSchema creates the uniqueness constraints and then the secondary
// indexes. The first failing statement aborts provisioning.
func ProvisionSchema(ctx context.Context, runner DBRunner) error {
	for _, c := range Constraints {
		if _, err := runner.Run(ctx, c.Statement(), nil); err != nil {
			return fmt.Errorf("could not create constraint on %s.%s: %w", c.Label, c.Property, err)
		}
	}
	for _, idx := range Indexes {
		if _, err := runner.Run(ctx, idx.Statement(), nil); err != nil {
			return fmt.Errorf("could not create index %s: %w", idx.Name, err)
		}
	}
	logrus.WithFields(logrus.Fields{
		"step":        "provision",
		"constraints": len(Constraints),
		"indexes":     len(Indexes),
	}).Info("Indexes and constraints created")
	return nil
}

func quoteName(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
