package neotpch

import (
	"context"
	"fmt"
	"io"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Explain asks the server for the plan of query without executing it.
// A nil PlanNode with a nil error means the server returned no plan.
func Explain(ctx context.Context, runner DBRunner, query string) (*PlanNode, error) {
	result, err := runner.Run(ctx, "EXPLAIN "+query, nil)
	if err != nil {
		return nil, fmt.Errorf("explain failed: %w", err)
	}
	if result == nil || result.Summary == nil {
		return nil, nil
	}
	return PlanFromDriver(result.Summary.Plan()), nil
}

// Execute runs query and returns every row it produced.
func Execute(ctx context.Context, runner DBRunner, query string) ([]*neo4j.Record, error) {
	result, err := runner.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	if result == nil {
		return nil, nil
	}
	return result.Records, nil
}

// RunQuery prints the execution plan of query and then its result rows to out.
// It blocks until the server has answered both statements.
func RunQuery(ctx context.Context, runner DBRunner, out io.Writer, query string) error {
	plan, err := Explain(ctx, runner, query)
	if err != nil {
		return err
	}
	if plan != nil {
		fmt.Fprintln(out, "Execution plan:")
		fmt.Fprint(out, RenderPlan(plan))
	} else {
		fmt.Fprintln(out, "No execution plan was returned.")
	}

	records, err := Execute(ctx, runner, query)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "The query returned no rows.")
		return nil
	}
	fmt.Fprintln(out, "Results:")
	for _, record := range records {
		fmt.Fprintln(out, FormatRecord(record))
	}
	return nil
}
