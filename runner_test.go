package neotpch

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleQuery = "MATCH (p:Part) RETURN p.partkey AS partkey"

func TestRunQueryPrintsPlanAndRows(t *testing.T) {
	plan := fakePlan{
		operator: "ProduceResults@neo4j",
		children: []neo4j.Plan{fakePlan{operator: "NodeByLabelScan@neo4j", args: map[string]any{"Details": "p:Part"}}},
	}
	runner := (&fakeRunner{}).
		on("EXPLAIN ", &neo4j.EagerResult{Summary: fakeSummary{plan: plan}}, nil).
		on("MATCH", records([]string{"partkey"}, []any{"P12345"}, []any{"P54321"}), nil)

	var out bytes.Buffer
	require.NoError(t, RunQuery(context.Background(), runner, &out, sampleQuery))

	assert.Equal(t, []string{"EXPLAIN " + sampleQuery, sampleQuery}, runner.queries)
	assert.Equal(t, "Execution plan:\n"+
		"- ProduceResults@neo4j: {}\n"+
		"  - NodeByLabelScan@neo4j: {Details: \"p:Part\"}\n"+
		"Results:\n"+
		"<Record partkey=\"P12345\">\n"+
		"<Record partkey=\"P54321\">\n", out.String())
}

func TestRunQueryWithoutPlanOrRows(t *testing.T) {
	runner := (&fakeRunner{}).
		on("EXPLAIN ", &neo4j.EagerResult{Summary: fakeSummary{}}, nil)

	var out bytes.Buffer
	require.NoError(t, RunQuery(context.Background(), runner, &out, sampleQuery))
	assert.Equal(t, "No execution plan was returned.\nThe query returned no rows.\n", out.String())
}

func TestRunQueryErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("explain", func(t *testing.T) {
		runner := (&fakeRunner{}).on("EXPLAIN ", nil, boom)
		var out bytes.Buffer
		err := RunQuery(context.Background(), runner, &out, sampleQuery)
		require.ErrorIs(t, err, boom)
		assert.Len(t, runner.queries, 1, "the query must not run when EXPLAIN fails")
		assert.Empty(t, out.String())
	})

	t.Run("execute", func(t *testing.T) {
		runner := (&fakeRunner{}).on("MATCH", nil, boom)
		var out bytes.Buffer
		err := RunQuery(context.Background(), runner, &out, sampleQuery)
		require.ErrorIs(t, err, boom)
		assert.Contains(t, out.String(), "No execution plan was returned.")
		assert.NotContains(t, out.String(), "Results:")
	})
}
