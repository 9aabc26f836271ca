package neotpch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T, runner *fakeRunner, input string) (*Shell, *bytes.Buffer) {
	t.Helper()
	catalog, err := LoadCatalog("")
	require.NoError(t, err)
	manager, err := NewManager(runner)
	require.NoError(t, err)

	var out bytes.Buffer
	return &Shell{
		Runner:  runner,
		Catalog: catalog,
		Manager: manager,
		In:      strings.NewReader(input),
		Out:     &out,
	}, &out
}

func TestShellExit(t *testing.T) {
	runner := &fakeRunner{}
	shell, out := newTestShell(t, runner, "exit\nQ1\n")

	require.NoError(t, shell.Run(context.Background()))
	assert.Empty(t, runner.queries)
	assert.Equal(t, "Enter the query to run (or 'exit' to quit):\n[Q1, Q2, Q3, Q4]\n", out.String())
}

func TestShellInvalidInputReprompts(t *testing.T) {
	runner := &fakeRunner{}
	shell, out := newTestShell(t, runner, "Q9\n\n  \nexit\n")

	require.NoError(t, shell.Run(context.Background()))
	assert.Empty(t, runner.queries, "invalid input must not reach the database")
	assert.Contains(t, out.String(), "Invalid query: Q9\n")
	assert.Equal(t, 2, strings.Count(out.String(), "Invalid query: \n"), "blank lines are invalid queries")
	assert.Equal(t, 4, strings.Count(out.String(), "Enter the query to run"))
}

func TestShellCommandsMatchWholeLine(t *testing.T) {
	runner := &fakeRunner{}
	shell, out := newTestShell(t, runner, "exit now\ngraph x\n  exit  \nQ1\n")

	require.NoError(t, shell.Run(context.Background()))
	assert.Empty(t, runner.queries)
	assert.Contains(t, out.String(), "Invalid query: exit now\n")
	assert.Contains(t, out.String(), "Invalid query: graph x\n")
	assert.Equal(t, 3, strings.Count(out.String(), "Enter the query to run"))
}

func TestShellRunsCatalogQuery(t *testing.T) {
	runner := (&fakeRunner{}).
		on("EXPLAIN ", &neo4j.EagerResult{Summary: fakeSummary{plan: fakePlan{operator: "ProduceResults@neo4j"}}}, nil).
		on("MATCH (o:Order)", records([]string{"l_returnflag", "sum_qty"}, []any{"Y", 10.5}), nil)
	shell, out := newTestShell(t, runner, " Q1 \nexit\n")

	require.NoError(t, shell.Run(context.Background()))

	q1, err := shell.Catalog.Lookup("Q1")
	require.NoError(t, err)
	assert.Equal(t, []string{"EXPLAIN " + q1.Cypher, q1.Cypher}, runner.queries)
	assert.Contains(t, out.String(), "- ProduceResults@neo4j: {}\n")
	assert.Contains(t, out.String(), `<Record l_returnflag="Y" sum_qty=10.5>`)
}

func TestShellEOFEndsLoop(t *testing.T) {
	shell, _ := newTestShell(t, &fakeRunner{}, "Q7")
	assert.NoError(t, shell.Run(context.Background()))
}

func TestShellQueryErrorEndsLoop(t *testing.T) {
	unavailable := errors.New("service unavailable")
	runner := (&fakeRunner{}).on("EXPLAIN ", nil, unavailable)
	shell, _ := newTestShell(t, runner, "Q2\nQ3\nexit\n")

	err := shell.Run(context.Background())
	require.ErrorIs(t, err, unavailable)
	assert.True(t, strings.HasPrefix(err.Error(), "Q2:"))
	assert.Len(t, runner.queries, 1)
}

func TestShellLookup(t *testing.T) {
	runner := (&fakeRunner{}).on("MATCH", nodeResult(neo4j.Node{
		Props: map[string]any{"custkey": "C98765", "mktsegment": "SegmentA"},
	}), nil)
	shell, out := newTestShell(t, runner, "lookup Customer C98765\nlookup Widget 1\nlookup\nlookup Part P1 P2\nexit\n")

	require.NoError(t, shell.Run(context.Background()))
	assert.Contains(t, out.String(), "&{CustKey:C98765 MktSegment:SegmentA}\n")
	assert.Contains(t, out.String(), "Unknown label: Widget\n")
	assert.Equal(t, 2, strings.Count(out.String(), "Usage: lookup <Customer|Nation|Order|Part|Region|Sup> [key]\n"))
	assert.Len(t, runner.queries, 1)
}

func TestShellLookupListsLabel(t *testing.T) {
	runner := (&fakeRunner{}).on("MATCH", nodeResult(
		neo4j.Node{Props: map[string]any{"regionkey": "R1", "name": "Asia"}},
		neo4j.Node{Props: map[string]any{"regionkey": "R2", "name": "Europe"}},
	), nil)
	shell, out := newTestShell(t, runner, "lookup Region\nexit\n")

	require.NoError(t, shell.Run(context.Background()))
	require.Len(t, runner.queries, 1)
	assert.NotContains(t, runner.queries[0], "regionkey", "listing must not filter by key")
	assert.Contains(t, out.String(), "&{RegionKey:R1 Name:Asia}\n&{RegionKey:R2 Name:Europe}\n")
}

func TestShellLookupListsEmptyLabel(t *testing.T) {
	shell, out := newTestShell(t, (&fakeRunner{}).on("MATCH", nodeResult(), nil), "lookup Nation\nexit\n")
	require.NoError(t, shell.Run(context.Background()))
	assert.Contains(t, out.String(), "No Nation nodes.\n")
}

func TestShellLookupNotFound(t *testing.T) {
	runner := (&fakeRunner{}).on("MATCH", nodeResult(), nil)
	shell, out := newTestShell(t, runner, "lookup Part P00000\nexit\n")

	require.NoError(t, shell.Run(context.Background()))
	assert.Contains(t, out.String(), "No Part with key P00000.\n")
}

func TestShellGraph(t *testing.T) {
	runner := (&fakeRunner{}).on("MATCH (n) OPTIONAL", records([]string{"n", "r", "m"},
		[]any{neo4j.Node{ElementId: "r1", Labels: []string{"Region"}, Props: map[string]any{"name": "Asia"}}, nil, nil},
	), nil)
	shell, out := newTestShell(t, runner, "graph\nexit\n")

	require.NoError(t, shell.Run(context.Background()))
	assert.Contains(t, out.String(), `"id": "r1"`)
	assert.Contains(t, out.String(), `"edges": []`)
}

func TestShellGraphEmptyDatabase(t *testing.T) {
	shell, out := newTestShell(t, &fakeRunner{}, "graph\nexit\n")
	require.NoError(t, shell.Run(context.Background()))
	assert.Contains(t, out.String(), "The database is empty.\n")
}
