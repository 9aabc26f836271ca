package neotpch

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// fakeRunner records every statement and answers from a list of handlers.
// The first handler whose prefix matches the statement wins; unmatched
// statements get an empty result.
type fakeRunner struct {
	queries  []string
	params   []map[string]interface{}
	handlers []fakeHandler
}

type fakeHandler struct {
	prefix string
	result *neo4j.EagerResult
	err    error
}

func (f *fakeRunner) on(prefix string, result *neo4j.EagerResult, err error) *fakeRunner {
	f.handlers = append(f.handlers, fakeHandler{prefix: prefix, result: result, err: err})
	return f
}

func (f *fakeRunner) Run(_ context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	f.queries = append(f.queries, query)
	f.params = append(f.params, params)
	for _, h := range f.handlers {
		if strings.HasPrefix(query, h.prefix) {
			if h.err != nil {
				return nil, h.err
			}
			return h.result, nil
		}
	}
	return &neo4j.EagerResult{}, nil
}

// fakeSummary overrides only Plan; other methods are never called in tests.
type fakeSummary struct {
	neo4j.ResultSummary
	plan neo4j.Plan
}

func (s fakeSummary) Plan() neo4j.Plan { return s.plan }

type fakePlan struct {
	operator string
	args     map[string]any
	children []neo4j.Plan
}

func (p fakePlan) Operator() string          { return p.operator }
func (p fakePlan) Arguments() map[string]any { return p.args }
func (p fakePlan) Identifiers() []string     { return nil }
func (p fakePlan) Children() []neo4j.Plan    { return p.children }

func records(keys []string, rows ...[]any) *neo4j.EagerResult {
	result := &neo4j.EagerResult{Keys: keys}
	for _, row := range rows {
		result.Records = append(result.Records, &neo4j.Record{Keys: keys, Values: row})
	}
	return result
}

func nodeResult(nodes ...neo4j.Node) *neo4j.EagerResult {
	rows := make([][]any, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []any{n})
	}
	return records([]string{"n"}, rows...)
}
