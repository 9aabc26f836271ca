package neotpch

import (
	"context"
	"fmt"
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
	"github.com/saulfrancisco-ruizacevedo/neotpch/models"
	"github.com/sirupsen/logrus"
)

// snapshotQuery returns every node and, where present, its outgoing relationships.
const snapshotQuery = "MATCH (n) OPTIONAL MATCH (n)-[r]->(m) RETURN n, r, m"

// finder reads one entity type, either by unique key or all at once.
type finder struct {
	byKey func(ctx context.Context, key string) (any, error)
	all   func(ctx context.Context) ([]any, error)
}

// Manager ties the harness operations to one DBRunner: keyed lookups over
// the TPC-H entities and graph snapshots.
type Manager struct {
	runner  DBRunner
	finders map[string]finder
}

// NewManager builds a Manager with a repository for every keyed entity.
func NewManager(runner DBRunner) (*Manager, error) {
	m := &Manager{runner: runner, finders: make(map[string]finder)}
	for _, register := range []func(*Manager) error{
		registerFinder[models.Part],
		registerFinder[models.Supplier],
		registerFinder[models.Customer],
		registerFinder[models.Order],
		registerFinder[models.Nation],
		registerFinder[models.Region],
	} {
		if err := register(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func registerFinder[T any](m *Manager) error {
	repo, err := RepositoryFor[T](m)
	if err != nil {
		return err
	}
	m.finders[repo.Label()] = finder{
		byKey: func(ctx context.Context, key string) (any, error) {
			return repo.FindByKey(ctx, key)
		},
		all: func(ctx context.Context) ([]any, error) {
			entities, err := repo.FindAll(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]any, 0, len(entities))
			for _, e := range entities {
				out = append(out, e)
			}
			return out, nil
		},
	}
	return nil
}

// RepositoryFor returns a repository for T that shares the Manager's runner.
func RepositoryFor[T any](m *Manager) (*Repository[T], error) {
	return NewRepository[T](m.runner)
}

// Labels lists the labels FindByKey and FindAll accept, sorted.
func (m *Manager) Labels() []string {
	labels := make([]string, 0, len(m.finders))
	for l := range m.finders {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// FindByKey looks up the node with the given label and unique key.
func (m *Manager) FindByKey(ctx context.Context, label, key string) (any, error) {
	f, ok := m.finders[label]
	if !ok {
		return nil, fmt.Errorf("no keyed entity with label %q", label)
	}
	return f.byKey(ctx, key)
}

// FindAll returns every node with the given label.
func (m *Manager) FindAll(ctx context.Context, label string) ([]any, error) {
	f, ok := m.finders[label]
	if !ok {
		return nil, fmt.Errorf("no keyed entity with label %q", label)
	}
	return f.all(ctx)
}

// FindGraph executes the query built by qb and collects the nodes and
// relationships it returns. Elements returned on several rows appear once.
// ErrNotFound is returned when the query yields no rows.
func (m *Manager) FindGraph(ctx context.Context, qb *gocypher.QueryBuilder) (*models.GraphResult, error) {
	query, params, err := qb.Build()
	if err != nil {
		return nil, fmt.Errorf("could not build query: %w", err)
	}
	return m.findGraph(ctx, query, params)
}

// Snapshot returns every node and relationship in the database.
func (m *Manager) Snapshot(ctx context.Context) (*models.GraphResult, error) {
	return m.findGraph(ctx, snapshotQuery, nil)
}

func (m *Manager) findGraph(ctx context.Context, query string, params map[string]interface{}) (*models.GraphResult, error) {
	eagerResult, err := m.runner.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(eagerResult.Records) == 0 {
		return nil, ErrNotFound
	}

	graph := &models.GraphResult{
		Nodes: make([]*models.GraphNode, 0),
		Edges: make([]*models.Edge, 0),
	}
	seenNodeIDs := make(map[string]bool)
	seenEdgeIDs := make(map[string]bool)

	for _, record := range eagerResult.Records {
		for _, value := range record.Values {
			switch v := value.(type) {
			case neo4j.Node:
				if !seenNodeIDs[v.ElementId] {
					graph.Nodes = append(graph.Nodes, &models.GraphNode{
						ID:         v.ElementId,
						Labels:     v.Labels,
						Properties: v.Props,
					})
					seenNodeIDs[v.ElementId] = true
				}
			case neo4j.Relationship:
				if !seenEdgeIDs[v.ElementId] {
					graph.Edges = append(graph.Edges, &models.Edge{
						ID:         v.ElementId,
						Source:     v.StartElementId,
						Target:     v.EndElementId,
						Type:       v.Type,
						Properties: v.Props,
					})
					seenEdgeIDs[v.ElementId] = true
				}
			}
		}
	}

	return graph, nil
}

// Harness runs the destructive setup sequence: reset, provision, seed.
type Harness struct {
	Runner  DBRunner
	Fixture string
}

// Prepare empties the database, recreates the schema and loads the fixture.
// The first failing step stops the sequence.
func (h *Harness) Prepare(ctx context.Context) error {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"reset", func(ctx context.Context) error { return ResetSchema(ctx, h.Runner) }},
		{"provision", func(ctx context.Context) error { return ProvisionSchema(ctx, h.Runner) }},
		{"fixture", func(ctx context.Context) error { return LoadFixture(ctx, h.Runner, h.Fixture) }},
	}
	for _, step := range steps {
		logrus.WithField("step", step.name).Debug("Starting setup step")
		if err := step.run(ctx); err != nil {
			logrus.WithField("step", step.name).WithError(err).Error("Setup step failed")
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}
