package neotpch

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

//go:embed assets/fixture.cypher
var defaultFixture string

// DefaultFixture returns the built-in seed statement: two of each entity and
// the relationships between them.
func DefaultFixture() string {
	return defaultFixture
}

// ReadFixture returns the statement stored at path, or the built-in fixture
// when path is empty.
func ReadFixture(path string) (string, error) {
	if path == "" {
		return defaultFixture, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read fixture file: %w", err)
	}
	return string(data), nil
}

// LoadFixture inserts the fixture in a single statement. Loading it twice
// without a reset violates the uniqueness constraints and the server's error
// is returned.
func LoadFixture(ctx context.Context, runner DBRunner, statement string) error {
	if strings.TrimSpace(statement) == "" {
		return errors.New("fixture statement is empty")
	}
	result, err := runner.Run(ctx, statement, nil)
	if err != nil {
		return fmt.Errorf("could not load fixture: %w", err)
	}

	entry := logrus.WithField("step", "fixture")
	if result != nil && result.Summary != nil {
		counters := result.Summary.Counters()
		entry = entry.WithFields(logrus.Fields{
			"nodes":         counters.NodesCreated(),
			"relationships": counters.RelationshipsCreated(),
		})
	}
	entry.Info("Nodes and relationships created")
	return nil
}
