// Package neotpch loads a small TPC-H style dataset into Neo4j and runs the
// canned analytical queries against it, printing the server's plan and rows.
package neotpch

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// DBRunner defines the interface for a generic query executor.
// Every component of the harness receives one explicitly, which keeps the
// single database session out of package state and lets tests substitute it.
type DBRunner interface {
	// Run executes a given Cypher query with parameters and returns a fully-buffered result.
	Run(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error)
}

//---

// Neo4jExecutor is the concrete DBRunner backed by the official Neo4j Go
// driver. It owns the driver and the one session every statement goes through.
type Neo4jExecutor struct {
	Driver  neo4j.DriverWithContext
	Session neo4j.SessionWithContext
	DBName  string
}

// NewNeo4jExecutor creates the driver with basic auth and opens a session on
// the named database. It does not touch the network; call Verify for that.
//
// Parameters:
//   - uri: The connection URI for the Neo4j instance (e.g., "neo4j://localhost:7687").
//   - username: The username for authentication.
//   - password: The password for authentication.
//   - dbName: The name of the database to connect to (e.g., "neo4j").
func NewNeo4jExecutor(ctx context.Context, uri, username, password, dbName string) (*Neo4jExecutor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create Neo4j driver: %w", err)
	}
	session := driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: dbName})
	return &Neo4jExecutor{Driver: driver, Session: session, DBName: dbName}, nil
}

// Verify checks the connectivity to the Neo4j server. A single attempt is made.
func (e *Neo4jExecutor) Verify(ctx context.Context) error {
	return e.Driver.VerifyConnectivity(ctx)
}

// Run executes a Cypher statement in auto-commit mode on the executor's
// session. Schema commands (SHOW, CREATE/DROP CONSTRAINT) are only accepted
// outside explicit transactions, so managed transactions are not used here.
//
// The whole result is buffered and the summary consumed before returning, so
// the returned EagerResult carries the plan for EXPLAIN statements.
func (e *Neo4jExecutor) Run(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	result, err := e.Session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}

	keys, err := result.Keys()
	if err != nil {
		return nil, fmt.Errorf("error reading result keys: %w", err)
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("error collecting neo4j records: %w", err)
	}
	summary, err := result.Consume(ctx)
	if err != nil {
		return nil, fmt.Errorf("error consuming neo4j result: %w", err)
	}

	return &neo4j.EagerResult{Keys: keys, Records: records, Summary: summary}, nil
}

// Close releases the session and then the driver. Both are attempted; the
// first error is reported.
func (e *Neo4jExecutor) Close(ctx context.Context) error {
	sessErr := e.Session.Close(ctx)
	drvErr := e.Driver.Close(ctx)
	if sessErr != nil {
		return fmt.Errorf("could not close session: %w", sessErr)
	}
	if drvErr != nil {
		return fmt.Errorf("could not close driver: %w", drvErr)
	}
	return nil
}
