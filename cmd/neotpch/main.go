// Command neotpch seeds a Neo4j database with a tiny TPC-H style dataset and
// opens a prompt for running the canned analytical queries against it.
//
// Configuration is read from the environment (or a .env file):
//
//	NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD   required
//	NEO4J_DATABASE                          default "neo4j"
//	TPCH_RESET=true                         wipe, provision and seed on start
//	TPCH_QUERIES_FILE, TPCH_FIXTURE_FILE    replace the built-in data
//	TPCH_LOG_LEVEL                          logrus level, default "info"
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/saulfrancisco-ruizacevedo/neotpch"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetOutput(os.Stderr)

	cfg, err := neotpch.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logrus.SetLevel(cfg.LogLevel)

	ctx := context.Background()
	dbExecutor, err := connect(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("neotpch stopped")
	}
	if err := serve(ctx, cfg, dbExecutor, os.Stdin, os.Stdout); err != nil {
		logrus.WithError(err).Fatal("neotpch stopped")
	}
}

// connect opens the executor and checks the server is reachable. The
// executor is closed again when the check fails.
func connect(ctx context.Context, cfg *neotpch.Config) (*neotpch.Neo4jExecutor, error) {
	dbExecutor, err := neotpch.NewNeo4jExecutor(ctx, cfg.URI, cfg.User, cfg.Password, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := dbExecutor.Verify(ctx); err != nil {
		closeExecutor(ctx, dbExecutor)
		return nil, fmt.Errorf("could not connect to Neo4j server: %w", err)
	}
	logrus.WithFields(logrus.Fields{"uri": cfg.URI, "database": cfg.Database}).Info("Connected to Neo4j")
	return dbExecutor, nil
}

// serve optionally prepares the database and runs the prompt over in and
// out. It owns dbExecutor and closes it before returning.
func serve(ctx context.Context, cfg *neotpch.Config, dbExecutor *neotpch.Neo4jExecutor, in io.Reader, out io.Writer) error {
	defer closeExecutor(ctx, dbExecutor)

	catalog, err := neotpch.LoadCatalog(cfg.QueriesFile)
	if err != nil {
		return err
	}
	fixture, err := neotpch.ReadFixture(cfg.FixtureFile)
	if err != nil {
		return err
	}

	if cfg.Reset {
		harness := &neotpch.Harness{Runner: dbExecutor, Fixture: fixture}
		if err := harness.Prepare(ctx); err != nil {
			return err
		}
	} else {
		logrus.Warnf("%s is not set; using the database as it is", neotpch.EnvReset)
	}

	manager, err := neotpch.NewManager(dbExecutor)
	if err != nil {
		return err
	}

	shell := &neotpch.Shell{
		Runner:  dbExecutor,
		Catalog: catalog,
		Manager: manager,
		In:      in,
		Out:     out,
	}
	return shell.Run(ctx)
}

func closeExecutor(ctx context.Context, dbExecutor *neotpch.Neo4jExecutor) {
	if err := dbExecutor.Close(ctx); err != nil {
		logrus.WithError(err).Warn("Could not close database connection")
	}
}
