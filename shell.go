package neotpch

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Shell is the interactive prompt: it reads one command per line and runs
// the matching catalog query until the operator types "exit".
type Shell struct {
	Runner  DBRunner
	Catalog *Catalog
	Manager *Manager
	In      io.Reader
	Out     io.Writer
}

// Run reads commands until "exit" or end of input and returns nil in both
// cases. A failing query ends the loop and its error is returned.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.In)
	for {
		s.prompt()
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)

		switch {
		case line == "exit":
			return nil
		case line == "graph":
			if err := s.printGraph(ctx); err != nil {
				return err
			}
			continue
		case len(fields) > 0 && fields[0] == "lookup":
			if err := s.lookup(ctx, fields[1:]); err != nil {
				return err
			}
			continue
		}

		q, err := s.Catalog.Lookup(line)
		if err != nil {
			fmt.Fprintf(s.Out, "Invalid query: %s\n", line)
			continue
		}
		logrus.WithField("query", q.Name).Debug("Running query")
		if err := RunQuery(ctx, s.Runner, s.Out, q.Cypher); err != nil {
			return fmt.Errorf("%s: %w", q.Name, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

func (s *Shell) prompt() {
	fmt.Fprintln(s.Out, "Enter the query to run (or 'exit' to quit):")
	fmt.Fprintf(s.Out, "[%s]\n", strings.Join(s.Catalog.Names(), ", "))
}

func (s *Shell) printGraph(ctx context.Context) error {
	if s.Manager == nil {
		fmt.Fprintln(s.Out, "Graph snapshots are not available.")
		return nil
	}
	graph, err := s.Manager.Snapshot(ctx)
	if errors.Is(err, ErrNotFound) {
		fmt.Fprintln(s.Out, "The database is empty.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("graph: %w", err)
	}
	out, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return fmt.Errorf("graph: %w", err)
	}
	fmt.Fprintln(s.Out, string(out))
	return nil
}

// lookup handles "lookup <Label> [key]": with a key it prints the one node
// holding that key, without one it lists every node of the label. Usage
// mistakes and missing nodes are reported and do not end the loop.
func (s *Shell) lookup(ctx context.Context, args []string) error {
	if s.Manager == nil {
		fmt.Fprintln(s.Out, "Lookups are not available.")
		return nil
	}
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintf(s.Out, "Usage: lookup <%s> [key]\n", strings.Join(s.Manager.Labels(), "|"))
		return nil
	}
	label := args[0]
	if !isKnownLabel(s.Manager, label) {
		fmt.Fprintf(s.Out, "Unknown label: %s\n", label)
		return nil
	}

	if len(args) == 1 {
		entities, err := s.Manager.FindAll(ctx, label)
		if err != nil {
			return fmt.Errorf("lookup: %w", err)
		}
		if len(entities) == 0 {
			fmt.Fprintf(s.Out, "No %s nodes.\n", label)
		}
		for _, entity := range entities {
			fmt.Fprintf(s.Out, "%+v\n", entity)
		}
		return nil
	}

	entity, err := s.Manager.FindByKey(ctx, label, args[1])
	if errors.Is(err, ErrNotFound) {
		fmt.Fprintf(s.Out, "No %s with key %s.\n", label, args[1])
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}
	fmt.Fprintf(s.Out, "%+v\n", entity)
	return nil
}

func isKnownLabel(m *Manager, label string) bool {
	_, ok := m.finders[label]
	return ok
}
