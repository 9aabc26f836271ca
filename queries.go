package neotpch

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed assets/queries.yaml
var defaultCatalog []byte

// ErrUnknownQuery is returned by Lookup for names not in the catalog.
var ErrUnknownQuery = errors.New("unknown query")

// reservedNames are shell commands a query may not shadow.
var reservedNames = map[string]bool{"exit": true, "graph": true, "lookup": true}

// Query is one canned analytical query.
type Query struct {
	Name   string `yaml:"name"`
	Title  string `yaml:"title"`
	Cypher string `yaml:"cypher"`
}

// Catalog holds the queries an operator can pick from, in file order.
type Catalog struct {
	Queries []Query `yaml:"queries"`

	byName map[string]int
}

// ParseCatalog decodes a YAML catalog and validates it.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("could not parse query catalog: %w", err)
	}
	if len(c.Queries) == 0 {
		return nil, errors.New("query catalog is empty")
	}

	c.byName = make(map[string]int, len(c.Queries))
	for i, q := range c.Queries {
		name := strings.TrimSpace(q.Name)
		switch {
		case name == "":
			return nil, fmt.Errorf("query #%d has no name", i+1)
		case reservedNames[name]:
			return nil, fmt.Errorf("query name %q is reserved", name)
		case strings.TrimSpace(q.Cypher) == "":
			return nil, fmt.Errorf("query %s has no cypher text", name)
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("query %s is defined twice", name)
		}
		c.Queries[i].Name = name
		c.byName[name] = i
	}
	return &c, nil
}

// LoadCatalog reads the catalog at path, or the built-in one when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read query catalog: %w", err)
	}
	return ParseCatalog(data)
}

// Lookup returns the query with exactly the given name.
func (c *Catalog) Lookup(name string) (Query, error) {
	i, ok := c.byName[name]
	if !ok {
		return Query{}, fmt.Errorf("%w: %s", ErrUnknownQuery, name)
	}
	return c.Queries[i], nil
}

// Names lists the query names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Queries))
	for _, q := range c.Queries {
		names = append(names, q.Name)
	}
	return names
}
