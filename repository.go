package neotpch

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

// ErrNotFound is returned by lookups when no node matches.
var ErrNotFound = errors.New("record not found")

// Repository reads one entity type T from the graph. T's `crud` tags say
// which label it lives under and which property is its unique key.
type Repository[T any] struct {
	runner DBRunner
	meta   *entityMetadata
}

// NewRepository creates a repository for T using runner for every query.
// It fails when T's struct tags are invalid.
func NewRepository[T any](runner DBRunner) (*Repository[T], error) {
	meta, err := parseTags[T]()
	if err != nil {
		return nil, err
	}
	return &Repository[T]{
		runner: runner,
		meta:   meta,
	}, nil
}

// Label returns the node label T is stored under.
func (r *Repository[T]) Label() string {
	return r.meta.Label
}

// FindByKey retrieves the single entity whose unique key equals key.
//
// Returns:
//
//	The entity, ErrNotFound if no node matches, or an error when more than one
//	node matches (the uniqueness constraint is missing) or mapping fails.
func (r *Repository[T]) FindByKey(ctx context.Context, key interface{}) (*T, error) {
	props := map[string]interface{}{r.meta.KeyProp: key}
	qb := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", r.meta.Label).WithProperties(props)).
		Return("n")

	entities, err := r.find(ctx, qb)
	if err != nil {
		return nil, err
	}
	switch len(entities) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return entities[0], nil
	default:
		return nil, fmt.Errorf("expected 1 %s with %s=%v but found %d", r.meta.Label, r.meta.KeyProp, key, len(entities))
	}
}

// FindAll returns every node of T's label.
func (r *Repository[T]) FindAll(ctx context.Context) ([]*T, error) {
	qb := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", r.meta.Label)).
		Return("n")
	return r.find(ctx, qb)
}

// Count returns the number of nodes with T's label.
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", r.meta.Label)).
		Return("count(n) AS total").
		Build()
	if err != nil {
		return 0, fmt.Errorf("could not build query: %w", err)
	}
	result, err := r.runner.Run(ctx, query, params)
	if err != nil {
		return 0, err
	}
	if len(result.Records) != 1 {
		return 0, fmt.Errorf("expected 1 count record but found %d", len(result.Records))
	}
	total, ok := result.Records[0].Get("total")
	if !ok {
		return 0, fmt.Errorf("could not find return value 'total' in query result")
	}
	n, ok := total.(int64)
	if !ok {
		return 0, fmt.Errorf("return value 'total' is %T, not int64", total)
	}
	return n, nil
}

// find runs qb, which must return the node under the alias "n".
func (r *Repository[T]) find(ctx context.Context, qb *gocypher.QueryBuilder) ([]*T, error) {
	query, params, err := qb.Build()
	if err != nil {
		return nil, fmt.Errorf("could not build query: %w", err)
	}
	result, err := r.runner.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	entities := make([]*T, 0, len(result.Records))
	for _, record := range result.Records {
		nodeValue, ok := record.Get("n")
		if !ok {
			return nil, fmt.Errorf("could not find return value 'n' in query result")
		}
		node, ok := nodeValue.(neo4j.Node)
		if !ok {
			return nil, fmt.Errorf("return value 'n' is not a node")
		}

		entity := new(T)
		if err := mapNodeToStruct(node, entity, r.meta); err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// mapNodeToStruct copies node properties into entity's tagged fields.
// Properties missing from the node leave the field at its zero value.
func mapNodeToStruct(node neo4j.Node, entity any, meta *entityMetadata) error {
	val := reflect.ValueOf(entity).Elem()

	for fieldName, propName := range meta.Mappings {
		field := val.FieldByName(fieldName)
		if !field.IsValid() || !field.CanSet() {
			continue
		}
		propValue, ok := node.Props[propName]
		if !ok || propValue == nil {
			continue
		}

		pv := reflect.ValueOf(propValue)
		switch {
		case pv.Type().AssignableTo(field.Type()):
			field.Set(pv)
		case pv.Type().ConvertibleTo(field.Type()) && pv.Kind() == field.Kind():
			field.Set(pv.Convert(field.Type()))
		default:
			return fmt.Errorf("property %s of %s is %T, cannot be stored in field %s (%s)",
				propName, meta.Label, propValue, fieldName, field.Type())
		}
	}
	return nil
}
