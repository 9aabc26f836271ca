package neotpch

import (
	"fmt"
	"reflect"
	"strings"
)

// entityMetadata holds the parsed `crud` tag information for an entity struct.
type entityMetadata struct {
	// Label is the node label. It defaults to the struct's name and can be
	// overridden with a `label:` component on any tagged field.
	Label string
	// KeyField is the struct field holding the unique key.
	KeyField string
	// KeyProp is the node property the unique key is stored under.
	KeyProp string
	// Mappings maps struct field names to node property names.
	Mappings map[string]string
}

// parseTagsFromType inspects typ and extracts its `crud` tags.
//
// Recognised components: `pk` marks the unique key, `property:<name>` names
// the node property, `label:<Label>` overrides the node label.
func parseTagsFromType(typ reflect.Type) (*entityMetadata, error) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("type %s is not a struct", typ.Name())
	}

	meta := &entityMetadata{
		Label:    typ.Name(),
		Mappings: make(map[string]string),
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("crud")
		if tag == "" {
			continue
		}

		isKey := false
		propName := ""
		for _, part := range strings.Split(tag, ",") {
			switch {
			case part == "pk":
				isKey = true
			case strings.HasPrefix(part, "property:"):
				propName = strings.TrimPrefix(part, "property:")
			case strings.HasPrefix(part, "label:"):
				meta.Label = strings.TrimPrefix(part, "label:")
			}
		}

		if propName == "" {
			return nil, fmt.Errorf("field %s is missing 'property' tag component", field.Name)
		}
		if isKey {
			if meta.KeyField != "" {
				return nil, fmt.Errorf("struct %s has more than one 'pk' field", typ.Name())
			}
			meta.KeyField = field.Name
			meta.KeyProp = propName
		}
		meta.Mappings[field.Name] = propName
	}

	if meta.KeyField == "" {
		return nil, fmt.Errorf("no primary key ('pk') tag defined for struct %s", typ.Name())
	}
	return meta, nil
}

func parseTags[T any]() (*entityMetadata, error) {
	var instance T
	return parseTagsFromType(reflect.TypeOf(instance))
}
