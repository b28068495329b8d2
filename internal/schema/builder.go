package schema

import (
	"fmt"

	"paper-extractor/internal/domain"
)

// Build returns the output schema for the given fields: one object per schema
// key holding a "values" array of {value, snippet, confidence} items.
func Build(set *FieldSet) *domain.SchemaDescriptor {
	root := &domain.SchemaDescriptor{
		Kind:       domain.SchemaObject,
		Properties: make(map[string]*domain.SchemaDescriptor, set.Len()),
		Required:   set.Keys(),
	}

	for i := 0; i < set.Len(); i++ {
		field, key := set.Field(i)
		root.Properties[key] = fieldDescriptor(field)
	}
	return root
}

func fieldDescriptor(field domain.FieldSpec) *domain.SchemaDescriptor {
	valuesDescription := "All distinct instances of this field found in the document"
	if field.DataType == domain.DataTypeList {
		valuesDescription = "Each list item as a separate entry with its own snippet and location. Do NOT group items into an array."
	}

	return &domain.SchemaDescriptor{
		Kind: domain.SchemaObject,
		Properties: map[string]*domain.SchemaDescriptor{
			"values": {
				Kind:        domain.SchemaArray,
				Description: valuesDescription,
				Items: &domain.SchemaDescriptor{
					Kind: domain.SchemaObject,
					Properties: map[string]*domain.SchemaDescriptor{
						"value": valueDescriptor(field),
						"snippet": {
							Kind:        domain.SchemaString,
							Description: "The immediate surrounding text/context to verify the extraction",
						},
						"confidence": {Kind: domain.SchemaNumber},
					},
					Required: []string{"value", "confidence", "snippet"},
				},
			},
		},
		Required: []string{"values"},
	}
}

// valueDescriptor picks the fixed template for the field's data type. Lists
// degrade to one string per item.
func valueDescriptor(field domain.FieldSpec) *domain.SchemaDescriptor {
	d := &domain.SchemaDescriptor{
		Description: fmt.Sprintf("The extracted value for %s", field.Name),
		Nullable:    true,
	}

	switch field.DataType {
	case domain.DataTypeNumber:
		d.Kind = domain.SchemaNumber
	case domain.DataTypeBoolean:
		d.Kind = domain.SchemaBoolean
	case domain.DataTypeList:
		d.Kind = domain.SchemaString
		d.Description = fmt.Sprintf("A single item from the %s list", field.Name)
	case domain.DataTypeDate:
		d.Kind = domain.SchemaString
		d.Description = fmt.Sprintf("The extracted value for %s, as an ISO 8601 date when possible", field.Name)
	default:
		d.Kind = domain.SchemaString
	}
	return d
}

// JSONSchema renders a descriptor as a JSON Schema document for local validation.
func JSONSchema(d *domain.SchemaDescriptor) map[string]any {
	out := map[string]any{}

	if d.Nullable {
		out["type"] = []any{string(d.Kind), "null"}
	} else {
		out["type"] = string(d.Kind)
	}
	if d.Description != "" {
		out["description"] = d.Description
	}

	switch d.Kind {
	case domain.SchemaObject:
		props := make(map[string]any, len(d.Properties))
		for name, p := range d.Properties {
			props[name] = JSONSchema(p)
		}
		out["properties"] = props
		if len(d.Required) > 0 {
			out["required"] = append([]string(nil), d.Required...)
		}
	case domain.SchemaArray:
		if d.Items != nil {
			out["items"] = JSONSchema(d.Items)
		}
	}
	return out
}
