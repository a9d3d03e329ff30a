package router

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	timeType       = reflect.TypeOf(time.Time{})
	rawMessageType = reflect.TypeOf(json.RawMessage{})
)

// schemaRegistry converts Go types to JSON Schema and keeps one component
// per named struct type
type schemaRegistry struct {
	schemas map[string]map[string]any
}

// newSchemaRegistry creates a new schema registry
func newSchemaRegistry() *schemaRegistry {
	return &schemaRegistry{
		schemas: make(map[string]map[string]any),
	}
}

// getSchemas returns all registered schemas
func (r *schemaRegistry) getSchemas() map[string]any {
	result := make(map[string]any, len(r.schemas))
	for name, schema := range r.schemas {
		result[name] = schema
	}
	return result
}

// schemaRef returns the schema of the type of t: a reference for named
// structs, an inline schema for everything else
func (r *schemaRegistry) schemaRef(t any) map[string]any {
	if t == nil {
		return nil
	}

	return r.schemaFor(reflect.TypeOf(t))
}

// schemaFor converts a Go type to a JSON Schema
func (r *schemaRegistry) schemaFor(typ reflect.Type) map[string]any {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	// check for special types first
	switch typ {
	case timeType:
		return map[string]any{
			"type":   "string",
			"format": "date-time",
		}
	case rawMessageType:
		return map[string]any{
			"type": "object",
		}
	}

	if schema := basicTypeSchema(typ.Kind()); schema != nil {
		return schema
	}

	switch typ.Kind() {
	case reflect.Struct:
		if typ.Name() == "" {
			return r.structSchema(typ)
		}
		return r.register(typ)
	case reflect.Slice, reflect.Array:
		return map[string]any{
			"type":  "array",
			"items": r.schemaFor(typ.Elem()),
		}
	case reflect.Map:
		return map[string]any{
			"type":                 "object",
			"additionalProperties": r.schemaFor(typ.Elem()),
		}
	default:
		return map[string]any{"type": "object"}
	}
}

// register stores the schema of a named struct under its type name and
// returns a reference to it
func (r *schemaRegistry) register(typ reflect.Type) map[string]any {
	name := typ.Name()

	if _, exists := r.schemas[name]; !exists {
		// placeholder so self referencing types terminate
		r.schemas[name] = map[string]any{}
		r.schemas[name] = r.structSchema(typ)
	}

	return map[string]any{
		"$ref": fmt.Sprintf("#/components/schemas/%s", name),
	}
}

// structSchema converts a struct type to an object schema
func (r *schemaRegistry) structSchema(typ reflect.Type) map[string]any {
	properties := make(map[string]any)
	required := []string{}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		// skip unexported fields
		if field.PkgPath != "" {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name, isRequired := parseJsonTag(jsonTag, field.Name)
		if isRequired {
			required = append(required, name)
		}

		properties[name] = r.fieldSchema(field)
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// fieldSchema converts a struct field to a JSON Schema including the
// documentation carried by its tags
func (r *schemaRegistry) fieldSchema(field reflect.StructField) map[string]any {
	schema := r.schemaFor(field.Type)

	// references cannot carry sibling keywords
	if _, isRef := schema["$ref"]; isRef {
		return schema
	}

	addFieldMetadata(schema, field)

	return schema
}

// parseJsonTag extracts name and required status from a json tag
func parseJsonTag(jsonTag, fieldName string) (string, bool) {
	if jsonTag == "" {
		return fieldName, true
	}

	parts := strings.Split(jsonTag, ",")
	name := parts[0]
	if name == "" {
		name = fieldName
	}

	return name, !slices.Contains(parts[1:], "omitempty")
}

// addFieldMetadata adds documentation from struct tags to a schema
func addFieldMetadata(schema map[string]any, field reflect.StructField) {
	if docTag := field.Tag.Get("doc"); docTag != "" {
		schema["description"] = docTag
	}

	if exampleTag := field.Tag.Get("example"); exampleTag != "" {
		schema["example"] = exampleValue(schema["type"], exampleTag)
	}

	if enumTag := field.Tag.Get("enum"); enumTag != "" {
		schema["enum"] = strings.Split(enumTag, ",")
	}

	if minimum, ok := validateMin(field.Tag.Get("validate")); ok {
		switch schema["type"] {
		case "string":
			schema["minLength"] = minimum
		case "array":
			schema["minItems"] = minimum
		case "integer", "number":
			schema["minimum"] = minimum
		}
	}
}

// exampleValue converts an example tag to the JSON type of the schema
func exampleValue(schemaType any, example string) any {
	switch schemaType {
	case "boolean":
		if v, err := strconv.ParseBool(example); err == nil {
			return v
		}
	case "integer":
		if v, err := strconv.ParseInt(example, 10, 64); err == nil {
			return v
		}
	case "number":
		if v, err := strconv.ParseFloat(example, 64); err == nil {
			return v
		}
	}

	return example
}

// validateMin extracts N from a `validate:"...,min=N,..."` tag
func validateMin(tag string) (int, bool) {
	for _, rule := range strings.Split(tag, ",") {
		value, found := strings.CutPrefix(rule, "min=")
		if !found {
			continue
		}

		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	return 0, false
}

// validateRequired reports whether a validate tag carries the required rule
func validateRequired(tag string) bool {
	return slices.Contains(strings.Split(tag, ","), "required")
}

// basicTypeSchema creates a schema for a basic Go type
func basicTypeSchema(kind reflect.Kind) map[string]any {
	switch kind {
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.String:
		return map[string]any{"type": "string"}
	default:
		return nil
	}
}
