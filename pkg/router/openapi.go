package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"unicode"
)

// Server describes a base URL the API is served from
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Tag groups operations in the generated document
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// WithServer adds a server to the generated document
func (dr *DocRouter) WithServer(url, description string) *DocRouter {
	dr.servers = append(dr.servers, Server{URL: url, Description: description})
	return dr
}

// WithTag describes a tag used by the routes
func (dr *DocRouter) WithTag(name, description string) *DocRouter {
	dr.tags = append(dr.tags, Tag{Name: name, Description: description})
	return dr
}

// OpenAPI generates the OpenAPI 3.0 document of the registered routes
func (dr *DocRouter) OpenAPI() map[string]any {
	g := &openAPIGenerator{router: dr, registry: newSchemaRegistry()}
	return g.generate()
}

// OpenAPIJSON is OpenAPI encoded as indented JSON
func (dr *DocRouter) OpenAPIJSON() ([]byte, error) {
	data, err := json.MarshalIndent(dr.OpenAPI(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal openapi document: %w", err)
	}
	return data, nil
}

// DocsHandler serves the OpenAPI document as JSON
func (dr *DocRouter) DocsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := dr.OpenAPIJSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

// openAPIGenerator walks the routes of a router once
type openAPIGenerator struct {
	router   *DocRouter
	registry *schemaRegistry
}

// generate creates and returns an OpenAPI specification
func (g *openAPIGenerator) generate() map[string]any {
	spec := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       g.router.title,
			"description": g.router.description,
			"version":     g.router.version,
		},
		"paths": g.generatePaths(),
	}

	if len(g.router.servers) > 0 {
		spec["servers"] = g.router.servers
	}

	if len(g.router.tags) > 0 {
		spec["tags"] = g.router.tags
	}

	// components last: generating paths fills the registry
	spec["components"] = g.generateComponents()

	return spec
}

// extractPathParams gets path parameters from a URL path
func extractPathParams(path string) []string {
	var params []string

	for _, part := range strings.Split(path, "/") {
		if len(part) > 2 && part[0] == '{' && part[len(part)-1] == '}' {
			params = append(params, strings.TrimSuffix(part[1:len(part)-1], "..."))
		}
	}

	return params
}

// generatePathParameters creates parameter objects for path parameters
func generatePathParameters(params []string) []any {
	var parameters []any

	for _, param := range params {
		parameters = append(parameters, map[string]any{
			"name":     param,
			"in":       "path",
			"required": true,
			"schema": map[string]any{
				"type": "string",
			},
			"description": fmt.Sprintf("%s parameter", param),
		})
	}

	return parameters
}

// generateQueryParameters creates parameter objects for the `query` tagged
// fields of a struct
func (g *openAPIGenerator) generateQueryParameters(queryType any) []any {
	typ := reflect.TypeOf(queryType)
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	var parameters []any
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		name := field.Tag.Get("query")
		if name == "" || field.PkgPath != "" {
			continue
		}

		schema := g.registry.schemaFor(field.Type)
		addFieldMetadata(schema, field)

		param := map[string]any{
			"name":     name,
			"in":       "query",
			"required": validateRequired(field.Tag.Get("validate")),
			"schema":   schema,
		}
		if doc := field.Tag.Get("doc"); doc != "" {
			param["description"] = doc
		}

		parameters = append(parameters, param)
	}

	return parameters
}

// operationID turns a route name such as "List Todos" into "listTodos"
func operationID(route RouteInfo) string {
	words := strings.FieldsFunc(route.Name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return strings.ToLower(route.Method) + strings.ReplaceAll(route.Path, "/", "_")
	}

	var b strings.Builder
	for i, word := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(word))
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]) + strings.ToLower(word[1:]))
	}

	return b.String()
}

// generatePaths creates the paths section of the OpenAPI spec
func (g *openAPIGenerator) generatePaths() map[string]any {
	paths := map[string]any{}

	for _, route := range g.router.routes {
		if _, exists := paths[route.Path]; !exists {
			paths[route.Path] = map[string]any{}
		}

		pathItem := paths[route.Path].(map[string]any)
		method := strings.ToLower(route.Method)

		operation := map[string]any{
			"summary":     route.Name,
			"description": route.Description,
			"operationId": operationID(route),
			"responses":   g.generateResponses(route),
		}

		if len(route.Tags) > 0 {
			operation["tags"] = route.Tags
		}

		parameters := generatePathParameters(extractPathParams(route.Path))
		if route.QueryType != nil {
			parameters = append(parameters, g.generateQueryParameters(route.QueryType)...)
		}
		if len(parameters) > 0 {
			operation["parameters"] = parameters
		}

		// add request body for POST, PUT, PATCH
		if route.RequestType != nil && (method == "post" || method == "put" || method == "patch") {
			operation["requestBody"] = g.generateRequestBody(route)
		}

		pathItem[method] = operation
	}

	return paths
}

// generateResponses creates response documentation
func (g *openAPIGenerator) generateResponses(route RouteInfo) map[string]any {
	responses := map[string]any{}

	for statusCode, routeResponse := range route.Responses {
		if routeResponse.Shared != "" {
			responses[statusCode] = map[string]any{
				"$ref": fmt.Sprintf("#/components/responses/%s", routeResponse.Shared),
			}
			continue
		}

		responses[statusCode] = g.responseObject(routeResponse)
	}

	// add success response if it wasn't overridden by a custom response
	if _, exists := responses["200"]; !exists {
		responses["200"] = g.responseObject(RouteResponse{
			Description: "successful operation",
			Schema:      route.ResponseType,
		})
	}

	return responses
}

// responseObject builds a response with its optional schema and examples
func (g *openAPIGenerator) responseObject(routeResponse RouteResponse) map[string]any {
	content := map[string]any{}

	if routeResponse.Schema != nil {
		content["schema"] = g.registry.schemaRef(routeResponse.Schema)
	}

	if len(routeResponse.Examples) > 0 {
		examples := map[string]any{}
		for i, example := range routeResponse.Examples {
			name := example.Name
			if name == "" {
				name = fmt.Sprintf("example%d", i+1)
			}

			var value any = example.Value
			var decoded any
			if err := json.Unmarshal([]byte(example.Value), &decoded); err == nil {
				value = decoded
			}

			examples[name] = map[string]any{"value": value}
		}
		content["examples"] = examples
	}

	response := map[string]any{
		"description": routeResponse.Description,
	}

	if len(content) > 0 {
		response["content"] = map[string]any{
			"application/json": content,
		}
	}

	return response
}

// generateRequestBody creates request body documentation
func (g *openAPIGenerator) generateRequestBody(route RouteInfo) map[string]any {
	return map[string]any{
		"description": fmt.Sprintf("request body for %s", route.Name),
		"required":    true,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": g.registry.schemaRef(route.RequestType),
			},
		},
	}
}

// generateComponents creates reusable components
func (g *openAPIGenerator) generateComponents() map[string]any {
	components := map[string]any{}

	if len(g.router.responses) > 0 {
		names := make([]string, 0, len(g.router.responses))
		for name := range g.router.responses {
			names = append(names, name)
		}
		sort.Strings(names)

		responses := map[string]any{}
		for _, name := range names {
			responses[name] = g.responseObject(g.router.responses[name])
		}
		components["responses"] = responses
	}

	components["schemas"] = g.registry.getSchemas()

	return components
}
