// package router provides a router wrapper that captures documentation data
package router

import (
	"net/http"
)

// RouteResponse represents a documented response for a specific HTTP status code
type RouteResponse struct {
	StatusCode  string    // HTTP status code (e.g., "200", "400")
	Description string    // Description of the response
	Schema      any       // Response schema/type (optional)
	Examples    []Example // Example responses (optional)
	Shared      string    // Name of a response registered with RegisterResponse (optional)
}

// Example represents an example response for documentation
type Example struct {
	Name  string // Name of the example (e.g., "notFound")
	Value string // Example value as JSON text
}

// RouteInfo stores documentation for a route
type RouteInfo struct {
	Method       string                   // HTTP method (GET, POST, etc.)
	Path         string                   // URL path
	Name         string                   // Friendly name for the endpoint
	Description  string                   // Description of what the endpoint does
	Handler      http.Handler             // The actual handler function
	RequestType  any                      // Example request type (for schema generation)
	QueryType    any                      // Struct whose `query` tagged fields are query parameters
	ResponseType any                      // Example success response type (for schema generation)
	Responses    map[string]RouteResponse // Map of HTTP status codes to responses
	Tags         []string                 // Tags for grouping endpoints
}

// RouteConfig is a builder for route configuration
type RouteConfig struct {
	router       *DocRouter
	method       string
	path         string
	handler      http.HandlerFunc
	name         string
	description  string
	requestType  any
	queryType    any
	responseType any
	responses    map[string]RouteResponse
	tags         []string
}

// Middleware wraps a handler
type Middleware func(http.Handler) http.Handler

// DocRouter wraps http.ServeMux to add documentation capabilities
type DocRouter struct {
	mux         *http.ServeMux
	routes      []RouteInfo
	middlewares []Middleware
	notFound    http.Handler

	title       string
	description string
	version     string
	servers     []Server
	tags        []Tag
	responses   map[string]RouteResponse
}

// NewDocRouter creates a new documented router
func NewDocRouter(title, description, version string) *DocRouter {
	return &DocRouter{
		mux:         http.NewServeMux(),
		routes:      []RouteInfo{},
		notFound:    http.NotFoundHandler(),
		title:       title,
		description: description,
		version:     version,
		responses:   make(map[string]RouteResponse),
	}
}

// Route starts a route configuration chain
func (dr *DocRouter) Route(method, path string, handler http.HandlerFunc) *RouteConfig {
	return &RouteConfig{
		router:    dr,
		method:    method,
		path:      path,
		handler:   handler,
		responses: make(map[string]RouteResponse),
	}
}

// WithName adds a name to the route
func (rc *RouteConfig) WithName(name string) *RouteConfig {
	rc.name = name
	return rc
}

// WithDescription adds a description to the route
func (rc *RouteConfig) WithDescription(description string) *RouteConfig {
	rc.description = description
	return rc
}

// WithRequest adds a request body type to the route
func (rc *RouteConfig) WithRequest(requestType any) *RouteConfig {
	rc.requestType = requestType
	return rc
}

// WithQuery documents the query parameters described by the `query` tags of
// a struct
func (rc *RouteConfig) WithQuery(queryType any) *RouteConfig {
	rc.queryType = queryType
	return rc
}

// WithResponse adds a success response type to the route
func (rc *RouteConfig) WithResponse(responseType any) *RouteConfig {
	rc.responseType = responseType
	return rc
}

// WithErrorResponse adds an error response to the route
func (rc *RouteConfig) WithErrorResponse(statusCode, description string, schema any, examples ...Example) *RouteConfig {
	rc.responses[statusCode] = RouteResponse{
		StatusCode:  statusCode,
		Description: description,
		Schema:      schema,
		Examples:    examples,
	}
	return rc
}

// WithSharedResponse documents statusCode with a response registered on the
// router with RegisterResponse
func (rc *RouteConfig) WithSharedResponse(statusCode, name string) *RouteConfig {
	rc.responses[statusCode] = RouteResponse{
		StatusCode: statusCode,
		Shared:     name,
	}
	return rc
}

// WithTags adds tags to the route
func (rc *RouteConfig) WithTags(tags ...string) *RouteConfig {
	rc.tags = tags
	return rc
}

// Register finalizes the route configuration and registers it with the router
func (rc *RouteConfig) Register() {
	// Go 1.22 pattern with method
	pattern := rc.method + " " + rc.path

	rc.router.mux.Handle(pattern, rc.handler)

	rc.router.routes = append(rc.router.routes, RouteInfo{
		Method:       rc.method,
		Path:         rc.path,
		Name:         rc.name,
		Description:  rc.description,
		Handler:      rc.handler,
		RequestType:  rc.requestType,
		QueryType:    rc.queryType,
		ResponseType: rc.responseType,
		Responses:    rc.responses,
		Tags:         rc.tags,
	})
}

// RegisterResponse declares a response that routes can share through
// WithSharedResponse
func (dr *DocRouter) RegisterResponse(name, description string, schema any, examples ...Example) {
	dr.responses[name] = RouteResponse{
		Description: description,
		Schema:      schema,
		Examples:    examples,
	}
}

// GetRoutes returns all documented routes
func (dr *DocRouter) GetRoutes() []RouteInfo {
	return dr.routes
}

// NotFound sets the handler for requests no route matches
func (dr *DocRouter) NotFound(handler http.Handler) {
	dr.notFound = handler
}

// Use adds middlewares applied to every request, including unmatched ones.
// The first middleware is the outermost.
func (dr *DocRouter) Use(middleware ...Middleware) {
	dr.middlewares = append(dr.middlewares, middleware...)
}

// ServeHTTP makes DocRouter implement the http.Handler interface
func (dr *DocRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var handler http.Handler = http.HandlerFunc(dr.dispatch)
	for i := len(dr.middlewares) - 1; i >= 0; i-- {
		handler = dr.middlewares[i](handler)
	}

	handler.ServeHTTP(w, r)
}

func (dr *DocRouter) dispatch(w http.ResponseWriter, r *http.Request) {
	if _, pattern := dr.mux.Handler(r); pattern == "" {
		dr.notFound.ServeHTTP(w, r)
		return
	}

	dr.mux.ServeHTTP(w, r)
}
