// Package spec loads and structurally validates route specification
// documents. A route spec describes one module/version pair and the routes
// the compiler should emit for it.
package spec

import "fmt"

// RouteSpec is one declarative route specification document. The
// (Module, Version) pair determines the output module path and the
// aggregator variable name, so regenerating the same pair is idempotent.
type RouteSpec struct {
	Module  string            `json:"module"`
	Version string            `json:"version"`
	Routes  []RouteDefinition `json:"routes"`
}

// RouteDefinition describes one route of the module.
type RouteDefinition struct {
	Path     string               `json:"path"`
	Method   string               `json:"method"`
	OpenAPI  OpenAPIMeta          `json:"openapi"`
	Payload  map[string]FieldSpec `json:"payload"`
	Handler  HandlerSpec          `json:"handler"`
	Response ResponseSpec         `json:"response"`
}

// OpenAPIMeta is copied verbatim into the emitted handler's detail block.
type OpenAPIMeta struct {
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// FieldSpec is one payload field's type and validation constraints. Numeric
// constraints are pointers so an absent constraint is distinguishable from a
// zero one.
type FieldSpec struct {
	Type        string     `json:"type"`
	Optional    bool       `json:"optional"`
	Format      string     `json:"format"`
	Description string     `json:"description"`
	Minimum     *float64   `json:"minimum"`
	Maximum     *float64   `json:"maximum"`
	MinLength   *int       `json:"minLength"`
	MaxLength   *int       `json:"maxLength"`
	Items       *FieldSpec `json:"items"`
}

// HandlerSpec selects the request shape and carries the base query.
// Conditions preserve the declaration order of the document; the decoder
// fills them separately from the JSON object.
type HandlerSpec struct {
	RequestType string          `json:"requestType"`
	Query       string          `json:"query"`
	Conditions  []ConditionRule `json:"-"`
}

// ConditionRule applies one declarative operator to one payload field.
type ConditionRule struct {
	Field    string
	Operator string
	Type     string
}

// ResponseSpec maps response fields to row columns.
type ResponseSpec struct {
	Mapping map[string]string `json:"mapping"`
}

// ParseError reports a route spec document that is not valid JSON or does
// not match the route spec structure.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("route spec %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
