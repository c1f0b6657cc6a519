package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matthewbaird/routegen/internal/spec"
)

// emitRoute renders one route's chained registration call. Routes come in
// two shapes: path-based lookup through findOneById, and dynamic-filter
// lookup through findOne when requestType is "findOne".
func emitRoute(route spec.RouteDefinition, i int, last bool) []Node {
	method := strings.ToLower(route.Method)
	terminator := ")"
	if last {
		terminator = ");"
	}
	opts := routeOptions(route)
	if route.Handler.RequestType == "findOne" {
		return emitFindOneRoute(route, i, method, opts, terminator)
	}
	return emitLookupRoute(route, i, method, opts, terminator)
}

func emitLookupRoute(route spec.RouteDefinition, i int, method string, opts Expr, terminator string) []Node {
	params := pathParams(route.Path)
	args := make([]string, 0, len(params)+1)
	for _, p := range params {
		args = append(args, "params."+p)
	}
	args = append(args, queryConst(i))
	call := fmt.Sprintf("findOneById(%s)", strings.Join(args, ", "))

	ctx := "()"
	if len(params) > 0 {
		ctx = "({ params })"
	}

	if len(route.Response.Mapping) == 0 {
		return []Node{ExprLine{
			Prefix: fmt.Sprintf(".%s(%s, %s => %s, ", method, quote(route.Path), ctx, call),
			Expr:   opts,
			Suffix: terminator,
		}}
	}

	body := []Node{Line(fmt.Sprintf("const row = await %s;", call))}
	body = append(body, mappingNodes(route.Response.Mapping)...)
	return []Node{
		Block{
			Open: fmt.Sprintf(".%s(%s, async %s => {", method, quote(route.Path), ctx),
			Body: body,
		},
		ExprLine{Prefix: "}, ", Expr: opts, Suffix: terminator},
	}
}

func emitFindOneRoute(route spec.RouteDefinition, i int, method string, opts Expr, terminator string) []Node {
	hasConditions := len(route.Handler.Conditions) > 0
	hasMapping := len(route.Response.Mapping) > 0

	lookup := fmt.Sprintf("findOne(body as Record<string, any>, %s)", queryConst(i))

	if !hasConditions && !hasMapping {
		return []Node{ExprLine{
			Prefix: fmt.Sprintf(".%s(%s, ({ body }) => %s, ", method, quote(route.Path), lookup),
			Expr:   opts,
			Suffix: terminator,
		}}
	}

	var body []Node
	if hasConditions {
		body = append(body, Line(fmt.Sprintf("const { payload, query } = %s(body as Record<string, any>);", builderName(i))))
		lookup = "findOne(payload, query)"
	}

	async := ""
	if hasMapping {
		async = "async "
		body = append(body, Line(fmt.Sprintf("const row = await %s;", lookup)))
		body = append(body, mappingNodes(route.Response.Mapping)...)
	} else {
		body = append(body, Line(fmt.Sprintf("return %s;", lookup)))
	}

	return []Node{
		Block{
			Open: fmt.Sprintf(".%s(%s, %s({ body }) => {", method, quote(route.Path), async),
			Body: body,
		},
		ExprLine{Prefix: "}, ", Expr: opts, Suffix: terminator},
	}
}

// routeOptions renders the route's options object: params or body schema
// plus the detail block copied verbatim from the route's openapi metadata.
func routeOptions(route spec.RouteDefinition) Expr {
	var fields []ObjectField
	if route.Handler.RequestType == "findOne" {
		if route.Payload != nil {
			fields = append(fields, ObjectField{Name: "body", Value: PayloadSchema(route.Payload)})
		}
	} else if params := pathParams(route.Path); len(params) > 0 {
		fields = append(fields, ObjectField{Name: "params", Value: paramsSchema(params)})
	}
	fields = append(fields, ObjectField{Name: "detail", Value: detailObject(route.OpenAPI)})
	return Object{Fields: fields}
}

// paramsSchema renders the path-parameter validation schema. A segment
// literally named "id" is constrained to UUID format; any other segment gets
// a capitalized description only.
func paramsSchema(params []string) Expr {
	obj := Object{}
	for _, p := range params {
		f := spec.FieldSpec{Type: "String", Description: capitalize(p)}
		if p == "id" {
			f.Format = "uuid"
			f.Description = capitalize(p) + " ID"
		}
		obj.Fields = append(obj.Fields, ObjectField{Name: p, Value: FieldSchema(f)})
	}
	return Call{Fn: "t.Object", Args: []Expr{obj}}
}

func detailObject(m spec.OpenAPIMeta) Expr {
	tags := make(List, len(m.Tags))
	for i, tag := range m.Tags {
		tags[i] = Raw(quote(tag))
	}
	return Object{Fields: []ObjectField{
		{Name: "summary", Value: Raw(quote(m.Summary))},
		{Name: "description", Value: Raw(quote(m.Description))},
		{Name: "tags", Value: tags},
	}}
}

func mappingNodes(mapping map[string]string) []Node {
	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)

	obj := Object{}
	for _, name := range names {
		obj.Fields = append(obj.Fields, ObjectField{Name: name, Value: Raw(rowRef(mapping[name]))})
	}
	return []Node{
		Block{Open: "if (!row) {", Body: []Node{Line("return row;")}, Close: "}"},
		ExprLine{Prefix: "return ", Expr: obj, Suffix: ";"},
	}
}

// pathParams extracts ":name" segments in path order.
func pathParams(path string) []string {
	var params []string
	for _, seg := range strings.Split(path, "/") {
		if strings.HasPrefix(seg, ":") && len(seg) > 1 {
			params = append(params, seg[1:])
		}
	}
	return params
}

func rowRef(col string) string {
	if identRe.MatchString(col) {
		return "row." + col
	}
	return "row[" + quote(col) + "]"
}

func queryConst(i int) string  { return fmt.Sprintf("query%d", i) }
func builderName(i int) string { return fmt.Sprintf("buildQuery%d", i) }
