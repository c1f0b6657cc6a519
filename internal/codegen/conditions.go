package codegen

import (
	"fmt"
	"strings"

	"github.com/matthewbaird/routegen/internal/spec"
)

// DynamicConditionsToken is the placeholder in a base query that the
// compiled builder replaces with the assembled WHERE fragment.
const DynamicConditionsToken = "{dynamic_conditions}"

// notNullSentinel is the inbound payload value that selects an IS NOT NULL
// fragment at generated-code runtime.
const notNullSentinel = "NOT_NULL"

// comparisonOps are the operators that bind the payload value as-is under
// the field's own parameter name.
var comparisonOps = map[string]bool{
	"=": true, ">=": true, "<=": true, ">": true, "<": true,
}

// TemplateMismatchError reports a route whose base query and condition rules
// disagree about the {dynamic_conditions} placeholder.
type TemplateMismatchError struct {
	Route         string
	HasConditions bool
	TokenCount    int
}

func (e *TemplateMismatchError) Error() string {
	if e.HasConditions {
		return fmt.Sprintf("route %s: query must contain exactly one %s placeholder, found %d",
			e.Route, DynamicConditionsToken, e.TokenCount)
	}
	return fmt.Sprintf("route %s: query contains %s but no conditions are declared",
		e.Route, DynamicConditionsToken)
}

// ValidateQueryTemplate enforces the placeholder contract: exactly one token
// when conditions are declared, none otherwise.
func ValidateQueryTemplate(route, query string, hasConditions bool) error {
	n := strings.Count(query, DynamicConditionsToken)
	if hasConditions && n != 1 {
		return &TemplateMismatchError{Route: route, HasConditions: true, TokenCount: n}
	}
	if !hasConditions && n != 0 {
		return &TemplateMismatchError{Route: route, TokenCount: n}
	}
	return nil
}

// CompileConditions emits the runtime query-builder function for one route.
// The generated function inspects the inbound payload, collects one WHERE
// fragment per active rule in declaration order, joins them with AND (or
// falls back to 1=1 when none are active), and splices the result into the
// base query held in queryConst.
func CompileConditions(fnName, queryConst string, rules []spec.ConditionRule) []Node {
	body := []Node{Line("const clauses: string[] = [];")}
	for _, r := range rules {
		body = append(body, conditionNodes(r))
	}
	body = append(body,
		Line("const where = clauses.length > 0 ? clauses.join(' AND ') : '1=1';"),
		Line(fmt.Sprintf("return { payload, query: %s.replace(%s, where) };",
			queryConst, quote(DynamicConditionsToken))),
	)
	return []Node{Block{
		Open: fmt.Sprintf("function %s(payload: Record<string, any>): { payload: Record<string, any>; query: string } {",
			fnName),
		Body:  body,
		Close: "}",
	}}
}

func conditionNodes(r spec.ConditionRule) Node {
	f := r.Field
	ref := payloadRef(f)

	switch r.Operator {
	case "IN":
		// Each element binds under an indexed parameter name; the original
		// array key is removed to avoid an ambiguous duplicate binding.
		return Block{
			Open: fmt.Sprintf("if (Array.isArray(%s) && %s.length > 0) {", ref, ref),
			Body: []Node{
				Line(fmt.Sprintf("clauses.push(`%s IN (${%s.map((_: any, i: number) => `:%s_${i}`).join(', ')})`);", f, ref, f)),
				Line(fmt.Sprintf("%s.forEach((v: any, i: number) => { payload[`%s_${i}`] = v; });", ref, f)),
				Line(fmt.Sprintf("delete %s;", ref)),
			},
			Close: "}",
		}
	case "IS NULL":
		return Block{
			Open: fmt.Sprintf("if (%s === null) {", ref),
			Body: []Node{
				Line(fmt.Sprintf("clauses.push(%s);", quote(f+" IS NULL"))),
				Line(fmt.Sprintf("delete %s;", ref)),
			},
			Close: "}",
		}
	case "IS NOT NULL":
		return Block{
			Open: fmt.Sprintf("if (%s === %s) {", ref, quote(notNullSentinel)),
			Body: []Node{
				Line(fmt.Sprintf("clauses.push(%s);", quote(f+" IS NOT NULL"))),
				Line(fmt.Sprintf("delete %s;", ref)),
			},
			Close: "}",
		}
	case "LIKE", "ILIKE":
		return Block{
			Open: fmt.Sprintf("if (%s !== undefined && %s !== null) {", ref, ref),
			Body: []Node{
				Line(fmt.Sprintf("clauses.push(%s);", quote(fmt.Sprintf("%s %s :%s", f, r.Operator, f)))),
				Line(fmt.Sprintf("%s = `%%${%s}%%`;", ref, ref)),
			},
			Close: "}",
		}
	}

	// Comparison operators, and the = fallback for anything unrecognized.
	op := r.Operator
	if !comparisonOps[op] {
		op = "="
	}
	return Block{
		Open: fmt.Sprintf("if (%s !== undefined && %s !== null) {", ref, ref),
		Body: []Node{
			Line(fmt.Sprintf("clauses.push(%s);", quote(fmt.Sprintf("%s %s :%s", f, op, f)))),
		},
		Close: "}",
	}
}

// payloadRef renders a member access on the runtime payload object.
func payloadRef(field string) string {
	if identRe.MatchString(field) {
		return "payload." + field
	}
	return "payload[" + quote(field) + "]"
}
