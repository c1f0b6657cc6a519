package spec

import (
	_ "embed"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
	"github.com/cockroachdb/errors"

	"github.com/matthewbaird/routegen/internal/errs"
)

//go:embed routespec.cue
var schemaSource string

// Load reads and structurally validates the route spec document at path.
func Load(path string) (*RouteSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.FileSystemf(err, "reading route spec %s", path)
	}
	return Parse(path, data)
}

// Parse validates data against the embedded schema and decodes it. The
// document must carry module, version, and routes; no semantic cross-checks
// are performed beyond the structural ones.
func Parse(path string, data []byte) (*RouteSpec, error) {
	expr, err := cuejson.Extract(path, data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	ctx := cuecontext.New()
	doc := ctx.BuildExpr(expr)
	if doc.Err() != nil {
		return nil, &ParseError{Path: path, Err: doc.Err()}
	}

	schema := ctx.CompileString(schemaSource, cue.Filename("routespec.cue"))
	if schema.Err() != nil {
		return nil, errors.Wrap(schema.Err(), "compiling embedded route spec schema")
	}
	def := schema.LookupPath(cue.ParsePath("#RouteSpec"))
	if err := def.Unify(doc).Validate(cue.Concrete(true), cue.Final()); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var rs RouteSpec
	if err := doc.Decode(&rs); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if err := decodeConditions(doc, &rs); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &rs, nil
}

// decodeConditions walks the pre-unification document so condition rules
// keep the declaration order of the JSON object. Fragment order in the
// compiled WHERE clause follows this order.
func decodeConditions(doc cue.Value, rs *RouteSpec) error {
	routes := doc.LookupPath(cue.ParsePath("routes"))
	iter, err := routes.List()
	if err != nil {
		return err
	}
	for i := 0; iter.Next(); i++ {
		cond := iter.Value().LookupPath(cue.ParsePath("handler.conditions"))
		if !cond.Exists() {
			continue
		}
		fields, err := cond.Fields()
		if err != nil {
			return err
		}
		for fields.Next() {
			rule := ConditionRule{Field: selectorLabel(fields.Selector())}
			rule.Operator, _ = fields.Value().LookupPath(cue.ParsePath("operator")).String()
			rule.Type, _ = fields.Value().LookupPath(cue.ParsePath("type")).String()
			rs.Routes[i].Handler.Conditions = append(rs.Routes[i].Handler.Conditions, rule)
		}
	}
	return nil
}

func selectorLabel(sel cue.Selector) string {
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}
