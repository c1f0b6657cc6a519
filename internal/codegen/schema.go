package codegen

import (
	"sort"
	"strconv"

	"github.com/matthewbaird/routegen/internal/spec"
)

// typeboxNames maps FieldSpec types to TypeBox constructors. Array and
// Object are handled separately; anything unrecognized degrades to String so
// generation survives spec drift.
var typeboxNames = map[string]string{
	"String":  "t.String",
	"Number":  "t.Number",
	"Boolean": "t.Boolean",
}

// PayloadSchema renders a payload map as a t.Object literal. Payload
// insertion order is not significant, so field names are sorted for
// deterministic output.
func PayloadSchema(payload map[string]spec.FieldSpec) Expr {
	names := make([]string, 0, len(payload))
	for name := range payload {
		names = append(names, name)
	}
	sort.Strings(names)

	obj := Object{}
	for _, name := range names {
		obj.Fields = append(obj.Fields, ObjectField{Name: name, Value: FieldSchema(payload[name])})
	}
	return Call{Fn: "t.Object", Args: []Expr{obj}}
}

// FieldSchema renders one field specification as a TypeBox expression,
// wrapped in t.Optional when the field is optional.
func FieldSchema(f spec.FieldSpec) Expr {
	inner := fieldType(f)
	if f.Optional {
		return Call{Fn: "t.Optional", Args: []Expr{inner}}
	}
	return inner
}

func fieldType(f spec.FieldSpec) Expr {
	switch f.Type {
	case "Array":
		// Arrays carry no constraint object; the items sub-schema is
		// rendered in its place.
		items := Expr(Raw("t.Any()"))
		if f.Items != nil {
			items = FieldSchema(*f.Items)
		}
		return Call{Fn: "t.Array", Args: []Expr{items}}
	case "Object":
		args := []Expr{Raw("{}")}
		if props := constraintProps(f); len(props) > 0 {
			args = append(args, props)
		}
		return Call{Fn: "t.Object", Args: args}
	}
	name, ok := typeboxNames[f.Type]
	if !ok {
		name = "t.String"
	}
	return Call{Fn: name, Args: []Expr{constraintProps(f)}}
}

// constraintProps renders the constraint object. Order is fixed: format,
// description, minimum, maximum, minLength, maxLength. Absent constraints
// are omitted; an empty set renders as {}.
func constraintProps(f spec.FieldSpec) Props {
	var props Props
	if f.Format != "" {
		props = append(props, Prop{"format", quote(f.Format)})
	}
	if f.Description != "" {
		props = append(props, Prop{"description", quote(f.Description)})
	}
	if f.Minimum != nil {
		props = append(props, Prop{"minimum", formatNumber(*f.Minimum)})
	}
	if f.Maximum != nil {
		props = append(props, Prop{"maximum", formatNumber(*f.Maximum)})
	}
	if f.MinLength != nil {
		props = append(props, Prop{"minLength", strconv.Itoa(*f.MinLength)})
	}
	if f.MaxLength != nil {
		props = append(props, Prop{"maxLength", strconv.Itoa(*f.MaxLength)})
	}
	return props
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
