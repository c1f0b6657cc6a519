package codegen

import (
	"fmt"
	"strings"

	"github.com/matthewbaird/routegen/internal/spec"
)

// Render composes the full TypeScript module for one route spec: header,
// imports, query constants, condition builders, and the exported Elysia
// route chain. dbImport is the import specifier of the application db module
// providing findOne and findOneById.
func Render(rs *spec.RouteSpec, dbImport string) (string, error) {
	var needFindOne, needFindOneByID bool
	for _, route := range rs.Routes {
		if route.Handler.RequestType == "findOne" {
			needFindOne = true
		} else {
			needFindOneByID = true
		}
	}

	f := &File{}
	f.Linef("// Code generated by routegen from route spec %s/%s. DO NOT EDIT.", rs.Module, rs.Version)
	f.Linef("import { Elysia, t } from 'elysia';")
	var collaborators []string
	if needFindOne {
		collaborators = append(collaborators, "findOne")
	}
	if needFindOneByID {
		collaborators = append(collaborators, "findOneById")
	}
	if len(collaborators) > 0 {
		f.Linef("import { %s } from %s;", strings.Join(collaborators, ", "), quote(dbImport))
	}

	if len(rs.Routes) > 0 {
		f.Blank()
		for i, route := range rs.Routes {
			label := routeLabel(rs, route)
			if err := ValidateQueryTemplate(label, route.Handler.Query, len(route.Handler.Conditions) > 0); err != nil {
				return "", err
			}
			f.Linef("const %s = %s;", queryConst(i), quote(route.Handler.Query))
		}
		for i, route := range rs.Routes {
			if len(route.Handler.Conditions) == 0 {
				continue
			}
			f.Blank()
			f.Add(CompileConditions(builderName(i), queryConst(i), route.Handler.Conditions)...)
		}
	}

	f.Blank()
	variable := RouteVariable(rs.Module, rs.Version)
	prefix := "/" + rs.Module + "/" + rs.Version
	if len(rs.Routes) == 0 {
		f.Linef("export const %s = new Elysia({ prefix: %s });", variable, quote(prefix))
		return f.Render(), nil
	}
	f.Linef("export const %s = new Elysia({ prefix: %s })", variable, quote(prefix))
	for i, route := range rs.Routes {
		f.Add(Indent(emitRoute(route, i, i == len(rs.Routes)-1)))
	}
	return f.Render(), nil
}

func routeLabel(rs *spec.RouteSpec, route spec.RouteDefinition) string {
	return fmt.Sprintf("%s/%s %s %s", rs.Module, rs.Version, route.Method, route.Path)
}
