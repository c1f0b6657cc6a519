package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/routegen/internal/spec"
)

func TestRouteVariable(t *testing.T) {
	assert.Equal(t, "rolesV1Routes", RouteVariable("roles", "v1"))
	assert.Equal(t, "userProfilesV2Routes", RouteVariable("userProfiles", "v2"))
}

func TestRender_LookupRoute(t *testing.T) {
	rs := &spec.RouteSpec{
		Module:  "roles",
		Version: "v1",
		Routes: []spec.RouteDefinition{
			{
				Path:    "/:id",
				Method:  "GET",
				Handler: spec.HandlerSpec{Query: "SELECT id FROM roles WHERE id = :id"},
			},
		},
	}

	out, err := Render(rs, "../../db")
	require.NoError(t, err)

	want := "// Code generated by routegen from route spec roles/v1. DO NOT EDIT.\n" +
		"import { Elysia, t } from 'elysia';\n" +
		"import { findOneById } from '../../db';\n" +
		"\n" +
		"const query0 = 'SELECT id FROM roles WHERE id = :id';\n" +
		"\n" +
		"export const rolesV1Routes = new Elysia({ prefix: '/roles/v1' })\n" +
		"  .get('/:id', ({ params }) => findOneById(params.id, query0), {\n" +
		"    params: t.Object({\n" +
		"      id: t.String({ format: 'uuid', description: 'Id ID' })\n" +
		"    }),\n" +
		"    detail: {\n" +
		"      summary: '',\n" +
		"      description: '',\n" +
		"      tags: []\n" +
		"    }\n" +
		"  });\n"
	assert.Equal(t, want, out)
}

func TestRender_NonIDParamGetsDescriptionOnly(t *testing.T) {
	rs := &spec.RouteSpec{
		Module:  "roles",
		Version: "v1",
		Routes: []spec.RouteDefinition{
			{
				Path:    "/by-slug/:slug",
				Method:  "GET",
				Handler: spec.HandlerSpec{Query: "SELECT * FROM roles WHERE slug = :slug"},
			},
		},
	}

	out, err := Render(rs, "../../db")
	require.NoError(t, err)
	assert.Contains(t, out, "slug: t.String({ description: 'Slug' })")
	assert.NotContains(t, out, "format: 'uuid'")
	assert.Contains(t, out, "findOneById(params.slug, query0)")
}

func TestRender_FindOneRoute(t *testing.T) {
	rs := &spec.RouteSpec{
		Module:  "roles",
		Version: "v1",
		Routes: []spec.RouteDefinition{
			{
				Path:   "/search",
				Method: "POST",
				OpenAPI: spec.OpenAPIMeta{
					Summary: "Search roles",
					Tags:    []string{"roles"},
				},
				Payload: map[string]spec.FieldSpec{
					"name": {Type: "String", Optional: true},
				},
				Handler: spec.HandlerSpec{
					RequestType: "findOne",
					Query:       "SELECT * FROM roles WHERE {dynamic_conditions}",
					Conditions: []spec.ConditionRule{
						{Field: "name", Operator: "ILIKE"},
					},
				},
				Response: spec.ResponseSpec{Mapping: map[string]string{"role_name": "name"}},
			},
		},
	}

	out, err := Render(rs, "../../db")
	require.NoError(t, err)

	assert.Contains(t, out, "import { findOne } from '../../db';")
	assert.Contains(t, out, "const query0 = 'SELECT * FROM roles WHERE {dynamic_conditions}';")
	assert.Contains(t, out, "function buildQuery0(payload: Record<string, any>)")
	assert.Contains(t, out,
		"  .post('/search', async ({ body }) => {\n"+
			"    const { payload, query } = buildQuery0(body as Record<string, any>);\n"+
			"    const row = await findOne(payload, query);\n"+
			"    if (!row) {\n"+
			"      return row;\n"+
			"    }\n"+
			"    return {\n"+
			"      role_name: row.name\n"+
			"    };\n"+
			"  }, {\n")
	assert.Contains(t, out, "    body: t.Object({\n      name: t.Optional(t.String({}))\n    }),")
	assert.Contains(t, out, "summary: 'Search roles'")
	assert.Contains(t, out, "tags: ['roles']")
}

func TestRender_FindOneWithoutConditionsOrMapping(t *testing.T) {
	rs := &spec.RouteSpec{
		Module:  "roles",
		Version: "v1",
		Routes: []spec.RouteDefinition{
			{
				Path:   "/lookup",
				Method: "POST",
				Handler: spec.HandlerSpec{
					RequestType: "findOne",
					Query:       "SELECT * FROM roles WHERE name = :name",
				},
			},
		},
	}

	out, err := Render(rs, "../../db")
	require.NoError(t, err)
	assert.Contains(t, out,
		".post('/lookup', ({ body }) => findOne(body as Record<string, any>, query0), {")
	assert.NotContains(t, out, "buildQuery0")
}

func TestRender_NoRoutes(t *testing.T) {
	rs := &spec.RouteSpec{Module: "roles", Version: "v1"}
	out, err := Render(rs, "../../db")
	require.NoError(t, err)
	assert.Contains(t, out, "export const rolesV1Routes = new Elysia({ prefix: '/roles/v1' });")
	assert.NotContains(t, out, "findOne")
}

func TestRender_TemplateMismatch(t *testing.T) {
	rs := &spec.RouteSpec{
		Module:  "roles",
		Version: "v1",
		Routes: []spec.RouteDefinition{
			{
				Path:   "/search",
				Method: "POST",
				Handler: spec.HandlerSpec{
					RequestType: "findOne",
					Query:       "SELECT * FROM roles",
					Conditions:  []spec.ConditionRule{{Field: "name", Operator: "="}},
				},
			},
		},
	}

	_, err := Render(rs, "../../db")
	var mismatch *TemplateMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, mismatch.Route, "roles/v1 POST /search")
}

func TestRender_MultiRouteTerminators(t *testing.T) {
	rs := &spec.RouteSpec{
		Module:  "roles",
		Version: "v1",
		Routes: []spec.RouteDefinition{
			{Path: "/:id", Method: "GET", Handler: spec.HandlerSpec{Query: "SELECT 1"}},
			{Path: "/:id/members", Method: "GET", Handler: spec.HandlerSpec{Query: "SELECT 2"}},
		},
	}

	out, err := Render(rs, "../../db")
	require.NoError(t, err)
	assert.Contains(t, out, "const query0 = 'SELECT 1';")
	assert.Contains(t, out, "const query1 = 'SELECT 2';")
	assert.Equal(t, 1, strings.Count(out, "  })\n"))
	assert.Equal(t, 1, strings.Count(out, "  });\n"))
}
