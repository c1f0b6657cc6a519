package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const aggregator = `import { Elysia } from 'elysia';
import { authRoutes } from './routes/auth.routes';

const app = new Elysia()
  .use(authRoutes)
  .listen(3000);
`

func writeAggregator(t *testing.T, content string) *Patcher {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.ts")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return NewPatcher(path, zap.NewNop().Sugar())
}

func readBack(t *testing.T, p *Patcher) string {
	t.Helper()
	data, err := os.ReadFile(p.path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestParse(t *testing.T) {
	res := Parse(strings.Split(aggregator, "\n"))

	if len(res.Imports) != 1 {
		t.Fatalf("imports = %d, want 1", len(res.Imports))
	}
	imp := res.Imports[0]
	if imp.VariableName != "authRoutes" || imp.ImportPath != "./routes/auth.routes" || imp.Line != 2 {
		t.Errorf("unexpected import record: %+v", imp)
	}

	if len(res.Uses) != 1 {
		t.Fatalf("uses = %d, want 1", len(res.Uses))
	}
	if res.Uses[0].VariableName != "authRoutes" || res.Uses[0].Line != 5 {
		t.Errorf("unexpected use record: %+v", res.Uses[0])
	}

	if res.LastImport != 2 || res.LastUse != 5 {
		t.Errorf("anchors = (%d, %d), want (2, 5)", res.LastImport, res.LastUse)
	}
}

func TestParse_IgnoresNonRouteImports(t *testing.T) {
	res := Parse([]string{
		"import { Elysia } from 'elysia';",
		"import { db } from './db';",
	})
	if len(res.Imports) != 0 {
		t.Errorf("imports = %+v, want none", res.Imports)
	}
}

func TestUpsert(t *testing.T) {
	p := writeAggregator(t, aggregator)

	if err := p.Upsert("rolesV1Routes", "./routes/gen/roles/v1/roles-v1.routes"); err != nil {
		t.Fatal(err)
	}

	want := `import { Elysia } from 'elysia';
import { authRoutes } from './routes/auth.routes';
import { rolesV1Routes } from './routes/gen/roles/v1/roles-v1.routes';

const app = new Elysia()
  .use(authRoutes)
  .use(rolesV1Routes)
  .listen(3000);
`
	if got := readBack(t, p); got != want {
		t.Errorf("patched aggregator:\n%s\nwant:\n%s", got, want)
	}
}

func TestUpsert_Idempotent(t *testing.T) {
	p := writeAggregator(t, aggregator)

	if err := p.Upsert("rolesV1Routes", "./routes/gen/roles/v1/roles-v1.routes"); err != nil {
		t.Fatal(err)
	}
	once := readBack(t, p)

	if err := p.Upsert("rolesV1Routes", "./routes/gen/roles/v1/roles-v1.routes"); err != nil {
		t.Fatal(err)
	}
	if twice := readBack(t, p); twice != once {
		t.Errorf("second upsert changed the file:\n%s\nwant:\n%s", twice, once)
	}
}

func TestUpsert_RestoresMissingUse(t *testing.T) {
	partial := `import { Elysia } from 'elysia';
import { rolesV1Routes } from './routes/gen/roles/v1/roles-v1.routes';

const app = new Elysia()
  .listen(3000);
`
	p := writeAggregator(t, partial)
	if err := p.Upsert("rolesV1Routes", "./routes/gen/roles/v1/roles-v1.routes"); err != nil {
		t.Fatal(err)
	}

	got := readBack(t, p)
	if strings.Count(got, "import { rolesV1Routes }") != 1 {
		t.Errorf("import duplicated:\n%s", got)
	}
	if !strings.Contains(got, ".use(rolesV1Routes)") {
		t.Errorf("registration not inserted:\n%s", got)
	}
}

func TestUpsert_NoExistingUseAnchorsAfterImports(t *testing.T) {
	bare := `import { otherRoutes } from './routes/other.routes';

export {};
`
	p := writeAggregator(t, bare)
	if err := p.Upsert("rolesV1Routes", "./routes/gen/roles/v1/roles-v1.routes"); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(readBack(t, p), "\n")
	if lines[1] != "import { rolesV1Routes } from './routes/gen/roles/v1/roles-v1.routes';" {
		t.Errorf("line 2 = %q", lines[1])
	}
	if lines[2] != "  .use(rolesV1Routes)" {
		t.Errorf("line 3 = %q", lines[2])
	}
}

func TestUpsert_MissingFileIsWarning(t *testing.T) {
	p := NewPatcher(filepath.Join(t.TempDir(), "absent.ts"), zap.NewNop().Sugar())
	if err := p.Upsert("rolesV1Routes", "./routes/gen/roles/v1/roles-v1.routes"); err != nil {
		t.Fatalf("expected nil error for missing aggregator, got %v", err)
	}
}

func TestReverse_RoundTrip(t *testing.T) {
	p := writeAggregator(t, aggregator)

	if err := p.Upsert("rolesV1Routes", "./routes/gen/roles/v1/roles-v1.routes"); err != nil {
		t.Fatal(err)
	}
	if err := p.Upsert("usersV2Routes", "./routes/gen/users/v2/users-v2.routes"); err != nil {
		t.Fatal(err)
	}

	err := p.Reverse(func(rec ImportRecord) bool {
		return strings.HasPrefix(rec.ImportPath, "./routes/gen/")
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := readBack(t, p); got != aggregator {
		t.Errorf("reverse did not restore the original:\n%s\nwant:\n%s", got, aggregator)
	}
}

func TestReverse_InterleavedKeepsOthers(t *testing.T) {
	mixed := `import { aRoutes } from './routes/a.routes';
import { genOneV1Routes } from './routes/gen/one/v1/one-v1.routes';
import { bRoutes } from './routes/b.routes';
import { genTwoV1Routes } from './routes/gen/two/v1/two-v1.routes';

const app = new Elysia()
  .use(aRoutes)
  .use(genOneV1Routes)
  .use(bRoutes)
  .use(genTwoV1Routes)
  .listen(3000);
`
	want := `import { aRoutes } from './routes/a.routes';
import { bRoutes } from './routes/b.routes';

const app = new Elysia()
  .use(aRoutes)
  .use(bRoutes)
  .listen(3000);
`
	p := writeAggregator(t, mixed)
	err := p.Reverse(func(rec ImportRecord) bool {
		return strings.HasPrefix(rec.ImportPath, "./routes/gen/")
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := readBack(t, p); got != want {
		t.Errorf("reverse result:\n%s\nwant:\n%s", got, want)
	}
}

func TestReverse_NoMatchesLeavesFileAlone(t *testing.T) {
	p := writeAggregator(t, aggregator)
	info, err := os.Stat(p.path)
	if err != nil {
		t.Fatal(err)
	}

	if err := p.Reverse(func(ImportRecord) bool { return false }); err != nil {
		t.Fatal(err)
	}

	after, err := os.Stat(p.path)
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(info.ModTime()) {
		t.Error("file rewritten despite no matches")
	}
	if got := readBack(t, p); got != aggregator {
		t.Errorf("file changed:\n%s", got)
	}
}
