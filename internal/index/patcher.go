// Package index edits the aggregator file that wires generated route
// modules into the application. It recognizes two textual patterns — route
// import statements and fluent .use() registration calls — and supports an
// idempotent upsert plus a fully reversing clean.
package index

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/matthewbaird/routegen/internal/errs"
)

var (
	// import { rolesV1Routes } from './routes/gen/roles/v1/roles-v1.routes';
	importRe = regexp.MustCompile(`^\s*import\s*\{\s*([A-Za-z_$][A-Za-z0-9_$]*)\s*\}\s*from\s*['"]([^'"]*routes)['"]`)
	// .use(rolesV1Routes)
	useRe = regexp.MustCompile(`\.use\(\s*([A-Za-z_$][A-Za-z0-9_$]*Routes)\s*\)`)
)

// ImportRecord is one recognized route import statement. Records are
// recomputed on every parse and never persisted; Line is 1-based.
type ImportRecord struct {
	VariableName string
	ImportPath   string
	Line         int
}

// UseRecord is one recognized registration call.
type UseRecord struct {
	VariableName string
	Line         int
}

// ParseResult holds the recognized records plus the anchors for insertion:
// the last recognized import line and the last recognized registration line
// (0 when none exist).
type ParseResult struct {
	Imports    []ImportRecord
	Uses       []UseRecord
	LastImport int
	LastUse    int
}

// Parse scans aggregator lines for the two recognized patterns.
func Parse(lines []string) *ParseResult {
	res := &ParseResult{}
	for i, line := range lines {
		if m := importRe.FindStringSubmatch(line); m != nil {
			res.Imports = append(res.Imports, ImportRecord{VariableName: m[1], ImportPath: m[2], Line: i + 1})
			res.LastImport = i + 1
			continue
		}
		if m := useRe.FindStringSubmatch(line); m != nil {
			res.Uses = append(res.Uses, UseRecord{VariableName: m[1], Line: i + 1})
			res.LastUse = i + 1
		}
	}
	return res
}

// Patcher edits one aggregator file. A missing file downgrades both Upsert
// and Reverse to a logged warning: the caller's application may not have an
// aggregator yet.
type Patcher struct {
	path string
	log  *zap.SugaredLogger
}

func NewPatcher(path string, log *zap.SugaredLogger) *Patcher {
	return &Patcher{path: path, log: log}
}

// Upsert wires variable/importPath into the aggregator, inserting whichever
// of the import and registration lines is missing. Repeated invocations with
// the same pair leave the file untouched.
func (p *Patcher) Upsert(variable, importPath string) error {
	lines, ok, err := p.read()
	if err != nil || !ok {
		return err
	}

	res := Parse(lines)
	hasImport := false
	for _, rec := range res.Imports {
		if rec.VariableName == variable {
			hasImport = true
			break
		}
	}
	hasUse := false
	for _, rec := range res.Uses {
		if rec.VariableName == variable {
			hasUse = true
			break
		}
	}
	if hasImport && hasUse {
		return nil
	}

	if !hasImport {
		stmt := fmt.Sprintf("import { %s } from '%s';", variable, importPath)
		lines = insertAfter(lines, res.LastImport, stmt)
		// The insert shifted every later line; recompute before placing
		// the registration.
		res = Parse(lines)
	}
	if !hasUse {
		anchor := res.LastUse
		indent := indentUnit(lines, anchor)
		if anchor == 0 {
			anchor = res.LastImport
		}
		lines = insertAfter(lines, anchor, fmt.Sprintf("%s.use(%s)", indent, variable))
	}
	return p.write(lines)
}

// Reverse removes the import lines selected by match and their matching
// registrations. Imports are removed first, in descending line order; the
// text is then re-parsed before the registrations are removed, because the
// import deletions shift every subsequent line number.
func (p *Patcher) Reverse(match func(ImportRecord) bool) error {
	lines, ok, err := p.read()
	if err != nil || !ok {
		return err
	}

	res := Parse(lines)
	vars := make(map[string]bool)
	var doomed []int
	for _, rec := range res.Imports {
		if match(rec) {
			vars[rec.VariableName] = true
			doomed = append(doomed, rec.Line)
		}
	}
	if len(doomed) == 0 {
		return nil
	}
	for i := len(doomed) - 1; i >= 0; i-- {
		lines = removeLine(lines, doomed[i])
	}

	res = Parse(lines)
	doomed = doomed[:0]
	for _, rec := range res.Uses {
		if vars[rec.VariableName] {
			doomed = append(doomed, rec.Line)
		}
	}
	for i := len(doomed) - 1; i >= 0; i-- {
		lines = removeLine(lines, doomed[i])
	}
	return p.write(lines)
}

func (p *Patcher) read() ([]string, bool, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			p.log.Warnf("aggregator file %s does not exist; skipping", p.path)
			return nil, false, nil
		}
		return nil, false, errs.FileSystemf(err, "reading aggregator file %s", p.path)
	}
	return strings.Split(string(data), "\n"), true, nil
}

func (p *Patcher) write(lines []string) error {
	if err := os.WriteFile(p.path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return errs.FileSystemf(err, "writing aggregator file %s", p.path)
	}
	return nil
}

// insertAfter places text after the 1-based line number (0 inserts at the
// top).
func insertAfter(lines []string, line int, text string) []string {
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:line]...)
	out = append(out, text)
	out = append(out, lines[line:]...)
	return out
}

func removeLine(lines []string, line int) []string {
	return append(lines[:line-1], lines[line:]...)
}

// indentUnit mirrors the indentation of the 1-based anchor line so inserted
// registrations line up with the existing fluent chain.
func indentUnit(lines []string, anchor int) string {
	if anchor == 0 {
		return "  "
	}
	line := lines[anchor-1]
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
