package codegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matthewbaird/routegen/internal/errs"
	"github.com/matthewbaird/routegen/internal/spec"
)

// Writer places rendered modules under OutputRoot and computes the import
// specifiers the aggregator and the generated code need.
type Writer struct {
	OutputRoot string
	IndexFile  string
	DBPath     string
}

// WriteResult describes one written module.
type WriteResult struct {
	// File is the path of the written module.
	File string
	// Variable is the aggregator identifier for the module.
	Variable string
	// ImportPath is the import specifier of the module as seen from the
	// aggregator file.
	ImportPath string
}

// Write renders rs and writes it to the deterministic location
// {OutputRoot}/{module}/{version}/{module}-{version}.routes.ts, creating
// directories as needed and overwriting any previous generation.
func (w *Writer) Write(rs *spec.RouteSpec) (*WriteResult, error) {
	dir := filepath.Join(w.OutputRoot, rs.Module, rs.Version)
	file := filepath.Join(dir, fmt.Sprintf("%s-%s.routes.ts", rs.Module, rs.Version))

	content, err := Render(rs, relImport(dir, w.DBPath))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errs.FileSystemf(err, "creating module directory %s", dir)
	}
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		return nil, errs.FileSystemf(err, "writing module %s", file)
	}

	return &WriteResult{
		File:       file,
		Variable:   RouteVariable(rs.Module, rs.Version),
		ImportPath: relImport(filepath.Dir(w.IndexFile), strings.TrimSuffix(file, ".ts")),
	}, nil
}

// GeneratedImportPrefix is the import-path prefix, as seen from the
// aggregator file, that identifies modules produced by this compiler. Used
// as the clean heuristic when no manifest is available.
func (w *Writer) GeneratedImportPrefix() string {
	return relImport(filepath.Dir(w.IndexFile), w.OutputRoot) + "/"
}

// relImport computes the import specifier for target as seen from fromDir.
func relImport(fromDir, target string) string {
	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		rel = target
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}
