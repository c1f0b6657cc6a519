// Package builder drives the two workflows of the compiler: generate
// (spec documents → modules → aggregator upsert) and clean (delete generated
// output + reverse the aggregator edits).
//
// The builder is strictly sequential: every spec mutates the same aggregator
// file, and each mutation re-reads the previous one's result. Running two
// instances against the same aggregator or output directory concurrently is
// unsafe and is the caller's responsibility to avoid.
package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/matthewbaird/routegen/internal/codegen"
	"github.com/matthewbaird/routegen/internal/config"
	"github.com/matthewbaird/routegen/internal/errs"
	"github.com/matthewbaird/routegen/internal/index"
	"github.com/matthewbaird/routegen/internal/logging"
	"github.com/matthewbaird/routegen/internal/spec"
)

// specExt is the recognized route spec extension; other files in the specs
// directory are ignored.
const specExt = ".json"

type Builder struct {
	cfg config.Config
	log *zap.SugaredLogger
}

func New(cfg config.Config) *Builder {
	return &Builder{cfg: cfg, log: logging.L()}
}

// Generate compiles every route spec in the specs directory, in
// directory-listing order, and wires the aggregator file to the written
// modules. Fail-fast by default; with ContinueOnError the batch runs to the
// end and reports the collected failures.
func (b *Builder) Generate() error {
	entries, err := os.ReadDir(b.cfg.SpecsDir)
	if err != nil {
		return errs.FileSystemf(err, "listing specs directory %s", b.cfg.SpecsDir)
	}

	writer := b.writer()
	patcher := index.NewPatcher(b.cfg.IndexFile, b.log)

	manifest, err := codegen.LoadManifest(b.cfg.OutputDir)
	if err != nil {
		return err
	}
	if manifest == nil {
		manifest = &codegen.Manifest{}
	}

	var failed error
	generated := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), specExt) {
			continue
		}
		path := filepath.Join(b.cfg.SpecsDir, entry.Name())
		if err := b.generateOne(path, writer, patcher, manifest); err != nil {
			err = errors.Wrapf(err, "generating from %s", path)
			if !b.cfg.ContinueOnError {
				return err
			}
			b.log.Errorw("spec failed", "spec", path, "error", err)
			failed = errors.CombineErrors(failed, err)
			continue
		}
		generated++
	}

	if generated > 0 {
		if err := codegen.SaveManifest(b.cfg.OutputDir, manifest); err != nil {
			return err
		}
	}
	return failed
}

func (b *Builder) generateOne(path string, w *codegen.Writer, p *index.Patcher, m *codegen.Manifest) error {
	rs, err := spec.Load(path)
	if err != nil {
		return err
	}
	res, err := w.Write(rs)
	if err != nil {
		return err
	}
	if err := p.Upsert(res.Variable, res.ImportPath); err != nil {
		return err
	}
	m.Upsert(codegen.ManifestEntry{
		Module:     rs.Module,
		Version:    rs.Version,
		Variable:   res.Variable,
		ImportPath: res.ImportPath,
		File:       res.File,
	})
	fmt.Printf("Generated %s\n", res.File)
	return nil
}

// Clean deletes all generated module output, then reverse-patches the
// aggregator file. The two sub-steps are independent and sequential; a
// failure in one does not roll back the other.
func (b *Builder) Clean() error {
	manifest, err := codegen.LoadManifest(b.cfg.OutputDir)
	if err != nil {
		b.log.Warnw("manifest unreadable; falling back to import-path heuristic", "error", err)
		manifest = nil
	}

	if err := os.RemoveAll(b.cfg.OutputDir); err != nil {
		return errs.FileSystemf(err, "removing generated output %s", b.cfg.OutputDir)
	}

	prefix := b.writer().GeneratedImportPrefix()
	match := func(rec index.ImportRecord) bool {
		if manifest != nil {
			for _, e := range manifest.Entries {
				if e.Variable == rec.VariableName || e.ImportPath == rec.ImportPath {
					return true
				}
			}
			return false
		}
		return strings.HasPrefix(rec.ImportPath, prefix)
	}
	if err := index.NewPatcher(b.cfg.IndexFile, b.log).Reverse(match); err != nil {
		return err
	}
	fmt.Printf("Cleaned %s\n", b.cfg.OutputDir)
	return nil
}

func (b *Builder) writer() *codegen.Writer {
	return &codegen.Writer{
		OutputRoot: b.cfg.OutputDir,
		IndexFile:  b.cfg.IndexFile,
		DBPath:     b.cfg.DBPath,
	}
}
