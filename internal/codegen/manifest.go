package codegen

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/matthewbaird/routegen/internal/errs"
)

// ManifestName is the manifest file written at the output root.
const ManifestName = "manifest.json"

// Manifest records what this compiler generated. The manifest owns that
// state; the aggregator file is a derived view of it. Clean drives its
// removals from the manifest when one is present.
type Manifest struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Entries     []ManifestEntry `json:"entries"`
}

// ManifestEntry is one generated module/version pair.
type ManifestEntry struct {
	Module     string `json:"module"`
	Version    string `json:"version"`
	Variable   string `json:"variable"`
	ImportPath string `json:"import_path"`
	File       string `json:"file"`
}

// LoadManifest reads the manifest under outputRoot. A missing file yields
// (nil, nil): output from runs that predate manifests is still cleanable via
// the import-path heuristic.
func LoadManifest(outputRoot string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(outputRoot, ManifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.FileSystemf(err, "reading manifest under %s", outputRoot)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parsing manifest under %s", outputRoot)
	}
	return &m, nil
}

// Upsert replaces the entry for e's module/version pair or appends it.
func (m *Manifest) Upsert(e ManifestEntry) {
	for i, old := range m.Entries {
		if old.Module == e.Module && old.Version == e.Version {
			m.Entries[i] = e
			return
		}
	}
	m.Entries = append(m.Entries, e)
}

// SaveManifest writes m under outputRoot with a fresh run id and timestamp.
func SaveManifest(outputRoot string, m *Manifest) error {
	m.RunID = uuid.NewString()
	m.GeneratedAt = time.Now().UTC()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding manifest")
	}
	path := filepath.Join(outputRoot, ManifestName)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errs.FileSystemf(err, "writing manifest %s", path)
	}
	return nil
}
