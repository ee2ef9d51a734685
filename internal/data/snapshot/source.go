// Package snapshot reads design-document snapshots exported by the host into files and serves
// them through the document, library and resolver ports.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tokenlint/internal/core/errors"
	"tokenlint/internal/engine/document"
	"tokenlint/internal/engine/lint"
	"tokenlint/internal/engine/provenance"

	"gopkg.in/yaml.v3"
)

type entity struct {
	name    string
	library string
	key     string
}

// Source is an immutable, file-backed document snapshot.
type Source struct {
	path      string
	doc       *document.Snapshot
	libraries []lint.Library
	styles    map[string]entity
	variables map[string]entity
}

// Load reads a snapshot from path. Files ending in .yaml or .yml are read as YAML, all others
// as JSON.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "snapshot not found"), errors.CtxPath, path)
		}
		return nil, fmt.Errorf("read snapshot %q: %w", path, err)
	}
	src, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	src.path = path
	return src, nil
}

// Format selects the snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Parse decodes snapshot bytes.
func Parse(data []byte, format Format) (*Source, error) {
	var w wireSnapshot
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "decode yaml snapshot")
		}
	default:
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "decode json snapshot")
		}
	}

	pages, err := convertNodes(w.Pages, "pages", make(map[string]bool))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "invalid snapshot")
	}

	src := &Source{
		doc:       document.NewSnapshot(w.Document, pages, w.Selection),
		libraries: make([]lint.Library, 0, len(w.Libraries)),
		styles:    convertEntities(w.Styles),
		variables: convertEntities(w.Variables),
	}
	for _, l := range w.Libraries {
		src.libraries = append(src.libraries, lint.Library{ID: strings.TrimSpace(l.ID), Name: strings.TrimSpace(l.Name)})
	}
	return src, nil
}

func convertEntities(in map[string]wireEntity) map[string]entity {
	out := make(map[string]entity, len(in))
	for id, e := range in {
		out[strings.TrimSpace(id)] = entity{
			name:    e.Name,
			library: strings.TrimSpace(e.Library),
			key:     strings.TrimSpace(e.Key),
		}
	}
	return out
}

func (s *Source) Path() string {
	return s.path
}

// Snapshot returns the document snapshot.
func (s *Source) Snapshot(ctx context.Context) (*document.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.doc, nil
}

// Libraries returns the libraries listed in the snapshot.
func (s *Source) Libraries(ctx context.Context) ([]lint.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]lint.Library, len(s.libraries))
	copy(out, s.libraries)
	return out, nil
}

// Resolve looks up a style or variable id in the snapshot tables.
func (s *Source) Resolve(ctx context.Context, b document.Binding) (provenance.Resolution, bool, error) {
	if err := ctx.Err(); err != nil {
		return provenance.Resolution{}, false, err
	}
	var table map[string]entity
	switch b.Kind {
	case document.BindingStyle:
		table = s.styles
	case document.BindingVariable:
		table = s.variables
	default:
		return provenance.Resolution{}, false, nil
	}
	e, ok := table[b.ID]
	if !ok {
		return provenance.Resolution{}, false, nil
	}
	lib, key, parsed := provenance.SplitRef(b.ID)
	if e.library != "" {
		lib = e.library
	} else if !parsed {
		return provenance.Resolution{}, false, nil
	}
	if e.key != "" {
		key = e.key
	}
	return provenance.Resolution{Name: e.name, LibraryID: lib, Key: key}, true, nil
}

// LoadLibraries reads a standalone library list ([{id, name}]) in JSON or YAML.
func LoadLibraries(path string) ([]lint.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read libraries %q: %w", path, err)
	}
	var raw []wireLibrary
	if formatOf(path) == FormatYAML {
		err = yaml.Unmarshal(data, &raw)
	} else {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "decode libraries")
	}
	out := make([]lint.Library, 0, len(raw))
	for _, l := range raw {
		out = append(out, lint.Library{ID: strings.TrimSpace(l.ID), Name: strings.TrimSpace(l.Name)})
	}
	return out, nil
}
