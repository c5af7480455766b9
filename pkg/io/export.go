package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/wallplan/pkg/errors"
)

// Write encodes p in format f to w. The output can be read back with [Read].
func Write(w io.Writer, p Project, f Format) error {
	pf := fromProject(p)

	switch f {
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(pf); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(pf); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		return WriteJSON(w, pf)
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "unsupported format: %q", f)
	}
	return nil
}

// Save writes p to path in the format implied by its extension. The file is
// written to a temporary sibling and renamed into place, so a failed save
// never leaves a truncated project behind.
func Save(p Project, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".wallplan-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := Write(tmp, p, f); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// WriteJSON encodes v as indented JSON to w.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes v as indented JSON to a file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, v)
}
