package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/wallplan/pkg/errors"
)

// Format is a project file encoding.
type Format string

// Supported project file formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported project file extension: %q (must be .toml, .yaml, .yml or .json)", filepath.Ext(path))
}

// Read decodes a project in format f from r and validates it.
// Read does not close r.
func Read(r io.Reader, f Format) (Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Project{}, errs.Wrap(errs.ErrCodeInvalidProject, err, "read project")
	}

	var pf projectFile
	switch f {
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&pf)
		if err == nil && len(md.Undecoded()) > 0 {
			err = fmt.Errorf("unknown keys: %v", md.Undecoded())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&pf)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&pf)
	default:
		return Project{}, errs.New(errs.ErrCodeInvalidFormat, "unsupported format: %q", f)
	}
	if err != nil {
		return Project{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode %s", f)
	}

	p, err := pf.toProject()
	if err != nil {
		return Project{}, err
	}
	if err := p.Validate(); err != nil {
		return Project{}, err
	}
	return p, nil
}

// Load opens the project file at path and decodes it using the format
// implied by its extension.
func Load(path string) (Project, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return Project{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Project{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "project file %s", path)
		}
		return Project{}, errs.Wrap(errs.ErrCodeInvalidProject, err, "open %s", path)
	}
	defer file.Close()
	return Read(file, f)
}
