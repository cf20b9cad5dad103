// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package declfile loads option declarations from TOML or YAML files.
package declfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/yeetrun/optparse/pkg/fileutil"
	"github.com/yeetrun/optparse/pkg/optparse"
	"gopkg.in/yaml.v3"
)

const fileVersion = 1

// Names searched by Find, in order.
var configNames = []string{"optparse.toml", "optparse.yaml", "optparse.yml"}

// File is the on-disk form of a parser declaration.
type File struct {
	Version     int          `toml:"version,omitempty" yaml:"version,omitempty"`
	Requires    string       `toml:"requires,omitempty" yaml:"requires,omitempty"`
	Name        string       `toml:"name" yaml:"name"`
	Description string       `toml:"description,omitempty" yaml:"description,omitempty"`
	Options     []OptionDecl `toml:"options,omitempty" yaml:"options,omitempty"`
	Positionals []PosDecl    `toml:"positionals,omitempty" yaml:"positionals,omitempty"`
}

// OptionDecl declares a named option.
type OptionDecl struct {
	Short       string `toml:"short" yaml:"short"`
	Name        string `toml:"name" yaml:"name"`
	Required    bool   `toml:"required,omitempty" yaml:"required,omitempty"`
	Value       bool   `toml:"value,omitempty" yaml:"value,omitempty"`
	Default     string `toml:"default,omitempty" yaml:"default,omitempty"`
	Description string `toml:"description,omitempty" yaml:"description,omitempty"`
}

// PosDecl declares a positional slot.
type PosDecl struct {
	Name        string `toml:"name" yaml:"name"`
	Required    bool   `toml:"required,omitempty" yaml:"required,omitempty"`
	Default     string `toml:"default,omitempty" yaml:"default,omitempty"`
	Description string `toml:"description,omitempty" yaml:"description,omitempty"`
}

type format int

const (
	formatTOML format = iota
	formatYAML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return 0, fmt.Errorf("unsupported declaration file %s: want .toml, .yaml or .yml", path)
}

// Load reads and validates the declaration file at path against the running
// tool version.
func Load(path, toolVersion string) (*File, error) {
	ft, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := decode(content, ft)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := f.Validate(toolVersion); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return f, nil
}

func decode(content []byte, ft format) (*File, error) {
	var f File
	switch ft {
	case formatTOML:
		md, err := toml.Decode(string(content), &f)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys: %v", undecoded)
		}
	case formatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
	}
	if f.Version == 0 {
		f.Version = fileVersion
	}
	return &f, nil
}

// Find looks for a declaration file in startDir and its parents.
func Find(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			ok, err := fileutil.Exists(path)
			if err != nil {
				return "", err
			}
			if ok {
				return path, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// Validate checks the file for problems that would make the declarations
// ambiguous. All problems are reported together.
func (f *File) Validate(toolVersion string) error {
	var errs []error
	if f.Version > fileVersion {
		errs = append(errs, fmt.Errorf("version %d is newer than supported version %d", f.Version, fileVersion))
	}
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if err := checkRequires(f.Requires, toolVersion); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]bool)
	claim := func(what, name string) {
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("%s has an empty name", what))
		case strings.HasPrefix(name, "-"):
			errs = append(errs, fmt.Errorf("%s %q must not start with '-'", what, name))
		case strings.ContainsAny(name, " \t'\""):
			errs = append(errs, fmt.Errorf("%s %q contains whitespace or quotes", what, name))
		case seen[name]:
			errs = append(errs, fmt.Errorf("%s %q is declared more than once", what, name))
		}
		seen[name] = true
	}
	shorts := make(map[rune]string)
	for _, o := range f.Options {
		claim("option", o.Name)
		r, size := utf8.DecodeRuneInString(o.Short)
		if size == 0 || size != len(o.Short) || r == '-' || r == ' ' {
			errs = append(errs, fmt.Errorf("option %q: short name %q must be a single character", o.Name, o.Short))
			continue
		}
		if prev, ok := shorts[r]; ok {
			errs = append(errs, fmt.Errorf("option %q: short name -%c already used by %q", o.Name, r, prev))
			continue
		}
		shorts[r] = o.Name
	}
	for _, p := range f.Positionals {
		claim("positional", p.Name)
	}
	return errors.Join(errs...)
}

func checkRequires(requires, toolVersion string) error {
	if strings.TrimSpace(requires) == "" {
		return nil
	}
	c, err := semver.NewConstraint(requires)
	if err != nil {
		return fmt.Errorf("requires %q: %w", requires, err)
	}
	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		// Development builds carry a commit hash instead of a version.
		return nil
	}
	if !c.Check(v) {
		return fmt.Errorf("requires optparse %s, running %s", requires, v)
	}
	return nil
}

// Parser builds a parser holding the file's declarations.
func (f *File) Parser() *optparse.Parser {
	p := optparse.New(f.Name, f.Description)
	for _, o := range f.Options {
		r, _ := utf8.DecodeRuneInString(o.Short)
		policy := optparse.NoValue
		if o.Value {
			policy = optparse.ValueRequired
		}
		p.AddOptionWithPolicy(r, o.Name, kindOf(o.Required), o.Default, o.Description, policy)
	}
	for _, pos := range f.Positionals {
		p.AddPositional(pos.Name, kindOf(pos.Required), pos.Default, pos.Description)
	}
	return p
}

func kindOf(required bool) optparse.Kind {
	if required {
		return optparse.Required
	}
	return optparse.Optional
}

// Marshal encodes f in the format implied by path's extension.
func Marshal(path string, f *File) ([]byte, error) {
	ft, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	if f.Version == 0 {
		f.Version = fileVersion
	}
	if ft == formatYAML {
		return yaml.Marshal(f)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes f to path.
func Save(path string, f *File) error {
	b, err := Marshal(path, f)
	if err != nil {
		return err
	}
	return fileutil.WriteFile(path, b, 0o644)
}

// Template returns a starter declaration for a command called name.
func Template(name string) *File {
	return &File{
		Version:     fileVersion,
		Name:        name,
		Description: "Describe " + name + " here",
		Options: []OptionDecl{
			{Short: "h", Name: "help", Default: "false", Description: "Show help"},
			{Short: "v", Name: "verbose", Default: "false", Description: "Verbose output"},
			{Short: "o", Name: "output", Value: true, Default: "-", Description: "Output file"},
		},
		Positionals: []PosDecl{
			{Name: "input", Required: true, Description: "Input file"},
		},
	}
}
