// Package profile provides named, reusable conversion profiles: the headers
// a vendor export carries, how they map onto the output fields, and the
// conversion settings that go with them. Built-in profiles cover common
// collar vendors; user profiles load from a directory of YAML files.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wildtel/collarcsv/internal/core"
)

// Profile describes one vendor export format and how to convert it.
type Profile struct {
	// Name identifies the profile. File-loaded profiles default to the
	// file name without its extension.
	Name string `yaml:"name"`

	// Vendor is a free-form label used to group profiles in listings.
	Vendor string `yaml:"vendor,omitempty"`

	// Headers are the column headers this profile expects. They drive
	// matching a loaded file against the registry.
	Headers []string `yaml:"headers"`

	// Mapping maps output fields (serialnumber, time, latitude,
	// longitude) to header names.
	Mapping map[string]string `yaml:"mapping"`

	// TimestampFormat, when set, pins the timestamp layout (Go reference
	// form) instead of the fallback chain.
	TimestampFormat string `yaml:"timestamp_format,omitempty"`

	// Dedupe overrides the default dedupe-on behavior when set.
	Dedupe *bool `yaml:"dedupe,omitempty"`

	// Filters seed the start-date filter.
	Filters *Filters `yaml:"filters,omitempty"`
}

// Validate checks the profile is internally consistent.
func (p Profile) Validate() error {
	if p.Name == "" {
		return errors.New("profile name is required")
	}
	if len(p.Mapping) == 0 {
		return fmt.Errorf("profile %s: mapping is required", p.Name)
	}
	for field, header := range p.Mapping {
		if !validTarget(field) {
			return fmt.Errorf("profile %s: unknown output field %q", p.Name, field)
		}
		if len(p.Headers) > 0 && !containsHeader(p.Headers, header) {
			return fmt.Errorf("profile %s: mapped header %q not in headers list", p.Name, header)
		}
	}
	return nil
}

// Resolve turns the profile's header-name mapping into column indexes for
// the given file headers. Fields the profile does not map stay Unset.
func (p Profile) Resolve(headers []string) (core.FieldMapping, error) {
	idx := core.MakeHeaderIndex(headers)
	mapping := core.NewFieldMapping()
	for field, header := range p.Mapping {
		col, ok := idx[strings.ToLower(core.CleanCell(header))]
		if !ok {
			return mapping, fmt.Errorf("profile %s: header %q not in file", p.Name, header)
		}
		mapping.Set(core.TargetField(field), col)
	}
	return mapping, nil
}

// Options translates the profile's conversion settings, applying the
// default dedupe-on behavior when the profile does not say.
func (p Profile) Options() core.Options {
	opts := core.Options{Dedupe: true, TimestampFormat: p.TimestampFormat}
	if p.Dedupe != nil {
		opts.Dedupe = *p.Dedupe
	}
	return opts
}

// FilterConfig returns the profile's start-date filter, empty when the
// profile has none.
func (p Profile) FilterConfig() core.FilterConfig {
	if p.Filters == nil {
		return core.FilterConfig{}
	}
	return p.Filters.Config()
}

// Emit renders p as a YAML document suitable for a profile directory.
func (p Profile) Emit() ([]byte, error) {
	return yaml.Marshal(p)
}

// LoadFile reads one profile from a YAML file. A missing name defaults to
// the file name.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", filepath.Base(path), err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &p, nil
}

// LoadDir registers every .yaml/.yml profile in dir and reports how many it
// added. Registration stops at the first invalid or duplicate profile.
func LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read profile dir: %w", err)
	}

	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
		default:
			continue
		}
		p, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return n, err
		}
		if err := add(*p); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func validTarget(field string) bool {
	for _, f := range core.TargetFields {
		if string(f) == field {
			return true
		}
	}
	return false
}

func containsHeader(headers []string, want string) bool {
	for _, h := range headers {
		if strings.EqualFold(core.CleanCell(h), core.CleanCell(want)) {
			return true
		}
	}
	return false
}
