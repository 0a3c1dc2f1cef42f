package profile

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wildtel/collarcsv/internal/core"
)

// Filters is the YAML form of the start-date filter: an optional global
// start plus per-serial overrides.
type Filters struct {
	Start     FlexTime            `yaml:"start,omitempty"`
	PerSerial map[string]FlexTime `yaml:"per_serial,omitempty"`
}

// Config converts the YAML form into the converter's filter config.
func (f *Filters) Config() core.FilterConfig {
	cfg := core.FilterConfig{Start: f.Start.Time}
	if len(f.PerSerial) > 0 {
		cfg.PerSerial = make(map[string]time.Time, len(f.PerSerial))
		for serial, t := range f.PerSerial {
			cfg.PerSerial[serial] = t.Time
		}
	}
	return cfg
}

// LoadFilters reads a standalone filters file.
func LoadFilters(path string) (core.FilterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.FilterConfig{}, fmt.Errorf("read filters: %w", err)
	}
	var f Filters
	if err := yaml.Unmarshal(data, &f); err != nil {
		return core.FilterConfig{}, fmt.Errorf("parse filters: %w", err)
	}
	return f.Config(), nil
}

// flexTimeLayouts are the date forms a filters file may use.
var flexTimeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// ParseTime parses a filter date, with or without a time of day.
func ParseTime(raw string) (time.Time, error) {
	for _, layout := range flexTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or YYYY-MM-DD HH:MM:SS", raw)
}

// FlexTime is a timestamp that accepts a date with or without a time of day.
type FlexTime struct {
	time.Time
}

func (t *FlexTime) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseTime(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t FlexTime) MarshalYAML() (interface{}, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Format("2006-01-02 15:04:05"), nil
}
