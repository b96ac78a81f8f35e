package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested
// sections map naturally to the CLI flags.
type FileConfig struct {
	Globs []string `yaml:"globs" json:"globs"`

	Out struct {
		JSON string `yaml:"json" json:"json"`
		CSV  string `yaml:"csv" json:"csv"`
		PDF  string `yaml:"pdf" json:"pdf"`
	} `yaml:"out" json:"out"`

	Min int `yaml:"min" json:"min"`

	// Keys renames the business-context fields of the JSON artifact for
	// consumers that expect the long-form names.
	Keys struct {
		Business string `yaml:"business" json:"business"`
		Location string `yaml:"location" json:"location"`
	} `yaml:"keys" json:"keys"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// that are still at their flag defaults, so file config supplies defaults
// while explicit flags win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	// Defaults from flag parsing that file config may override when the
	// flags were not set explicitly.
	const (
		outJSONDefault = "data.json"
		outCSVDefault  = "reviews.csv"
		minDefault     = 5
	)
	if len(cfg.Globs) == 0 && len(fc.Globs) > 0 {
		cfg.Globs = fc.Globs
	}
	if (cfg.OutJSON == "" || cfg.OutJSON == outJSONDefault) && fc.Out.JSON != "" {
		cfg.OutJSON = fc.Out.JSON
	}
	if (cfg.OutCSV == "" || cfg.OutCSV == outCSVDefault) && fc.Out.CSV != "" {
		cfg.OutCSV = fc.Out.CSV
	}
	if cfg.OutPDF == "" && fc.Out.PDF != "" {
		cfg.OutPDF = fc.Out.PDF
	}
	if (cfg.MinReviews == 0 || cfg.MinReviews == minDefault) && fc.Min != 0 {
		cfg.MinReviews = fc.Min
	}
	if cfg.JSONKeys.BusinessKey == "" && fc.Keys.Business != "" {
		cfg.JSONKeys.BusinessKey = fc.Keys.Business
	}
	if cfg.JSONKeys.LocationKey == "" && fc.Keys.Location != "" {
		cfg.JSONKeys.LocationKey = fc.Keys.Location
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}
