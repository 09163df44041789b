// Package config loads tsxreview settings from YAML and the environment
// and turns them into a rule registry and per-rule settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/arjunmahishi/tsxreview/rule"
	"github.com/arjunmahishi/tsxreview/types"
)

// Environment variables consulted by Load.
const (
	EnvConfig = "TSXREVIEW_CONFIG"
	EnvJobs   = "TSXREVIEW_JOBS"
)

// ErrNotFound is returned when an explicitly named config file does not
// exist.
var ErrNotFound = errors.New("configuration file not found")

var searchNames = []string{".tsxreview.yaml", ".tsxreview.yml"}

// Config is the user-facing configuration.
type Config struct {
	// EnabledRules, when non-empty, enables exactly these rule ids.
	EnabledRules  []string `yaml:"enabled_rules" validate:"dive,required"`
	DisabledRules []string `yaml:"disabled_rules" validate:"dive,required"`

	// DisabledCategories turns off whole categories.
	DisabledCategories []string `yaml:"disabled_categories" validate:"dive,oneof=naming structure component-design"`

	// SeverityOverrides maps rule ids to info, warning or error.
	SeverityOverrides map[string]string   `yaml:"severity" validate:"dive,keys,required,endkeys,oneof=info warning warn error"`
	Thresholds        map[string]float64  `yaml:"thresholds" validate:"dive,keys,required,endkeys,gte=0"`
	Lists             map[string][]string `yaml:"lists"`

	Jobs      int `yaml:"jobs" validate:"gte=0"`
	MaxDepth  int `yaml:"max_depth" validate:"gte=0"`
	CacheSize int `yaml:"cache_size" validate:"gte=0"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{}
}

// Parse decodes YAML config data. $VAR and ${VAR} references are expanded
// before decoding and unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load resolves and reads the configuration. The file is, in order, the
// explicit path, $TSXREVIEW_CONFIG, or .tsxreview.yaml/.yml in the working
// directory; with none of them Default is used. A .env file in the working
// directory is loaded first. It returns the path that was read, if any.
func Load(explicitPath string) (*Config, string, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	configPath := explicitPath
	if configPath == "" {
		configPath = os.Getenv(EnvConfig)
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			if os.IsNotExist(err) {
				return nil, "", fmt.Errorf("%w: %s", ErrNotFound, configPath)
			}
			return nil, "", fmt.Errorf("access config %s: %w", configPath, err)
		}
	} else {
		for _, name := range searchNames {
			if _, err := os.Stat(name); err == nil {
				configPath = name
				break
			}
		}
	}

	cfg := Default()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, "", fmt.Errorf("read config: %w", err)
		}
		cfg, err = Parse(data)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", configPath, err)
		}
	}

	if v := os.Getenv(EnvJobs); v != "" {
		jobs, err := strconv.Atoi(v)
		if err != nil || jobs < 0 {
			return nil, "", fmt.Errorf("invalid %s %q", EnvJobs, v)
		}
		cfg.Jobs = jobs
	}
	return cfg, configPath, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Registry builds the registry of enabled rules out of all. Every rule id
// the configuration mentions must be one of all.
func (c *Config) Registry(all []rule.Rule) (*rule.Registry, error) {
	sel := rule.Selection{
		Only:    c.EnabledRules,
		Disable: c.DisabledRules,
	}
	for _, name := range c.DisabledCategories {
		cat, err := types.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		sel.DisableCategories = append(sel.DisableCategories, cat)
	}
	reg, err := rule.NewRegistry(all, sel)
	if err != nil {
		return nil, err
	}
	if err := reg.Check(c.settingIDs()...); err != nil {
		return nil, err
	}
	return reg, nil
}

// settingIDs lists the rule ids named by severity, threshold and list
// settings, sorted for stable error messages.
func (c *Config) settingIDs() []string {
	var ids []string
	for id := range c.SeverityOverrides {
		ids = append(ids, id)
	}
	for id := range c.Thresholds {
		ids = append(ids, id)
	}
	for id := range c.Lists {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Settings converts the per-rule options.
func (c *Config) Settings() (rule.Settings, error) {
	s := rule.Settings{
		Severity:   make(map[string]types.Severity, len(c.SeverityOverrides)),
		Thresholds: c.Thresholds,
		Lists:      c.Lists,
	}
	for id, name := range c.SeverityOverrides {
		sev, err := types.ParseSeverity(strings.TrimSpace(name))
		if err != nil {
			return rule.Settings{}, fmt.Errorf("severity of %s: %w", id, err)
		}
		s.Severity[id] = sev
	}
	return s, nil
}
