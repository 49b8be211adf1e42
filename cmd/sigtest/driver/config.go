// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/slukits/sigtest/hooks"
	"gopkg.in/yaml.v3"
)

// ConfigFile is looked up next to a test source if no configuration
// file is given explicitly.
const ConfigFile = ".sigtest.yaml"

const (
	DefaultBuildDir = "build/tmp"
	DefaultGo       = "go"
)

// Config holds the settings of a driver run which may be given by a
// YAML file.
type Config struct {
	// Sources are additional go files of the test source's directory
	// compiled into the test binary.
	Sources []string `yaml:"sources"`

	// BuildDir receives the test binary.
	BuildDir string `yaml:"build_dir"`

	// Go is the go binary building the test binary.
	Go string `yaml:"go"`

	// Format is the report format of the test binary.
	Format string `yaml:"format"`
}

// ReadConfig reads the configuration file at given path.
func ReadConfig(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfig reads the configuration file at given path or the
// ConfigFile in the directory of given source if path is empty; a
// missing ConfigFile yields the zero Config.
func LoadConfig(path, source string) (Config, error) {
	if path != "" {
		return ReadConfig(path)
	}
	cfg, err := ReadConfig(filepath.Join(filepath.Dir(source), ConfigFile))
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

func (c Config) validate() error {
	if _, err := hooks.ParseFormat(c.Format); err != nil {
		return err
	}
	for _, s := range c.Sources {
		if filepath.Ext(s) != ".go" {
			return fmt.Errorf("source %s: not a go file", s)
		}
		if strings.ContainsRune(filepath.ToSlash(s), '/') {
			return fmt.Errorf(
				"source %s: must be in the test source's directory", s)
		}
	}
	return nil
}

// Merge returns given configuration completed by c's settings for
// every setting the given configuration leaves empty.
func (c Config) Merge(over Config) Config {
	if len(over.Sources) == 0 {
		over.Sources = c.Sources
	}
	if over.BuildDir == "" {
		over.BuildDir = c.BuildDir
	}
	if over.Go == "" {
		over.Go = c.Go
	}
	if over.Format == "" {
		over.Format = c.Format
	}
	return over
}

// withDefaults completes empty settings by their defaults.
func (c Config) withDefaults() Config {
	return Config{BuildDir: DefaultBuildDir, Go: DefaultGo,
		Format: string(hooks.Default)}.Merge(c)
}
