// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads and validates incdoc run configuration from YAML or
// HCL files.
package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser decodes one config file format.
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

// 🗺️ parsers holds the registered format parsers, probed in order.
var parsers []Parser

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns the first parser that can handle the given file.
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config represents the complete configuration
type Config struct {
	Root           string   `json:"root" yaml:"root" hcl:"root,optional"`                                                     // Scan root and containment boundary
	DryRun         bool     `json:"dry_run,omitempty" yaml:"dry_run,omitempty" hcl:"dry_run,optional"`                        // Report only, suppress writes
	Extensions     []string `json:"extensions,omitempty" yaml:"extensions,omitempty" hcl:"extensions,optional"`               // Source file extensions
	IgnorePatterns []string `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty" hcl:"ignore_patterns,optional"` // Glob patterns for files to skip
	FailFast       bool     `json:"fail_fast,omitempty" yaml:"fail_fast,omitempty" hcl:"fail_fast,optional"`                  // Abort the run on the first failed file
	Jobs           int      `json:"jobs,omitempty" yaml:"jobs,omitempty" hcl:"jobs,optional"`                                 // Parallel file workers
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("root", cfg.Root).Bool("dry_run", cfg.DryRun).Msg("configuration loaded")
	return cfg, nil
}

// 🏭 Default returns the configuration used when no config file exists. Root
// is left empty; callers fill it from the command line before Validate.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".rs"}
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = 1
	}
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Root == "" {
		return errors.Errorf("root is required")
	}
	cfg.Root = filepath.Clean(cfg.Root)

	cfg.applyDefaults()
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			cfg.Extensions[i] = "." + ext
		}
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	mode := "write"
	if cfg.DryRun {
		mode = "dry-run"
	}
	return fmt.Sprintf("%s (%s, %s)", cfg.Root, strings.Join(cfg.Extensions, ","), mode)
}

// 🔧 YAMLParser handles .yaml and .yml config files. Unknown keys are
// rejected so a typoed option fails loudly instead of being ignored.
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

// 🔧 HCLParser handles .hcl config files. All options are top-level
// attributes; no blocks or variables are defined.
type HCLParser struct{}

func init() {
	Register(&HCLParser{})
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{Variables: map[string]cty.Value{}}

	var cfg Config
	if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &cfg); diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return &cfg, nil
}
