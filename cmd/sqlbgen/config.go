package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlb/compiler/gen"
)

// fileConfig is the sqlbgen YAML configuration:
//
//	patterns: ["./internal/..."]
//	header: "Code generated by sqlbgen, DO NOT EDIT."
//	suffix: _fields.go
//	workers: 4
//	build_flags: ["-tags=integration"]
type fileConfig struct {
	Patterns   []string `yaml:"patterns"`
	Header     string   `yaml:"header"`
	Suffix     string   `yaml:"suffix"`
	Workers    int      `yaml:"workers"`
	BuildFlags []string `yaml:"build_flags"`
}

// readConfig reads the config at path. Unknown keys are rejected and an
// empty file is an empty config.
func readConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := &fileConfig{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// options returns the generator options set in the file.
func (c *fileConfig) options() []gen.Option {
	var opts []gen.Option
	if c.Header != "" {
		opts = append(opts, gen.WithHeader(c.Header))
	}
	if c.Suffix != "" {
		opts = append(opts, gen.WithSuffix(c.Suffix))
	}
	if c.Workers != 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	return opts
}
