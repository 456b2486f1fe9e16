// Package pipeline runs a sequence of named filter operations described by
// a TOML or YAML document:
//
//	name = "edges"
//	workers = 4
//
//	[[steps]]
//	op = "gaussian"
//	params = { kernel_width = 5, kernel_height = 5, sigma = 1.3 }
//
//	[[steps]]
//	op = "sobel"
//	params = { axis = "y" }
//
// Parameter keys are the control names of the operation in lower case with
// spaces replaced by underscores, see [pix.ControlKey].
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a pipeline document.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

var errNoSteps = errors.New("pipeline has no steps")

// Step is a single operation of a pipeline.
type Step struct {
	Op     string         `toml:"op" yaml:"op"`
	Params map[string]any `toml:"params" yaml:"params"`
	// Skip leaves the step out of the built pipeline.
	Skip bool `toml:"skip" yaml:"skip"`
}

// Config describes a pipeline.
type Config struct {
	Name string `toml:"name" yaml:"name"`
	// Workers is the worker pool size. Zero or less selects GOMAXPROCS.
	Workers int    `toml:"workers" yaml:"workers"`
	Steps   []Step `toml:"steps" yaml:"steps"`
}

func (c Config) Validate() error {
	if len(c.Steps) == 0 {
		return errNoSteps
	}
	for i, s := range c.Steps {
		if strings.TrimSpace(s.Op) == "" {
			return fmt.Errorf("step %d: missing op", i)
		}
	}
	return nil
}

// FormatOf returns the document format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("unsupported pipeline file extension %q", filepath.Ext(path))
}

// LoadFile reads and validates the pipeline document at path.
func LoadFile(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a pipeline document.
func Parse(data []byte, format Format) (cfg Config, err error) {
	switch format {
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				err = fmt.Errorf("unknown pipeline keys %v", undecoded)
			}
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
	default:
		err = fmt.Errorf("unknown pipeline format %d", format)
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}
