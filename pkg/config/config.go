// Package config holds the fixed shape a CSW circuit is compiled for.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Params fixes every variable-length part of the CSW witness.
type Params struct {
	NumCustomFields int `yaml:"numCustomFields"` // certificate custom fields
	RangeSize       int `yaml:"rangeSize"`       // blocks between last confirmed epoch and ceasing
	MstHeight       int `yaml:"mstHeight"`       // sidechain state tree
	ScTreeHeight    int `yaml:"scTreeHeight"`    // sidechains in the ScTxsCommitment tree
	FtTreeHeight    int `yaml:"ftTreeHeight"`    // forward transfers per sidechain and block
}

const maxHeight = 32

// Default returns the parameters used when nothing is configured.
func Default() Params {
	return Params{
		NumCustomFields: 1,
		RangeSize:       4,
		MstHeight:       22,
		ScTreeHeight:    12,
		FtTreeHeight:    12,
	}
}

var envVars = []struct {
	name string
	dst  func(*Params) *int
}{
	{"CSW_NUM_CUSTOM_FIELDS", func(p *Params) *int { return &p.NumCustomFields }},
	{"CSW_RANGE_SIZE", func(p *Params) *int { return &p.RangeSize }},
	{"CSW_MST_HEIGHT", func(p *Params) *int { return &p.MstHeight }},
	{"CSW_SC_TREE_HEIGHT", func(p *Params) *int { return &p.ScTreeHeight }},
	{"CSW_FT_TREE_HEIGHT", func(p *Params) *int { return &p.FtTreeHeight }},
}

// Load reads the YAML file at path (if non-empty) over the defaults, then
// applies CSW_* environment overrides.
func Load(path string) (Params, error) {
	p := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return p, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &p); err != nil {
			return p, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	for _, ev := range envVars {
		v, ok := os.LookupEnv(ev.name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("%s: %w", ev.name, err)
		}
		*ev.dst(&p) = n
	}

	return p, p.Validate()
}

// Validate rejects negative counts and tree heights outside [1,32].
func (p Params) Validate() error {
	if p.NumCustomFields < 0 {
		return fmt.Errorf("numCustomFields must be >= 0, got %d", p.NumCustomFields)
	}
	if p.RangeSize < 0 {
		return fmt.Errorf("rangeSize must be >= 0, got %d", p.RangeSize)
	}
	for name, h := range map[string]int{
		"mstHeight":    p.MstHeight,
		"scTreeHeight": p.ScTreeHeight,
		"ftTreeHeight": p.FtTreeHeight,
	} {
		if h < 1 || h > maxHeight {
			return fmt.Errorf("%s must be in [1,%d], got %d", name, maxHeight, h)
		}
	}
	return nil
}
