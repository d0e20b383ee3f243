package config

import (
	"fmt"
	"os"
	"strconv"
)

const EnvPipelineMaxConcurrency = "BASIRA_PIPELINE_MAX_CONCURRENCY"

// PipelineConfig holds processing pipeline parameters.
type PipelineConfig struct {
	MaxConcurrency int `toml:"max_concurrency"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.MaxConcurrency != 0 {
		c.MaxConcurrency = overlay.MaxConcurrency
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = 4
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineMaxConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrency = n
		}
	}
}

func (c *PipelineConfig) validate() error {
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("invalid max_concurrency: %d", c.MaxConcurrency)
	}
	return nil
}
