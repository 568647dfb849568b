package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ConfigPath is the pipeline configuration file or directory.
	ConfigPath string
	// Pipeline is the name of the pipeline to execute.
	Pipeline string

	LogFormat string
	LogLevel  string
	// List prints the composed pipelines instead of running one.
	List bool
}

// DefaultPipeline is executed when the invoker names no pipeline.
const DefaultPipeline = "default"

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.Pipeline == "" {
		cfg.Pipeline = DefaultPipeline
	}

	return &cfg, nil
}
