package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given path (a file or a directory
	// of configuration files), translates it into the format-agnostic
	// model, and returns a matching Decoder.
	Load(ctx context.Context, path string) (*Model, Decoder, error)
}

// Decoder is the interface for format-specific data binding. It bridges a
// task entry's raw options body and the Go input struct its handler expects.
type Decoder interface {
	// DecodeArguments decodes a task's raw arguments body into the target
	// Go struct, evaluating expressions against evalCtx.
	DecodeArguments(ctx context.Context, target any, body hcl.Body, evalCtx *hcl.EvalContext) error
}
