// Package jsonmin implements the JSON metadata minification task used for
// the generated documentation's search metadata: optionally stamps the
// project version into the document, then strips all whitespace.
package jsonmin

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the jsonmin task.
type Input struct {
	// Input is the JSON file to minify, relative to the project root.
	Input string `hcl:"input"`
	// Output is the minified file path. Defaults to rewriting in place.
	Output string `hcl:"output,optional"`
	// StampVersion writes the project version into the document's
	// top-level "version" field before minifying.
	StampVersion bool `hcl:"stamp_version,optional"`
}

// OnRunJSONMin minifies the configured JSON file.
func OnRunJSONMin(ctx context.Context, rc *registry.RunContext, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	data, err := os.ReadFile(filepath.Join(rc.Project.Root, in.Input))
	if err != nil {
		return errors.Wrap(err, "failed to read JSON input")
	}
	if !gjson.ValidBytes(data) {
		return errors.Errorf("%q is not valid JSON", in.Input)
	}
	inputSize := len(data)

	if in.StampVersion {
		data, err = sjson.SetBytes(data, "version", rc.Project.Version)
		if err != nil {
			return errors.Wrap(err, "failed to stamp version")
		}
	}

	minified := pretty.Ugly(data)

	outPath := in.Output
	if outPath == "" {
		outPath = in.Input
	}
	fullOut := filepath.Join(rc.Project.Root, outPath)
	if err := os.MkdirAll(filepath.Dir(fullOut), 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	if err := os.WriteFile(fullOut, minified, 0o644); err != nil {
		return errors.Wrap(err, "failed to write minified JSON")
	}

	logger.Info("JSON minified.", "input", in.Input, "output", outPath,
		"before", inputSize, "after", len(minified))
	return nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask("jsonmin", &registry.RegisteredTask{
		NewInput: func() any { return new(Input) },
		Run:      OnRunJSONMin,
	})
}
