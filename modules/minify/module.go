// Package minify implements the minification task for bundled JS and CSS
// artifacts, writing the project banner ahead of the minified payload.
package minify

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"

	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the minify task.
type Input struct {
	// Input is the file to minify, relative to the project root.
	Input string `hcl:"input"`
	// Output is the minified file path. Defaults to the input path with a
	// .min suffix before the extension.
	Output string `hcl:"output,optional"`
	// Banner controls whether the project banner is prepended.
	Banner bool `hcl:"banner,optional"`
}

func mediaType(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs":
		return "application/javascript", nil
	case ".css":
		return "text/css", nil
	}
	return "", errors.Errorf("no minifier for file type %q", filepath.Ext(path))
}

// minSuffix derives out.min.ext from out.ext.
func minSuffix(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".min" + ext
}

// OnRunMinify minifies the configured input file.
func OnRunMinify(ctx context.Context, rc *registry.RunContext, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	mtype, err := mediaType(in.Input)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Join(rc.Project.Root, in.Input))
	if err != nil {
		return errors.Wrap(err, "failed to read minify input")
	}

	m := minify.New()
	m.AddFunc("application/javascript", js.Minify)
	m.AddFunc("text/css", css.Minify)

	var buf bytes.Buffer
	if in.Banner {
		buf.WriteString(rc.Project.Banner)
	}
	if err := m.Minify(mtype, &buf, bytes.NewReader(data)); err != nil {
		return errors.Wrapf(err, "failed to minify %q", in.Input)
	}

	outPath := in.Output
	if outPath == "" {
		outPath = minSuffix(in.Input)
	}
	fullOut := filepath.Join(rc.Project.Root, outPath)
	if err := os.MkdirAll(filepath.Dir(fullOut), 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	if err := os.WriteFile(fullOut, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "failed to write minified output")
	}

	logger.Info("Minified.", "input", in.Input, "output", outPath,
		"before", len(data), "after", buf.Len())
	return nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask("minify", &registry.RegisteredTask{
		NewInput: func() any { return new(Input) },
		Run:      OnRunMinify,
	})
}
