package hclcfg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/pipewright/internal/config"
	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/fsutil"
)

// Loader reads HCL pipeline configuration and translates it into the
// format-agnostic config model.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load implements config.Loader. The path may be a single .hcl file or a
// directory, in which case every .hcl file under it is loaded, in sorted
// path order, and merged into one model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, config.Decoder, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat configuration path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan configuration directory: %w", err)
		}
		sort.Strings(files)
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no .hcl configuration files found under %q", path)
	}
	logger.Debug("Configuration files discovered.", "count", len(files))

	var (
		projectBlock *Project
		tasks        []*Task
		pipelines    []*Pipeline
	)
	for _, file := range files {
		parsed, err := l.parseFile(file)
		if err != nil {
			return nil, nil, err
		}
		if parsed.Project != nil {
			if projectBlock != nil {
				return nil, nil, fmt.Errorf("duplicate project block in %q", file)
			}
			projectBlock = parsed.Project
		}
		tasks = append(tasks, parsed.Tasks...)
		pipelines = append(pipelines, parsed.Pipelines...)
	}

	model, err := translate(projectBlock, tasks, pipelines)
	if err != nil {
		return nil, nil, err
	}

	// The project root is relative to the configuration's own location, so
	// invoking pipewright from elsewhere still resolves the same tree.
	base := path
	if !info.IsDir() {
		base = filepath.Dir(path)
	}
	if !filepath.IsAbs(model.Project.Root) {
		model.Project.Root = filepath.Join(base, model.Project.Root)
	}
	logger.Debug("Configuration translated into unified model.",
		"tasks", len(model.Tasks), "pipelines", len(model.Pipelines))

	return model, &Decoder{}, nil
}

// parseFile parses a single .hcl file into the schema structs.
func (l *Loader) parseFile(path string) (*File, error) {
	hclFile, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %q: %w", path, diags)
	}

	var parsed File
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %q: %w", path, diags)
	}
	return &parsed, nil
}

// Decoder is the HCL implementation of config.Decoder.
type Decoder struct{}

// DecodeArguments evaluates a task's arguments body against evalCtx and
// populates the handler's input struct. A nil body decodes as all-defaults,
// so tasks without an arguments block still work for handlers whose inputs
// are all optional.
func (d *Decoder) DecodeArguments(ctx context.Context, target any, body hcl.Body, evalCtx *hcl.EvalContext) error {
	logger := ctxlog.FromContext(ctx)
	if target == nil {
		logger.Debug("Handler takes no input, skipping argument decode.")
		return nil
	}
	if body == nil {
		logger.Debug("Task has no arguments block, using zero-value input.")
		return nil
	}
	if diags := gohcl.DecodeBody(body, evalCtx, target); diags.HasErrors() {
		return fmt.Errorf("failed to decode arguments: %w", diags)
	}
	return nil
}
