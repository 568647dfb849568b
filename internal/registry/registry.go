package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vk/pipewright/internal/config"
	"github.com/vk/pipewright/internal/fsutil"
	"github.com/vk/pipewright/internal/project"
)

// Module is the interface all tool modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// PipelineRunner runs a named pipeline. The watch module uses it to
// re-trigger its pipeline on file changes.
type PipelineRunner interface {
	RunPipeline(ctx context.Context, name string) error
}

// RunContext carries everything a handler may need beyond its decoded
// input: the immutable task entry, the project metadata, and a way to run
// pipelines for watch-triggered re-runs.
type RunContext struct {
	Task      *config.Task
	Project   *project.Project
	Pipelines PipelineRunner
}

// Sources resolves the task's src globs against the project root. Matches
// come back root-relative, in pattern order.
func (rc *RunContext) Sources() ([]string, error) {
	return fsutil.Glob(rc.Project.Root, rc.Task.Src)
}

// TaskFunc is the signature of a task handler. input is the struct produced
// by the handler's NewInput, populated from the task's arguments block.
type TaskFunc func(ctx context.Context, rc *RunContext, input any) error

// RegisteredTask holds the Go parts of one task kind.
type RegisteredTask struct {
	NewInput func() any
	Run      TaskFunc
}

// Resource is a scoped acquisition made by a pipeline step (the static
// server's port). The runner guarantees Close on every exit path of the
// pipeline that acquired it.
type Resource interface {
	Close(ctx context.Context) error
}

// RegisteredResource holds the create half of a resource kind's lifecycle;
// the destroy half is the returned Resource's Close.
type RegisteredResource struct {
	NewInput func() any
	Create   func(ctx context.Context, rc *RunContext, input any) (Resource, error)
}

// Registry maps task kinds to their Go handlers for a single application
// instance.
type Registry struct {
	TaskRegistry     map[string]*RegisteredTask
	ResourceRegistry map[string]*RegisteredResource
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		TaskRegistry:     make(map[string]*RegisteredTask),
		ResourceRegistry: make(map[string]*RegisteredResource),
	}
}

// RegisterTask registers a Go handler for a task kind.
func (r *Registry) RegisterTask(kind string, handler *RegisteredTask) {
	if _, exists := r.TaskRegistry[kind]; exists {
		panic(fmt.Sprintf("task handler with kind '%s' already registered", kind))
	}
	if _, exists := r.ResourceRegistry[kind]; exists {
		panic(fmt.Sprintf("kind '%s' already registered as a resource", kind))
	}
	slog.Debug("Registering task handler.", "kind", kind)
	r.TaskRegistry[kind] = handler
}

// RegisterResource registers a Go handler for a resource kind.
func (r *Registry) RegisterResource(kind string, handler *RegisteredResource) {
	if _, exists := r.ResourceRegistry[kind]; exists {
		panic(fmt.Sprintf("resource handler with kind '%s' already registered", kind))
	}
	if _, exists := r.TaskRegistry[kind]; exists {
		panic(fmt.Sprintf("kind '%s' already registered as a task", kind))
	}
	slog.Debug("Registering resource handler.", "kind", kind)
	r.ResourceRegistry[kind] = handler
}

// Validate checks that every task entry in the model names a registered
// kind. A mismatch between configuration and compiled-in modules is fatal
// at startup, not at execution time.
func (r *Registry) Validate(model *config.Model) error {
	missing := make(map[string]struct{})
	for _, t := range model.Tasks {
		_, isTask := r.TaskRegistry[t.Kind]
		_, isResource := r.ResourceRegistry[t.Kind]
		if !isTask && !isResource {
			missing[t.Kind] = struct{}{}
		}
	}
	if len(missing) == 0 {
		return nil
	}

	kinds := make([]string, 0, len(missing))
	for k := range missing {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return fmt.Errorf("no handler registered for task kind(s): %s", strings.Join(kinds, ", "))
}
