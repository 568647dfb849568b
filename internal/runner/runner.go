// Package runner executes composed pipelines: strictly sequential steps,
// fail-fast on the first error, with scoped resources (the static server)
// released on every exit path of the pipeline that acquired them.
package runner

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/vk/pipewright/internal/composer"
	"github.com/vk/pipewright/internal/config"
	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/project"
	"github.com/vk/pipewright/internal/registry"
)

// State is the runner's execution state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateDone
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Status is a snapshot of the runner's state machine: which pipeline and
// step it is on, and the underlying tool error once failed.
type Status struct {
	State     State
	Pipeline  string
	Step      string
	StepIndex int
	Err       error
}

// Runner resolves pipeline names to their flattened step lists and executes
// them one step at a time.
type Runner struct {
	model    *config.Model
	registry *registry.Registry
	decoder  config.Decoder
	project  *project.Project

	flattened map[string][]string

	mu     sync.Mutex
	status Status
}

// New composes the model's pipelines (flattening references, detecting
// cycles) and returns a runner ready to execute them.
func New(model *config.Model, reg *registry.Registry, decoder config.Decoder, proj *project.Project) (*Runner, error) {
	flattened, err := composer.Compose(model)
	if err != nil {
		return nil, err
	}
	return &Runner{
		model:     model,
		registry:  reg,
		decoder:   decoder,
		project:   proj,
		flattened: flattened,
		status:    Status{State: StateIdle},
	}, nil
}

// Status returns a snapshot of the runner's current state.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Steps returns the flattened step list of a pipeline, for inspection.
func (r *Runner) Steps(pipeline string) ([]string, bool) {
	steps, ok := r.flattened[pipeline]
	return steps, ok
}

// Pipelines returns the names of all composed pipelines.
func (r *Runner) Pipelines() []string {
	names := make([]string, 0, len(r.flattened))
	for name := range r.flattened {
		names = append(names, name)
	}
	return names
}

func (r *Runner) setStatus(s Status) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}

// RunPipeline executes a composed pipeline by name. The first failing step
// aborts the rest; resources acquired by earlier steps are closed before
// returning, success or failure.
func (r *Runner) RunPipeline(ctx context.Context, name string) (err error) {
	logger := ctxlog.FromContext(ctx).With("pipeline", name)

	steps, ok := r.flattened[name]
	if !ok {
		return errors.Errorf("unknown pipeline %q", name)
	}
	logger.Info("🚀 Starting pipeline", "steps", len(steps))

	var resources []registry.Resource
	defer func() {
		// Release in reverse acquisition order, on every exit path.
		for i := len(resources) - 1; i >= 0; i-- {
			if closeErr := resources[i].Close(ctx); closeErr != nil {
				if err == nil {
					err = closeErr
				} else {
					logger.Error("Resource release failed after step failure.", "error", closeErr)
				}
			}
		}
	}()

	for i, stepID := range steps {
		r.setStatus(Status{State: StateRunning, Pipeline: name, Step: stepID, StepIndex: i})

		res, stepErr := r.runStep(ctx, stepID)
		if res != nil {
			resources = append(resources, res)
		}
		if stepErr != nil {
			r.setStatus(Status{State: StateFailed, Pipeline: name, Step: stepID, StepIndex: i, Err: stepErr})
			logger.Error("❌ Pipeline failed", "step", stepID, "error", stepErr)
			return errors.Wrapf(stepErr, "step %q", stepID)
		}
	}

	r.setStatus(Status{State: StateDone, Pipeline: name, StepIndex: len(steps)})
	logger.Info("🏁 Pipeline finished")
	return nil
}

// runStep executes a single step, returning the acquired resource when the
// step's kind is a resource kind.
func (r *Runner) runStep(ctx context.Context, stepID string) (registry.Resource, error) {
	logger := ctxlog.FromContext(ctx).With("step", stepID)
	logger.Info("▶️ Starting step")

	task, ok := r.model.Task(stepID)
	if !ok {
		return nil, errors.Errorf("unknown task %q", stepID)
	}

	rc := &registry.RunContext{
		Task:      task,
		Project:   r.project,
		Pipelines: r,
	}
	evalCtx := r.project.EvalContext()

	if resHandler, ok := r.registry.ResourceRegistry[task.Kind]; ok {
		input := resHandler.NewInput()
		if err := r.decoder.DecodeArguments(ctx, input, task.Arguments, evalCtx); err != nil {
			return nil, err
		}
		res, err := resHandler.Create(ctx, rc, input)
		if err != nil {
			return nil, err
		}
		logger.Info("✅ Resource acquired")
		return res, nil
	}

	handler, ok := r.registry.TaskRegistry[task.Kind]
	if !ok {
		return nil, errors.Errorf("no handler registered for kind %q", task.Kind)
	}

	input := handler.NewInput()
	if err := r.decoder.DecodeArguments(ctx, input, task.Arguments, evalCtx); err != nil {
		return nil, err
	}
	if err := handler.Run(ctx, rc, input); err != nil {
		return nil, err
	}

	logger.Info("✅ Finished step")
	return nil, nil
}
