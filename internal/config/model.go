package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// Model is the unified, format-agnostic representation of the entire
// project configuration: every task entry, every named pipeline, and the
// project metadata pointers. It is immutable after loading, with one
// exception: tasks flagged AggregateSrc get their Src list filled in once
// during startup, before anything executes.
type Model struct {
	Project *ProjectFiles

	// Tasks preserves declaration order, which is also the order the
	// source-set aggregator walks entries in.
	Tasks     []*Task
	Pipelines []*Pipeline

	tasksByID map[string]*Task
}

// ProjectFiles points at the on-disk project description inputs.
type ProjectFiles struct {
	// Metadata is the path to the versioned metadata JSON file
	// (name / version / description / homepage).
	Metadata string
	// License is the path to the license text file used in the banner.
	License string
	// Root is the directory all task globs are resolved against.
	Root string
}

// Task is the format-agnostic representation of a `task` block: one
// configuration entry for one delegated subsystem.
type Task struct {
	// Kind selects the registered Go handler ("lint", "bundle", "server", ...).
	Kind string
	// Name distinguishes multiple entries of the same kind.
	Name string
	// Src is the entry's file-glob list, relative to the project root.
	Src []string
	// AggregateSrc marks the one derived entry whose Src is computed at
	// startup as the union of every other entry's Src list.
	AggregateSrc bool
	// Arguments is the raw, kind-specific options body, decoded into the
	// handler's input struct at execution time.
	Arguments hcl.Body
}

// ID returns the step identifier tasks are referenced by in pipelines.
func (t *Task) ID() string {
	return t.Kind + ":" + t.Name
}

// Pipeline is a named, ordered list of step identifiers. A step identifier
// resolves to either a task ID or another pipeline's name; references to
// pipelines are flattened once at composition time.
type Pipeline struct {
	Name  string
	Steps []string
}

// NewModel assembles a model from translated blocks and indexes tasks by ID.
// Duplicate task IDs or pipeline names are configuration errors.
func NewModel(project *ProjectFiles, tasks []*Task, pipelines []*Pipeline) (*Model, error) {
	if project == nil {
		project = &ProjectFiles{}
	}
	if project.Root == "" {
		project.Root = "."
	}

	m := &Model{
		Project:   project,
		Tasks:     tasks,
		Pipelines: pipelines,
		tasksByID: make(map[string]*Task, len(tasks)),
	}
	for _, t := range tasks {
		if _, exists := m.tasksByID[t.ID()]; exists {
			return nil, fmt.Errorf("duplicate task %q", t.ID())
		}
		m.tasksByID[t.ID()] = t
	}

	seen := make(map[string]struct{}, len(pipelines))
	for _, p := range pipelines {
		if _, exists := m.tasksByID[p.Name]; exists {
			return nil, fmt.Errorf("pipeline %q collides with a task of the same name", p.Name)
		}
		if _, exists := seen[p.Name]; exists {
			return nil, fmt.Errorf("duplicate pipeline %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	return m, nil
}

// Task looks up a task entry by its ID.
func (m *Model) Task(id string) (*Task, bool) {
	t, ok := m.tasksByID[id]
	return t, ok
}

// Pipeline looks up a pipeline by name.
func (m *Model) Pipeline(name string) (*Pipeline, bool) {
	for _, p := range m.Pipelines {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}
