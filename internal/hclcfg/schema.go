package hclcfg

import (
	"github.com/hashicorp/hcl/v2"
)

// TaskArgs represents the content of the 'arguments' block within a task.
// The body stays raw here; it is decoded into the handler's input struct at
// execution time, against the project eval context.
type TaskArgs struct {
	Body hcl.Body `hcl:",remain"`
}

// Task represents a `task` block from a project's pipeline file. It is one
// configuration entry for one delegated subsystem.
type Task struct {
	Kind         string    `hcl:"kind,label"`
	Name         string    `hcl:"name,label"`
	Src          []string  `hcl:"src,optional"`
	AggregateSrc bool      `hcl:"aggregate_src,optional"`
	Arguments    *TaskArgs `hcl:"arguments,block"`
}

// Pipeline represents a `pipeline` block: a named, ordered step list.
type Pipeline struct {
	Name  string   `hcl:"name,label"`
	Steps []string `hcl:"steps"`
}

// Project represents the `project` block pointing at the metadata inputs.
type Project struct {
	Metadata string `hcl:"metadata,optional"`
	License  string `hcl:"license,optional"`
	Root     string `hcl:"root,optional"`
}

// File represents the top-level structure of one pipeline configuration file.
type File struct {
	Project   *Project    `hcl:"project,block"`
	Tasks     []*Task     `hcl:"task,block"`
	Pipelines []*Pipeline `hcl:"pipeline,block"`
}
