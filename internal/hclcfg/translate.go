package hclcfg

import (
	"github.com/hashicorp/hcl/v2"

	"github.com/vk/pipewright/internal/config"
)

// translate converts the HCL-specific schema structs into the agnostic model.
func translate(project *Project, tasks []*Task, pipelines []*Pipeline) (*config.Model, error) {
	files := &config.ProjectFiles{}
	if project != nil {
		files.Metadata = project.Metadata
		files.License = project.License
		files.Root = project.Root
	}

	cfgTasks := make([]*config.Task, 0, len(tasks))
	for _, t := range tasks {
		cfgTasks = append(cfgTasks, translateTask(t))
	}

	cfgPipelines := make([]*config.Pipeline, 0, len(pipelines))
	for _, p := range pipelines {
		cfgPipelines = append(cfgPipelines, &config.Pipeline{
			Name:  p.Name,
			Steps: p.Steps,
		})
	}

	return config.NewModel(files, cfgTasks, cfgPipelines)
}

// translateTask converts a single task block into the agnostic model.
func translateTask(t *Task) *config.Task {
	var body hcl.Body
	if t.Arguments != nil {
		body = t.Arguments.Body
	}
	return &config.Task{
		Kind:         t.Kind,
		Name:         t.Name,
		Src:          t.Src,
		AggregateSrc: t.AggregateSrc,
		Arguments:    body,
	}
}
