// Package composer resolves named pipelines into flat step lists. Pipeline
// steps may reference other pipelines; references are inlined exactly once,
// at composition time, and a reference cycle is a fatal configuration error
// reported with the offending edge rather than looped over at run time.
package composer

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/vk/pipewright/internal/config"
)

// Compose validates every step identifier and returns, for each pipeline,
// its fully flattened task-ID list.
func Compose(model *config.Model) (map[string][]string, error) {
	isPipeline := make(map[string]*config.Pipeline, len(model.Pipelines))
	for _, p := range model.Pipelines {
		isPipeline[p.Name] = p
	}

	// Pipeline-to-pipeline references form a directed graph that must stay
	// acyclic for flattening to terminate.
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())
	for _, p := range model.Pipelines {
		if err := g.AddVertex(p.Name); err != nil {
			return nil, errors.Wrapf(err, "pipeline %q", p.Name)
		}
	}

	for _, p := range model.Pipelines {
		for _, step := range p.Steps {
			if _, ok := isPipeline[step]; ok {
				if err := g.AddEdge(p.Name, step); err != nil {
					if errors.Is(err, graph.ErrEdgeCreatesCycle) {
						return nil, errors.Errorf("pipeline reference cycle: %q -> %q closes a loop", p.Name, step)
					}
					if !errors.Is(err, graph.ErrEdgeAlreadyExists) {
						return nil, errors.Wrapf(err, "pipeline %q", p.Name)
					}
				}
				continue
			}
			if _, ok := model.Task(step); !ok {
				return nil, errors.Errorf("pipeline %q references unknown step %q", p.Name, step)
			}
		}
	}

	flattened := make(map[string][]string, len(model.Pipelines))
	for _, p := range model.Pipelines {
		flattened[p.Name] = flatten(p, isPipeline, flattened)
	}
	return flattened, nil
}

// flatten expands one pipeline's steps, memoizing already-expanded
// pipelines. The graph above guarantees termination.
func flatten(p *config.Pipeline, pipelines map[string]*config.Pipeline, memo map[string][]string) []string {
	if steps, done := memo[p.Name]; done && steps != nil {
		return steps
	}

	steps := make([]string, 0, len(p.Steps))
	for _, step := range p.Steps {
		if ref, ok := pipelines[step]; ok {
			steps = append(steps, flatten(ref, pipelines, memo)...)
			continue
		}
		steps = append(steps, step)
	}
	memo[p.Name] = steps
	return steps
}
