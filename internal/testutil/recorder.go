package testutil

import (
	"context"
	"sync"

	"github.com/vk/pipewright/internal/registry"
)

// Recorder captures the order of task executions across an app run. It
// stands in for real tool modules in integration tests.
type Recorder struct {
	mu    sync.Mutex
	calls []string

	// Fail maps a task ID to the error its handler returns.
	Fail map[string]error
}

// Calls returns the recorded task IDs in execution order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *Recorder) record(taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, taskID)
	if err, ok := r.Fail[taskID]; ok {
		return err
	}
	return nil
}

// recorderModule registers the recorder's handler under several task kinds.
type recorderModule struct {
	rec   *Recorder
	kinds []string
}

func (m *recorderModule) Register(r *registry.Registry) {
	for _, kind := range m.kinds {
		r.RegisterTask(kind, &registry.RegisteredTask{
			NewInput: func() any { return nil },
			Run: func(ctx context.Context, rc *registry.RunContext, input any) error {
				return m.rec.record(rc.Task.ID())
			},
		})
	}
}

// Module returns a registry.Module that records executions for the given
// task kinds.
func (r *Recorder) Module(kinds ...string) registry.Module {
	return &recorderModule{rec: r, kinds: kinds}
}
