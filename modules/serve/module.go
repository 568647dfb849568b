// Package serve implements the static-server resource. Unlike ordinary
// tasks it has a create/destroy lifecycle: the runner acquires the server
// when the step executes and guarantees its release, and therefore the
// port's, on every exit path of the owning pipeline.
package serve

import (
	"context"
	"path/filepath"

	"github.com/vk/pipewright/internal/registry"
	"github.com/vk/pipewright/internal/server"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the server resource.
type Input struct {
	// Root is the served directory, relative to the project root; empty
	// serves the project root itself.
	Root string `hcl:"root,optional"`
	// Port is the fixed local port to bind.
	Port int `hcl:"port"`
	// Rewrites maps request path prefixes to replacement prefixes.
	Rewrites map[string]string `hcl:"rewrites,optional"`
	// CORS enables permissive cross-origin headers on every response.
	CORS bool `hcl:"cors,optional"`
}

// serverResource adapts server.Server to the registry.Resource lifecycle.
type serverResource struct {
	srv *server.Server
}

func (s *serverResource) Close(ctx context.Context) error {
	return s.srv.Close(ctx)
}

// OnCreateServer binds and starts the static server.
func OnCreateServer(ctx context.Context, rc *registry.RunContext, input any) (registry.Resource, error) {
	in := input.(*Input)

	root := rc.Project.Root
	if in.Root != "" {
		root = filepath.Join(rc.Project.Root, in.Root)
	}

	srv, err := server.Start(ctx, server.Options{
		Root:     root,
		Port:     in.Port,
		Rewrites: in.Rewrites,
		CORS:     in.CORS,
	})
	if err != nil {
		return nil, err
	}
	return &serverResource{srv: srv}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterResource("server", &registry.RegisteredResource{
		NewInput: func() any { return new(Input) },
		Create:   OnCreateServer,
	})
}
