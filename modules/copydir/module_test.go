package copydir

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pipewright/internal/config"
	"github.com/vk/pipewright/internal/project"
	"github.com/vk/pipewright/internal/registry"
)

func TestOnRunCopy(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib", "addons"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib", "out.js"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib", "addons", "sound.js"), []byte("b"), 0o644))

	rc := &registry.RunContext{
		Task:    &config.Task{Kind: "copy", Name: "release", Src: []string{"lib/**/*.js"}},
		Project: &project.Project{Root: root},
	}

	require.NoError(t, OnRunCopy(context.Background(), rc, &Input{Dest: "release"}))

	data, err := os.ReadFile(filepath.Join(root, "release", "lib", "out.js"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	data, err = os.ReadFile(filepath.Join(root, "release", "lib", "addons", "sound.js"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}

func TestOnRunCopyNothingMatched(t *testing.T) {
	rc := &registry.RunContext{
		Task:    &config.Task{Kind: "copy", Name: "release", Src: []string{"missing/**"}},
		Project: &project.Project{Root: t.TempDir()},
	}

	// An empty selection copies nothing and is not an error.
	assert.NoError(t, OnRunCopy(context.Background(), rc, &Input{Dest: "release"}))
}
