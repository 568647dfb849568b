package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pipewright/internal/config"
)

func buildModel(t *testing.T, pipelines []*config.Pipeline, taskIDs ...string) *config.Model {
	t.Helper()
	tasks := make([]*config.Task, 0, len(taskIDs))
	for _, id := range taskIDs {
		// IDs are kind:name pairs.
		for i := 0; i < len(id); i++ {
			if id[i] == ':' {
				tasks = append(tasks, &config.Task{Kind: id[:i], Name: id[i+1:]})
				break
			}
		}
	}
	m, err := config.NewModel(nil, tasks, pipelines)
	require.NoError(t, err)
	return m
}

func TestComposeFlattensNestedPipelines(t *testing.T) {
	m := buildModel(t, []*config.Pipeline{
		{Name: "lint", Steps: []string{"lint:src", "lint:samples"}},
		{Name: "test", Steps: []string{"build", "server:dev", "exec:browser", "exec:node"}},
		{Name: "build", Steps: []string{"bundle:lib", "minify:lib"}},
		{Name: "default", Steps: []string{"lint", "test"}},
	},
		"lint:src", "lint:samples", "bundle:lib", "minify:lib",
		"server:dev", "exec:browser", "exec:node",
	)

	flattened, err := Compose(m)
	require.NoError(t, err)

	assert.Equal(t, []string{"bundle:lib", "minify:lib"}, flattened["build"])
	assert.Equal(t, []string{"bundle:lib", "minify:lib", "server:dev", "exec:browser", "exec:node"}, flattened["test"])

	// The default pipeline is exactly the lint steps followed by the test
	// steps, fully inlined.
	assert.Equal(t, []string{
		"lint:src", "lint:samples",
		"bundle:lib", "minify:lib", "server:dev", "exec:browser", "exec:node",
	}, flattened["default"])
}

func TestComposeRejectsUnknownStep(t *testing.T) {
	m := buildModel(t, []*config.Pipeline{
		{Name: "build", Steps: []string{"bundle:missing"}},
	})

	_, err := Compose(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown step "bundle:missing"`)
}

func TestComposeRejectsReferenceCycle(t *testing.T) {
	m := buildModel(t, []*config.Pipeline{
		{Name: "a", Steps: []string{"b"}},
		{Name: "b", Steps: []string{"c"}},
		{Name: "c", Steps: []string{"a"}},
	})

	_, err := Compose(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestComposeRejectsSelfReference(t *testing.T) {
	m := buildModel(t, []*config.Pipeline{
		{Name: "a", Steps: []string{"a"}},
	})

	_, err := Compose(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestComposeEmptyPipeline(t *testing.T) {
	m := buildModel(t, []*config.Pipeline{
		{Name: "noop", Steps: nil},
	})

	flattened, err := Compose(m)
	require.NoError(t, err)
	assert.Empty(t, flattened["noop"])
}

func TestComposeSharedSubPipelineInlinedEverywhere(t *testing.T) {
	m := buildModel(t, []*config.Pipeline{
		{Name: "build", Steps: []string{"bundle:lib"}},
		{Name: "test", Steps: []string{"build", "exec:node"}},
		{Name: "release", Steps: []string{"build", "archive:dist"}},
	}, "bundle:lib", "exec:node", "archive:dist")

	flattened, err := Compose(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"bundle:lib", "exec:node"}, flattened["test"])
	assert.Equal(t, []string{"bundle:lib", "archive:dist"}, flattened["release"])
}
