package pipeline_behavior

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pipewright/internal/testutil"
)

const failFastConfig = `
task "lint" "src" {}
task "bundle" "lib" {}
task "server" "dev" {}
task "exec" "browser" {}

pipeline "test" {
  steps = ["lint:src", "bundle:lib", "server:dev", "exec:browser"]
}
`

// A failing first step must abort the rest of the pipeline: the bundler
// never runs and the static server is never started.
func TestFirstStepFailureAbortsPipeline(t *testing.T) {
	rec := &testutil.Recorder{Fail: map[string]error{
		"lint:src": errors.New("lint found problems"),
	}}
	result := testutil.RunPipelineTest(t,
		map[string]string{"pipewright.hcl": failFastConfig},
		"test",
		rec.Module("lint", "bundle", "server", "exec"),
	)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "lint found problems")
	assert.Equal(t, []string{"lint:src"}, rec.Calls())
}

func TestUnknownPipelineFails(t *testing.T) {
	rec := &testutil.Recorder{}
	result := testutil.RunPipelineTest(t,
		map[string]string{"pipewright.hcl": failFastConfig},
		"release",
		rec.Module("lint", "bundle", "server", "exec"),
	)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), `unknown pipeline "release"`)
	assert.Empty(t, rec.Calls())
}
