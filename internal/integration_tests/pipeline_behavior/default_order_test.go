package pipeline_behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pipewright/internal/testutil"
)

const orderedConfig = `
task "lint" "src" {}
task "lint" "samples" {}
task "bundle" "lib" {}
task "bundle" "min-input" {}
task "minify" "lib" {}
task "exec" "browser" {}
task "exec" "node" {}
task "exec" "coverage" {}

pipeline "lint" {
  steps = ["lint:src", "lint:samples"]
}

pipeline "build" {
  steps = ["bundle:lib", "bundle:min-input", "minify:lib"]
}

pipeline "test" {
  steps = ["build", "exec:browser", "exec:node", "exec:coverage"]
}

pipeline "default" {
  steps = ["lint", "test"]
}
`

// The default pipeline must execute exactly the lint steps followed by the
// test steps, fully inlined, in that order.
func TestDefaultPipelineIsLintThenTest(t *testing.T) {
	rec := &testutil.Recorder{}
	result := testutil.RunPipelineTest(t,
		map[string]string{"pipewright.hcl": orderedConfig},
		"default",
		rec.Module("lint", "bundle", "minify", "exec"),
	)
	require.NoError(t, result.Err)

	assert.Equal(t, []string{
		"lint:src", "lint:samples",
		"bundle:lib", "bundle:min-input", "minify:lib",
		"exec:browser", "exec:node", "exec:coverage",
	}, rec.Calls())
}

// The no-rebuild test variant substitutes a lint check for the build
// sub-pipeline, so the bundler must never run.
func TestQuickTestVariantSkipsBundler(t *testing.T) {
	config := orderedConfig + `
pipeline "test-quick" {
  steps = ["lint:src", "exec:browser", "exec:node"]
}
`
	rec := &testutil.Recorder{}
	result := testutil.RunPipelineTest(t,
		map[string]string{"pipewright.hcl": config},
		"test-quick",
		rec.Module("lint", "bundle", "minify", "exec"),
	)
	require.NoError(t, result.Err)

	for _, call := range rec.Calls() {
		assert.NotContains(t, call, "bundle:")
	}
	assert.Equal(t, []string{"lint:src", "exec:browser", "exec:node"}, rec.Calls())
}
