package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/pipewright/internal/app"
	"github.com/vk/pipewright/internal/hclcfg"
	"github.com/vk/pipewright/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	Root      string
}

// RunPipelineTest provides a standardized harness for integration tests: it
// writes the given project files into a temporary root, loads the
// configuration from pipewright.hcl inside it, and runs the named pipeline.
// A non-empty modules list replaces the built-in tool modules, letting
// tests substitute recording fakes.
func RunPipelineTest(t *testing.T, files map[string]string, pipeline string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunPipelineTestWithContext(context.Background(), t, files, pipeline, modules...)
}

// RunPipelineTestWithContext is RunPipelineTest with a caller-provided
// context, for tests that need cancellation (watch pipelines).
func RunPipelineTestWithContext(ctx context.Context, t *testing.T, files map[string]string, pipeline string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	// 1. Create a temporary project root for the test.
	root := t.TempDir()

	// 2. Write all project files, creating subdirectories as needed.
	for name, content := range files {
		filePath := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	appConfig := &app.Config{
		ConfigPath: filepath.Join(root, "pipewright.hcl"),
		Pipeline:   pipeline,
		LogLevel:   "debug",
		LogFormat:  "text",
	}

	logBuffer := &SafeBuffer{}

	// 3. Start the app, converting startup panics into harness errors so
	// tests can assert on them.
	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, hclcfg.NewLoader(), modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
			Root:      root,
		}
	}

	// 4. Run the requested pipeline.
	runErr := testApp.Run(ctx, appConfig)

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
		Root:      root,
	}
}
