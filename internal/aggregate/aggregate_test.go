package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pipewright/internal/config"
)

func model(t *testing.T, tasks ...*config.Task) *config.Model {
	t.Helper()
	m, err := config.NewModel(nil, tasks, nil)
	require.NoError(t, err)
	return m
}

func TestSourcesConcatenatesInDeclarationOrder(t *testing.T) {
	m := model(t,
		&config.Task{Kind: "lint", Name: "src", Src: []string{"src/**/*.js"}},
		&config.Task{Kind: "lint", Name: "samples", Src: []string{"samples/**/*.js", "samples/*.html"}},
		&config.Task{Kind: "docs", Name: "api"},
		&config.Task{Kind: "bundle", Name: "lib", Src: []string{"src/core.js", "src/**/*.js"}},
	)

	got := Sources(m)
	want := []string{
		"src/**/*.js",
		"samples/**/*.js", "samples/*.html",
		"src/core.js", "src/**/*.js",
	}
	assert.Equal(t, want, got)

	// No pattern dropped: cardinality is the sum of the individual lengths,
	// cross-entry duplicates included.
	assert.Len(t, got, 5)
}

func TestSourcesEmptyModel(t *testing.T) {
	assert.Empty(t, Sources(model(t)))
}

func TestSourcesSkipsAggregatedEntries(t *testing.T) {
	fix := &config.Task{Kind: "lint", Name: "fix", AggregateSrc: true, Src: []string{"stale/**"}}
	m := model(t,
		&config.Task{Kind: "lint", Name: "src", Src: []string{"src/**/*.js"}},
		fix,
	)

	assert.Equal(t, []string{"src/**/*.js"}, Sources(m))
}

func TestApplyFillsAggregatedEntryOnce(t *testing.T) {
	fix := &config.Task{Kind: "lint", Name: "fix", AggregateSrc: true}
	m := model(t,
		&config.Task{Kind: "lint", Name: "src", Src: []string{"src/**/*.js"}},
		&config.Task{Kind: "lint", Name: "samples", Src: []string{"samples/**/*.js"}},
		fix,
	)

	Apply(context.Background(), m)
	assert.Equal(t, []string{"src/**/*.js", "samples/**/*.js"}, fix.Src)
}

func TestApplyEmptyModel(t *testing.T) {
	fix := &config.Task{Kind: "lint", Name: "fix", AggregateSrc: true}
	m := model(t, fix)

	Apply(context.Background(), m)
	assert.Empty(t, fix.Src)
}
