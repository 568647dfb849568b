// Package aggregate derives the one computed configuration entry: the
// source list of a task flagged aggregate_src, built by concatenating every
// other entry's src list.
package aggregate

import (
	"context"

	"github.com/vk/pipewright/internal/config"
	"github.com/vk/pipewright/internal/ctxlog"
)

// Sources concatenates the src lists of every task entry that declares one,
// in declaration order. It does not deduplicate: if the same pattern appears
// in two entries, it appears twice. Aggregated entries themselves are
// skipped so the result never feeds back into itself.
func Sources(model *config.Model) []string {
	var out []string
	for _, t := range model.Tasks {
		if t.AggregateSrc {
			continue
		}
		out = append(out, t.Src...)
	}
	return out
}

// Apply fills in the src list of every aggregated entry. It runs once during
// startup, before execution; the model is never patched after this.
func Apply(ctx context.Context, model *config.Model) {
	logger := ctxlog.FromContext(ctx)

	var union []string
	for _, t := range model.Tasks {
		if !t.AggregateSrc {
			continue
		}
		if union == nil {
			union = Sources(model)
		}
		t.Src = union
		logger.Debug("Aggregated source list applied.", "task", t.ID(), "patterns", len(union))
	}
}
