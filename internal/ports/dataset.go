package ports

import (
	"context"

	"github.com/calder-ml/prefbench/internal/domain"
)

// PreferenceLoader loads a preference dataset and renders each pair through
// the active chat template, so the application only ever sees model-ready
// text. Whether the source is a local file or a dataset hub is an
// implementation concern chosen at construction time.
type PreferenceLoader interface {
	// Load returns every preference pair of the requested split, in
	// source order. An empty split means the source's default split.
	Load(ctx context.Context, dataset, split string) ([]domain.FormattedPair, error)
}
