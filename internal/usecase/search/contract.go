package search

import (
	"context"

	"github.com/campscout/campsearch/internal/domain"
)

// CorpusLoader fetches the review corpus the engine indexes at construction.
type CorpusLoader interface {
	LoadAll(ctx context.Context) ([]domain.CorpusEntry, error)
}

// VectorModel turns a token sequence into a fixed-size vector. The zero
// vector (model dimensionality) is returned when no token is known.
type VectorModel interface {
	Dim() int
	Vectorize(tokens []string) []float32
}
