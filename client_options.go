package campsearch

import (
	"go.uber.org/zap"

	searchuc "github.com/campscout/campsearch/internal/usecase/search"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	dbPath     string
	modelPath  string
	lexiconDir string
	params     searchuc.Params
	logger     *zap.Logger
}

// WithDatabase sets the sqlite database path. Required.
func WithDatabase(path string) Option {
	return func(c *clientConfig) {
		c.dbPath = path
	}
}

// WithModel sets the word2vec text-format model file path.
func WithModel(path string) Option {
	return func(c *clientConfig) {
		c.modelPath = path
	}
}

// WithLexiconDir sets the directory holding the phrase, region, and intent
// dictionaries. Missing files are tolerated.
func WithLexiconDir(dir string) Option {
	return func(c *clientConfig) {
		c.lexiconDir = dir
	}
}

// WithWeights overrides the semantic/keyword blend. The weights should sum
// to 1; zero values fall back to the reference defaults.
func WithWeights(semantic, keyword float64) Option {
	return func(c *clientConfig) {
		c.params.SemanticWeight = semantic
		c.params.KeywordWeight = keyword
	}
}

// WithLogger sets the logger used during engine construction.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
