package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EngineChecker reports whether the search engine initialized.
type EngineChecker interface {
	Ready() bool
}
