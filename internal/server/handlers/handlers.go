package handlers

import (
	"context"

	"github.com/nulzo/hub-proxy/internal/hub"
)

// CatalogClient is the slice of the hub client the handlers need. Narrowed to
// an interface so tests can swap in a fake upstream.
type CatalogClient interface {
	ListRepositories(ctx context.Context, opts hub.ListOptions) ([]hub.RepoRecord, error)
	GetRepository(ctx context.Context, repoID string) (*hub.RepoRecord, error)
}
