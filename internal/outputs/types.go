// Package outputs defines the stable response schema this proxy exposes,
// independent of whatever shape the upstream catalog returns.
package outputs

// Visibility values for a repository.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// RepositorySummary is the per-item shape in list responses.
type RepositorySummary struct {
	RepoID     string `json:"repo_id"`
	Visibility string `json:"visibility"`
	Gated      bool   `json:"gated"`
}

// RepositoryDetail extends the summary with tags and modification time.
// Cached is always false: this service performs no local caching of
// repository metadata, but the field stays in the schema for consumers that
// already read it.
type RepositoryDetail struct {
	RepositorySummary
	Tags         []string `json:"tags"`
	Cached       bool     `json:"cached"`
	LastModified string   `json:"last_modified,omitempty"`
}

// List is the /outputs response body. Item order matches the upstream
// listing order.
type List struct {
	Items []RepositorySummary `json:"items"`
}

// Health is the /healthz response body.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
