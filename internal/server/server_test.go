package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/hub-proxy/internal/config"
	"github.com/nulzo/hub-proxy/internal/hub"
	"github.com/nulzo/hub-proxy/internal/server"
	"github.com/nulzo/hub-proxy/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCatalog is a mock implementation of handlers.CatalogClient
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListRepositories(ctx context.Context, opts hub.ListOptions) ([]hub.RepoRecord, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hub.RepoRecord), args.Error(1)
}

func (m *MockCatalog) GetRepository(ctx context.Context, repoID string) (*hub.RepoRecord, error) {
	args := m.Called(ctx, repoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hub.RepoRecord), args.Error(1)
}

func setupServer(client *MockCatalog, cfg *config.Config) http.Handler {
	gin.SetMode(gin.TestMode)
	if cfg == nil {
		cfg = &config.Config{}
	}
	return server.New(cfg, zap.NewNop(), client).Handler()
}

func doGet(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	h.ServeHTTP(w, req)
	return w
}

type errBody struct {
	Error struct {
		Kind           string `json:"kind"`
		Message        string `json:"message"`
		UpstreamStatus int    `json:"upstream_status"`
		Retryable      bool   `json:"retryable"`
	} `json:"error"`
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) errBody {
	t.Helper()
	var body errBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	h := setupServer(new(MockCatalog), nil)

	for _, path := range []string{"/", "/health", "/healthz"} {
		w := doGet(h, path)
		assert.Equal(t, http.StatusOK, w.Code, path)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, version.Version, body["version"])
	}
}

func TestHealthz_IndependentOfUpstream(t *testing.T) {
	// The mock has no expectations: any upstream call would fail the test.
	client := new(MockCatalog)
	h := setupServer(client, nil)

	w := doGet(h, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	client.AssertNotCalled(t, "ListRepositories", mock.Anything, mock.Anything)
}

func TestListOutputs(t *testing.T) {
	client := new(MockCatalog)
	client.On("ListRepositories", mock.Anything, hub.ListOptions{}).Return([]hub.RepoRecord{
		{ID: "org/b", Private: true, Gated: true},
		{ID: "org/a"},
		{ID: "org/a"}, // upstream duplicates pass through untouched
	}, nil)

	h := setupServer(client, nil)
	w := doGet(h, "/outputs")

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items []struct {
			RepoID     string `json:"repo_id"`
			Visibility string `json:"visibility"`
			Gated      bool   `json:"gated"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	require.Len(t, body.Items, 3)
	assert.Equal(t, "org/b", body.Items[0].RepoID)
	assert.Equal(t, "private", body.Items[0].Visibility)
	assert.True(t, body.Items[0].Gated)
	assert.Equal(t, "org/a", body.Items[1].RepoID)
	assert.Equal(t, "org/a", body.Items[2].RepoID)
}

func TestListOutputs_ForwardsLimitAndFilters(t *testing.T) {
	client := new(MockCatalog)
	client.On("ListRepositories", mock.Anything, hub.ListOptions{Limit: 50}).Return([]hub.RepoRecord{
		{ID: "org/a", Private: true},
		{ID: "org/b"},
	}, nil)

	h := setupServer(client, nil)
	w := doGet(h, "/outputs?limit=50&filter=visibility:eq:public")

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items []struct {
			RepoID string `json:"repo_id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "org/b", body.Items[0].RepoID)
}

func TestListOutputs_FilterByTag(t *testing.T) {
	client := new(MockCatalog)
	client.On("ListRepositories", mock.Anything, hub.ListOptions{}).Return([]hub.RepoRecord{
		{ID: "org/a", Tags: []string{"text-generation", "pytorch"}},
		{ID: "org/b", Tags: []string{"image-classification"}},
		{ID: "org/c"},
	}, nil)

	h := setupServer(client, nil)
	w := doGet(h, "/outputs?filter=tags:in:text-generation")

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items []struct {
			RepoID string `json:"repo_id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "org/a", body.Items[0].RepoID)
}

func TestListOutputs_InvalidLimit(t *testing.T) {
	client := new(MockCatalog)
	h := setupServer(client, nil)

	w := doGet(h, "/outputs?limit=9999")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decodeErr(t, w).Error.Kind)
	client.AssertNotCalled(t, "ListRepositories", mock.Anything, mock.Anything)
}

func TestListOutputs_UpstreamTimeout(t *testing.T) {
	client := new(MockCatalog)
	client.On("ListRepositories", mock.Anything, mock.Anything).Return(nil, hub.ErrTimeout)

	h := setupServer(client, nil)
	w := doGet(h, "/outputs")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeErr(t, w)
	assert.Equal(t, "upstream_timeout", body.Error.Kind)
	assert.True(t, body.Error.Retryable)
}

func TestListOutputs_UpstreamUnavailable(t *testing.T) {
	client := new(MockCatalog)
	client.On("ListRepositories", mock.Anything, mock.Anything).Return(nil, hub.ErrUnavailable)

	h := setupServer(client, nil)
	w := doGet(h, "/outputs")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeErr(t, w)
	assert.Equal(t, "upstream_unavailable", body.Error.Kind)
	assert.True(t, body.Error.Retryable)
}

func TestListOutputs_UpstreamStatusEchoed(t *testing.T) {
	client := new(MockCatalog)
	client.On("ListRepositories", mock.Anything, mock.Anything).
		Return(nil, &hub.StatusError{Status: http.StatusInternalServerError, URL: "http://upstream/models"})

	h := setupServer(client, nil)
	w := doGet(h, "/outputs")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decodeErr(t, w)
	assert.Equal(t, "upstream_error", body.Error.Kind)
	assert.Equal(t, http.StatusInternalServerError, body.Error.UpstreamStatus)
	assert.False(t, body.Error.Retryable)
}

func TestDetail(t *testing.T) {
	client := new(MockCatalog)
	client.On("GetRepository", mock.Anything, "meta-llama/Llama-3.1-8B").Return(&hub.RepoRecord{
		ID:           "meta-llama/Llama-3.1-8B",
		Private:      true,
		Gated:        true,
		Tags:         []string{"a", "b"},
		LastModified: "2024-07-23T16:45:12.000Z",
	}, nil)

	h := setupServer(client, nil)
	w := doGet(h, "/outputs/meta-llama/Llama-3.1-8B")

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		RepoID       string   `json:"repo_id"`
		Visibility   string   `json:"visibility"`
		Gated        bool     `json:"gated"`
		Tags         []string `json:"tags"`
		Cached       bool     `json:"cached"`
		LastModified string   `json:"last_modified"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "meta-llama/Llama-3.1-8B", body.RepoID)
	assert.Equal(t, "private", body.Visibility)
	assert.True(t, body.Gated)
	assert.Equal(t, []string{"a", "b"}, body.Tags)
	assert.False(t, body.Cached)
	assert.Equal(t, "2024-07-23T16:45:12.000Z", body.LastModified)
}

func TestDetail_CachedAlwaysFalse(t *testing.T) {
	client := new(MockCatalog)
	client.On("GetRepository", mock.Anything, "org/model").Return(&hub.RepoRecord{ID: "org/model"}, nil)

	h := setupServer(client, nil)

	// Repeated lookups never flip the flag: there is no hidden cache.
	for i := 0; i < 3; i++ {
		w := doGet(h, "/outputs/org/model")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Cached bool `json:"cached"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Cached)
	}
}

func TestDetail_EmptyIDRejectedBeforeUpstreamCall(t *testing.T) {
	client := new(MockCatalog)
	h := setupServer(client, nil)

	w := doGet(h, "/outputs/")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decodeErr(t, w).Error.Kind)
	client.AssertNotCalled(t, "GetRepository", mock.Anything, mock.Anything)
}

func TestDetail_NotFound(t *testing.T) {
	client := new(MockCatalog)
	client.On("GetRepository", mock.Anything, "org/missing").Return(nil, hub.ErrNotFound)

	h := setupServer(client, nil)
	w := doGet(h, "/outputs/org/missing")

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeErr(t, w)
	assert.Equal(t, "repository_not_found", body.Error.Kind)
	assert.False(t, body.Error.Retryable)
}

func TestDetail_MalformedUpstreamTimestamp(t *testing.T) {
	client := new(MockCatalog)
	client.On("GetRepository", mock.Anything, "org/model").Return(&hub.RepoRecord{
		ID:           "org/model",
		LastModified: "not-a-timestamp",
	}, nil)

	h := setupServer(client, nil)
	w := doGet(h, "/outputs/org/model")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "malformed_upstream_data", decodeErr(t, w).Error.Kind)
}

func TestRateLimit(t *testing.T) {
	client := new(MockCatalog)
	client.On("ListRepositories", mock.Anything, mock.Anything).Return([]hub.RepoRecord{}, nil)

	cfg := &config.Config{}
	cfg.RateLimit.RequestsPerSecond = 1
	cfg.RateLimit.Burst = 1

	h := setupServer(client, cfg)

	first := doGet(h, "/outputs")
	second := doGet(h, "/outputs")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// The rejection renders through the same error shape as everything else.
	body := decodeErr(t, second)
	assert.Equal(t, "rate_limited", body.Error.Kind)
	assert.Equal(t, "rate limit exceeded", body.Error.Message)

	// Liveness is exempt from the limiter.
	assert.Equal(t, http.StatusOK, doGet(h, "/healthz").Code)
}

func TestRequestIDHeader(t *testing.T) {
	h := setupServer(new(MockCatalog), nil)

	w := doGet(h, "/healthz")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
