package outputs

import (
	"testing"

	"github.com/nulzo/hub-proxy/internal/hub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSummary(t *testing.T) {
	summary := ToSummary(hub.RepoRecord{
		ID:      "org/model",
		Private: true,
		Gated:   true,
	})

	assert.Equal(t, "org/model", summary.RepoID)
	assert.Equal(t, VisibilityPrivate, summary.Visibility)
	assert.True(t, summary.Gated)
}

func TestToSummary_Defaults(t *testing.T) {
	summary := ToSummary(hub.RepoRecord{ID: "org/model"})

	assert.Equal(t, VisibilityPublic, summary.Visibility)
	assert.False(t, summary.Gated)
}

func TestToDetail(t *testing.T) {
	detail, err := ToDetail(hub.RepoRecord{
		ID:           "org/model",
		Private:      true,
		Gated:        true,
		Tags:         []string{"a", "b"},
		LastModified: "2024-07-23T16:45:12.000Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "org/model", detail.RepoID)
	assert.Equal(t, VisibilityPrivate, detail.Visibility)
	assert.True(t, detail.Gated)
	assert.Equal(t, []string{"a", "b"}, detail.Tags)
	assert.False(t, detail.Cached)
	assert.Equal(t, "2024-07-23T16:45:12.000Z", detail.LastModified)
}

func TestToDetail_TagsNeverNil(t *testing.T) {
	detail, err := ToDetail(hub.RepoRecord{ID: "org/model"})
	require.NoError(t, err)

	assert.NotNil(t, detail.Tags)
	assert.Empty(t, detail.Tags)
}

func TestToDetail_AbsentTimestampOmitted(t *testing.T) {
	detail, err := ToDetail(hub.RepoRecord{ID: "org/model"})
	require.NoError(t, err)
	assert.Empty(t, detail.LastModified)
}

func TestToDetail_TimestampNormalizedToUTCMillis(t *testing.T) {
	detail, err := ToDetail(hub.RepoRecord{
		ID:           "org/model",
		LastModified: "2024-01-02T03:04:05.123456+02:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T01:04:05.123Z", detail.LastModified)
}

func TestToDetail_SecondPrecisionGainsMillis(t *testing.T) {
	detail, err := ToDetail(hub.RepoRecord{
		ID:           "org/model",
		LastModified: "2024-06-01T12:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T12:00:00.000Z", detail.LastModified)
}

func TestToDetail_MalformedTimestamp(t *testing.T) {
	_, err := ToDetail(hub.RepoRecord{
		ID:           "org/model",
		LastModified: "yesterday-ish",
	})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindMalformedUpstream, apiErr.Kind)
}
