package outputs

import (
	"time"

	"github.com/nulzo/hub-proxy/internal/hub"
)

// lastModifiedLayout renders timestamps with millisecond precision and an
// explicit UTC offset.
const lastModifiedLayout = "2006-01-02T15:04:05.000Z07:00"

// ToSummary maps an upstream record to the stable list-item shape.
func ToSummary(rec hub.RepoRecord) RepositorySummary {
	visibility := VisibilityPublic
	if rec.Private {
		visibility = VisibilityPrivate
	}

	return RepositorySummary{
		RepoID:     rec.RepoID(),
		Visibility: visibility,
		Gated:      bool(rec.Gated),
	}
}

// ToDetail maps an upstream record to the detail shape. A present but
// unparseable lastModified fails with MalformedUpstream; an absent one is
// simply omitted from the output.
func ToDetail(rec hub.RepoRecord) (RepositoryDetail, error) {
	detail := RepositoryDetail{
		RepositorySummary: ToSummary(rec),
		Tags:              rec.Tags,
		Cached:            false,
	}
	if detail.Tags == nil {
		detail.Tags = []string{}
	}

	if rec.LastModified != "" {
		ts, err := time.Parse(time.RFC3339, rec.LastModified)
		if err != nil {
			return RepositoryDetail{}, MalformedUpstream(err)
		}
		detail.LastModified = ts.UTC().Format(lastModifiedLayout)
	}

	return detail, nil
}
