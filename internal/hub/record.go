package hub

import (
	"bytes"
	"encoding/json"
)

// GatedFlag decodes the upstream "gated" field, which is either a boolean or
// an access-mode string ("auto" or "manual"). Any access-mode string counts
// as gated.
type GatedFlag bool

func (g *GatedFlag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*g = false
		return nil
	}

	if data[0] == '"' {
		var mode string
		if err := json.Unmarshal(data, &mode); err != nil {
			return err
		}
		*g = mode == "auto" || mode == "manual"
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*g = GatedFlag(b)
	return nil
}

// RepoRecord is the raw repository shape returned by the catalog API.
type RepoRecord struct {
	ID           string    `json:"id"`
	ModelID      string    `json:"modelId"`
	Private      bool      `json:"private"`
	Gated        GatedFlag `json:"gated"`
	Tags         []string  `json:"tags"`
	LastModified string    `json:"lastModified"`
}

// RepoID returns the canonical identifier. Some upstream responses populate
// "modelId" instead of "id".
func (r *RepoRecord) RepoID() string {
	if r.ID != "" {
		return r.ID
	}
	return r.ModelID
}
