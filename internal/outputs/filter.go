package outputs

import (
	"strconv"
	"strings"

	"github.com/nulzo/hub-proxy/internal/hub"
	"github.com/nulzo/hub-proxy/internal/platform/logger"
	"go.uber.org/zap"
)

// Op is a filter comparison operator.
type Op string

const (
	OpEq   Op = "eq"   // exact match, case-insensitive
	OpNe   Op = "ne"   // not equal, case-insensitive
	OpLike Op = "like" // contains substring, case-insensitive
	OpIn   Op = "in"   // membership in a list field such as tags
)

// Condition is a single field comparison.
type Condition struct {
	Field string
	Op    Op
	Value string
}

// Filter narrows a repository listing. Conditions are combined with AND and
// evaluated against the upstream records, so list fields like tags are
// filterable even though they only appear in the detail response.
//
// Syntax: "field:op:value" segments joined by commas, e.g.
// "visibility:eq:public,tags:in:text-generation". Malformed segments and
// unknown operators are skipped with a warning rather than failing the
// request.
type Filter struct {
	conditions []Condition
}

// ParseFilter builds a Filter from the raw query string form.
func ParseFilter(raw string) *Filter {
	f := &Filter{}
	if raw == "" {
		return f
	}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		pieces := strings.SplitN(part, ":", 3)
		if len(pieces) != 3 {
			logger.Warn("invalid filter segment, expected field:op:value", zap.String("segment", part))
			continue
		}

		op := Op(strings.ToLower(pieces[1]))
		switch op {
		case OpEq, OpNe, OpLike, OpIn:
		default:
			logger.Warn("unknown filter operator", zap.String("operator", pieces[1]))
			continue
		}

		f.conditions = append(f.conditions, Condition{
			Field: strings.ToLower(pieces[0]),
			Op:    op,
			Value: pieces[2],
		})
	}

	return f
}

// Empty reports whether the filter has no conditions to apply.
func (f *Filter) Empty() bool {
	return len(f.conditions) == 0
}

// Apply returns the records matching every condition, preserving input order.
func (f *Filter) Apply(records []hub.RepoRecord) []hub.RepoRecord {
	if f.Empty() {
		return records
	}

	result := records
	for _, cond := range f.conditions {
		filtered := result[:0:0]
		for _, rec := range result {
			if matches(rec, cond) {
				filtered = append(filtered, rec)
			}
		}
		result = filtered
	}
	return result
}

func matches(rec hub.RepoRecord, cond Condition) bool {
	values, ok := fieldValues(rec, cond.Field)
	if !ok {
		// Unknown fields only satisfy "not equal".
		return cond.Op == OpNe
	}

	// Scalar fields carry a single value, so "in" degenerates to "eq" on
	// them and the list semantics only bite for tags.
	switch cond.Op {
	case OpEq, OpIn:
		return anyEqualFold(values, cond.Value)
	case OpNe:
		return !anyEqualFold(values, cond.Value)
	case OpLike:
		want := strings.ToLower(cond.Value)
		for _, v := range values {
			if strings.Contains(strings.ToLower(v), want) {
				return true
			}
		}
	}
	return false
}

func anyEqualFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func fieldValues(rec hub.RepoRecord, field string) ([]string, bool) {
	switch field {
	case "repo_id", "id":
		return []string{rec.RepoID()}, true
	case "visibility":
		if rec.Private {
			return []string{VisibilityPrivate}, true
		}
		return []string{VisibilityPublic}, true
	case "gated":
		return []string{strconv.FormatBool(bool(rec.Gated))}, true
	case "tags":
		return rec.Tags, true
	}
	return nil, false
}
