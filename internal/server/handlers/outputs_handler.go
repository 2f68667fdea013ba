package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/hub-proxy/internal/hub"
	"github.com/nulzo/hub-proxy/internal/outputs"
	"github.com/nulzo/hub-proxy/internal/server/validator"
)

type OutputsHandler struct {
	client CatalogClient
}

func NewOutputsHandler(client CatalogClient) *OutputsHandler {
	return &OutputsHandler{client: client}
}

type listQuery struct {
	Filter string `form:"filter"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// List returns the repository listing in upstream order.
//
// GET /outputs?filter=field:op:value&limit=n
func (h *OutputsHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.Error(outputs.InvalidRequest(validationMessage(err)))
		return
	}

	records, err := h.client.ListRepositories(c.Request.Context(), hub.ListOptions{Limit: q.Limit})
	if err != nil {
		c.Error(outputs.FromClientError("", err))
		return
	}

	// Filter before summarizing so list fields (tags) are still in reach.
	records = outputs.ParseFilter(q.Filter).Apply(records)

	items := make([]outputs.RepositorySummary, 0, len(records))
	for _, rec := range records {
		items = append(items, outputs.ToSummary(rec))
	}

	c.JSON(http.StatusOK, outputs.List{Items: items})
}

// Detail returns one repository by identifier. The wildcard segment keeps the
// namespace/name slash intact.
//
// GET /outputs/*repo_id
func (h *OutputsHandler) Detail(c *gin.Context) {
	repoID := strings.TrimPrefix(c.Param("repo_id"), "/")
	if repoID == "" {
		c.Error(outputs.InvalidRequest("repository identifier is required"))
		return
	}

	record, err := h.client.GetRepository(c.Request.Context(), repoID)
	if err != nil {
		c.Error(outputs.FromClientError(repoID, err))
		return
	}

	detail, err := outputs.ToDetail(*record)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func validationMessage(err error) string {
	fields := validator.ParseError(err)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, fields[k]))
	}
	return "invalid query: " + strings.Join(parts, "; ")
}
