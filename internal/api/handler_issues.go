package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"equipment-inventory/internal/store"
)

// AddIssue logs a problem and marks the item broken.
func (h *Handler) AddIssue(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	_, err := h.store.AddIssue(c.Request.Context(), id, c.PostForm("description"))
	switch {
	case err == nil:
		h.metrics.IncIssuesReported()
		h.notifyBroken(id)
	case !ignorable(err):
		h.fail(c, err)
		return
	}
	h.redirect(c, detailPath(id))
}

// EditIssueForm renders the description editor.
func (h *Handler) EditIssueForm(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	issue, err := h.store.GetIssue(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "edit_issue.html", gin.H{"Issue": issue})
}

// EditIssue overwrites the description and returns to the owning item.
func (h *Handler) EditIssue(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if err := h.store.UpdateIssue(ctx, id, c.PostForm("description")); !ignorable(err) {
		h.fail(c, err)
		return
	}

	owner, err := h.store.IssueEquipmentID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		h.redirect(c, "/")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, detailPath(owner))
}
