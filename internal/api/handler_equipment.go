package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"equipment-inventory/internal/model"
)

// ListEquipment renders the inventory overview.
func (h *Handler) ListEquipment(c *gin.Context) {
	items, err := h.store.ListEquipment(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"Equipment": items})
}

// AddEquipmentForm renders the form for a new item.
func (h *Handler) AddEquipmentForm(c *gin.Context) {
	c.HTML(http.StatusOK, "add_equipment.html", nil)
}

// AddEquipment creates an item. Blank names are ignored.
func (h *Handler) AddEquipment(c *gin.Context) {
	if _, err := h.store.AddEquipment(c.Request.Context(), c.PostForm("name")); !ignorable(err) {
		h.fail(c, err)
		return
	}
	h.redirect(c, "/")
}

// EquipmentDetail renders one item with its issues and spare parts.
func (h *Handler) EquipmentDetail(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	item, err := h.store.GetEquipment(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	issues, err := h.store.ListIssues(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	parts, err := h.store.ListSpareParts(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "equipment_detail.html", gin.H{
		"Equipment": item,
		"Issues":    issues,
		"Parts":     parts,
		"Statuses":  []model.Status{model.StatusWorking, model.StatusBroken},
	})
}

// DeleteEquipment removes an item and everything it owns.
func (h *Handler) DeleteEquipment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteEquipment(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, "/")
}

// UpdateStatus overwrites the item's status. Unknown values are ignored.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if status, valid := model.ParseStatus(c.PostForm("status")); valid {
		if err := h.store.UpdateEquipmentStatus(c.Request.Context(), id, status); !ignorable(err) {
			h.fail(c, err)
			return
		}
		if status == model.StatusBroken {
			h.notifyBroken(id)
		}
	}
	h.redirect(c, detailPath(id))
}
