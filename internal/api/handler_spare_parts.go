package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"equipment-inventory/internal/export"
	"equipment-inventory/internal/parse"
	"equipment-inventory/internal/store"
)

type sparePartForm struct {
	Name        string `form:"name"`
	Quantity    string `form:"quantity"`
	PurchaseURL string `form:"purchase_url"`
}

func (f sparePartForm) input() store.SparePartInput {
	return store.SparePartInput{
		Name:        f.Name,
		Quantity:    parse.ParseQuantity(f.Quantity),
		PurchaseURL: f.PurchaseURL,
	}
}

// AddSparePartForm renders the form for a new spare part.
func (h *Handler) AddSparePartForm(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.store.GetEquipment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "add_spare_part.html", gin.H{"Equipment": item})
}

// AddSparePart stores a spare part. Invalid submissions are ignored.
func (h *Handler) AddSparePart(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.store.GetEquipment(ctx, id); err != nil {
		h.fail(c, err)
		return
	}

	var form sparePartForm
	if err := c.ShouldBind(&form); err == nil {
		if _, err := h.store.AddSparePart(ctx, id, form.input()); !ignorable(err) {
			h.fail(c, err)
			return
		}
	}
	h.redirect(c, detailPath(id))
}

// EditSparePartForm renders the spare part editor.
func (h *Handler) EditSparePartForm(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	part, err := h.store.GetSparePart(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "edit_spare_part.html", gin.H{"Part": part})
}

// EditSparePart overwrites a spare part. Invalid submissions are ignored.
func (h *Handler) EditSparePart(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	part, err := h.store.GetSparePart(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	var form sparePartForm
	if err := c.ShouldBind(&form); err == nil {
		if err := h.store.UpdateSparePart(ctx, id, form.input()); !ignorable(err) {
			h.fail(c, err)
			return
		}
	}
	h.redirect(c, detailPath(part.EquipmentID))
}

// DeleteSparePart removes a spare part and returns to its owner.
func (h *Handler) DeleteSparePart(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	part, err := h.store.GetSparePart(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.DeleteSparePart(ctx, id); err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, detailPath(part.EquipmentID))
}

// ExportSpareParts downloads the cross-equipment summary as CSV, or as an
// Excel workbook with ?format=xlsx.
func (h *Handler) ExportSpareParts(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.String(http.StatusBadRequest, "unsupported export format %q", format)
		return
	}

	summary, err := h.store.SummarizeSpareParts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	fileName, contentType, write := export.CSVFileName, export.CSVContentType, export.WriteCSV
	if format == "xlsx" {
		fileName, contentType, write = export.XLSXFileName, export.XLSXContentType, export.WriteXLSX
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Status(http.StatusOK)
	if err := write(c.Writer, summary); err != nil {
		// Headers are already sent; record the failure for the request log.
		_ = c.Error(err)
		h.log.Error("failed to write export", zap.String("format", format), zap.Error(err))
		return
	}
	h.metrics.IncExports(format)
}
