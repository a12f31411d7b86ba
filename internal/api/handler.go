package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"equipment-inventory/internal/metrics"
	"equipment-inventory/internal/notification"
	"equipment-inventory/internal/parse"
	"equipment-inventory/internal/store"
)

// Handler holds shared dependencies for the HTML and JSON handlers.
type Handler struct {
	store    store.Store
	webpush  *webpush.Options
	notifier notification.Notifier
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// NewHandler creates a new handler. webpushOptions and notifier may be nil
// when push notifications are disabled.
func NewHandler(s store.Store, webpushOptions *webpush.Options, notifier notification.Notifier, m *metrics.Metrics, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		store:    s,
		webpush:  webpushOptions,
		notifier: notifier,
		metrics:  m,
		log:      log,
	}
}

// pathID reads a numeric id from the route. Anything else renders the
// not-found page.
func (h *Handler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := parse.ParseID(c.Param(name))
	if err != nil {
		h.NotFound(c)
		return 0, false
	}
	return id, true
}

// NotFound renders the not-found page.
func (h *Handler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "message.html", gin.H{
		"Title":   "Страница не найдена",
		"Message": "Запрошенная запись не существует.",
	})
	c.Abort()
}

// fail reports an unexpected error. ErrNotFound is mapped to a 404.
func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		h.NotFound(c)
		return
	}
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, "message.html", gin.H{
		"Title":   "Ошибка",
		"Message": "Не удалось выполнить операцию. Попробуйте позже.",
	})
	c.Abort()
}

// ignorable reports whether a write error should end in a plain redirect.
func ignorable(err error) bool {
	return err == nil || errors.Is(err, store.ErrInvalidInput) || errors.Is(err, store.ErrNotFound)
}

func detailPath(equipmentID int64) string {
	return fmt.Sprintf("/equipment/%d", equipmentID)
}

func (h *Handler) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

func (h *Handler) notifyBroken(equipmentID int64) {
	if h.notifier == nil {
		return
	}
	h.notifier.EquipmentBroken(equipmentID)
}
