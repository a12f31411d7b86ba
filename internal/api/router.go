package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"equipment-inventory/config"
	"equipment-inventory/internal/metrics"
	"equipment-inventory/internal/mw"
	"equipment-inventory/internal/notification"
	"equipment-inventory/internal/store"
)

// Deps bundles what the router needs. Only Store is mandatory.
type Deps struct {
	Store    store.Store
	WebPush  *webpush.Options
	Notifier notification.Notifier
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg config.ServerConfig, deps Deps) (*gin.Engine, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	if cfg.RequestIPHeader != "" {
		r.TrustedPlatform = cfg.RequestIPHeader
	}
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery(), mw.RequestID(), mw.RequestLogger(log), mw.Metrics(deps.Metrics))

	handler := NewHandler(deps.Store, deps.WebPush, deps.Notifier, deps.Metrics, log)
	r.NoRoute(handler.NotFound)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	idle := time.Duration(cfg.RateLimitIdleMinutes) * time.Minute
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	limiter := mw.NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, idle)

	pages := r.Group("/")
	pages.Use(mw.RateLimiter(limiter))
	{
		pages.GET("/", handler.ListEquipment)
		pages.GET("/add", handler.AddEquipmentForm)
		pages.POST("/add", handler.AddEquipment)

		pages.GET("/equipment/:id", handler.EquipmentDetail)
		pages.POST("/equipment/:id/delete", handler.DeleteEquipment)
		pages.POST("/equipment/:id/status", handler.UpdateStatus)
		pages.POST("/equipment/:id/issues/add", handler.AddIssue)
		pages.GET("/equipment/:id/spare_parts/add", handler.AddSparePartForm)
		pages.POST("/equipment/:id/spare_parts/add", handler.AddSparePart)

		pages.GET("/issues/:id/edit", handler.EditIssueForm)
		pages.POST("/issues/:id/edit", handler.EditIssue)

		pages.GET("/spare_parts/edit/:id", handler.EditSparePartForm)
		pages.POST("/spare_parts/edit/:id", handler.EditSparePart)
		pages.POST("/spare_parts/delete/:id", handler.DeleteSparePart)
		pages.GET("/spare_parts/export", handler.ExportSpareParts)
	}

	api := r.Group("/api")
	api.Use(mw.RateLimiter(limiter))
	{
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r, nil
}
