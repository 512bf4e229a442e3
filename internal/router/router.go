package router

import (
	"github.com/gin-gonic/gin"

	"trimatch/internal/config"
	"trimatch/internal/handler"
	"trimatch/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	invoiceH *handler.InvoiceHandler,
	poH *handler.PurchaseOrderHandler,
	grnH *handler.GoodsReceiptHandler,
	tolH *handler.ToleranceHandler,
	ruleH *handler.RuleHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.ServiceAuth(cfg.Auth.JWTSecret, cfg.Auth.Issuer))

	invoices := v1.Group("/invoices")
	invoices.POST("", invoiceH.Create)
	invoices.GET("", invoiceH.List)
	invoices.GET("/review-queue", invoiceH.ListReviewQueue)
	invoices.GET("/review-queue/export", invoiceH.ExportReviewQueue)
	invoices.GET("/:id", invoiceH.GetByID)
	invoices.GET("/:id/trace-archive", invoiceH.TraceArchive)
	invoices.POST("/:id/rematch", invoiceH.Rematch)
	invoices.POST("/:id/review", invoiceH.ResolveReview)

	pos := v1.Group("/purchase-orders")
	pos.POST("", poH.Create)
	pos.GET("", poH.List)
	pos.GET("/:number", poH.GetByNumber)
	pos.PUT("/:number", poH.Update)

	grns := v1.Group("/goods-receipts")
	grns.POST("", grnH.Create)
	grns.GET("", grnH.ListByPO)
	grns.GET("/:number", grnH.GetByNumber)

	tolerances := v1.Group("/tolerances")
	tolerances.PUT("/:vendor", tolH.Upsert)
	tolerances.GET("", tolH.List)
	tolerances.GET("/:vendor", tolH.GetByVendor)
	tolerances.DELETE("/:vendor", tolH.Delete)

	rules := v1.Group("/rules")
	rules.POST("", ruleH.Create)
	rules.GET("", ruleH.List)
	rules.DELETE("/:id", ruleH.Delete)

	return r
}
