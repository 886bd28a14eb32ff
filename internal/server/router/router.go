package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by New.
type Handlers struct {
	Inventory *handlers.InventoryHandler
	Catalog   *handlers.CatalogHandler
	Report    *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	inv := r.Group("/inventory")
	inv.GET("", h.Inventory.List)
	inv.POST("", h.Inventory.Create)
	inv.GET("/:id", h.Inventory.Get)
	inv.PATCH("/:id", h.Inventory.Update)
	inv.DELETE("/:id", h.Inventory.Delete)
	inv.POST("/:id/sell", h.Inventory.Sell)
	inv.POST("/:id/restock", h.Inventory.Restock)

	books := r.Group("/books")
	books.GET("", h.Catalog.List)
	books.POST("", h.Catalog.Create)
	books.GET("/loans", h.Catalog.Loans)
	books.GET("/:id", h.Catalog.Get)
	books.DELETE("/:id", h.Catalog.Delete)
	books.POST("/:id/loan", h.Catalog.Loan)
	books.POST("/:id/return", h.Catalog.Return)

	r.GET("/report", h.Report.Get)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
