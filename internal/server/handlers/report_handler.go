package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockbook/internal/service/reporting"
)

// ReportHandler serves on-demand reports.
type ReportHandler struct {
	svc      *reporting.Service
	mu       sync.Locker
	location *time.Location
}

// NewReportHandler builds reports in loc under mu.
func NewReportHandler(svc *reporting.Service, mu sync.Locker, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{svc: svc, mu: mu, location: loc}
}

// Get returns the current report as JSON, or as text with ?format=text.
func (h *ReportHandler) Get(c *gin.Context) {
	h.mu.Lock()
	report := h.svc.Build(time.Now().In(h.location))
	h.mu.Unlock()

	if c.Query("format") == "text" {
		c.String(http.StatusOK, reporting.Format(report))
		return
	}
	c.JSON(http.StatusOK, report)
}
