package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/catalog"
	"github.com/mamadbah2/stockbook/internal/domain/models"
)

// CatalogHandler exposes the catalog store over HTTP.
type CatalogHandler struct {
	store  *catalog.Store
	mu     sync.Locker
	logger *zap.Logger
}

// NewCatalogHandler constructs the HTTP handler adapter. Every store call
// runs under mu.
func NewCatalogHandler(store *catalog.Store, mu sync.Locker, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{store: store, mu: mu, logger: logger}
}

type createBookRequest struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Author *string `json:"author"`
}

type loanRequest struct {
	Holder string `json:"holder"`
}

// List returns every item, or the title matches of ?q=.
func (h *CatalogHandler) List(c *gin.Context) {
	h.mu.Lock()
	var items []models.LoanItem
	if q, ok := c.GetQuery("q"); ok {
		items = h.store.Search(q)
	} else {
		items = h.store.List()
	}
	h.mu.Unlock()

	c.JSON(http.StatusOK, items)
}

// Loans returns the items on loan.
func (h *CatalogHandler) Loans(c *gin.Context) {
	h.mu.Lock()
	items := h.store.ListHeld()
	h.mu.Unlock()

	c.JSON(http.StatusOK, items)
}

// Get returns one item.
func (h *CatalogHandler) Get(c *gin.Context) {
	h.mu.Lock()
	item, found := h.store.Find(c.Param("id"))
	h.mu.Unlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create adds an item, under the given id when one is supplied.
func (h *CatalogHandler) Create(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	in := models.NewLoanItem{Title: req.Title, Author: req.Author}

	h.mu.Lock()
	var (
		item models.LoanItem
		err  error
	)
	if req.ID != "" {
		item, err = h.store.AddWithID(req.ID, in)
	} else {
		item, err = h.store.Add(in)
	}
	h.mu.Unlock()

	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Delete removes an item.
func (h *CatalogHandler) Delete(c *gin.Context) {
	h.mu.Lock()
	_, err := h.store.Remove(c.Param("id"))
	h.mu.Unlock()

	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Loan lends an item to the holder in the body.
func (h *CatalogHandler) Loan(c *gin.Context) {
	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	h.mu.Lock()
	item, err := h.store.SetHolder(c.Param("id"), req.Holder)
	h.mu.Unlock()

	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Return marks an item as returned.
func (h *CatalogHandler) Return(c *gin.Context) {
	h.mu.Lock()
	item, err := h.store.ClearHolder(c.Param("id"))
	h.mu.Unlock()

	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
