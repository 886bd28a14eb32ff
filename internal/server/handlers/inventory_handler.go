package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/inventory"
)

// InventoryHandler exposes the inventory store over HTTP.
type InventoryHandler struct {
	store  *inventory.Store
	mu     sync.Locker
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter. Every store call
// runs under mu.
func NewInventoryHandler(store *inventory.Store, mu sync.Locker, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{store: store, mu: mu, logger: logger}
}

// List returns all items, or the name matches of ?q=.
func (h *InventoryHandler) List(c *gin.Context) {
	h.mu.Lock()
	var items []models.StockItem
	if q, ok := c.GetQuery("q"); ok {
		items = h.store.Search(q)
	} else {
		items = h.store.List()
	}
	h.mu.Unlock()

	c.JSON(http.StatusOK, items)
}

// Get returns one item.
func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	h.mu.Lock()
	item, found := h.store.Find(id)
	h.mu.Unlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create adds an item.
func (h *InventoryHandler) Create(c *gin.Context) {
	var req models.NewStockItem
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	h.mu.Lock()
	item, err := h.store.Add(req)
	h.mu.Unlock()

	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update applies a partial update.
func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var patch models.StockItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	h.mu.Lock()
	item, err := h.store.Modify(id, patch)
	h.mu.Unlock()

	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete removes an item.
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	h.mu.Lock()
	_, err := h.store.Remove(id)
	h.mu.Unlock()

	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Sell deducts stock.
func (h *InventoryHandler) Sell(c *gin.Context) {
	h.adjust(c, h.store.Sell)
}

// Restock adds stock.
func (h *InventoryHandler) Restock(c *gin.Context) {
	h.adjust(c, h.store.Restock)
}

func (h *InventoryHandler) adjust(c *gin.Context, op func(id, quantity int) (models.StockItem, error)) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	h.mu.Lock()
	item, err := op(id, req.Quantity)
	h.mu.Unlock()

	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
