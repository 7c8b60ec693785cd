// Package server exposes the barcode lookup service, the sole read path
// into the relational destination.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/store"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store store.Store
}

// NewHandler creates a new HTTP handler over an open store.
func NewHandler(st store.Store) *Handler {
	return &Handler{store: st}
}

// SetupRouter creates and configures the Gin router
func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", handler.HealthCheck)
	router.GET("/search", handler.SearchProduct)

	return router
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "food-facts",
	})
}

// SearchProduct maps a barcode to the newest stored payload, injecting the
// query execution time in milliseconds.
func (h *Handler) SearchProduct(c *gin.Context) {
	start := time.Now()

	barcode := c.Query("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Barcode parameter is required"})
		return
	}

	data, found, err := h.store.GetByBarcode(c.Request.Context(), barcode)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             "Product not found",
			"barcode":           barcode,
			"execution_time_ms": elapsed,
		})
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		// Payload is not an object; wrap it instead of failing the lookup.
		c.JSON(http.StatusOK, gin.H{
			"data":              string(data),
			"execution_time_ms": elapsed,
		})
		return
	}

	payload["execution_time_ms"] = elapsed
	c.JSON(http.StatusOK, payload)
}
