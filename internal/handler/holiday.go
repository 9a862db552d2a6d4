package handler

import (
	"net/http"
	"time"

	"mobility/internal/service"

	"github.com/gin-gonic/gin"
)

// HolidayHandler handles calendar lookup HTTP requests
type HolidayHandler struct {
	table *service.HolidayTable
}

// NewHolidayHandler creates a new holiday handler
func NewHolidayHandler(table *service.HolidayTable) *HolidayHandler {
	return &HolidayHandler{table: table}
}

// HolidayInfo handles GET /api/v1/holiday-info?date=YYYY-MM-DD
func (h *HolidayHandler) HolidayInfo(c *gin.Context) {
	dateParam := c.Query("date")
	if dateParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'date' query parameter"})
		return
	}

	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD."})
		return
	}

	record, ok := h.table.Lookup(date.Format("2006-01-02"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Date not found in the holiday table."})
		return
	}

	c.JSON(http.StatusOK, record)
}
