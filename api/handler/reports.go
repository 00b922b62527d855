package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/leading/models"
	"github.com/use-agent/leading/store"
)

// ListReports returns a handler for GET /api/v1/reports.
func ListReports(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		keys, err := st.List()
		if err != nil {
			se := models.Categorize(err)
			c.JSON(mapErrorToStatus(se), models.ReportsResponse{Success: false, Keys: []string{}, Error: se.ToDetail()})
			return
		}
		if keys == nil {
			keys = []string{}
		}
		c.JSON(http.StatusOK, models.ReportsResponse{Success: true, Keys: keys})
	}
}

// GetReport returns a handler for GET /api/v1/reports/:key.
func GetReport(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		records, err := st.Read(key)
		if err != nil {
			se := models.Categorize(err)
			c.JSON(mapErrorToStatus(se), models.ReportResponse{
				Success: false,
				Key:     key,
				Records: []models.SireRecord{},
				Error:   se.ToDetail(),
			})
			return
		}
		c.JSON(http.StatusOK, models.ReportResponse{
			Success: true,
			Key:     key,
			Count:   len(records),
			Records: records,
		})
	}
}
