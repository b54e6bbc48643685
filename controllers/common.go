package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// paginationParams reads skip/limit query parameters, capping limit at 100.
func paginationParams(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return offset, limit
}
