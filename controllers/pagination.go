package controllers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Default page sizes per surface; presentation constants, overridable with
// the limit query parameter.
const (
	IndexPageSize   = 10
	FeedPageSize    = 10
	GroupPageSize   = 3
	ProfilePageSize = 4
)

func parsePagination(c *gin.Context, defaultLimit int) (page, limit, offset int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > 100 {
		limit = defaultLimit
	}

	offset = (page - 1) * limit
	return page, limit, offset
}

func paginationMeta(page, limit int, total int64) gin.H {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return gin.H{
		"current_page": page,
		"per_page":     limit,
		"total_items":  total,
		"total_pages":  totalPages,
	}
}
