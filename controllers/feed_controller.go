package controllers

import (
	"net/http"

	"Postline/models"
	httpctx "Postline/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// GetFeed returns the posts of every author the caller follows, newest
// first. A caller following nobody gets an empty page.
func (server *Server) GetFeed(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  "Unauthorized",
		})
		return
	}

	page, limit, offset := parsePagination(c, FeedPageSize)

	post := models.Post{}
	posts, total, err := post.FindFeedPosts(server.DB, uid, offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve feed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     http.StatusOK,
		"response":   postsToResponse(posts),
		"pagination": paginationMeta(page, limit, total),
	})
}
