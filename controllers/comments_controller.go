package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"Postline/models"
	httpctx "Postline/utils/httpctx"

	"github.com/gin-gonic/gin"
)

func (server *Server) CreateComment(c *gin.Context) {
	errList := map[string]string{}

	pid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Invalid post ID",
		})
		return
	}

	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  "Unauthorized",
		})
		return
	}

	post := models.Post{}
	parent, err := post.FindPostByID(server.DB, uint(pid))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Post not found",
		})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		errList["Invalid_body"] = "Unable to get request"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}
	comment := models.Comment{}
	err = json.Unmarshal(body, &comment)
	if err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	comment.Prepare()
	comment.AuthorID = uid
	comment.PostID = parent.ID
	errorMessages := comment.Validate()
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	commentCreated, err := comment.SaveComment(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to save comment",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": commentToResponse(commentCreated),
	})
}

func (server *Server) GetComments(c *gin.Context) {
	pid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Invalid post ID",
		})
		return
	}

	post := models.Post{}
	parent, err := post.FindPostByID(server.DB, uint(pid))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Post not found",
		})
		return
	}

	comment := models.Comment{}
	comments, err := comment.GetPostComments(server.DB, parent.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve comments",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": commentsToResponse(*comments),
	})
}

func (server *Server) UpdateComment(c *gin.Context) {
	errList := map[string]string{}

	cid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Invalid comment ID",
		})
		return
	}

	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  "Unauthorized",
		})
		return
	}

	var existing models.Comment
	if err := server.DB.Where("id = ?", uint(cid)).Take(&existing).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Comment not found",
		})
		return
	}
	if existing.AuthorID != uid {
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  "Forbidden",
		})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		errList["Invalid_body"] = "Unable to get request"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}
	update := models.Comment{}
	if err := json.Unmarshal(body, &update); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	update.Prepare()
	update.ID = existing.ID
	update.AuthorID = existing.AuthorID
	update.PostID = existing.PostID
	errorMessages := update.Validate()
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	updated, err := update.UpdateAComment(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to update comment",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": commentToResponse(updated),
	})
}

func (server *Server) DeleteComment(c *gin.Context) {
	cid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Invalid comment ID",
		})
		return
	}

	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  "Unauthorized",
		})
		return
	}

	var existing models.Comment
	if err := server.DB.Where("id = ?", uint(cid)).Take(&existing).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Comment not found",
		})
		return
	}
	if existing.AuthorID != uid {
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  "Forbidden",
		})
		return
	}

	if _, err := existing.DeleteAComment(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to delete comment",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Comment deleted",
	})
}
