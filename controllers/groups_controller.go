package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"Postline/models"
	"Postline/utils/formaterror"

	"github.com/gin-gonic/gin"
)

func (server *Server) GetGroups(c *gin.Context) {
	group := models.Group{}
	groups, err := group.FindAllGroups(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve groups",
		})
		return
	}

	response := make([]*GroupDTO, 0, len(*groups))
	for i := range *groups {
		response = append(response, groupToResponse(&(*groups)[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": response,
	})
}

func (server *Server) GetGroup(c *gin.Context) {
	group := models.Group{}
	found, err := group.FindGroupBySlug(server.DB, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Group not found",
		})
		return
	}

	page, limit, offset := parsePagination(c, GroupPageSize)
	post := models.Post{}
	posts, total, err := post.FindPostsByGroup(server.DB, found.ID, offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve posts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"group": groupToResponse(found),
			"posts": postsToResponse(posts),
		},
		"pagination": paginationMeta(page, limit, total),
	})
}

// CreateGroup is admin-only; the route carries AdminOnlyMiddleware.
func (server *Server) CreateGroup(c *gin.Context) {
	errList := map[string]string{}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		errList["Invalid_body"] = "Unable to get request"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}
	group := models.Group{}
	err = json.Unmarshal(body, &group)
	if err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	group.Prepare()
	errorMessages := group.Validate()
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	groupCreated, err := group.SaveGroup(server.DB)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  formattedError,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": groupToResponse(groupCreated),
	})
}

// DeleteGroup detaches the group's posts and removes the group; the posts
// themselves stay retrievable.
func (server *Server) DeleteGroup(c *gin.Context) {
	group := models.Group{}
	found, err := group.FindGroupBySlug(server.DB, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Group not found",
		})
		return
	}

	if _, err := found.DeleteAGroup(server.DB, found.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to delete group",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Group deleted",
	})
}
