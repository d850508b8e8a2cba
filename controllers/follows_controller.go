package controllers

import (
	"net/http"

	"Postline/models"
	httpctx "Postline/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// FollowUser subscribes the caller to the target's posts. Following an
// author twice is the same as following once.
func (server *Server) FollowUser(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  "Unauthorized",
		})
		return
	}

	target, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "User not found",
		})
		return
	}

	if target.ID == uid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_follow": "You cannot follow yourself"},
		})
		return
	}

	follow := models.Follow{FollowerID: uid, FollowedID: target.ID}
	created, err := follow.SaveFollow(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to save follow",
		})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"status": status,
		"response": gin.H{
			"following": true,
			"username":  target.Username,
		},
	})
}

// UnfollowUser drops the subscription; unfollowing an author you never
// followed is a no-op.
func (server *Server) UnfollowUser(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  "Unauthorized",
		})
		return
	}

	target, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "User not found",
		})
		return
	}

	follow := models.Follow{}
	if _, err := follow.DeleteFollow(server.DB, uid, target.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to remove follow",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"following": false,
			"username":  target.Username,
		},
	})
}

func (server *Server) GetFollowers(c *gin.Context) {
	target, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "User not found",
		})
		return
	}

	follow := models.Follow{}
	followers, err := follow.FindFollowers(server.DB, target.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve followers",
		})
		return
	}

	response := make([]UserDTO, 0, len(*followers))
	for i := range *followers {
		response = append(response, userToResponse(&(*followers)[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": response,
	})
}

func (server *Server) GetFollowing(c *gin.Context) {
	target, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "User not found",
		})
		return
	}

	follow := models.Follow{}
	following, err := follow.FindFollowing(server.DB, target.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve following",
		})
		return
	}

	response := make([]UserDTO, 0, len(*following))
	for i := range *following {
		response = append(response, userToResponse(&(*following)[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": response,
	})
}
