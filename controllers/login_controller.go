package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"Postline/auth"
	"Postline/models"
	"Postline/security"
	"Postline/utils/formaterror"

	"github.com/gin-gonic/gin"
)

func (server *Server) Login(c *gin.Context) {
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
	user := models.User{}
	err = json.Unmarshal(body, &user)
	if err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	user.Prepare()
	errorMessages := user.Validate("login")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	userData, err := server.SignIn(user.Email, user.Password)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  formattedError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userData,
	})
}

func (server *Server) SignIn(email, password string) (map[string]interface{}, error) {
	userData := make(map[string]interface{})

	user := models.User{}
	err := server.DB.Model(models.User{}).
		Where("lower(email) = ?", strings.ToLower(email)).
		Take(&user).Error
	if err != nil {
		return nil, err
	}

	if err := security.VerifyPassword(user.Password, password); err != nil {
		return nil, err
	}

	token, err := auth.CreateToken(user.ID)
	if err != nil {
		return nil, err
	}

	userData["token"] = token
	userData["id"] = user.ID
	userData["public_id"] = user.PublicID
	userData["username"] = user.Username
	userData["email"] = user.Email
	userData["is_admin"] = user.IsAdmin

	return userData, nil
}

// LoginPage is the redirect target for unauthenticated browsing-surface
// writes; it echoes the continuation so a client can come back.
func (server *Server) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"login": "/api/v1/login",
			"next":  c.Query("next"),
		},
	})
}
