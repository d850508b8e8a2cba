package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"Postline/mailer"
	"Postline/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type resetRequest struct {
	Token          string `json:"token"`
	NewPassword    string `json:"new_password"`
	RetypePassword string `json:"retype_password"`
}

func (server *Server) ForgotPassword(c *gin.Context) {
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
	errorMessages := user.Validate("forgotpassword")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	lookup := models.User{}
	account, err := lookup.FindUserByEmail(server.DB, user.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same response as success: no account enumeration.
			c.JSON(http.StatusOK, gin.H{
				"status":   http.StatusOK,
				"response": "If that email is registered, a reset link is on the way",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to process request",
		})
		return
	}

	details := models.ResetPassword{
		Email: account.Email,
		Token: uuid.New().String(),
	}
	details.Prepare()
	if _, err := details.SaveDetails(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to process request",
		})
		return
	}

	if err := mailer.SendResetPassword(account.Email, details.Token); err != nil {
		log.Printf("reset mail not sent: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "If that email is registered, a reset link is on the way",
	})
}

func (server *Server) ResetPassword(c *gin.Context) {
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
	request := resetRequest{}
	err = json.Unmarshal(body, &request)
	if err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	if request.Token == "" {
		errList["Required_token"] = "Required Token"
	}
	if len(request.NewPassword) < 6 {
		errList["Invalid_password"] = "Password should be at least 6 characters"
	}
	if request.NewPassword != request.RetypePassword {
		errList["Password_unequal"] = "Passwords provided do not match"
	}
	if len(errList) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	details := models.ResetPassword{}
	found, err := details.FindByToken(server.DB, request.Token)
	if err != nil {
		errList["Invalid_token"] = "Invalid Token"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	user := models.User{Email: found.Email, Password: request.NewPassword}
	if err := user.UpdatePassword(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to reset password",
		})
		return
	}
	if _, err := found.DeleteDetails(server.DB); err != nil {
		log.Printf("reset token not consumed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Password reset successfully",
	})
}
