package controllers

import (
	"net/http"
	"testing"

	"Postline/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateUser(t *testing.T) {
	server := newTestServer(t)

	mockUser := map[string]string{
		"username": "testuser",
		"email":    "testuser@example.com",
		"password": "password123",
	}
	w := doJSON(t, server, http.MethodPost, "/api/v1/users", "", mockUser)

	assert.Equal(t, http.StatusCreated, w.Code)

	responseUser := parseBody(t, w)["response"].(map[string]interface{})
	assert.Equal(t, mockUser["username"], responseUser["username"])
	assert.Equal(t, mockUser["email"], responseUser["email"])
	assert.NotEmpty(t, responseUser["public_id"])

	// Password should not be exposed in the response
	_, passwordExists := responseUser["password"]
	assert.False(t, passwordExists, "Password field should not be exposed in response")

	// Privileges never come from user input
	assert.Equal(t, false, responseUser["is_admin"])
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	server := newTestServer(t)
	createTestUser(t, server, "testuser")

	mockUser := map[string]string{
		"username": "testuser",
		"email":    "other@example.com",
		"password": "password123",
	}
	w := doJSON(t, server, http.MethodPost, "/api/v1/users", "", mockUser)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := parseBody(t, w)["error"].(map[string]interface{})
	assert.Contains(t, errs, "Taken_username")
}

func TestCreateUserInvalidEmail(t *testing.T) {
	server := newTestServer(t)

	mockUser := map[string]string{
		"username": "testuser",
		"email":    "not-an-email",
		"password": "password123",
	}
	w := doJSON(t, server, http.MethodPost, "/api/v1/users", "", mockUser)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := parseBody(t, w)["error"].(map[string]interface{})
	assert.Contains(t, errs, "Invalid_email")
}

func TestLogin(t *testing.T) {
	server := newTestServer(t)
	createTestUser(t, server, "testuser")

	w := doJSON(t, server, http.MethodPost, "/api/v1/login", "", map[string]string{
		"email":    "testuser@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	response := parseBody(t, w)["response"].(map[string]interface{})
	assert.NotEmpty(t, response["token"])
	assert.Equal(t, "testuser", response["username"])
}

func TestLoginWrongPassword(t *testing.T) {
	server := newTestServer(t)
	createTestUser(t, server, "testuser")

	w := doJSON(t, server, http.MethodPost, "/api/v1/login", "", map[string]string{
		"email":    "testuser@example.com",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetUserByUsername(t *testing.T) {
	server := newTestServer(t)
	created := createTestUser(t, server, "testuser")

	w := doJSON(t, server, http.MethodGet, "/api/v1/users/testuser", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	responseUser := parseBody(t, w)["response"].(map[string]interface{})
	assert.Equal(t, float64(created.ID), responseUser["id"])
	assert.Equal(t, "testuser", responseUser["username"])
}

func TestUpdateUserRequiresSelf(t *testing.T) {
	server := newTestServer(t)
	createTestUser(t, server, "owner")
	intruder := createTestUser(t, server, "intruder")

	w := doJSON(t, server, http.MethodPut, "/api/v1/users/owner", tokenFor(t, intruder), map[string]string{
		"email": "hijacked@example.com",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The owner's email stays untouched
	var owner models.User
	err := server.DB.Where("username = ?", "owner").Take(&owner).Error
	assert.NoError(t, err)
	assert.Equal(t, "owner@example.com", owner.Email)
}

func TestDeleteUserCascades(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "author")
	fan := createTestUser(t, server, "fan")

	post := createTestPost(t, server, author.ID, "doomed post", nil)

	// A comment from the fan on the author's post, and a follow each way
	comment := models.Comment{PostID: post.ID, AuthorID: fan.ID, Text: "nice"}
	_, err := comment.SaveComment(server.DB)
	assert.NoError(t, err)

	follow := models.Follow{FollowerID: fan.ID, FollowedID: author.ID}
	_, err = follow.SaveFollow(server.DB)
	assert.NoError(t, err)

	w := doJSON(t, server, http.MethodDelete, "/api/v1/users/author", tokenFor(t, author), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var posts, comments, follows, users int64
	server.DB.Model(&models.Post{}).Count(&posts)
	server.DB.Model(&models.Comment{}).Count(&comments)
	server.DB.Model(&models.Follow{}).Count(&follows)
	server.DB.Model(&models.User{}).Where("username = ?", "author").Count(&users)

	assert.Equal(t, int64(0), posts, "the author's posts should be gone")
	assert.Equal(t, int64(0), comments, "comments on the author's posts should be gone")
	assert.Equal(t, int64(0), follows, "follow edges touching the author should be gone")
	assert.Equal(t, int64(0), users)
}
