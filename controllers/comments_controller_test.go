package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"Postline/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateComment(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "author")
	reader := createTestUser(t, server, "reader")
	post := createTestPost(t, server, author.ID, "a post", nil)

	w := doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", post.ID),
		tokenFor(t, reader), map[string]string{"text": "well said"})

	assert.Equal(t, http.StatusCreated, w.Code)
	response := parseBody(t, w)["response"].(map[string]interface{})
	assert.Equal(t, "well said", response["text"])
	assert.Equal(t, "reader", response["author"].(map[string]interface{})["username"])
}

func TestCreateCommentOnMissingPost(t *testing.T) {
	server := newTestServer(t)
	reader := createTestUser(t, server, "reader")

	w := doJSON(t, server, http.MethodPost, "/api/v1/posts/999/comments",
		tokenFor(t, reader), map[string]string{"text": "into the void"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCommentsInOrder(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "author")
	post := createTestPost(t, server, author.ID, "a post", nil)

	for i := 1; i <= 3; i++ {
		comment := models.Comment{PostID: post.ID, AuthorID: author.ID, Text: fmt.Sprintf("comment %d", i)}
		_, err := comment.SaveComment(server.DB)
		assert.NoError(t, err)
	}

	w := doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/comments", post.ID), "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	comments := parseBody(t, w)["response"].([]interface{})
	assert.Len(t, comments, 3)

	// Comments read oldest first, like a conversation
	assert.Equal(t, "comment 1", comments[0].(map[string]interface{})["text"])
	assert.Equal(t, "comment 3", comments[2].(map[string]interface{})["text"])
}

func TestUpdateCommentNonAuthorForbidden(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "author")
	intruder := createTestUser(t, server, "intruder")
	post := createTestPost(t, server, author.ID, "a post", nil)

	comment := models.Comment{PostID: post.ID, AuthorID: author.ID, Text: "original"}
	saved, err := comment.SaveComment(server.DB)
	assert.NoError(t, err)

	w := doJSON(t, server, http.MethodPut, fmt.Sprintf("/api/v1/comments/%d", saved.ID),
		tokenFor(t, intruder), map[string]string{"text": "hijacked"})

	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored models.Comment
	err = server.DB.Where("id = ?", saved.ID).Take(&stored).Error
	assert.NoError(t, err)
	assert.Equal(t, "original", stored.Text)
}

func TestDeleteComment(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "author")
	post := createTestPost(t, server, author.ID, "a post", nil)

	comment := models.Comment{PostID: post.ID, AuthorID: author.ID, Text: "fleeting"}
	saved, err := comment.SaveComment(server.DB)
	assert.NoError(t, err)

	w := doJSON(t, server, http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", saved.ID),
		tokenFor(t, author), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	server.DB.Model(&models.Comment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
