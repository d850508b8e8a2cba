package controllers

import (
	"net/http"
	"testing"

	"Postline/models"

	"github.com/stretchr/testify/assert"
)

// TestFeedComposition mirrors the classic scenario: leo follows leo2, leo2
// publishes, and only leo's feed picks the post up.
func TestFeedComposition(t *testing.T) {
	server := newTestServer(t)
	leo := createTestUser(t, server, "leo")
	leo2 := createTestUser(t, server, "leo2")
	outsider := createTestUser(t, server, "outsider")

	follow := models.Follow{FollowerID: leo.ID, FollowedID: leo2.ID}
	_, err := follow.SaveFollow(server.DB)
	assert.NoError(t, err)

	createTestPost(t, server, leo2.ID, "Test_text", nil)

	// The follower sees the post
	w := doJSON(t, server, http.MethodGet, "/api/v1/feed", tokenFor(t, leo), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	feed := parseBody(t, w)["response"].([]interface{})
	assert.Len(t, feed, 1)
	assert.Equal(t, "Test_text", feed[0].(map[string]interface{})["text"])

	// A user who follows nobody sees an empty feed, not an error
	w = doJSON(t, server, http.MethodGet, "/api/v1/feed", tokenFor(t, outsider), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseBody(t, w)["response"].([]interface{}), 0)

	// The author does not see their own post in their feed
	w = doJSON(t, server, http.MethodGet, "/api/v1/feed", tokenFor(t, leo2), nil)
	assert.Len(t, parseBody(t, w)["response"].([]interface{}), 0)
}

func TestFeedAfterUnfollow(t *testing.T) {
	server := newTestServer(t)
	leo := createTestUser(t, server, "leo")
	leo2 := createTestUser(t, server, "leo2")

	follow := models.Follow{FollowerID: leo.ID, FollowedID: leo2.ID}
	_, err := follow.SaveFollow(server.DB)
	assert.NoError(t, err)

	createTestPost(t, server, leo2.ID, "Test_text", nil)

	w := doJSON(t, server, http.MethodDelete, "/api/v1/users/leo2/follow", tokenFor(t, leo), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, server, http.MethodGet, "/api/v1/feed", tokenFor(t, leo), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseBody(t, w)["response"].([]interface{}), 0,
		"unfollowing removes the author's posts from the feed")
}

func TestFeedRequiresToken(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/api/v1/feed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
