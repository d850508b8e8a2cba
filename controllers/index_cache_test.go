package controllers

import (
	"net/http"
	"testing"
	"time"

	"Postline/cache"
	"Postline/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// withTestRedis points the page cache at an in-process redis for the
// duration of one test.
func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	cache.Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Client = nil })
	return mr
}

func TestIndexServesStalePageWithinTTL(t *testing.T) {
	server := newTestServer(t)
	mr := withTestRedis(t)
	sarah := createTestUser(t, server, "sarah")
	createTestPost(t, server, sarah.ID, "first post", nil)

	// The first visit builds the page and stores it
	w := doJSON(t, server, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	firstBody := w.Body.String()
	assert.True(t, mr.Exists("index:page:1:limit:10"))

	// A write does not invalidate: within the TTL the cached page is
	// served as-is, new post and all
	createTestPost(t, server, sarah.ID, "second post", nil)
	w = doJSON(t, server, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, firstBody, w.Body.String())
	assert.NotContains(t, w.Body.String(), "second post")

	// Once the TTL lapses the page is rebuilt from the database
	mr.FastForward(21 * time.Second)
	w = doJSON(t, server, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "second post")
}

func TestIndexCacheKeyedByPageAndLimit(t *testing.T) {
	server := newTestServer(t)
	mr := withTestRedis(t)
	sarah := createTestUser(t, server, "sarah")
	for i := 0; i < 12; i++ {
		createTestPost(t, server, sarah.ID, "a post", nil)
	}

	doJSON(t, server, http.MethodGet, "/", "", nil)
	doJSON(t, server, http.MethodGet, "/?page=2", "", nil)
	doJSON(t, server, http.MethodGet, "/?limit=5", "", nil)

	assert.True(t, mr.Exists("index:page:1:limit:10"))
	assert.True(t, mr.Exists("index:page:2:limit:10"))
	assert.True(t, mr.Exists("index:page:1:limit:5"))
}

func TestIndexFallsBackWhenCacheIsGone(t *testing.T) {
	server := newTestServer(t)
	mr := withTestRedis(t)
	sarah := createTestUser(t, server, "sarah")
	createTestPost(t, server, sarah.ID, "resilient post", nil)

	doJSON(t, server, http.MethodGet, "/", "", nil)
	mr.Close()

	// The page keeps working straight from the database
	w := doJSON(t, server, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "resilient post")

	var count int64
	server.DB.Model(&models.Post{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
