package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"Postline/auth"
	"Postline/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires a server against an in-memory SQLite database with
// the full route table, so tests go through the same middleware chain as
// production requests do.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("API_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	server := &Server{DB: db, Router: gin.Default()}
	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.ResetPassword{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}

	server.initializeRoutes()
	return server
}

func createTestUser(t *testing.T, server *Server, username string) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	}
	user.Prepare()
	saved, err := user.SaveUser(server.DB)
	if err != nil {
		t.Fatalf("Failed to create user %q: %v", username, err)
	}
	return saved
}

func createTestGroup(t *testing.T, server *Server, title, slug string) *models.Group {
	t.Helper()

	group := models.Group{Title: title, Slug: slug}
	group.Prepare()
	saved, err := group.SaveGroup(server.DB)
	if err != nil {
		t.Fatalf("Failed to create group %q: %v", slug, err)
	}
	return saved
}

func createTestPost(t *testing.T, server *Server, authorID uint, text string, groupID *uint) *models.Post {
	t.Helper()

	post := models.Post{Text: text}
	post.Prepare()
	post.AuthorID = authorID
	post.GroupID = groupID
	saved, err := post.SavePost(server.DB)
	if err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	return saved
}

// tokenFor mints a valid JWT directly, bypassing the login rate limiter.
func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := auth.CreateToken(user.ID)
	if err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}
	return token
}

// doJSON performs a JSON request against the server, optionally with a
// bearer token.
func doJSON(t *testing.T, server *Server, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Error creating request body: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, body)
	if err != nil {
		t.Fatalf("Error creating HTTP request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	return w
}

// doForm performs a form-encoded request, the shape the browsing surface
// submits.
func doForm(t *testing.T, server *Server, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("Error creating HTTP request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	return w
}

// parseBody unmarshals the response envelope.
func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Error unmarshalling response body: %v", err)
	}
	return body
}
