package controllers

import (
	"testing"

	"Postline/models"

	"github.com/stretchr/testify/assert"
)

func TestSeedAdminCreatesAccount(t *testing.T) {
	server := newTestServer(t)
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "super-secret")

	assert.NoError(t, seedAdmin(server.DB))

	var admin models.User
	err := server.DB.Where("email = ?", "admin@example.com").Take(&admin).Error
	assert.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, "admin", admin.Username)
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	server := newTestServer(t)
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "super-secret")

	assert.NoError(t, seedAdmin(server.DB))
	assert.NoError(t, seedAdmin(server.DB))

	var count int64
	server.DB.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count, "a second boot must not duplicate the admin")
}

func TestSeedAdminPromotesExistingAccount(t *testing.T) {
	server := newTestServer(t)
	existing := createTestUser(t, server, "admin")
	assert.False(t, existing.IsAdmin)

	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "super-secret")

	assert.NoError(t, seedAdmin(server.DB))

	var promoted models.User
	err := server.DB.Where("id = ?", existing.ID).Take(&promoted).Error
	assert.NoError(t, err)
	assert.True(t, promoted.IsAdmin)

	var count int64
	server.DB.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSeedAdminSkipsWithoutCredentials(t *testing.T) {
	server := newTestServer(t)
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")

	assert.NoError(t, seedAdmin(server.DB))

	var count int64
	server.DB.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
