package handlers

import (
	"testing"
	"time"

	"github.com/devpatel-io/taskflow/internal/auth"
	"github.com/devpatel-io/taskflow/internal/models"
	"github.com/devpatel-io/taskflow/internal/monitoring"
	"github.com/devpatel-io/taskflow/internal/repositories"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAuthHandler(t *testing.T) (*AuthHandler, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repositories.Migrate(db))

	users := repositories.NewUserRepository(db)
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	return NewAuthHandler(users, tokens, monitoring.NopSink{}, nil, "http://localhost:5173"), db
}

func TestResolveGoogleUser_RegisterCreatesAccount(t *testing.T) {
	t.Parallel()

	h, db := newAuthHandler(t)
	user, redirect, err := h.resolveGoogleUser("register", "new@x.com")
	require.NoError(t, err)
	assert.Empty(t, redirect)
	require.NotNil(t, user)
	assert.Equal(t, "new@x.com", user.Email)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveGoogleUser_RegisterExistingRedirects(t *testing.T) {
	t.Parallel()

	h, db := newAuthHandler(t)
	require.NoError(t, db.Create(&models.User{Email: "a@x.com", Password: "h"}).Error)

	user, redirect, err := h.resolveGoogleUser("register", "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, "/login?error=user_already_exists", redirect)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveGoogleUser_LoginMissingRedirects(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)
	user, redirect, err := h.resolveGoogleUser("login", "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, "/register?error=user_not_found", redirect)
}

func TestResolveGoogleUser_LookupFailureDoesNotCreate(t *testing.T) {
	t.Parallel()

	h, db := newAuthHandler(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// A broken lookup must surface the error, not fall through to Create.
	user, redirect, err := h.resolveGoogleUser("register", "new@x.com")
	require.Error(t, err)
	assert.Nil(t, user)
	assert.Empty(t, redirect)
}
