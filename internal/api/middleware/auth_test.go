package middleware

import (
	"net/http"
	"net/http/httptest"
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

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func newAuthenticator(t *testing.T) (*Authenticator, *auth.TokenService, *models.User, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	users := repositories.NewUserRepository(db)

	user := &models.User{Email: "a@x.com", Password: "hash"}
	require.NoError(t, users.Create(user))

	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	return NewAuthenticator(tokens, users, monitoring.NopSink{}), tokens, user, db
}

func run(a *Authenticator, authorization string) (*httptest.ResponseRecorder, *models.User) {
	var seen *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	a.Middleware(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthenticator_NoToken(t *testing.T) {
	t.Parallel()

	a, _, _, _ := newAuthenticator(t)
	rec, seen := run(a, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestAuthenticator_MalformedHeader(t *testing.T) {
	t.Parallel()

	a, _, _, _ := newAuthenticator(t)
	rec, _ := run(a, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_InvalidToken(t *testing.T) {
	t.Parallel()

	a, _, _, _ := newAuthenticator(t)
	rec, _ := run(a, "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_ExpiredToken(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := repositories.NewUserRepository(db)
	user := &models.User{Email: "a@x.com", Password: "hash"}
	require.NoError(t, users.Create(user))

	expired := auth.NewTokenService([]byte("test-secret"), -time.Minute)
	tok, err := expired.Issue(user.ID)
	require.NoError(t, err)

	a := NewAuthenticator(auth.NewTokenService([]byte("test-secret"), time.Hour), users, monitoring.NopSink{})
	rec, _ := run(a, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_ValidToken(t *testing.T) {
	t.Parallel()

	a, tokens, user, _ := newAuthenticator(t)
	tok, err := tokens.Issue(user.ID)
	require.NoError(t, err)

	rec, seen := run(a, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)
	assert.Equal(t, "a@x.com", seen.Email)
}

func TestAuthenticator_UserDeletedAfterIssue(t *testing.T) {
	t.Parallel()

	a, tokens, user, db := newAuthenticator(t)
	tok, err := tokens.Issue(user.ID)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.User{}, "id = ?", user.ID).Error)

	rec, _ := run(a, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
