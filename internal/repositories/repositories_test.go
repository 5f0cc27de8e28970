package repositories

import (
	"testing"

	"github.com/devpatel-io/taskflow/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
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
	require.NoError(t, Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "irrelevant-hash"}
	require.NoError(t, NewUserRepository(db).Create(user))
	return user
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(&models.User{Email: "a@x.com", Password: "h"}))
	err := repo.Create(&models.User{Email: "a@x.com", Password: "h2"})
	require.ErrorIs(t, err, ErrEmailTaken)

	// Exactly one record must exist afterward.
	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "a@x.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOwnerTodos_ScopedLookups(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	alice := createUser(t, db, "alice@x.com")
	bob := createUser(t, db, "bob@x.com")

	repo := NewTodoRepository(db)
	todo, err := repo.ForOwner(alice.ID).Create("Buy milk")
	require.NoError(t, err)

	// The owner sees the record.
	got, err := repo.ForOwner(alice.ID).Get(todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)

	// Another owner gets the same result as for a nonexistent id.
	_, err = repo.ForOwner(bob.ID).Get(todo.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.ForOwner(bob.ID).Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	// Same for update and delete.
	_, err = repo.ForOwner(bob.ID).Update(todo.ID, map[string]any{"completed": true})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.ForOwner(bob.ID).Delete(todo.ID), ErrNotFound)

	// The record is untouched.
	got, err = repo.ForOwner(alice.ID).Get(todo.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestOwnerTodos_ListIsOwnerScoped(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	alice := createUser(t, db, "alice@x.com")
	bob := createUser(t, db, "bob@x.com")

	repo := NewTodoRepository(db)
	_, err := repo.ForOwner(alice.ID).Create("mine")
	require.NoError(t, err)
	_, err = repo.ForOwner(bob.ID).Create("theirs")
	require.NoError(t, err)

	todos, err := repo.ForOwner(alice.ID).List()
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "mine", todos[0].Title)
}

func TestOwnerTodos_UpdateAndCounts(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	alice := createUser(t, db, "alice@x.com")
	scoped := NewTodoRepository(db).ForOwner(alice.ID)

	a, err := scoped.Create("one")
	require.NoError(t, err)
	_, err = scoped.Create("two")
	require.NoError(t, err)

	updated, err := scoped.Update(a.ID, map[string]any{"completed": true, "title": "one done"})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "one done", updated.Title)

	total, completed, err := scoped.Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(1), completed)
}

func TestOwnerProfile_LazyDefault(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	alice := createUser(t, db, "alice@example.com")

	scoped := NewProfileRepository(db).ForOwner(alice.ID)
	profile, err := scoped.GetOrCreate(alice.Email)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.DisplayName)
	assert.Equal(t, models.VisibilityPrivate, profile.Privacy.ProfileVisibility)
	assert.Equal(t, "auto", profile.Preferences.Theme)

	// Second access returns the same record, not a new default.
	profile.Bio = "hi"
	require.NoError(t, scoped.Save(profile))

	again, err := scoped.GetOrCreate(alice.Email)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
	assert.Equal(t, "hi", again.Bio)
}

func TestOwnerProfile_SaveRejectsForeignProfile(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	alice := createUser(t, db, "alice@x.com")
	bob := createUser(t, db, "bob@x.com")

	repo := NewProfileRepository(db)
	profile, err := repo.ForOwner(alice.ID).GetOrCreate(alice.Email)
	require.NoError(t, err)

	assert.ErrorIs(t, repo.ForOwner(bob.ID).Save(profile), ErrNotFound)
}

func TestOwnerProfile_Delete(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	alice := createUser(t, db, "alice@x.com")
	scoped := NewProfileRepository(db).ForOwner(alice.ID)

	assert.ErrorIs(t, scoped.Delete(), ErrNotFound)

	_, err := scoped.GetOrCreate(alice.Email)
	require.NoError(t, err)
	require.NoError(t, scoped.Delete())

	_, err = NewProfileRepository(db).Lookup(alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
