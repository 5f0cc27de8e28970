package repositories

import (
	"errors"
	"log"

	"github.com/devpatel-io/taskflow/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	// ErrNotFound covers both a missing record and a record owned by someone
	// else; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken is returned when the store's uniqueness constraint on
	// email rejects an insert.
	ErrEmailTaken = errors.New("email already registered")
)

// ConnectDatabase opens the postgres connection and runs migrations.
// TranslateError is on so unique-constraint violations surface as
// gorm.ErrDuplicatedKey and uniqueness stays delegated to the store.
func ConnectDatabase(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := Migrate(db); err != nil {
		log.Fatal("Migration failed:", err)
	}
	log.Println("Successfully connected to database")
	return db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Todo{},
		&models.UserProfile{},
	)
}
