package repositories

import (
	"errors"

	"github.com/devpatel-io/taskflow/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TodoRepository hands out owner-scoped handles. All data access goes
// through ForOwner so no query path can skip the ownership predicate.
type TodoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) ForOwner(ownerID uuid.UUID) *OwnerTodos {
	return &OwnerTodos{db: r.db, ownerID: ownerID}
}

// OwnerTodos is the scoped view of one owner's todos. Every lookup filters
// by record id and owner id in the same predicate, so a record belonging to
// another owner is indistinguishable from one that does not exist.
type OwnerTodos struct {
	db      *gorm.DB
	ownerID uuid.UUID
}

func (s *OwnerTodos) List() ([]models.Todo, error) {
	todos := []models.Todo{}
	err := s.db.Where("owner_id = ?", s.ownerID).
		Order("created_at DESC").
		Find(&todos).Error
	return todos, err
}

func (s *OwnerTodos) Get(id uuid.UUID) (*models.Todo, error) {
	var todo models.Todo
	err := s.db.Where("id = ? AND owner_id = ?", id, s.ownerID).First(&todo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (s *OwnerTodos) Create(title string) (*models.Todo, error) {
	todo := &models.Todo{Title: title, OwnerID: s.ownerID}
	if err := s.db.Create(todo).Error; err != nil {
		return nil, err
	}
	return todo, nil
}

// Update applies the given column changes to the owner's record and returns
// the canonical post-mutation row.
func (s *OwnerTodos) Update(id uuid.UUID, changes map[string]any) (*models.Todo, error) {
	res := s.db.Model(&models.Todo{}).
		Where("id = ? AND owner_id = ?", id, s.ownerID).
		Updates(changes)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(id)
}

func (s *OwnerTodos) Delete(id uuid.UUID) error {
	res := s.db.Where("id = ? AND owner_id = ?", id, s.ownerID).Delete(&models.Todo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Counts aggregates the owner's totals for the stats endpoint.
func (s *OwnerTodos) Counts() (total int64, completed int64, err error) {
	if err = s.db.Model(&models.Todo{}).
		Where("owner_id = ?", s.ownerID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = s.db.Model(&models.Todo{}).
		Where("owner_id = ? AND completed = ?", s.ownerID, true).
		Count(&completed).Error; err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}
