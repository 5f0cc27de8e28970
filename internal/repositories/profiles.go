package repositories

import (
	"errors"

	"github.com/devpatel-io/taskflow/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileRepository persists the one-to-one profile records. Owner-facing
// access is scoped through ForOwner; Lookup is the only cross-owner read and
// serves the public-profile endpoint.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) ForOwner(ownerID uuid.UUID) *OwnerProfile {
	return &OwnerProfile{db: r.db, ownerID: ownerID}
}

// Lookup fetches any user's profile by owner id for the public view.
// Privacy filtering happens above this layer.
func (r *ProfileRepository) Lookup(ownerID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.Where("owner_id = ?", ownerID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// OwnerProfile is the scoped view of one owner's profile record.
type OwnerProfile struct {
	db      *gorm.DB
	ownerID uuid.UUID
}

// GetOrCreate returns the owner's profile, creating the default one on first
// access. The default display name is derived from the owner's email.
func (s *OwnerProfile) GetOrCreate(email string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.Where("owner_id = ?", s.ownerID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fresh := models.DefaultProfile(s.ownerID, email)
		if err := s.db.Create(fresh).Error; err != nil {
			return nil, err
		}
		return fresh, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save writes back a profile previously loaded through this scope.
func (s *OwnerProfile) Save(profile *models.UserProfile) error {
	if profile.OwnerID != s.ownerID {
		return ErrNotFound
	}
	return s.db.Save(profile).Error
}

func (s *OwnerProfile) Delete() error {
	res := s.db.Where("owner_id = ?", s.ownerID).Delete(&models.UserProfile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
