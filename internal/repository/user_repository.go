package repository

import (
	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new profile
func (r *GormUserRepository) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// FindByID finds a profile by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Preload("Department").First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUsername finds a profile by username
func (r *GormUserRepository) FindByUsername(username string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// List lists all profiles
func (r *GormUserRepository) List() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.Preload("Department").Order("display_name ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Update updates a profile
func (r *GormUserRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}
