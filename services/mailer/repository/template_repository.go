package repository

import (
	"errors"
	"fmt"

	"campaign-mailer/services/mailer/models"
	"campaign-mailer/shared/database"

	"gorm.io/gorm"
)

// ErrTemplateNotFound is returned when a user has no stored template yet
var ErrTemplateNotFound = errors.New("template not found")

// TemplateRepository defines the interface for campaign template storage
type TemplateRepository interface {
	GetByUserID(userID uint) (*models.EmailTemplateInfo, error)
	Upsert(template *models.EmailTemplateInfo) error
}

// templateRepository implements TemplateRepository interface
type templateRepository struct {
	db *database.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *database.DB) TemplateRepository {
	return &templateRepository{
		db: db,
	}
}

// GetByUserID retrieves the stored campaign template for a user
func (r *templateRepository) GetByUserID(userID uint) (*models.EmailTemplateInfo, error) {
	var template models.EmailTemplateInfo
	err := r.db.Where("user_id = ?", userID).First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &template, nil
}

// Upsert creates or updates the template record keyed by user
func (r *templateRepository) Upsert(template *models.EmailTemplateInfo) error {
	var existing models.EmailTemplateInfo
	err := r.db.Where("user_id = ?", template.UserID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := r.db.Create(template).Error; err != nil {
				return fmt.Errorf("failed to create template: %w", err)
			}
			return nil
		}
		return fmt.Errorf("failed to look up template: %w", err)
	}

	template.ID = existing.ID
	template.CreatedAt = existing.CreatedAt
	if err := r.db.Save(template).Error; err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	return nil
}
