package repository

import (
	"github.com/EricRode/EcoScrum/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEffectRepository is a GORM implementation of EffectRepository
type GormEffectRepository struct {
	db *gorm.DB
}

// NewEffectRepository creates a new EffectRepository
func NewEffectRepository(db *gorm.DB) EffectRepository {
	return &GormEffectRepository{db: db}
}

// UpsertEffects inserts or refreshes synced effects for a project, keyed by
// the upstream's external ID
func (r *GormEffectRepository) UpsertEffects(projectID uint64, effects []models.SusafEffect) error {
	if len(effects) == 0 {
		return nil
	}

	for i := range effects {
		effects[i].ProjectID = projectID
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "project_id"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"category", "title", "description", "updated_at",
			}),
		}).
		Create(&effects).Error
}

// ListByProject lists a project's synced effects
func (r *GormEffectRepository) ListByProject(projectID uint64) ([]models.SusafEffect, error) {
	var effects []models.SusafEffect
	err := r.db.
		Where("project_id = ?", projectID).
		Order("category, title").
		Find(&effects).Error
	if err != nil {
		return nil, err
	}
	return effects, nil
}

// GetToken returns the project's SusAF API token
func (r *GormEffectRepository) GetToken(projectID uint64) (*models.SusafToken, error) {
	var token models.SusafToken
	if err := r.db.First(&token, "project_id = ?", projectID).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// SaveToken inserts or updates the project's SusAF API token
func (r *GormEffectRepository) SaveToken(projectID uint64, token string) error {
	record := models.SusafToken{ProjectID: projectID, Token: token}
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
		}).
		Create(&record).Error
}
