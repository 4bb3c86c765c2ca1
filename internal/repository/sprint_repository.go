package repository

import (
	"github.com/EricRode/EcoScrum/internal/models"
	"gorm.io/gorm"
)

// GormSprintRepository is a GORM implementation of SprintRepository
type GormSprintRepository struct {
	db *gorm.DB
}

// NewSprintRepository creates a new SprintRepository
func NewSprintRepository(db *gorm.DB) SprintRepository {
	return &GormSprintRepository{db: db}
}

// Create creates a new sprint
func (r *GormSprintRepository) Create(sprint *models.Sprint) error {
	return r.db.Create(sprint).Error
}

// FindByID finds a sprint by ID
func (r *GormSprintRepository) FindByID(id uint64) (*models.Sprint, error) {
	var sprint models.Sprint
	if err := r.db.First(&sprint, id).Error; err != nil {
		return nil, err
	}
	return &sprint, nil
}

// ListByProject lists a project's sprints, oldest first
func (r *GormSprintRepository) ListByProject(projectID uint64) ([]models.Sprint, error) {
	var sprints []models.Sprint
	err := r.db.
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&sprints).Error
	if err != nil {
		return nil, err
	}
	return sprints, nil
}

// LatestByProject returns the most recently created sprint of a project
func (r *GormSprintRepository) LatestByProject(projectID uint64) (*models.Sprint, error) {
	var sprint models.Sprint
	err := r.db.
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		First(&sprint).Error
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}

// UpdateAggregate persists the derived fields via a partial update. Only the
// aggregate columns are touched; user-edited fields are left alone.
func (r *GormSprintRepository) UpdateAggregate(id uint64, agg SprintAggregate) error {
	result := r.db.Model(&models.Sprint{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"item_ids":             agg.ItemIDs,
			"sustainability_score": agg.SustainabilityScore,
			"progress":             agg.Progress,
			"effects_tackled":      agg.EffectsTackled,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SaveRetrospective attaches the retrospective record to a sprint
func (r *GormSprintRepository) SaveRetrospective(id uint64, retro models.Retrospective) error {
	result := r.db.Model(&models.Sprint{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"retro_goal_met":              retro.GoalMet,
			"retro_inefficient_processes": retro.InefficientProcesses,
			"retro_improvements":          retro.Improvements,
			"retro_team_notes":            retro.TeamNotes,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Update saves the full sprint record
func (r *GormSprintRepository) Update(sprint *models.Sprint) error {
	return r.db.Save(sprint).Error
}
