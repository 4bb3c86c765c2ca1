package repository

import (
	"github.com/EricRode/EcoScrum/internal/database"
	"github.com/EricRode/EcoScrum/internal/models"
	"github.com/EricRode/EcoScrum/internal/utils"
	"gorm.io/gorm"
)

// GormWorkItemRepository is a GORM implementation of WorkItemRepository
type GormWorkItemRepository struct {
	db *gorm.DB
}

// NewWorkItemRepository creates a new WorkItemRepository
func NewWorkItemRepository(db *gorm.DB) WorkItemRepository {
	return &GormWorkItemRepository{db: db}
}

// Create creates a new work item
func (r *GormWorkItemRepository) Create(item *models.WorkItem) error {
	return r.db.Create(item).Error
}

// FindByID finds a work item by ID with optional preloading
func (r *GormWorkItemRepository) FindByID(id uint64, preload ...string) (*models.WorkItem, error) {
	var item models.WorkItem
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&item, id).Error; err != nil {
		return nil, err
	}

	return &item, nil
}

// List retrieves work items with filtering and pagination, returning the
// total match count alongside the page
func (r *GormWorkItemRepository) List(filter ItemFilter, params utils.PaginationParams) ([]models.WorkItem, int64, error) {
	var items []models.WorkItem

	query := r.db.Model(&models.WorkItem{})

	if filter.ProjectID != nil {
		query = query.Where("work_items.project_id = ?", *filter.ProjectID)
	}
	if filter.SprintID != nil {
		query = query.Where("work_items.sprint_id = ?", *filter.SprintID)
	} else if filter.Backlog {
		query = query.Where("work_items.sprint_id IS NULL")
	}
	if filter.Status != nil {
		query = query.Where("work_items.status = ?", *filter.Status)
	}
	if filter.AssignedTo != nil {
		query = query.Where("work_items.assigned_to = ?", *filter.AssignedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Scopes(database.Paginate(params)).
		Order("work_items.status, work_items.item_order, work_items.id").
		Preload("Effects").
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListBySprint retrieves all items assigned to a sprint, effects preloaded
func (r *GormWorkItemRepository) ListBySprint(sprintID uint64) ([]models.WorkItem, error) {
	var items []models.WorkItem
	err := r.db.
		Where("sprint_id = ?", sprintID).
		Order("status, item_order, id").
		Preload("Effects").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Update saves the full item record
func (r *GormWorkItemRepository) Update(item *models.WorkItem) error {
	return r.db.Save(item).Error
}

// Delete soft deletes a work item and its effect links
func (r *GormWorkItemRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		item := models.WorkItem{ID: id}
		if err := tx.Model(&item).Association("Effects").Clear(); err != nil {
			return err
		}

		return tx.Delete(&models.WorkItem{}, id).Error
	})
}

// MaxOrder returns the highest board order within a (sprint, status) column,
// or -1 if the column is empty
func (r *GormWorkItemRepository) MaxOrder(sprintID uint64, status models.ItemStatus) (int, error) {
	var maxOrder int
	err := r.db.Model(&models.WorkItem{}).
		Where("sprint_id = ? AND status = ?", sprintID, status).
		Select("COALESCE(MAX(item_order), -1)").
		Scan(&maxOrder).Error
	return maxOrder, err
}

// UpdatePositions persists a set of (status, order) changes atomically.
// Either every moved item lands in its new position or none do.
func (r *GormWorkItemRepository) UpdatePositions(updates []PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			result := tx.Model(&models.WorkItem{}).
				Where("id = ?", u.ItemID).
				Updates(map[string]interface{}{
					"status":     u.Status,
					"item_order": u.Order,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

// ReplaceEffects replaces the item's related SusAF effects
func (r *GormWorkItemRepository) ReplaceEffects(itemID uint64, effectIDs []uint64) error {
	var effects []models.SusafEffect
	if len(effectIDs) > 0 {
		if err := r.db.Find(&effects, effectIDs).Error; err != nil {
			return err
		}
	}

	item := models.WorkItem{ID: itemID}
	return r.db.Model(&item).Association("Effects").Replace(effects)
}
