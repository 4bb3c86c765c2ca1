package services

import (
	"errors"
	"fmt"

	"github.com/EricRode/EcoScrum/internal/models"
	"github.com/EricRode/EcoScrum/internal/repository"
	"github.com/EricRode/EcoScrum/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound              = errors.New("work item not found")
	ErrItemTitleRequired         = errors.New("title is required")
	ErrItemDescriptionRequired   = errors.New("description is required")
	ErrItemStoryPointsInvalid    = errors.New("story points must be a positive integer")
	ErrItemSustainabilityInvalid = errors.New("sustainability points must not be negative")
	ErrItemStatusInvalid         = errors.New("unknown item status")
	ErrItemPriorityInvalid       = errors.New("unknown priority")
)

// ItemService handles work item business logic. Every mutation that touches
// sprint membership or scoring fields chains a best-effort sprint aggregate
// recompute.
type ItemService struct {
	itemRepo repository.WorkItemRepository
	sprints  *SprintService
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo repository.WorkItemRepository, sprints *SprintService) *ItemService {
	return &ItemService{
		itemRepo: itemRepo,
		sprints:  sprints,
	}
}

// CreateItemInput represents input for creating a work item
type CreateItemInput struct {
	Title                 string
	Description           string
	Priority              string
	Status                models.ItemStatus
	StoryPoints           int
	SustainabilityPoints  int
	Sustainable           bool
	SustainabilityContext string
	DefinitionOfDone      string
	ProjectID             uint64
	SprintID              *uint64
	AssignedTo            *uint64
	EffectIDs             []uint64
}

// UpdateItemInput represents input for updating a work item. Nil fields are
// left unchanged; ClearSprint moves the item back to the backlog.
type UpdateItemInput struct {
	Title                 *string
	Description           *string
	Priority              *string
	Status                *models.ItemStatus
	StoryPoints           *int
	SustainabilityPoints  *int
	Sustainable           *bool
	SustainabilityContext *string
	DefinitionOfDone      *string
	SprintID              *uint64
	ClearSprint           bool
	AssignedTo            *uint64
	ClearAssignee         bool
	EffectIDs             []uint64
}

// CreateItem validates and creates a work item. Items created directly into a
// sprint are appended at the end of their board column.
func (s *ItemService) CreateItem(input CreateItemInput) (*models.WorkItem, error) {
	if input.Title == "" {
		return nil, ErrItemTitleRequired
	}
	if input.Description == "" {
		return nil, ErrItemDescriptionRequired
	}
	if input.StoryPoints <= 0 {
		return nil, ErrItemStoryPointsInvalid
	}
	if input.SustainabilityPoints < 0 {
		return nil, ErrItemSustainabilityInvalid
	}

	status := input.Status
	if status == "" {
		status = models.StatusToDo
	}
	if !models.ValidStatus(status) {
		return nil, ErrItemStatusInvalid
	}

	priority := models.PriorityMedium
	sustainable := input.Sustainable
	if input.Priority != "" {
		parsed, plusSuffix, err := models.ParsePriority(input.Priority)
		if err != nil {
			return nil, ErrItemPriorityInvalid
		}
		priority = parsed
		sustainable = sustainable || plusSuffix
	}

	item := &models.WorkItem{
		Title:                 input.Title,
		Description:           input.Description,
		Priority:              priority,
		Status:                status,
		StoryPoints:           input.StoryPoints,
		SustainabilityPoints:  input.SustainabilityPoints,
		Sustainable:           sustainable,
		SustainabilityContext: input.SustainabilityContext,
		DefinitionOfDone:      input.DefinitionOfDone,
		ProjectID:             input.ProjectID,
		SprintID:              input.SprintID,
		AssignedTo:            input.AssignedTo,
	}

	if input.SprintID != nil {
		maxOrder, err := s.itemRepo.MaxOrder(*input.SprintID, status)
		if err != nil {
			return nil, fmt.Errorf("failed to determine board position: %w", err)
		}
		item.Order = maxOrder + 1
	}

	if err := s.itemRepo.Create(item); err != nil {
		return nil, fmt.Errorf("failed to create work item: %w", err)
	}

	if len(input.EffectIDs) > 0 {
		if err := s.itemRepo.ReplaceEffects(item.ID, input.EffectIDs); err != nil {
			return nil, fmt.Errorf("failed to link effects: %w", err)
		}
	}

	if input.SprintID != nil {
		s.sprints.RecomputeSprint(*input.SprintID)
	}

	return s.itemRepo.FindByID(item.ID, "Effects")
}

// GetItem returns a work item with related data
func (s *ItemService) GetItem(id uint64) (*models.WorkItem, error) {
	item, err := s.itemRepo.FindByID(id, "Effects", "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find work item: %w", err)
	}
	return item, nil
}

// ListItems retrieves work items with filtering and pagination
func (s *ItemService) ListItems(filter repository.ItemFilter, params utils.PaginationParams) ([]models.WorkItem, int64, error) {
	items, total, err := s.itemRepo.List(filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work items: %w", err)
	}
	return items, total, nil
}

// UpdateItem applies a partial update with read-modify-write semantics so
// sprint transitions can be detected, then recomputes the affected sprints.
func (s *ItemService) UpdateItem(id uint64, input UpdateItemInput) (*models.WorkItem, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find work item: %w", err)
	}

	oldSprintID := item.SprintID
	oldStatus := item.Status
	oldPoints := item.SustainabilityPoints

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrItemTitleRequired
		}
		item.Title = *input.Title
	}
	if input.Description != nil {
		if *input.Description == "" {
			return nil, ErrItemDescriptionRequired
		}
		item.Description = *input.Description
	}
	if input.Priority != nil {
		priority, plusSuffix, err := models.ParsePriority(*input.Priority)
		if err != nil {
			return nil, ErrItemPriorityInvalid
		}
		item.Priority = priority
		if plusSuffix {
			item.Sustainable = true
		}
	}
	if input.Sustainable != nil {
		item.Sustainable = *input.Sustainable
	}
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			return nil, ErrItemStatusInvalid
		}
		item.Status = *input.Status
	}
	if input.StoryPoints != nil {
		if *input.StoryPoints <= 0 {
			return nil, ErrItemStoryPointsInvalid
		}
		item.StoryPoints = *input.StoryPoints
	}
	if input.SustainabilityPoints != nil {
		if *input.SustainabilityPoints < 0 {
			return nil, ErrItemSustainabilityInvalid
		}
		item.SustainabilityPoints = *input.SustainabilityPoints
	}
	if input.SustainabilityContext != nil {
		item.SustainabilityContext = *input.SustainabilityContext
	}
	if input.DefinitionOfDone != nil {
		item.DefinitionOfDone = *input.DefinitionOfDone
	}
	if input.ClearSprint {
		item.SprintID = nil
	} else if input.SprintID != nil {
		item.SprintID = input.SprintID
	}
	if input.ClearAssignee {
		item.AssignedTo = nil
	} else if input.AssignedTo != nil {
		item.AssignedTo = input.AssignedTo
	}

	// An item entering a different sprint, or switching columns within its
	// sprint, is appended at the end of the destination column so no two
	// visible items share an order slot.
	enteredSprint := item.SprintID != nil && (oldSprintID == nil || *oldSprintID != *item.SprintID)
	changedColumn := item.SprintID != nil && !enteredSprint && item.Status != oldStatus
	if enteredSprint || changedColumn {
		maxOrder, err := s.itemRepo.MaxOrder(*item.SprintID, item.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to determine board position: %w", err)
		}
		item.Order = maxOrder + 1
	}

	if err := s.itemRepo.Update(item); err != nil {
		return nil, fmt.Errorf("failed to update work item: %w", err)
	}

	if input.EffectIDs != nil {
		if err := s.itemRepo.ReplaceEffects(item.ID, input.EffectIDs); err != nil {
			return nil, fmt.Errorf("failed to link effects: %w", err)
		}
	}

	s.recomputeAfterUpdate(oldSprintID, item.SprintID, oldStatus != item.Status ||
		oldPoints != item.SustainabilityPoints || input.EffectIDs != nil)

	return s.itemRepo.FindByID(item.ID, "Effects")
}

// DeleteItem deletes a work item, recomputing the sprint it belonged to.
func (s *ItemService) DeleteItem(id uint64) error {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to find work item: %w", err)
	}

	// Capture the sprint before the item is gone.
	sprintID := item.SprintID

	if err := s.itemRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete work item: %w", err)
	}

	if sprintID != nil {
		s.sprints.RecomputeSprint(*sprintID)
	}

	return nil
}

// recomputeAfterUpdate applies the recompute trigger matrix: a sprint
// transition recomputes both ends, unassignment the old sprint only, and a
// scoring-relevant change within one sprint that sprint alone.
func (s *ItemService) recomputeAfterUpdate(oldSprintID, newSprintID *uint64, scoringChanged bool) {
	switch {
	case oldSprintID == nil && newSprintID == nil:
		return
	case oldSprintID == nil:
		s.sprints.RecomputeSprint(*newSprintID)
	case newSprintID == nil:
		s.sprints.RecomputeSprint(*oldSprintID)
	case *oldSprintID != *newSprintID:
		s.sprints.RecomputeSprint(*oldSprintID)
		s.sprints.RecomputeSprint(*newSprintID)
	case scoringChanged:
		s.sprints.RecomputeSprint(*newSprintID)
	}
}
