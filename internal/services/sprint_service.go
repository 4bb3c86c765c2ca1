package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/EricRode/EcoScrum/internal/models"
	"github.com/EricRode/EcoScrum/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrSprintNotFound        = errors.New("sprint not found")
	ErrSprintNameRequired    = errors.New("sprint name is required")
	ErrSprintGoalRequired    = errors.New("sprint goal is required")
	ErrSprintDatesRequired   = errors.New("sprint start and end dates are required")
	ErrSprintDatesInverted   = errors.New("sprint end date must be after start date")
	ErrRetroAlreadySaved     = errors.New("retrospective has already been saved for this sprint")
	ErrRetroInvalidGoalMet   = errors.New("goal_met must be Yes, No or Partially")
	ErrSprintAlreadyComplete = errors.New("sprint is already completed")
)

// SprintAggregate is the result of recomputing a sprint's derived fields from
// the current item collection.
type SprintAggregate struct {
	ItemIDs             models.IDList
	SustainabilityScore int
	Progress            int
	EffectsTackled      int
}

// ComputeSprintAggregate derives a sprint's aggregate fields from the full
// item collection. Pure: no I/O, safe to call with any snapshot of items.
//
// ItemIDs is the set of items pointing at the sprint; the sustainability
// score sums the sustainability points of those that are Done. Progress is
// the completion percentage, and EffectsTackled counts distinct SusAF
// effects referenced by completed items.
func ComputeSprintAggregate(sprintID uint64, items []models.WorkItem) SprintAggregate {
	agg := SprintAggregate{ItemIDs: models.IDList{}}

	effectsSeen := make(map[uint64]struct{})
	done := 0
	for _, item := range items {
		if item.SprintID == nil || *item.SprintID != sprintID {
			continue
		}

		agg.ItemIDs = append(agg.ItemIDs, item.ID)
		if item.Status != models.StatusDone {
			continue
		}

		done++
		agg.SustainabilityScore += item.SustainabilityPoints
		for _, effect := range item.Effects {
			effectsSeen[effect.ID] = struct{}{}
		}
	}

	agg.EffectsTackled = len(effectsSeen)
	if total := len(agg.ItemIDs); total > 0 {
		agg.Progress = done * 100 / total
	}

	return agg
}

// SprintService handles sprint business logic, including the aggregate
// recomputation chained after every item mutation.
type SprintService struct {
	sprintRepo repository.SprintRepository
	itemRepo   repository.WorkItemRepository
}

// NewSprintService creates a new SprintService
func NewSprintService(sprintRepo repository.SprintRepository, itemRepo repository.WorkItemRepository) *SprintService {
	return &SprintService{
		sprintRepo: sprintRepo,
		itemRepo:   itemRepo,
	}
}

// RecomputeSprint re-derives the sprint's aggregate fields from the current
// item collection and persists them. Items are the source of truth and the
// sprint aggregates only a cache, so failures are logged rather than
// propagated: the item mutation that triggered the recompute must never be
// rolled back on account of it.
func (s *SprintService) RecomputeSprint(sprintID uint64) {
	if err := s.recomputeSprint(sprintID); err != nil {
		log.Printf("sprint %d aggregate recompute failed: %v", sprintID, err)
	}
}

func (s *SprintService) recomputeSprint(sprintID uint64) error {
	items, err := s.itemRepo.ListBySprint(sprintID)
	if err != nil {
		return fmt.Errorf("failed to list sprint items: %w", err)
	}

	agg := ComputeSprintAggregate(sprintID, items)

	err = s.sprintRepo.UpdateAggregate(sprintID, repository.SprintAggregate{
		ItemIDs:             agg.ItemIDs,
		SustainabilityScore: agg.SustainabilityScore,
		Progress:            agg.Progress,
		EffectsTackled:      agg.EffectsTackled,
	})
	if err != nil {
		return fmt.Errorf("failed to persist sprint aggregate: %w", err)
	}
	return nil
}

// CreateSprintInput represents input for creating a sprint
type CreateSprintInput struct {
	Name      string
	Goal      string
	StartDate time.Time
	EndDate   time.Time
	ProjectID uint64
}

// CreateSprint creates a new sprint with zeroed aggregates, snapshotting the
// previous sprint's score for trend comparison.
func (s *SprintService) CreateSprint(input CreateSprintInput) (*models.Sprint, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrSprintNameRequired
	}
	if strings.TrimSpace(input.Goal) == "" {
		return nil, ErrSprintGoalRequired
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, ErrSprintDatesRequired
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, ErrSprintDatesInverted
	}

	previousScore := 0
	latest, err := s.sprintRepo.LatestByProject(input.ProjectID)
	if err == nil {
		previousScore = latest.SustainabilityScore
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up previous sprint: %w", err)
	}

	sprint := &models.Sprint{
		Name:          input.Name,
		Goal:          input.Goal,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		ProjectID:     input.ProjectID,
		PreviousScore: previousScore,
		ItemIDs:       models.IDList{},
	}

	if err := s.sprintRepo.Create(sprint); err != nil {
		return nil, fmt.Errorf("failed to create sprint: %w", err)
	}

	return sprint, nil
}

// GetSprint returns a sprint by ID
func (s *SprintService) GetSprint(id uint64) (*models.Sprint, error) {
	sprint, err := s.sprintRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, fmt.Errorf("failed to find sprint: %w", err)
	}
	return sprint, nil
}

// ListSprints lists a project's sprints, oldest first
func (s *SprintService) ListSprints(projectID uint64) ([]models.Sprint, error) {
	sprints, err := s.sprintRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	return sprints, nil
}

// SaveRetrospectiveInput represents input for saving a sprint retrospective
type SaveRetrospectiveInput struct {
	GoalMet              models.GoalMet
	InefficientProcesses string
	Improvements         string
	TeamNotes            string
}

// SaveRetrospective attaches a retrospective to a sprint. A retrospective can
// be saved once per sprint.
func (s *SprintService) SaveRetrospective(sprintID uint64, input SaveRetrospectiveInput) (*models.Sprint, error) {
	if !models.ValidGoalMet(input.GoalMet) {
		return nil, ErrRetroInvalidGoalMet
	}

	sprint, err := s.GetSprint(sprintID)
	if err != nil {
		return nil, err
	}
	if sprint.HasRetrospective() {
		return nil, ErrRetroAlreadySaved
	}

	retro := models.Retrospective{
		GoalMet:              input.GoalMet,
		InefficientProcesses: input.InefficientProcesses,
		Improvements:         input.Improvements,
		TeamNotes:            input.TeamNotes,
	}
	if err := s.sprintRepo.SaveRetrospective(sprintID, retro); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, fmt.Errorf("failed to save retrospective: %w", err)
	}

	sprint.Retrospective = retro
	return sprint, nil
}

// CompleteSprint marks a sprint as completed after a final aggregate
// recomputation.
func (s *SprintService) CompleteSprint(sprintID uint64) (*models.Sprint, error) {
	sprint, err := s.GetSprint(sprintID)
	if err != nil {
		return nil, err
	}
	if sprint.Completed {
		return nil, ErrSprintAlreadyComplete
	}

	if err := s.recomputeSprint(sprintID); err != nil {
		return nil, fmt.Errorf("failed to recompute sprint before completion: %w", err)
	}

	sprint, err = s.GetSprint(sprintID)
	if err != nil {
		return nil, err
	}

	sprint.Completed = true
	if err := s.sprintRepo.Update(sprint); err != nil {
		return nil, fmt.Errorf("failed to complete sprint: %w", err)
	}

	return sprint, nil
}
