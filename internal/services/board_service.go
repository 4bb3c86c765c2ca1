package services

import (
	"errors"
	"fmt"

	"github.com/EricRode/EcoScrum/internal/board"
	"github.com/EricRode/EcoScrum/internal/models"
	"github.com/EricRode/EcoScrum/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrItemNotOnBoard     = errors.New("item is not assigned to a sprint")
	ErrMoveColumnInvalid  = errors.New("unknown board column")
	ErrMoveIndexInvalid   = errors.New("board index must not be negative")
	ErrMoveSourceMismatch = errors.New("item is not at the reported source position")
)

// BoardService executes sprint board moves. Persistence is remote-first: the
// stored board changes only after the full reindexed layout is written in one
// transaction, so a failed move leaves the server state untouched and the
// caller rolls its local view back to the last known-good snapshot.
type BoardService struct {
	itemRepo repository.WorkItemRepository
	sprints  *SprintService
}

// NewBoardService creates a new BoardService
func NewBoardService(itemRepo repository.WorkItemRepository, sprints *SprintService) *BoardService {
	return &BoardService{
		itemRepo: itemRepo,
		sprints:  sprints,
	}
}

// MoveInput is the drop event received from the board UI
type MoveInput struct {
	ItemID       uint64
	SourceColumn models.ItemStatus
	SourceIndex  int
	DestColumn   models.ItemStatus
	DestIndex    int
}

// MoveItem moves a work item between or within board columns, shifting
// sibling orders per the reindexing rules, and chains a best-effort sprint
// recompute since a cross-column move changes completion state.
func (s *BoardService) MoveItem(input MoveInput) (*models.WorkItem, error) {
	if !models.ValidStatus(input.SourceColumn) || !models.ValidStatus(input.DestColumn) {
		return nil, ErrMoveColumnInvalid
	}
	if input.SourceIndex < 0 || input.DestIndex < 0 {
		return nil, ErrMoveIndexInvalid
	}

	item, err := s.itemRepo.FindByID(input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find work item: %w", err)
	}
	if item.SprintID == nil {
		return nil, ErrItemNotOnBoard
	}

	// Dropped back where it started.
	if input.SourceColumn == input.DestColumn && input.SourceIndex == input.DestIndex {
		return item, nil
	}

	siblings, err := s.itemRepo.ListBySprint(*item.SprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sprint board: %w", err)
	}

	cards := make([]board.Card, len(siblings))
	for i, sibling := range siblings {
		cards[i] = board.Card{
			ID:     sibling.ID,
			Column: string(sibling.Status),
			Order:  sibling.Order,
		}
	}

	engine := board.New(cards)
	changed, err := engine.Apply(board.MoveEvent{
		ItemID:       input.ItemID,
		SourceColumn: string(input.SourceColumn),
		SourceIndex:  input.SourceIndex,
		DestColumn:   string(input.DestColumn),
		DestIndex:    input.DestIndex,
	})
	if err != nil {
		if errors.Is(err, board.ErrSourceMismatch) {
			return nil, ErrMoveSourceMismatch
		}
		return nil, fmt.Errorf("failed to compute board move: %w", err)
	}

	updates := make([]repository.PositionUpdate, len(changed))
	for i, c := range changed {
		updates[i] = repository.PositionUpdate{
			ItemID: c.ID,
			Status: models.ItemStatus(c.Column),
			Order:  c.Order,
		}
	}

	if err := s.itemRepo.UpdatePositions(updates); err != nil {
		return nil, fmt.Errorf("failed to persist board move: %w", err)
	}

	// Status may have crossed into or out of Done.
	s.sprints.RecomputeSprint(*item.SprintID)

	return s.itemRepo.FindByID(input.ItemID, "Effects")
}
