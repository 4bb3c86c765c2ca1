package repository

import (
	"github.com/EricRode/EcoScrum/internal/models"
	"github.com/EricRode/EcoScrum/internal/utils"
)

// WorkItemRepository defines the interface for work item data access
type WorkItemRepository interface {
	// Create creates a new work item
	Create(item *models.WorkItem) error

	// FindByID finds a work item by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.WorkItem, error)

	// List retrieves work items with filtering and pagination, returning the
	// total match count alongside the page
	List(filter ItemFilter, params utils.PaginationParams) ([]models.WorkItem, int64, error)

	// ListBySprint retrieves all items assigned to a sprint, effects preloaded
	ListBySprint(sprintID uint64) ([]models.WorkItem, error)

	// Update saves the full item record
	Update(item *models.WorkItem) error

	// Delete soft deletes a work item
	Delete(id uint64) error

	// MaxOrder returns the highest board order within a (sprint, status)
	// column, or -1 if the column is empty
	MaxOrder(sprintID uint64, status models.ItemStatus) (int, error)

	// UpdatePositions persists a set of (status, order) changes atomically
	UpdatePositions(updates []PositionUpdate) error

	// ReplaceEffects replaces the item's related SusAF effects
	ReplaceEffects(itemID uint64, effectIDs []uint64) error
}

// ItemFilter holds filtering options for listing work items
type ItemFilter struct {
	ProjectID  *uint64
	SprintID   *uint64
	Backlog    bool // items with no sprint assignment
	Status     *models.ItemStatus
	AssignedTo *uint64
}

// PositionUpdate is one item's new board position after a move
type PositionUpdate struct {
	ItemID uint64
	Status models.ItemStatus
	Order  int
}

// SprintAggregate carries the derived sprint fields written by recomputation
type SprintAggregate struct {
	ItemIDs             models.IDList
	SustainabilityScore int
	Progress            int
	EffectsTackled      int
}

// SprintRepository defines the interface for sprint data access
type SprintRepository interface {
	// Create creates a new sprint
	Create(sprint *models.Sprint) error

	// FindByID finds a sprint by ID
	FindByID(id uint64) (*models.Sprint, error)

	// ListByProject lists a project's sprints, oldest first
	ListByProject(projectID uint64) ([]models.Sprint, error)

	// LatestByProject returns the most recently created sprint of a project
	LatestByProject(projectID uint64) (*models.Sprint, error)

	// UpdateAggregate persists the derived fields via a partial update
	UpdateAggregate(id uint64, agg SprintAggregate) error

	// SaveRetrospective attaches the retrospective record to a sprint
	SaveRetrospective(id uint64, retro models.Retrospective) error

	// Update saves the full sprint record
	Update(sprint *models.Sprint) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// FindByInviteCode finds a project by invite code
	FindByInviteCode(code string) (*models.Project, error)

	// ListByUser lists projects the user is a member of
	ListByUser(userID uint64) ([]models.Project, error)

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists all members of a project
	ListMembers(projectID uint64) ([]models.ProjectMember, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List lists all users
	List() ([]models.User, error)
}

// EffectRepository defines the interface for SusAF effect and token data access
type EffectRepository interface {
	// UpsertEffects inserts or refreshes synced effects for a project
	UpsertEffects(projectID uint64, effects []models.SusafEffect) error

	// ListByProject lists a project's synced effects
	ListByProject(projectID uint64) ([]models.SusafEffect, error)

	// GetToken returns the project's SusAF API token
	GetToken(projectID uint64) (*models.SusafToken, error)

	// SaveToken inserts or updates the project's SusAF API token
	SaveToken(projectID uint64, token string) error
}
