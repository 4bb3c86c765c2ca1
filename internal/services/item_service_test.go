package services

import (
	"testing"
	"time"

	"github.com/EricRode/EcoScrum/internal/models"
	"github.com/EricRode/EcoScrum/internal/repository"
	"github.com/EricRode/EcoScrum/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ItemServiceTestSuite defines the test suite for ItemService
type ItemServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ItemService
	project *models.Project
}

// SetupTest runs before each test
func (suite *ItemServiceTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Sprint{},
		&models.WorkItem{},
		&models.SusafEffect{},
	)
	suite.Require().NoError(err)

	itemRepo := repository.NewWorkItemRepository(suite.db)
	sprintService := NewSprintService(repository.NewSprintRepository(suite.db), itemRepo)
	suite.service = NewItemService(itemRepo, sprintService)

	user := &models.User{Name: "Owner", Email: "owner@example.com", PasswordHash: "hashedpassword"}
	suite.db.Create(user)
	suite.project = &models.Project{Name: "Test Project", InviteCode: "TEST_CODE", CreatedBy: user.ID}
	suite.db.Create(suite.project)
}

// TearDownTest runs after each test
func (suite *ItemServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *ItemServiceTestSuite) createTestSprint(name string) *models.Sprint {
	sprint := &models.Sprint{
		Name:      name,
		Goal:      "Test Goal",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 0, 14),
		ProjectID: suite.project.ID,
		ItemIDs:   models.IDList{},
	}
	suite.db.Create(sprint)
	return sprint
}

func (suite *ItemServiceTestSuite) createItem(sprintID *uint64, status models.ItemStatus, susPoints int) *models.WorkItem {
	item, err := suite.service.CreateItem(CreateItemInput{
		Title:                "Test Item",
		Description:          "Test Description",
		Status:               status,
		StoryPoints:          3,
		SustainabilityPoints: susPoints,
		ProjectID:            suite.project.ID,
		SprintID:             sprintID,
	})
	suite.Require().NoError(err)
	return item
}

func (suite *ItemServiceTestSuite) sprintScore(id uint64) int {
	var sprint models.Sprint
	suite.Require().NoError(suite.db.First(&sprint, id).Error)
	return sprint.SustainabilityScore
}

func (suite *ItemServiceTestSuite) sprintItemIDs(id uint64) models.IDList {
	var sprint models.Sprint
	suite.Require().NoError(suite.db.First(&sprint, id).Error)
	return sprint.ItemIDs
}

// TestCreateItem_Validation tests creation input validation
func (suite *ItemServiceTestSuite) TestCreateItem_Validation() {
	base := CreateItemInput{
		Title:       "Item",
		Description: "Desc",
		StoryPoints: 3,
		ProjectID:   suite.project.ID,
	}

	input := base
	input.Title = ""
	_, err := suite.service.CreateItem(input)
	assert.ErrorIs(suite.T(), err, ErrItemTitleRequired)

	input = base
	input.Description = ""
	_, err = suite.service.CreateItem(input)
	assert.ErrorIs(suite.T(), err, ErrItemDescriptionRequired)

	input = base
	input.StoryPoints = 0
	_, err = suite.service.CreateItem(input)
	assert.ErrorIs(suite.T(), err, ErrItemStoryPointsInvalid)

	input = base
	input.SustainabilityPoints = -1
	_, err = suite.service.CreateItem(input)
	assert.ErrorIs(suite.T(), err, ErrItemSustainabilityInvalid)

	input = base
	input.Status = "Blocked"
	_, err = suite.service.CreateItem(input)
	assert.ErrorIs(suite.T(), err, ErrItemStatusInvalid)

	input = base
	input.Priority = "Urgent"
	_, err = suite.service.CreateItem(input)
	assert.ErrorIs(suite.T(), err, ErrItemPriorityInvalid)
}

// TestCreateItem_NormalizesPrioritySuffix tests that a "+"-suffixed priority
// is stored clean with the sustainable flag set
func (suite *ItemServiceTestSuite) TestCreateItem_NormalizesPrioritySuffix() {
	item, err := suite.service.CreateItem(CreateItemInput{
		Title:       "Item",
		Description: "Desc",
		Priority:    "Medium+",
		StoryPoints: 3,
		ProjectID:   suite.project.ID,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PriorityMedium, item.Priority)
	assert.True(suite.T(), item.Sustainable)
	assert.Equal(suite.T(), "Medium+", models.PriorityLabel(item.Priority, item.Sustainable))
}

// TestCreateItem_DefaultsToBacklog tests that an item without a sprint lands
// in the backlog with To Do status
func (suite *ItemServiceTestSuite) TestCreateItem_DefaultsToBacklog() {
	item, err := suite.service.CreateItem(CreateItemInput{
		Title:       "Item",
		Description: "Desc",
		StoryPoints: 3,
		ProjectID:   suite.project.ID,
	})

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), item.SprintID)
	assert.Equal(suite.T(), models.StatusToDo, item.Status)
}

// TestCreateItem_AppendsToColumn tests that items created into a sprint are
// placed at the end of their board column
func (suite *ItemServiceTestSuite) TestCreateItem_AppendsToColumn() {
	sprint := suite.createTestSprint("Sprint 1")

	first := suite.createItem(&sprint.ID, models.StatusToDo, 0)
	second := suite.createItem(&sprint.ID, models.StatusToDo, 0)
	otherColumn := suite.createItem(&sprint.ID, models.StatusDone, 0)

	assert.Equal(suite.T(), 0, first.Order)
	assert.Equal(suite.T(), 1, second.Order)
	assert.Equal(suite.T(), 0, otherColumn.Order)
}

// TestCreateItem_RecomputesSprint tests that creating a Done item into a
// sprint updates the sprint's aggregate
func (suite *ItemServiceTestSuite) TestCreateItem_RecomputesSprint() {
	sprint := suite.createTestSprint("Sprint 1")

	item := suite.createItem(&sprint.ID, models.StatusDone, 8)

	assert.Equal(suite.T(), 8, suite.sprintScore(sprint.ID))
	assert.Equal(suite.T(), models.IDList{item.ID}, suite.sprintItemIDs(sprint.ID))
}

// TestUpdateItem_StatusChangeRecomputes tests that moving an item to Done
// adds its points to the sprint score
func (suite *ItemServiceTestSuite) TestUpdateItem_StatusChangeRecomputes() {
	sprint := suite.createTestSprint("Sprint 1")
	item := suite.createItem(&sprint.ID, models.StatusInProgress, 5)
	suite.Require().Equal(0, suite.sprintScore(sprint.ID))

	done := models.StatusDone
	_, err := suite.service.UpdateItem(item.ID, UpdateItemInput{Status: &done})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 5, suite.sprintScore(sprint.ID))
}

// TestUpdateItem_StatusChangeAppendsToColumn tests that a status change
// places the item at the end of its new column instead of carrying its old
// order over, so no two items in one column share an order slot
func (suite *ItemServiceTestSuite) TestUpdateItem_StatusChangeAppendsToColumn() {
	sprint := suite.createTestSprint("Sprint 1")
	occupant := suite.createItem(&sprint.ID, models.StatusDone, 0)
	moving := suite.createItem(&sprint.ID, models.StatusToDo, 0)
	suite.Require().Equal(0, occupant.Order)
	suite.Require().Equal(0, moving.Order)

	done := models.StatusDone
	updated, err := suite.service.UpdateItem(moving.ID, UpdateItemInput{Status: &done})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, updated.Order)
	assert.NotEqual(suite.T(), occupant.Order, updated.Order)
}

// TestUpdateItem_SprintTransitionRecomputesBoth tests that reassigning a Done
// item moves its contribution from the old sprint to the new one
func (suite *ItemServiceTestSuite) TestUpdateItem_SprintTransitionRecomputesBoth() {
	oldSprint := suite.createTestSprint("Sprint 1")
	newSprint := suite.createTestSprint("Sprint 2")
	item := suite.createItem(&oldSprint.ID, models.StatusDone, 5)
	suite.Require().Equal(5, suite.sprintScore(oldSprint.ID))

	_, err := suite.service.UpdateItem(item.ID, UpdateItemInput{SprintID: &newSprint.ID})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, suite.sprintScore(oldSprint.ID))
	assert.Equal(suite.T(), 5, suite.sprintScore(newSprint.ID))
	assert.Empty(suite.T(), suite.sprintItemIDs(oldSprint.ID))
	assert.Equal(suite.T(), models.IDList{item.ID}, suite.sprintItemIDs(newSprint.ID))
}

// TestUpdateItem_UnassignRecomputesOldSprint tests that moving an item back
// to the backlog removes it from the sprint aggregate
func (suite *ItemServiceTestSuite) TestUpdateItem_UnassignRecomputesOldSprint() {
	sprint := suite.createTestSprint("Sprint 1")
	item := suite.createItem(&sprint.ID, models.StatusDone, 5)

	updated, err := suite.service.UpdateItem(item.ID, UpdateItemInput{ClearSprint: true})

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), updated.SprintID)
	assert.Equal(suite.T(), 0, suite.sprintScore(sprint.ID))
	assert.Empty(suite.T(), suite.sprintItemIDs(sprint.ID))
}

// TestUpdateItem_PointsChangeRecomputes tests that editing a Done item's
// sustainability points moves the sprint score accordingly
func (suite *ItemServiceTestSuite) TestUpdateItem_PointsChangeRecomputes() {
	sprint := suite.createTestSprint("Sprint 1")
	item := suite.createItem(&sprint.ID, models.StatusDone, 5)

	points := 9
	_, err := suite.service.UpdateItem(item.ID, UpdateItemInput{SustainabilityPoints: &points})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 9, suite.sprintScore(sprint.ID))
}

// TestUpdateItem_EnteringSprintAppendsToColumn tests that an item assigned to
// a new sprint lands at the end of its column there
func (suite *ItemServiceTestSuite) TestUpdateItem_EnteringSprintAppendsToColumn() {
	sprint := suite.createTestSprint("Sprint 1")
	suite.createItem(&sprint.ID, models.StatusToDo, 0)
	suite.createItem(&sprint.ID, models.StatusToDo, 0)
	backlogItem := suite.createItem(nil, models.StatusToDo, 0)

	updated, err := suite.service.UpdateItem(backlogItem.ID, UpdateItemInput{SprintID: &sprint.ID})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, updated.Order)
}

// TestUpdateItem_NotFound tests updating a missing item
func (suite *ItemServiceTestSuite) TestUpdateItem_NotFound() {
	title := "New title"
	_, err := suite.service.UpdateItem(9999, UpdateItemInput{Title: &title})
	assert.ErrorIs(suite.T(), err, ErrItemNotFound)
}

// TestDeleteItem_RecomputesSprint tests that deletion removes the item's
// contribution from its sprint
func (suite *ItemServiceTestSuite) TestDeleteItem_RecomputesSprint() {
	sprint := suite.createTestSprint("Sprint 1")
	keep := suite.createItem(&sprint.ID, models.StatusDone, 13)
	doomed := suite.createItem(&sprint.ID, models.StatusDone, 7)
	suite.Require().Equal(20, suite.sprintScore(sprint.ID))

	err := suite.service.DeleteItem(doomed.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 13, suite.sprintScore(sprint.ID))
	assert.Equal(suite.T(), models.IDList{keep.ID}, suite.sprintItemIDs(sprint.ID))
}

// TestDeleteItem_BacklogItem tests deleting an unassigned item
func (suite *ItemServiceTestSuite) TestDeleteItem_BacklogItem() {
	item := suite.createItem(nil, models.StatusToDo, 0)

	err := suite.service.DeleteItem(item.ID)

	assert.NoError(suite.T(), err)
	_, err = suite.service.GetItem(item.ID)
	assert.ErrorIs(suite.T(), err, ErrItemNotFound)
}

// TestDeleteItem_NotFound tests deleting a missing item
func (suite *ItemServiceTestSuite) TestDeleteItem_NotFound() {
	err := suite.service.DeleteItem(9999)
	assert.ErrorIs(suite.T(), err, ErrItemNotFound)
}

// TestItemLifecycle_ScoreFollowsItem walks one item through its sprint life:
// created as To Do the score stays 0, marked Done its points land on the
// sprint, deleted they are gone again
func (suite *ItemServiceTestSuite) TestItemLifecycle_ScoreFollowsItem() {
	sprint := suite.createTestSprint("Sprint 1")

	item := suite.createItem(&sprint.ID, models.StatusToDo, 5)
	assert.Equal(suite.T(), 0, suite.sprintScore(sprint.ID))
	assert.Equal(suite.T(), models.IDList{item.ID}, suite.sprintItemIDs(sprint.ID))

	done := models.StatusDone
	_, err := suite.service.UpdateItem(item.ID, UpdateItemInput{Status: &done})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 5, suite.sprintScore(sprint.ID))

	suite.Require().NoError(suite.service.DeleteItem(item.ID))
	assert.Equal(suite.T(), 0, suite.sprintScore(sprint.ID))
	assert.Empty(suite.T(), suite.sprintItemIDs(sprint.ID))
}

// TestListItems_BacklogFilter tests listing only unassigned items
func (suite *ItemServiceTestSuite) TestListItems_BacklogFilter() {
	sprint := suite.createTestSprint("Sprint 1")
	suite.createItem(&sprint.ID, models.StatusToDo, 0)
	backlogItem := suite.createItem(nil, models.StatusToDo, 0)

	items, total, err := suite.service.ListItems(repository.ItemFilter{
		ProjectID: &suite.project.ID,
		Backlog:   true,
	}, utils.PaginationParams{Page: 1, Limit: 20})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
	suite.Require().Len(items, 1)
	assert.Equal(suite.T(), backlogItem.ID, items[0].ID)
}

func TestItemServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ItemServiceTestSuite))
}
