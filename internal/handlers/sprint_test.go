package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/EricRode/EcoScrum/internal/constants"
	"github.com/EricRode/EcoScrum/internal/models"
	"github.com/EricRode/EcoScrum/internal/repository"
	"github.com/EricRode/EcoScrum/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SprintHandlerTestSuite defines the test suite for SprintHandler
type SprintHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *SprintHandler
	project *models.Project
	user    *models.User
}

// SetupTest runs before each test
func (suite *SprintHandlerTestSuite) SetupTest() {
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
	sprintService := services.NewSprintService(repository.NewSprintRepository(suite.db), itemRepo)
	suite.handler = NewSprintHandler(sprintService)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	suite.user = &models.User{Name: "Owner", Email: "owner@example.com", PasswordHash: "hashedpassword"}
	suite.db.Create(suite.user)
	suite.project = &models.Project{Name: "Test Project", InviteCode: "TEST_CODE", CreatedBy: suite.user.ID}
	suite.db.Create(suite.project)
}

// TearDownTest runs after each test
func (suite *SprintHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions

func (suite *SprintHandlerTestSuite) createTestSprint() *models.Sprint {
	sprint := &models.Sprint{
		Name:      "Sprint 1",
		Goal:      "Test Goal",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 0, 14),
		ProjectID: suite.project.ID,
		ItemIDs:   models.IDList{},
	}
	suite.db.Create(sprint)
	return sprint
}

func (suite *SprintHandlerTestSuite) createAuthContext(method, url string, body []byte, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	c.Set(constants.ContextKeyUserID, suite.user.ID)

	return c, w
}

// TestCreateSprint_Success tests successful sprint creation
func (suite *SprintHandlerTestSuite) TestCreateSprint_Success() {
	requestBody := map[string]interface{}{
		"name":       "Sprint 1",
		"goal":       "Reduce energy usage",
		"start_date": time.Now().Format(time.RFC3339),
		"end_date":   time.Now().AddDate(0, 0, 14).Format(time.RFC3339),
		"project_id": suite.project.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/sprints", body, nil)

	suite.handler.CreateSprint(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Sprint 1", response["name"])
	assert.Equal(suite.T(), float64(0), response["sustainability_score"])
}

// TestCreateSprint_InvalidRequest tests creation with a missing required field
func (suite *SprintHandlerTestSuite) TestCreateSprint_InvalidRequest() {
	requestBody := map[string]interface{}{
		"name":       "Sprint 1",
		"project_id": suite.project.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/sprints", body, nil)

	suite.handler.CreateSprint(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateSprint_InvertedDates tests creation with end before start
func (suite *SprintHandlerTestSuite) TestCreateSprint_InvertedDates() {
	requestBody := map[string]interface{}{
		"name":       "Sprint 1",
		"goal":       "Goal",
		"start_date": time.Now().AddDate(0, 0, 14).Format(time.RFC3339),
		"end_date":   time.Now().Format(time.RFC3339),
		"project_id": suite.project.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/sprints", body, nil)

	suite.handler.CreateSprint(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestGetSprint_Success tests sprint retrieval
func (suite *SprintHandlerTestSuite) TestGetSprint_Success() {
	sprint := suite.createTestSprint()

	c, w := suite.createAuthContext("GET", "/api/sprints/1", nil, gin.Params{{Key: "id", Value: "1"}})

	suite.handler.GetSprint(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), sprint.Name, response["name"])

	// No retrospective yet.
	assert.Nil(suite.T(), response["retrospective"])
}

// TestGetSprint_NotFound tests retrieval of a missing sprint
func (suite *SprintHandlerTestSuite) TestGetSprint_NotFound() {
	c, w := suite.createAuthContext("GET", "/api/sprints/999", nil, gin.Params{{Key: "id", Value: "999"}})

	suite.handler.GetSprint(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestSaveRetrospective_Success tests attaching a retrospective
func (suite *SprintHandlerTestSuite) TestSaveRetrospective_Success() {
	suite.createTestSprint()

	requestBody := map[string]interface{}{
		"goal_met":     "Partially",
		"improvements": "Smaller items",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PATCH", "/api/sprints/1/retrospective", body, gin.Params{{Key: "id", Value: "1"}})

	suite.handler.SaveRetrospective(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	retro := response["retrospective"].(map[string]interface{})
	assert.Equal(suite.T(), "Partially", retro["goal_met"])
	assert.Equal(suite.T(), "Smaller items", retro["improvements"])
}

// TestSaveRetrospective_Twice tests the once-only rule
func (suite *SprintHandlerTestSuite) TestSaveRetrospective_Twice() {
	suite.createTestSprint()

	requestBody := map[string]interface{}{"goal_met": "Yes"}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PATCH", "/api/sprints/1/retrospective", body, gin.Params{{Key: "id", Value: "1"}})
	suite.handler.SaveRetrospective(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	c, w = suite.createAuthContext("PATCH", "/api/sprints/1/retrospective", body, gin.Params{{Key: "id", Value: "1"}})
	suite.handler.SaveRetrospective(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestSaveRetrospective_InvalidGoalMet tests goal_met validation
func (suite *SprintHandlerTestSuite) TestSaveRetrospective_InvalidGoalMet() {
	suite.createTestSprint()

	requestBody := map[string]interface{}{"goal_met": "Maybe"}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PATCH", "/api/sprints/1/retrospective", body, gin.Params{{Key: "id", Value: "1"}})

	suite.handler.SaveRetrospective(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCompleteSprint_Success tests sprint completion
func (suite *SprintHandlerTestSuite) TestCompleteSprint_Success() {
	sprint := suite.createTestSprint()
	item := &models.WorkItem{
		Title:                "Done Item",
		Description:          "Test Description",
		Status:               models.StatusDone,
		StoryPoints:          3,
		SustainabilityPoints: 8,
		ProjectID:            suite.project.ID,
		SprintID:             &sprint.ID,
	}
	suite.db.Create(item)

	c, w := suite.createAuthContext("PATCH", "/api/sprints/1/complete", nil, gin.Params{{Key: "id", Value: "1"}})

	suite.handler.CompleteSprint(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), true, response["completed"])
	assert.Equal(suite.T(), float64(8), response["sustainability_score"])
}

// TestCompleteSprint_Twice tests double completion
func (suite *SprintHandlerTestSuite) TestCompleteSprint_Twice() {
	suite.createTestSprint()

	c, w := suite.createAuthContext("PATCH", "/api/sprints/1/complete", nil, gin.Params{{Key: "id", Value: "1"}})
	suite.handler.CompleteSprint(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	c, w = suite.createAuthContext("PATCH", "/api/sprints/1/complete", nil, gin.Params{{Key: "id", Value: "1"}})
	suite.handler.CompleteSprint(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func TestSprintHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(SprintHandlerTestSuite))
}
