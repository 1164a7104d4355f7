package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/warinco/ncr_workflow_app/internal/apperrors"
	"github.com/warinco/ncr_workflow_app/internal/core/domain"
	portssvc "github.com/warinco/ncr_workflow_app/internal/core/ports/services"
	"github.com/warinco/ncr_workflow_app/internal/dto"
	"github.com/warinco/ncr_workflow_app/internal/handlers"
	"github.com/warinco/ncr_workflow_app/internal/middleware"
	"github.com/warinco/ncr_workflow_app/internal/utils"
)

// --- Mock ReportService ---
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) GetReportByID(ctx context.Context, id int64) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportService) GetReportByReportID(ctx context.Context, reportID string) (*domain.Report, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportService) ListReports(ctx context.Context, requestingUserID string, limit, offset int) ([]domain.Report, error) {
	args := m.Called(ctx, requestingUserID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *MockReportService) CreateReport(ctx context.Context, req dto.CreateReportRequest, creatorUserID string) (*domain.Report, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportService) ApplyAction(ctx context.Context, id int64, input dto.ApplyActionInput, actorUserID string) (*domain.Report, error) {
	args := m.Called(ctx, id, input, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportService) DeleteReport(ctx context.Context, id int64, requestingUserID string) error {
	args := m.Called(ctx, id, requestingUserID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.ReportSvcFacade = (*MockReportService)(nil)

// --- Test Suite ---
type ReportHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockReportService *MockReportService
	jwtSecret         string
}

// generateTestToken creates a dummy JWT carrying the given role.
func (suite *ReportHandlerTestSuite) generateTestToken(userID string, role domain.Role) string {
	token, err := utils.GenerateJWT(userID, string(role), suite.jwtSecret, time.Hour, "ncr-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *ReportHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockReportService = new(MockReportService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterReportRoutes(v1, suite.mockReportService)
}

func (suite *ReportHandlerTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleReport() *domain.Report {
	return &domain.Report{
		ID:               42,
		ReportID:         "WNC25060008",
		Status:           domain.StatusCreated,
		CreatedByName:    "SaleCo User",
		CreatedByRole:    domain.RoleSaleCo,
		ProductName:      "PVC Resin",
		LotNo:            "L-4471",
		Quantity:         120,
		IssueDescription: "Discoloration on delivered batch",
	}
}

// --- Test Cases ---

func (suite *ReportHandlerTestSuite) TestCreateReport_Success() {
	creatorUserID := uuid.NewString()
	reqBody := dto.CreateReportRequest{
		ProductName:      "PVC Resin",
		LotNo:            "L-4471",
		Quantity:         120,
		IssueDescription: "Discoloration on delivered batch",
	}

	suite.mockReportService.On("CreateReport",
		mock.Anything,
		reqBody,
		creatorUserID,
	).Return(sampleReport(), nil).Once()

	body, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(creatorUserID, domain.RoleSaleCo))
	req.Header.Set("Content-Type", "application/json")

	w := suite.serve(req)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.ReportResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("WNC25060008", resp.ReportID)
	suite.Equal(string(domain.StatusCreated), resp.Status)

	suite.mockReportService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestCreateReport_MissingFieldsRejected() {
	creatorUserID := uuid.NewString()

	body := []byte(`{"productName": "PVC Resin"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(creatorUserID, domain.RoleSaleCo))
	req.Header.Set("Content-Type", "application/json")

	w := suite.serve(req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReportService.AssertNotCalled(suite.T(), "CreateReport", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportHandlerTestSuite) TestCreateReport_ForbiddenMapsTo403() {
	creatorUserID := uuid.NewString()
	reqBody := dto.CreateReportRequest{
		ProductName:      "PVC Resin",
		LotNo:            "L-4471",
		Quantity:         120,
		IssueDescription: "Discoloration on delivered batch",
	}

	suite.mockReportService.On("CreateReport", mock.Anything, reqBody, creatorUserID).
		Return(nil, apperrors.ErrForbidden).Once()

	body, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(creatorUserID, domain.RoleQA))
	req.Header.Set("Content-Type", "application/json")

	w := suite.serve(req)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *ReportHandlerTestSuite) TestMissingTokenRejected() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/reports", nil)

	w := suite.serve(req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockReportService.AssertNotCalled(suite.T(), "ListReports", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportHandlerTestSuite) TestListReports_Success() {
	userID := uuid.NewString()

	suite.mockReportService.On("ListReports", mock.Anything, userID, 20, 0).
		Return([]domain.Report{*sampleReport()}, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, domain.RoleQA))

	w := suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListReportsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Reports, 1)
	suite.Equal("WNC25060008", resp.Reports[0].ReportID)
}

func (suite *ReportHandlerTestSuite) TestGetReport_NotFoundMapsTo404() {
	userID := uuid.NewString()

	suite.mockReportService.On("GetReportByID", mock.Anything, int64(42)).
		Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/reports/42", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, domain.RoleQA))

	w := suite.serve(req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ReportHandlerTestSuite) TestGetReportByReportID_Success() {
	userID := uuid.NewString()

	suite.mockReportService.On("GetReportByReportID", mock.Anything, "WNC25060008").
		Return(sampleReport(), nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/reports/by-report-id/WNC25060008", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, domain.RoleQA))

	w := suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *ReportHandlerTestSuite) TestInventoryAccept_PassesActionAndActor() {
	actorUserID := uuid.NewString()
	updated := sampleReport()
	updated.Status = domain.StatusAcceptedByInventory

	suite.mockReportService.On("ApplyAction",
		mock.Anything,
		int64(42),
		dto.ApplyActionInput{Kind: domain.ActionInventoryAccept},
		actorUserID,
	).Return(updated, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/reports/42/inventory/accept", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actorUserID, domain.RoleInventory))

	w := suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ReportResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.StatusAcceptedByInventory), resp.Status)

	suite.mockReportService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestQADetails_BindsSolutionFields() {
	actorUserID := uuid.NewString()
	updated := sampleReport()
	updated.Status = domain.StatusSendToManufacture

	suite.mockReportService.On("ApplyAction",
		mock.Anything,
		int64(42),
		mock.MatchedBy(func(input dto.ApplyActionInput) bool {
			return input.Kind == domain.ActionQASolution &&
				input.Destination == domain.DestinationManufacture &&
				input.QASolution != nil && *input.QASolution == "Rework the batch"
		}),
		actorUserID,
	).Return(updated, nil).Once()

	body := []byte(`{"destination": "MANUFACTURE", "solution": "Rework the batch"}`)
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/reports/42/qa/details", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actorUserID, domain.RoleQA))
	req.Header.Set("Content-Type", "application/json")

	w := suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockReportService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestQADetails_InvalidDestinationRejected() {
	actorUserID := uuid.NewString()

	body := []byte(`{"destination": "ACCOUNTING", "solution": "Rework the batch"}`)
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/reports/42/qa/details", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actorUserID, domain.RoleQA))
	req.Header.Set("Content-Type", "application/json")

	w := suite.serve(req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReportService.AssertNotCalled(suite.T(), "ApplyAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportHandlerTestSuite) TestSaleCoComplete_EmptyBodyAllowed() {
	actorUserID := uuid.NewString()
	updated := sampleReport()
	updated.Status = domain.StatusCompleted

	suite.mockReportService.On("ApplyAction",
		mock.Anything,
		int64(42),
		dto.ApplyActionInput{Kind: domain.ActionSaleCoComplete},
		actorUserID,
	).Return(updated, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/reports/42/saleco/complete", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actorUserID, domain.RoleSaleCo))

	w := suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockReportService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestDeleteReport_ConflictMapsTo409() {
	userID := uuid.NewString()

	suite.mockReportService.On("DeleteReport", mock.Anything, int64(42), userID).
		Return(fmt.Errorf("%w: not deletable", apperrors.ErrValidation)).Once()

	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/reports/42", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, domain.RoleSaleCo))

	w := suite.serve(req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ReportHandlerTestSuite) TestDeleteReport_Success() {
	userID := uuid.NewString()

	suite.mockReportService.On("DeleteReport", mock.Anything, int64(42), userID).Return(nil).Once()

	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/reports/42", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, domain.RoleSaleCo))

	w := suite.serve(req)

	suite.Equal(http.StatusNoContent, w.Code)
}

// --- Run Test Suite ---
func TestReportHandler(t *testing.T) {
	suite.Run(t, new(ReportHandlerTestSuite))
}
