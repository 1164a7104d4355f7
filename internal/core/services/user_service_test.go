package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/warinco/ncr_workflow_app/internal/apperrors"
	"github.com/warinco/ncr_workflow_app/internal/core/domain"
	portssvc "github.com/warinco/ncr_workflow_app/internal/core/ports/services"
	"github.com/warinco/ncr_workflow_app/internal/core/services"
	"github.com/warinco/ncr_workflow_app/internal/dto"
	"github.com/warinco/ncr_workflow_app/internal/utils"
)

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Test Suite Setup ---

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateUserRequest{
		Username: "qa.jane",
		Password: "super-secret-pw",
		Name:     "Jane",
		Role:     "QA",
	}

	suite.mockRepo.On("FindUserByUsername", ctx, req.Username).Return(nil, nil).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	createdUser, err := suite.service.CreateUser(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(createdUser)
	suite.NotEmpty(createdUser.UserID)
	suite.Equal(req.Username, createdUser.Username)
	suite.Equal(domain.RoleQA, createdUser.Role)
	suite.NotEqual(req.Password, createdUser.PasswordHash)
	suite.True(utils.CheckPasswordHash(req.Password, createdUser.PasswordHash))
	suite.Equal(creatorUserID, createdUser.CreatedBy)
	suite.WithinDuration(time.Now(), createdUser.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_InvalidRole() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Username: "someone",
		Password: "super-secret-pw",
		Name:     "Someone",
		Role:     "ACCOUNTING",
	}

	createdUser, err := suite.service.CreateUser(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(createdUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_UsernameTaken() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Username: "qa.jane",
		Password: "super-secret-pw",
		Name:     "Jane",
		Role:     "QA",
	}
	existing := &domain.User{UserID: uuid.NewString(), Username: req.Username}

	suite.mockRepo.On("FindUserByUsername", ctx, req.Username).Return(existing, nil).Once()

	createdUser, err := suite.service.CreateUser(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(createdUser)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	ctx := context.Background()
	testID := uuid.NewString()

	suite.mockRepo.On("FindUserByID", ctx, testID).Return(nil, nil).Once()

	user, err := suite.service.GetUserByID(ctx, testID)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestListUsers_NilBecomesEmpty() {
	ctx := context.Background()

	suite.mockRepo.On("FindUsers", ctx, 20, 0).Return(nil, nil).Once()

	users, err := suite.service.ListUsers(ctx, 20, 0)

	suite.Require().NoError(err)
	suite.NotNil(users)
	suite.Empty(users)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("super-secret-pw")
	suite.Require().NoError(err)
	stored := &domain.User{
		UserID:       uuid.NewString(),
		Username:     "qa.jane",
		Role:         domain.RoleQA,
		PasswordHash: hash,
	}

	suite.mockRepo.On("FindUserByUsername", ctx, "qa.jane").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "qa.jane", "super-secret-pw")

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal(stored.UserID, user.UserID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("super-secret-pw")
	suite.Require().NoError(err)
	stored := &domain.User{
		UserID:       uuid.NewString(),
		Username:     "qa.jane",
		PasswordHash: hash,
	}

	suite.mockRepo.On("FindUserByUsername", ctx, "qa.jane").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "qa.jane", "not-the-password")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownUserSameError() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByUsername", ctx, "nobody").Return(nil, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "nobody", "whatever-pw")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestDeleteUser_RepoError() {
	ctx := context.Background()
	targetID := uuid.NewString()
	requesterID := uuid.NewString()

	suite.mockRepo.On("MarkUserDeleted", ctx, targetID, mock.AnythingOfType("time.Time"), requesterID).
		Return(assert.AnError).Once()

	err := suite.service.DeleteUser(ctx, targetID, requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
