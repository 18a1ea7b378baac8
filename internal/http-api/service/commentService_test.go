package service

import (
	"context"
	"testing"

	"titlehub/internal/http-api/dto"
	"titlehub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetByReview(ctx context.Context, reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	args := m.Called(ctx, reviewID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	args := m.Called(ctx, titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedReviewResponse), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, titleID int64, authorID string, in dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, authorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, review *models.Review, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, review, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, reviewID int64) error {
	args := m.Called(ctx, reviewID)
	return args.Error(0)
}

func TestCommentCreate_Success(t *testing.T) {
	mockCommentRepo := new(MockCommentRepository)
	mockReviewSvc := new(MockReviewService)
	commentService := NewCommentService(mockCommentRepo, mockReviewSvc)

	review := &models.Review{ID: 7, TitleID: 3}
	mockReviewSvc.On("Get", mock.Anything, int64(3), int64(7)).Return(review, nil)
	mockCommentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Comment")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Comment).ID = 42
		}).Return(nil)
	saved := &models.Comment{
		ID:       42,
		ReviewID: 7,
		AuthorID: "author-id",
		Text:     "agreed",
		Author:   models.User{Username: "commenter"},
	}
	mockCommentRepo.On("GetByID", mock.Anything, int64(42)).Return(saved, nil)

	resp, err := commentService.Create(context.Background(), 3, 7, "author-id", dto.CreateCommentDTO{Text: "agreed"})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "commenter", resp.Author)
	mockCommentRepo.AssertExpectations(t)
	mockReviewSvc.AssertExpectations(t)
}

func TestCommentCreate_ReviewMissing(t *testing.T) {
	mockCommentRepo := new(MockCommentRepository)
	mockReviewSvc := new(MockReviewService)
	commentService := NewCommentService(mockCommentRepo, mockReviewSvc)

	mockReviewSvc.On("Get", mock.Anything, int64(3), int64(7)).Return(nil, gorm.ErrRecordNotFound)

	resp, err := commentService.Create(context.Background(), 3, 7, "author-id", dto.CreateCommentDTO{Text: "agreed"})

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, resp)
	mockCommentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentGet_WrongReviewIs404(t *testing.T) {
	mockCommentRepo := new(MockCommentRepository)
	mockReviewSvc := new(MockReviewService)
	commentService := NewCommentService(mockCommentRepo, mockReviewSvc)

	review := &models.Review{ID: 7, TitleID: 3}
	mockReviewSvc.On("Get", mock.Anything, int64(3), int64(7)).Return(review, nil)
	// the comment exists, but under a different review
	mockCommentRepo.On("GetByID", mock.Anything, int64(42)).
		Return(&models.Comment{ID: 42, ReviewID: 99}, nil)

	comment, err := commentService.Get(context.Background(), 3, 7, 42)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, comment)
}

func TestCommentList_ChecksNesting(t *testing.T) {
	mockCommentRepo := new(MockCommentRepository)
	mockReviewSvc := new(MockReviewService)
	commentService := NewCommentService(mockCommentRepo, mockReviewSvc)

	mockReviewSvc.On("Get", mock.Anything, int64(3), int64(7)).Return(nil, gorm.ErrRecordNotFound)

	resp, err := commentService.ListByReview(context.Background(), 3, 7, 1, 20)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, resp)
	mockCommentRepo.AssertNotCalled(t, "GetByReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
