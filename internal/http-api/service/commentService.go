package service

import (
	"context"

	"titlehub/internal/http-api/dto"
	"titlehub/internal/http-api/models"
	"titlehub/internal/http-api/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error)
	Create(ctx context.Context, titleID, reviewID int64, authorID string, in dto.CreateCommentDTO) (*dto.CommentResponse, error)
	// Get returns the model so handlers can run the ownership check before
	// mutating; it verifies the comment belongs to the review in the path.
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment, in dto.UpdateCommentDTO) (*dto.CommentResponse, error)
	Delete(ctx context.Context, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewSvc   ReviewService
}

func NewCommentService(commentRepo repository.CommentRepository, reviewSvc ReviewService) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewSvc:   reviewSvc,
	}
}

func (s *commentService) ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error) {
	if _, err := s.reviewSvc.Get(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *dto.CommentFromModel(&comments[i]))
	}
	return dto.NewPaginatedCommentResponse(responses, int(total), page, pageSize), nil
}

func (s *commentService) Create(ctx context.Context, titleID, reviewID int64, authorID string, in dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	if _, err := s.reviewSvc.Get(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: authorID,
		Text:     in.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Reload with author data
	comment, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.CommentFromModel(comment), nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if _, err := s.reviewSvc.Get(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, gorm.ErrRecordNotFound
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, comment *models.Comment, in dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	comment.Text = in.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.CommentFromModel(comment), nil
}

func (s *commentService) Delete(ctx context.Context, commentID int64) error {
	return s.commentRepo.Delete(ctx, commentID)
}
