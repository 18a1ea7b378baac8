package service

import (
	"context"
	"regexp"
	"strings"

	"titlehub/internal/http-api/dto"
	"titlehub/internal/http-api/models"
	"titlehub/internal/http-api/repository"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CategoryService interface {
	GetAll(ctx context.Context, search string) ([]dto.CategoryResponse, error)
	Create(ctx context.Context, in dto.CreateCategoryDTO) (*dto.CategoryResponse, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryService struct {
	repo *repository.CategoryRepo
}

func NewCategoryService(r *repository.CategoryRepo) CategoryService {
	return &categoryService{repo: r}
}

func (s *categoryService) GetAll(ctx context.Context, search string) ([]dto.CategoryResponse, error) {
	list, err := s.repo.GetAll(ctx, search)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, dto.CategoryFromModel(c))
	}
	return resp, nil
}

func (s *categoryService) Create(ctx context.Context, in dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	if !slugPattern.MatchString(in.Slug) {
		return nil, ErrInvalidSlug
	}

	c := models.Category{Name: strings.TrimSpace(in.Name), Slug: in.Slug}
	if err := s.repo.Create(ctx, &c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, err
	}

	resp := dto.CategoryFromModel(c)
	return &resp, nil
}

func (s *categoryService) DeleteBySlug(ctx context.Context, slug string) error {
	return s.repo.DeleteBySlug(ctx, slug)
}
