package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nskaret/lingoread/internal/models"
)

// BlogService handles lesson content
type BlogService struct {
	repo   BlogRepository
	logger *slog.Logger
}

// NewBlogService creates a new BlogService
func NewBlogService(repo BlogRepository, logger *slog.Logger) *BlogService {
	return &BlogService{
		repo:   repo,
		logger: logger,
	}
}

// ListBlogs returns all lessons, newest first
func (s *BlogService) ListBlogs(ctx context.Context) ([]*models.Blog, error) {
	blogs, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list blogs", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return blogs, nil
}

// GetBlogByID retrieves a single lesson
func (s *BlogService) GetBlogByID(ctx context.Context, id int64) (*models.Blog, error) {
	blog, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get blog", slog.Int64("blog_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return blog, nil
}

// CreateBlog stores a new lesson
func (s *BlogService) CreateBlog(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	created, err := s.repo.Create(ctx, blog)
	if err != nil {
		s.logger.Error("failed to create blog", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("blog created", slog.Int64("blog_id", created.ID))
	return created, nil
}

// UpdateBlog replaces a lesson's content
func (s *BlogService) UpdateBlog(ctx context.Context, id int64, blog *models.Blog) (*models.Blog, error) {
	updated, err := s.repo.Update(ctx, id, blog)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update blog", slog.Int64("blog_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("blog updated", slog.Int64("blog_id", id))
	return updated, nil
}

// DeleteBlog removes a lesson
func (s *BlogService) DeleteBlog(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete blog", slog.Int64("blog_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("blog deleted", slog.Int64("blog_id", id))
	return nil
}
