package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nskaret/lingoread/internal/models"
	pkghttp "github.com/nskaret/lingoread/pkg/http"
)

// BlogServiceInterface defines the interface for lesson content logic
type BlogServiceInterface interface {
	ListBlogs(ctx context.Context) ([]*models.Blog, error)
	GetBlogByID(ctx context.Context, id int64) (*models.Blog, error)
	CreateBlog(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	UpdateBlog(ctx context.Context, id int64, blog *models.Blog) (*models.Blog, error)
	DeleteBlog(ctx context.Context, id int64) error
}

// BlogHandler handles lesson content HTTP requests
type BlogHandler struct {
	service BlogServiceInterface
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(service BlogServiceInterface) *BlogHandler {
	return &BlogHandler{service: service}
}

// BlogRequest represents the request body for creating or updating a lesson
type BlogRequest struct {
	Title    string          `json:"title" validate:"required,min=1,max=200"`
	Text     string          `json:"text" validate:"required"`
	Tokens   json.RawMessage `json:"tokens"`
	ImageURL *string         `json:"image_url"`
	ImageAlt *string         `json:"image_alt"`
}

// List returns all lessons
// @Summary List lessons
// @Produce json
// @Success 200 {array} models.Blog
// @Failure 500 {object} ErrorResponse
// @Router /blogs [get]
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.service.ListBlogs(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(blogs)
}

// Get returns a single lesson
// @Summary Get a lesson
// @Param id path int true "Lesson ID"
// @Produce json
// @Success 200 {object} models.Blog
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /blogs/{id} [get]
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid lesson ID")
		return
	}

	blog, err := h.service.GetBlogByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Lesson not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(blog)
}

// Create stores a new lesson
// @Summary Create a lesson
// @Security BearerAuth
// @Accept json
// @Param request body BlogRequest true "Lesson content"
// @Produce json
// @Success 201 {object} models.Blog
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /blogs [post]
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BlogRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	blog, err := h.service.CreateBlog(r.Context(), req.toModel())
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(blog)
}

// Update replaces a lesson's content
// @Summary Update a lesson
// @Security BearerAuth
// @Accept json
// @Param id path int true "Lesson ID"
// @Param request body BlogRequest true "Lesson content"
// @Produce json
// @Success 200 {object} models.Blog
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /blogs/{id} [put]
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid lesson ID")
		return
	}

	var req BlogRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	blog, err := h.service.UpdateBlog(r.Context(), id, req.toModel())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Lesson not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(blog)
}

// Delete removes a lesson
// @Summary Delete a lesson
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /blogs/{id} [delete]
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid lesson ID")
		return
	}

	if err := h.service.DeleteBlog(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Lesson not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (req *BlogRequest) toModel() *models.Blog {
	return &models.Blog{
		Title:    req.Title,
		Text:     req.Text,
		Tokens:   req.Tokens,
		ImageURL: req.ImageURL,
		ImageAlt: req.ImageAlt,
	}
}

// parseIDParam reads a positive integer URL parameter
func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.ErrBadRequest
	}
	return id, nil
}
