package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nskaret/lingoread/internal/database"
	"github.com/nskaret/lingoread/internal/models"
)

const blogColumns = `id, title, text, tokens, image_url, image_alt, created_at`

type BlogRepository struct {
	pool *pgxpool.Pool
}

func NewBlogRepository(db *database.DB) *BlogRepository {
	return &BlogRepository{pool: db.Pool}
}

func scanBlogRow(scanner rowScanner) (*models.Blog, error) {
	var blog models.Blog

	err := scanner.Scan(
		&blog.ID, &blog.Title, &blog.Text, &blog.Tokens,
		&blog.ImageURL, &blog.ImageAlt, &blog.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &blog, nil
}

func scanBlogRows(rows pgx.Rows) ([]*models.Blog, error) {
	defer rows.Close()

	blogs := make([]*models.Blog, 0)

	for rows.Next() {
		blog, err := scanBlogRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog: %w", err)
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return blogs, nil
}

func (r *BlogRepository) List(ctx context.Context) ([]*models.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query blogs: %w", err)
	}

	return scanBlogRows(rows)
}

func (r *BlogRepository) GetByID(ctx context.Context, id int64) (*models.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`

	return scanBlogRow(r.pool.QueryRow(ctx, query, id))
}

func (r *BlogRepository) Create(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	query := `
		INSERT INTO blogs (title, text, tokens, image_url, image_alt)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + blogColumns

	return scanBlogRow(r.pool.QueryRow(ctx, query,
		blog.Title, blog.Text, blog.Tokens, blog.ImageURL, blog.ImageAlt,
	))
}

func (r *BlogRepository) Update(ctx context.Context, id int64, blog *models.Blog) (*models.Blog, error) {
	query := `
		UPDATE blogs
		SET title = $1, text = $2, tokens = $3, image_url = $4, image_alt = $5
		WHERE id = $6
		RETURNING ` + blogColumns

	return scanBlogRow(r.pool.QueryRow(ctx, query,
		blog.Title, blog.Text, blog.Tokens, blog.ImageURL, blog.ImageAlt, id,
	))
}

func (r *BlogRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM blogs WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *BlogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blogs`).Scan(&count); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return count, nil
}
