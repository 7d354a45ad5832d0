package data

import (
	"context"
	"errors"
	"time"

	"demoengine/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
)

type demoRepo struct {
	data *Data
	log  *log.Helper
}

// NewDemoRepo new a demo repository.
func NewDemoRepo(data *Data, logger log.Logger) biz.DemoRepo {
	return &demoRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

const demoColumns = `id, prompt_original, prompt_normalized, prompt_language, keywords,
	image_url_before, image_url_after, video_url, thumbnail_url, style_name, style_slug,
	category_slug, is_active, created_at, updated_at, expires_at`

func scanDemo(row pgx.Row) (*biz.Demo, error) {
	var d biz.Demo
	err := row.Scan(
		&d.ID, &d.PromptOriginal, &d.PromptNormalized, &d.PromptLanguage, &d.Keywords,
		&d.ImageURLBefore, &d.ImageURLAfter, &d.VideoURL, &d.ThumbnailURL, &d.StyleName, &d.StyleSlug,
		&d.CategorySlug, &d.IsActive, &d.CreatedAt, &d.UpdatedAt, &d.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create implements biz.DemoRepo.
func (r *demoRepo) Create(ctx context.Context, d *biz.Demo) (*biz.Demo, error) {
	row := r.data.Pool.QueryRow(ctx, `
		INSERT INTO demos (id, prompt_original, prompt_normalized, prompt_language, keywords,
			image_url_before, image_url_after, video_url, thumbnail_url, style_name, style_slug,
			category_slug, is_active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+demoColumns,
		d.ID, d.PromptOriginal, d.PromptNormalized, d.PromptLanguage, d.Keywords,
		d.ImageURLBefore, d.ImageURLAfter, d.VideoURL, d.ThumbnailURL, d.StyleName, d.StyleSlug,
		d.CategorySlug, d.IsActive, d.ExpiresAt,
	)
	return scanDemo(row)
}

// FindByID implements biz.DemoRepo.
func (r *demoRepo) FindByID(ctx context.Context, id string) (*biz.Demo, error) {
	row := r.data.Pool.QueryRow(ctx,
		`SELECT `+demoColumns+` FROM demos WHERE id = $1`, id)
	d, err := scanDemo(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, biz.ErrDemoNotFound
	}
	return d, err
}

// ListActive implements biz.DemoRepo.
func (r *demoRepo) ListActive(ctx context.Context) ([]*biz.Demo, error) {
	return r.list(ctx,
		`SELECT `+demoColumns+` FROM demos WHERE is_active ORDER BY created_at DESC`)
}

// ListActiveByCategory implements biz.DemoRepo.
func (r *demoRepo) ListActiveByCategory(ctx context.Context, category string) ([]*biz.Demo, error) {
	return r.list(ctx,
		`SELECT `+demoColumns+` FROM demos WHERE is_active AND category_slug = $1 ORDER BY created_at DESC`,
		category)
}

// Random implements biz.DemoRepo.
func (r *demoRepo) Random(ctx context.Context, category string) (*biz.Demo, error) {
	row := r.data.Pool.QueryRow(ctx, `
		SELECT `+demoColumns+` FROM demos
		WHERE is_active AND ($1 = '' OR category_slug = $1)
		ORDER BY random() LIMIT 1`, category)
	d, err := scanDemo(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, biz.ErrDemoNotFound
	}
	return d, err
}

// ListVideosByCategory implements biz.DemoRepo.
func (r *demoRepo) ListVideosByCategory(ctx context.Context, category string) ([]*biz.Demo, error) {
	return r.list(ctx,
		`SELECT `+demoColumns+` FROM demos
		 WHERE is_active AND category_slug = $1 AND video_url <> ''
		 ORDER BY created_at DESC`,
		category)
}

// CountVideosByCategory implements biz.DemoRepo.
func (r *demoRepo) CountVideosByCategory(ctx context.Context, category string) (int64, error) {
	var n int64
	err := r.data.Pool.QueryRow(ctx,
		`SELECT count(*) FROM demos WHERE is_active AND category_slug = $1 AND video_url <> ''`,
		category).Scan(&n)
	return n, err
}

// Deactivate implements biz.DemoRepo.
func (r *demoRepo) Deactivate(ctx context.Context, id string) error {
	_, err := r.data.Pool.Exec(ctx,
		`UPDATE demos SET is_active = false, updated_at = now() WHERE id = $1`, id)
	return err
}

// DeactivateOlderThan implements biz.DemoRepo.
func (r *demoRepo) DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.data.Pool.Exec(ctx,
		`UPDATE demos SET is_active = false, updated_at = now()
		 WHERE is_active AND (created_at < $1 OR expires_at < now())`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *demoRepo) list(ctx context.Context, query string, args ...any) ([]*biz.Demo, error) {
	rows, err := r.data.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var demos []*biz.Demo
	for rows.Next() {
		d, err := scanDemo(rows)
		if err != nil {
			return nil, err
		}
		demos = append(demos, d)
	}
	return demos, rows.Err()
}
