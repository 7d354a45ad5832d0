package data

import (
	"context"
	"errors"

	"demoengine/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
)

type blockEntryRepo struct {
	data *Data
	log  *log.Helper
}

// NewBlockEntryRepo new a block entry repository.
func NewBlockEntryRepo(data *Data, logger log.Logger) biz.BlockEntryRepo {
	return &blockEntryRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

const blockColumns = `term, reason, source, hit_count, created_at, updated_at`

func scanBlockEntry(row pgx.Row) (*biz.BlockEntry, error) {
	var e biz.BlockEntry
	err := row.Scan(&e.Term, &e.Reason, &e.Source, &e.HitCount, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Get implements biz.BlockEntryRepo. Returns (nil, nil) when absent.
func (r *blockEntryRepo) Get(ctx context.Context, term string) (*biz.BlockEntry, error) {
	row := r.data.Pool.QueryRow(ctx,
		`SELECT `+blockColumns+` FROM block_entries WHERE term = $1`, term)
	e, err := scanBlockEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// Upsert implements biz.BlockEntryRepo.
func (r *blockEntryRepo) Upsert(ctx context.Context, e *biz.BlockEntry) error {
	_, err := r.data.Pool.Exec(ctx, `
		INSERT INTO block_entries (term, reason, source, hit_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (term) DO UPDATE
		SET reason = EXCLUDED.reason, source = EXCLUDED.source, updated_at = now()`,
		e.Term, e.Reason, e.Source, e.HitCount,
	)
	return err
}

// Delete implements biz.BlockEntryRepo.
func (r *blockEntryRepo) Delete(ctx context.Context, term string) (bool, error) {
	tag, err := r.data.Pool.Exec(ctx,
		`DELETE FROM block_entries WHERE term = $1`, term)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListAll implements biz.BlockEntryRepo.
func (r *blockEntryRepo) ListAll(ctx context.Context) ([]*biz.BlockEntry, error) {
	rows, err := r.data.Pool.Query(ctx,
		`SELECT `+blockColumns+` FROM block_entries ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*biz.BlockEntry
	for rows.Next() {
		e, err := scanBlockEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteAll implements biz.BlockEntryRepo.
func (r *blockEntryRepo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.data.Pool.Exec(ctx, `DELETE FROM block_entries`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// IncrementHit implements biz.BlockEntryRepo.
func (r *blockEntryRepo) IncrementHit(ctx context.Context, term string) error {
	_, err := r.data.Pool.Exec(ctx,
		`UPDATE block_entries SET hit_count = hit_count + 1, updated_at = now() WHERE term = $1`,
		term)
	return err
}
