package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/labdesk/workbench/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	memoColumns       = `id, owner_id, sequence_id, title, body, created_at, updated_at`
	memoCreateRetries = 3
)

type MemoRepository struct {
	db *pgxpool.Pool
}

func NewMemoRepository(db *pgxpool.Pool) *MemoRepository {
	return &MemoRepository{db: db}
}

// Create assigns the next per-owner sequence id. Two concurrent inserts for the
// same owner may pick the same number; the unique constraint rejects one and we retry.
func (r *MemoRepository) Create(ctx context.Context, m *domain.Memo) error {
	const query = `
		INSERT INTO quick_memos (owner_id, sequence_id, title, body)
		SELECT $1, COALESCE(MAX(sequence_id), 0) + 1, $2, $3
		FROM quick_memos WHERE owner_id = $1
		RETURNING id, sequence_id, created_at, updated_at`

	var err error
	for attempt := 0; attempt < memoCreateRetries; attempt++ {
		err = r.db.QueryRow(ctx, query, m.OwnerID, m.Title, m.Body).
			Scan(&m.ID, &m.SequenceID, &m.CreatedAt, &m.UpdatedAt)
		if err == nil {
			return nil
		}
		err = mapPgError(err)
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("memo create after %d attempts: %w", memoCreateRetries, err)
}

func (r *MemoRepository) Get(ctx context.Context, ownerID, id int64) (*domain.Memo, error) {
	return getMemo(ctx, r.db, ownerID, id)
}

// List returns memos of the owner by sequence_id DESC, keyset-paginated.
func (r *MemoRepository) List(ctx context.Context, ownerID int64, limit int, cursorStr string) ([]domain.Memo, string, error) {
	cur, err := DecodeCursor(cursorStr)
	if err != nil {
		return nil, "", err
	}
	var after any
	if cur != nil {
		after = cur.SequenceID
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+memoColumns+`
		FROM quick_memos
		WHERE owner_id = $1 AND ($2::bigint IS NULL OR sequence_id < $2)
		ORDER BY sequence_id DESC
		LIMIT $3`, ownerID, after, limit)
	if err != nil {
		return nil, "", err
	}
	memos, err := scanMemos(rows)
	if err != nil {
		return nil, "", err
	}

	var next string
	if limit > 0 && len(memos) == limit {
		next, _ = EncodeCursor(Cursor{SequenceID: memos[len(memos)-1].SequenceID})
	}
	return memos, next, nil
}

// ListAll is used by export; ascending sequence order.
func (r *MemoRepository) ListAll(ctx context.Context, ownerID int64) ([]domain.Memo, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+memoColumns+` FROM quick_memos WHERE owner_id=$1 ORDER BY sequence_id ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	return scanMemos(rows)
}

func (r *MemoRepository) Update(ctx context.Context, m *domain.Memo) error {
	err := r.db.QueryRow(ctx, `
		UPDATE quick_memos SET title=$3, body=$4, updated_at=now()
		WHERE owner_id=$1 AND id=$2
		RETURNING sequence_id, created_at, updated_at`,
		m.OwnerID, m.ID, m.Title, m.Body).Scan(&m.SequenceID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrMemoNotFound
		}
		return err
	}
	return nil
}

func (r *MemoRepository) Delete(ctx context.Context, ownerID, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM quick_memos WHERE owner_id=$1 AND id=$2`, ownerID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMemoNotFound
	}
	return nil
}

func getMemo(ctx context.Context, q querier, ownerID, id int64) (*domain.Memo, error) {
	var m domain.Memo
	err := q.QueryRow(ctx, `SELECT `+memoColumns+` FROM quick_memos WHERE owner_id=$1 AND id=$2`, ownerID, id).
		Scan(&m.ID, &m.OwnerID, &m.SequenceID, &m.Title, &m.Body, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemoNotFound
		}
		return nil, err
	}
	return &m, nil
}

func scanMemos(rows pgx.Rows) ([]domain.Memo, error) {
	defer rows.Close()

	var out []domain.Memo
	for rows.Next() {
		var m domain.Memo
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.SequenceID, &m.Title, &m.Body, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
