package postgres

import (
	"context"
	"errors"

	"github.com/labdesk/workbench/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const memberColumns = `id, name, research_group, is_active, created_at`

type MemberRepository struct {
	db *pgxpool.Pool
}

func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(ctx context.Context, m *domain.Member) error {
	query := `
		INSERT INTO lab_members (name, research_group, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, m.Name, m.ResearchGroup, m.IsActive).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *MemberRepository) Get(ctx context.Context, id int64) (*domain.Member, error) {
	var m domain.Member
	err := r.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM lab_members WHERE id=$1`, id).
		Scan(&m.ID, &m.Name, &m.ResearchGroup, &m.IsActive, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListActive returns members still in the lab, ordered by name.
func (r *MemberRepository) ListActive(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+memberColumns+` FROM lab_members WHERE is_active ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return scanMembers(rows)
}

// ListByIDs ignores unknown ids; callers compare lengths.
func (r *MemberRepository) ListByIDs(ctx context.Context, ids []int64) ([]domain.Member, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+memberColumns+` FROM lab_members WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	return scanMembers(rows)
}

func (r *MemberRepository) Update(ctx context.Context, m *domain.Member) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE lab_members SET name=$2, research_group=$3, is_active=$4 WHERE id=$1`,
		m.ID, m.Name, m.ResearchGroup, m.IsActive)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) SetActive(ctx context.Context, id int64, active bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE lab_members SET is_active=$2 WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func scanMembers(rows pgx.Rows) ([]domain.Member, error) {
	defer rows.Close()

	out := make([]domain.Member, 0, 16)
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.ResearchGroup, &m.IsActive, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
