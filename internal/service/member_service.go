package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/labdesk/workbench/internal/domain"
)

type MemberRepository interface {
	Create(ctx context.Context, m *domain.Member) error
	Get(ctx context.Context, id int64) (*domain.Member, error)
	ListActive(ctx context.Context) ([]domain.Member, error)
	ListByIDs(ctx context.Context, ids []int64) ([]domain.Member, error)
	Update(ctx context.Context, m *domain.Member) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type MemberService struct {
	repo MemberRepository
}

func NewMemberService(repo MemberRepository) *MemberService {
	return &MemberService{repo: repo}
}

// MemberPatch: nil fields are left unchanged.
type MemberPatch struct {
	Name          *string
	ResearchGroup *domain.ResearchGroup
	IsActive      *bool
}

func (s *MemberService) Create(ctx context.Context, name string, group domain.ResearchGroup) (*domain.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}
	if !group.Valid() {
		return nil, domain.ErrInvalidGroup
	}

	m := &domain.Member{Name: name, ResearchGroup: group, IsActive: true}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("memberRepo.Create: %w", err)
	}
	return m, nil
}

func (s *MemberService) Get(ctx context.Context, id int64) (*domain.Member, error) {
	return s.repo.Get(ctx, id)
}

// ListActive returns the selectable members for a roulette draw.
func (s *MemberService) ListActive(ctx context.Context) ([]domain.Member, error) {
	return s.repo.ListActive(ctx)
}

func (s *MemberService) Update(ctx context.Context, id int64, p MemberPatch) (*domain.Member, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, domain.ErrEmptyName
		}
		m.Name = name
	}
	if p.ResearchGroup != nil {
		if !p.ResearchGroup.Valid() {
			return nil, domain.ErrInvalidGroup
		}
		m.ResearchGroup = *p.ResearchGroup
	}
	if p.IsActive != nil {
		m.IsActive = *p.IsActive
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("memberRepo.Update: %w", err)
	}
	return m, nil
}

// Deactivate hides a member (e.g. a graduate) from selection without deleting history.
func (s *MemberService) Deactivate(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, false)
}
