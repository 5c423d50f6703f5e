package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/labdesk/workbench/internal/domain"
)

const (
	exportSeparatorWidth = 40
	exportFilenameRunes  = 30
	exportTimeLayout     = "2006-01-02 15:04:05"
)

type MemoRepository interface {
	Create(ctx context.Context, m *domain.Memo) error
	Get(ctx context.Context, ownerID, id int64) (*domain.Memo, error)
	List(ctx context.Context, ownerID int64, limit int, cursor string) ([]domain.Memo, string, error)
	ListAll(ctx context.Context, ownerID int64) ([]domain.Memo, error)
	Update(ctx context.Context, m *domain.Memo) error
	Delete(ctx context.Context, ownerID, id int64) error
}

// Export is a plain-text attachment.
type Export struct {
	Filename string
	Content  string
}

type MemoService struct {
	repo MemoRepository
	loc  *time.Location
	now  func() time.Time
}

func NewMemoService(repo MemoRepository, loc *time.Location, now func() time.Time) *MemoService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &MemoService{repo: repo, loc: loc, now: now}
}

func (s *MemoService) Create(ctx context.Context, ownerID int64, title, body string) (*domain.Memo, error) {
	if strings.TrimSpace(body) == "" {
		return nil, domain.ErrEmptyBody
	}
	m := &domain.Memo{
		OwnerID: ownerID,
		Title:   domain.DeriveTitle(title, body),
		Body:    body,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("memoRepo.Create: %w", err)
	}
	return m, nil
}

func (s *MemoService) Get(ctx context.Context, ownerID, id int64) (*domain.Memo, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// List returns the owner's memos, newest sequence first.
func (s *MemoService) List(ctx context.Context, ownerID int64, limit int, cursor string) ([]domain.Memo, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, ownerID, limit, cursor)
}

func (s *MemoService) Update(ctx context.Context, ownerID, id int64, title, body string) (*domain.Memo, error) {
	if strings.TrimSpace(body) == "" {
		return nil, domain.ErrEmptyBody
	}
	m := &domain.Memo{
		ID:      id,
		OwnerID: ownerID,
		Title:   domain.DeriveTitle(title, body),
		Body:    body,
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MemoService) Delete(ctx context.Context, ownerID, id int64) error {
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *MemoService) ExportOne(ctx context.Context, ownerID, id int64) (*Export, error) {
	m, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return &Export{
		Filename: SafeFilename(m.Title) + ".txt",
		Content:  s.memoText(m) + "\n",
	}, nil
}

func (s *MemoService) ExportAll(ctx context.Context, ownerID int64) (*Export, error) {
	memos, err := s.repo.ListAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("memoRepo.ListAll: %w", err)
	}

	content := "No memos yet.\n"
	if len(memos) > 0 {
		blocks := make([]string, 0, len(memos))
		for i := range memos {
			blocks = append(blocks, s.memoText(&memos[i]))
		}
		sep := "\n\n" + strings.Repeat("-", exportSeparatorWidth) + "\n\n"
		content = strings.Join(blocks, sep) + "\n"
	}

	return &Export{
		Filename: fmt.Sprintf("all_memos_%s.txt", s.now().In(s.loc).Format("20060102_150405")),
		Content:  content,
	}, nil
}

func (s *MemoService) memoText(m *domain.Memo) string {
	return strings.Join([]string{
		fmt.Sprintf("ID: %d", m.SequenceID),
		"Created: " + m.CreatedAt.In(s.loc).Format(exportTimeLayout),
		"Title: " + m.Title,
		"Body:",
		m.Body,
	}, "\n")
}

// SafeFilename strips characters that are not allowed in file names on common
// filesystems and caps the length.
func SafeFilename(title string) string {
	cleaned := strings.TrimSpace(title)
	for _, ch := range `<>:"/\|?*` {
		cleaned = strings.ReplaceAll(cleaned, string(ch), "_")
	}
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = strings.TrimRight(cleaned, ". ")
	if cleaned == "" {
		cleaned = "memo"
	}
	if r := []rune(cleaned); len(r) > exportFilenameRunes {
		cleaned = string(r[:exportFilenameRunes])
	}
	return cleaned
}
