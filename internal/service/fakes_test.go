package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/labdesk/workbench/internal/domain"
)

type memMemberRepo struct {
	mu      sync.Mutex
	members map[int64]domain.Member
	nextID  int64
	err     error
}

func newMemMemberRepo(ms ...domain.Member) *memMemberRepo {
	r := &memMemberRepo{members: map[int64]domain.Member{}}
	for _, m := range ms {
		r.members[m.ID] = m
		if m.ID > r.nextID {
			r.nextID = m.ID
		}
	}
	return r
}

func (r *memMemberRepo) Create(_ context.Context, m *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = time.Now()
	r.members[m.ID] = *m
	return nil
}

func (r *memMemberRepo) Get(_ context.Context, id int64) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return &m, nil
}

func (r *memMemberRepo) ListActive(_ context.Context) ([]domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Member
	for _, m := range r.members {
		if m.IsActive {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memMemberRepo) ListByIDs(_ context.Context, ids []int64) ([]domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Member
	for _, id := range ids {
		if m, ok := r.members[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMemberRepo) Update(_ context.Context, m *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[m.ID]; !ok {
		return domain.ErrMemberNotFound
	}
	r.members[m.ID] = *m
	return nil
}

func (r *memMemberRepo) SetActive(_ context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return domain.ErrMemberNotFound
	}
	m.IsActive = active
	r.members[id] = m
	return nil
}

type memMemoRepo struct {
	mu    sync.Mutex
	memos []domain.Memo
	next  int64
}

func (r *memMemoRepo) Create(_ context.Context, m *domain.Memo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var seq int64
	for _, x := range r.memos {
		if x.OwnerID == m.OwnerID && x.SequenceID > seq {
			seq = x.SequenceID
		}
	}
	r.next++
	m.ID = r.next
	m.SequenceID = seq + 1
	m.CreatedAt = time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC)
	m.UpdatedAt = m.CreatedAt
	r.memos = append(r.memos, *m)
	return nil
}

func (r *memMemoRepo) find(ownerID, id int64) int {
	for i, x := range r.memos {
		if x.OwnerID == ownerID && x.ID == id {
			return i
		}
	}
	return -1
}

func (r *memMemoRepo) Get(_ context.Context, ownerID, id int64) (*domain.Memo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.find(ownerID, id)
	if i < 0 {
		return nil, domain.ErrMemoNotFound
	}
	m := r.memos[i]
	return &m, nil
}

func (r *memMemoRepo) List(_ context.Context, ownerID int64, limit int, _ string) ([]domain.Memo, string, error) {
	all, _ := r.ListAll(context.Background(), ownerID)
	sort.Slice(all, func(i, j int) bool { return all[i].SequenceID > all[j].SequenceID })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, "", nil
}

func (r *memMemoRepo) ListAll(_ context.Context, ownerID int64) ([]domain.Memo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Memo
	for _, x := range r.memos {
		if x.OwnerID == ownerID {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceID < out[j].SequenceID })
	return out, nil
}

func (r *memMemoRepo) Update(_ context.Context, m *domain.Memo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.find(m.OwnerID, m.ID)
	if i < 0 {
		return domain.ErrMemoNotFound
	}
	r.memos[i].Title, r.memos[i].Body = m.Title, m.Body
	m.SequenceID, m.CreatedAt = r.memos[i].SequenceID, r.memos[i].CreatedAt
	return nil
}

func (r *memMemoRepo) Delete(_ context.Context, ownerID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.find(ownerID, id)
	if i < 0 {
		return domain.ErrMemoNotFound
	}
	r.memos = append(r.memos[:i], r.memos[i+1:]...)
	return nil
}

type recordingPublisher struct {
	draws []*Draw
}

func (p *recordingPublisher) PublishDraw(_ context.Context, d *Draw) {
	p.draws = append(p.draws, d)
}

var errBoom = errors.New("boom")
