package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/labdesk/workbench/internal/domain"
	"github.com/labdesk/workbench/internal/roulette"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Publisher receives every successful draw; delivery is best-effort.
type Publisher interface {
	PublishDraw(ctx context.Context, d *Draw)
}

type DrawGroup struct {
	Members   []domain.Member // presenter first
	Imbalance int
}

func (g DrawGroup) Presenter() domain.Member {
	return g.Members[0]
}

type Draw struct {
	ID        string
	CreatedAt time.Time
	Groups    []DrawGroup
}

type RouletteService struct {
	members MemberRepository
	engine  *roulette.Engine
	pub     Publisher
	now     func() time.Time
}

func NewRouletteService(members MemberRepository, engine *roulette.Engine, pub Publisher) *RouletteService {
	if engine == nil {
		engine = roulette.NewEngine(nil)
	}
	return &RouletteService{
		members: members,
		engine:  engine,
		pub:     pub,
		now:     time.Now,
	}
}

// Draw loads the selected members and splits them into one group per presenter.
func (s *RouletteService) Draw(ctx context.Context, participantIDs, presenterIDs []int64) (*Draw, error) {
	participantIDs = lo.Uniq(participantIDs)
	presenterIDs = lo.Uniq(presenterIDs)
	if len(participantIDs) == 0 {
		return nil, domain.ErrNoParticipants
	}
	if len(presenterIDs) == 0 {
		return nil, roulette.ErrNoPresenters
	}

	members, err := s.members.ListByIDs(ctx, participantIDs)
	if err != nil {
		return nil, fmt.Errorf("memberRepo.ListByIDs: %w", err)
	}
	if len(members) != len(participantIDs) {
		found := lo.Map(members, func(m domain.Member, _ int) int64 { return m.ID })
		missing, _ := lo.Difference(participantIDs, found)
		return nil, fmt.Errorf("%w: %v", domain.ErrMemberNotFound, missing)
	}

	byID := lo.KeyBy(members, func(m domain.Member) string { return formatID(m.ID) })
	participants := lo.Map(members, func(m domain.Member, _ int) roulette.Participant {
		return roulette.Participant{ID: formatID(m.ID), Category: roulette.Category(m.ResearchGroup)}
	})

	groups, err := s.engine.Assign(participants, lo.Map(presenterIDs, func(id int64, _ int) string { return formatID(id) }))
	if err != nil {
		return nil, err
	}

	draw := &Draw{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
		Groups:    make([]DrawGroup, 0, len(groups)),
	}
	for _, g := range groups {
		draw.Groups = append(draw.Groups, DrawGroup{
			Members:   lo.Map(g.Members, func(p roulette.Participant, _ int) domain.Member { return byID[p.ID] }),
			Imbalance: g.Imbalance(),
		})
	}

	slog.InfoContext(ctx, "roulette draw",
		"draw_id", draw.ID, "participants", len(participants), "groups", len(draw.Groups))

	if s.pub != nil {
		s.pub.PublishDraw(ctx, draw)
	}
	return draw, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
