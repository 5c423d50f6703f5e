package http

import (
	"time"

	"github.com/labdesk/workbench/internal/domain"
	"github.com/labdesk/workbench/internal/service"
)

type CreateMemberRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	ResearchGroup string `json:"research_group" validate:"required,oneof=COMM GRAPH"`
}

type UpdateMemberRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=100"`
	ResearchGroup *string `json:"research_group" validate:"omitempty,oneof=COMM GRAPH"`
	IsActive      *bool   `json:"is_active"`
}

type MemberItem struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	ResearchGroup      string    `json:"research_group"`
	ResearchGroupLabel string    `json:"research_group_label"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

type MembersListResponse struct {
	Items []MemberItem `json:"items"`
}

type DrawRequest struct {
	Participants []int64 `json:"participants" validate:"dive,gt=0"`
	Presenters   []int64 `json:"presenters" validate:"dive,gt=0"`
}

type DrawGroupItem struct {
	Presenter MemberItem     `json:"presenter"`
	Members   []MemberItem   `json:"members"`
	Counts    map[string]int `json:"counts"`
	Imbalance int            `json:"imbalance"`
}

type DrawResponse struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Groups    []DrawGroupItem `json:"groups"`
}

type MemoRequest struct {
	Title string `json:"title" validate:"max=200"`
	Body  string `json:"body" validate:"required"`
}

type MemoItem struct {
	ID         int64     `json:"id"`
	SequenceID int64     `json:"sequence_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type MemosListResponse struct {
	Items      []MemoItem `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func toMemberItem(m domain.Member) MemberItem {
	return MemberItem{
		ID:                 m.ID,
		Name:               m.Name,
		ResearchGroup:      string(m.ResearchGroup),
		ResearchGroupLabel: m.ResearchGroup.Label(),
		IsActive:           m.IsActive,
		CreatedAt:          m.CreatedAt,
	}
}

func toMemoItem(m domain.Memo) MemoItem {
	return MemoItem{
		ID:         m.ID,
		SequenceID: m.SequenceID,
		Title:      m.Title,
		Body:       m.Body,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toDrawResponse(d *service.Draw) DrawResponse {
	resp := DrawResponse{ID: d.ID, CreatedAt: d.CreatedAt, Groups: make([]DrawGroupItem, 0, len(d.Groups))}
	for _, g := range d.Groups {
		item := DrawGroupItem{
			Presenter: toMemberItem(g.Presenter()),
			Members:   make([]MemberItem, 0, len(g.Members)),
			Counts:    map[string]int{string(domain.GroupComm): 0, string(domain.GroupGraph): 0},
			Imbalance: g.Imbalance,
		}
		for _, m := range g.Members {
			item.Members = append(item.Members, toMemberItem(m))
			item.Counts[string(m.ResearchGroup)]++
		}
		resp.Groups = append(resp.Groups, item)
	}
	return resp
}
