package ws

import "github.com/labdesk/workbench/internal/service"

const (
	TypeReady = "ready" // sent once after subscribe
	TypeDraw  = "draw"  // a new roulette result
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type ReadyPayload struct {
	Topic       string `json:"topic"`
	Subscribers int    `json:"subscribers"`
}

type DrawPayload struct {
	DrawID    string             `json:"draw_id"`
	CreatedAt int64              `json:"created_at_unix"`
	Groups    []DrawGroupPayload `json:"groups"`
}

type DrawGroupPayload struct {
	Presenter string   `json:"presenter"`
	Members   []string `json:"members"`
}

func NewDrawPayload(d *service.Draw) DrawPayload {
	p := DrawPayload{
		DrawID:    d.ID,
		CreatedAt: d.CreatedAt.Unix(),
		Groups:    make([]DrawGroupPayload, 0, len(d.Groups)),
	}
	for _, g := range d.Groups {
		names := make([]string, 0, len(g.Members))
		for _, m := range g.Members {
			names = append(names, m.Name)
		}
		p.Groups = append(p.Groups, DrawGroupPayload{Presenter: g.Presenter().Name, Members: names})
	}
	return p
}
