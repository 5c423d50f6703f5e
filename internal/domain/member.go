package domain

import "time"

type ResearchGroup string

const (
	GroupComm  ResearchGroup = "COMM"
	GroupGraph ResearchGroup = "GRAPH"
)

func (g ResearchGroup) Valid() bool {
	return g == GroupComm || g == GroupGraph
}

// Label is the display name of the group.
func (g ResearchGroup) Label() string {
	switch g {
	case GroupComm:
		return "Communications"
	case GroupGraph:
		return "Graphics"
	default:
		return string(g)
	}
}

type Member struct {
	ID            int64         `db:"id"`
	Name          string        `db:"name"`
	ResearchGroup ResearchGroup `db:"research_group"`
	IsActive      bool          `db:"is_active"`
	CreatedAt     time.Time     `db:"created_at"`
}
