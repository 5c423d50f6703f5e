package roulette

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrValidation                = errors.New("roulette: validation failed")
	ErrNoPresenters              = fmt.Errorf("%w: no presenters selected", ErrValidation)
	ErrPresenterNotParticipating = fmt.Errorf("%w: presenter is not participating", ErrValidation)
	ErrDuplicateParticipant      = fmt.Errorf("%w: duplicate participant", ErrValidation)
)

type Category string

const (
	CategoryComm  Category = "COMM"
	CategoryGraph Category = "GRAPH"
)

type Participant struct {
	ID       string
	Category Category
}

// Group holds one team; the presenter is always Members[0].
type Group struct {
	Members []Participant
}

func (g Group) Presenter() Participant {
	return g.Members[0]
}

func (g Group) Count(c Category) int {
	n := 0
	for _, m := range g.Members {
		if m.Category == c {
			n++
		}
	}
	return n
}

// Imbalance is |COMM - GRAPH| for the group.
func (g Group) Imbalance() int {
	d := g.Count(CategoryComm) - g.Count(CategoryGraph)
	if d < 0 {
		return -d
	}
	return d
}

// Shuffler is satisfied by *rand.Rand.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

func DefaultShuffler() Shuffler { return globalShuffler{} }

type Engine struct {
	rnd Shuffler
}

func NewEngine(rnd Shuffler) *Engine {
	if rnd == nil {
		rnd = DefaultShuffler()
	}
	return &Engine{rnd: rnd}
}

// Assign splits participants into len(presenters) groups, one presenter per group.
// Others are placed greedily: smallest group first, then the group most skewed
// against the member's category. Greedy, not an exact balanced partition.
func (e *Engine) Assign(participants []Participant, presenterIDs []string) ([]Group, error) {
	if len(participants) == 0 {
		return nil, nil
	}
	if len(presenterIDs) == 0 {
		return nil, ErrNoPresenters
	}

	byID := make(map[string]Participant, len(participants))
	for _, p := range participants {
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, p.ID)
		}
		byID[p.ID] = p
	}

	isPresenter := make(map[string]struct{}, len(presenterIDs))
	presenters := make([]Participant, 0, len(presenterIDs))
	for _, id := range presenterIDs {
		if _, seen := isPresenter[id]; seen {
			continue
		}
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPresenterNotParticipating, id)
		}
		isPresenter[id] = struct{}{}
		presenters = append(presenters, p)
	}

	others := make([]Participant, 0, len(participants)-len(presenters))
	for _, p := range participants {
		if _, ok := isPresenter[p.ID]; !ok {
			others = append(others, p)
		}
	}

	e.rnd.Shuffle(len(presenters), func(i, j int) { presenters[i], presenters[j] = presenters[j], presenters[i] })
	e.rnd.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	groups := make([]Group, len(presenters))
	counts := make([]map[Category]int, len(presenters))
	for i, p := range presenters {
		groups[i].Members = append(groups[i].Members, p)
		counts[i] = map[Category]int{p.Category: 1}
	}

	for _, m := range others {
		target := 0
		for i := 1; i < len(groups); i++ {
			if ranksBefore(groups, counts, m.Category, i, target) {
				target = i
			}
		}
		groups[target].Members = append(groups[target].Members, m)
		counts[target][m.Category]++
	}

	return groups, nil
}

// ranksBefore reports whether group i ranks ahead of group j for a member of category c:
// fewer members first, then the lower skew toward c (2*count_c - size).
// Ties keep the lower index.
func ranksBefore(groups []Group, counts []map[Category]int, c Category, i, j int) bool {
	li, lj := len(groups[i].Members), len(groups[j].Members)
	if li != lj {
		return li < lj
	}
	return 2*counts[i][c]-li < 2*counts[j][c]-lj
}
