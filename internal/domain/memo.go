package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	memoTitleRunes = 20
	UntitledMemo   = "Untitled"
)

type Memo struct {
	ID         int64     `db:"id"`
	OwnerID    int64     `db:"owner_id"`
	SequenceID int64     `db:"sequence_id"`
	Title      string    `db:"title"`
	Body       string    `db:"body"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// DeriveTitle returns title if it is not blank, otherwise the first
// 20 runes of the whitespace-normalised body.
func DeriveTitle(title, body string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	normalized := strings.Join(strings.Fields(body), " ")
	if utf8.RuneCountInString(normalized) > memoTitleRunes {
		normalized = string([]rune(normalized)[:memoTitleRunes])
	}
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return UntitledMemo
	}
	return normalized
}
