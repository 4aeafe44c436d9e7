package game

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxCardTextLength   = 100
	MaxPromptTextLength = 50
)

type CardKind int

const (
	KindPrompt CardKind = iota + 1
	KindResponse
)

func (k CardKind) String() string {
	switch k {
	case KindPrompt:
		return "prompt"
	case KindResponse:
		return "response"
	default:
		return "unknown"
	}
}

func ParseCardKind(raw string) (CardKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "prompt":
		return KindPrompt, nil
	case "response":
		return KindResponse, nil
	default:
		return 0, failf(ErrInvalidArgument, "unknown card kind %q", raw)
	}
}

// Card is either a prompt card, shown by the judge, or a response card held
// in hands. Extra holds synonyms for prompts and a description for responses.
type Card struct {
	id        uuid.UUID
	kind      CardKind
	text      string
	extra     string
	createdAt time.Time
}

func NewPromptCard(text, synonyms string) (Card, error) {
	return newCard(uuid.New(), KindPrompt, text, synonyms, nowUTC())
}

func NewResponseCard(text, description string) (Card, error) {
	return newCard(uuid.New(), KindResponse, text, description, nowUTC())
}

// RestoreCard rebuilds a card from stored fields, applying the same rules as
// the constructors.
func RestoreCard(id uuid.UUID, kind CardKind, text, extra string, createdAt time.Time) (Card, error) {
	if id == uuid.Nil {
		return Card{}, failf(ErrInvalidArgument, "card id is required")
	}
	return newCard(id, kind, text, extra, createdAt.UTC())
}

func newCard(id uuid.UUID, kind CardKind, text, extra string, createdAt time.Time) (Card, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Card{}, failf(ErrInvalidArgument, "card text cannot be empty")
	}
	limit := MaxCardTextLength
	switch kind {
	case KindPrompt:
		limit = MaxPromptTextLength
	case KindResponse:
	default:
		return Card{}, failf(ErrInvalidArgument, "unknown card kind %d", kind)
	}
	if utf8.RuneCountInString(trimmed) > limit {
		return Card{}, failf(ErrInvalidArgument, "%s card text must be %d characters or fewer", kind, limit)
	}
	return Card{
		id:        id,
		kind:      kind,
		text:      trimmed,
		extra:     strings.TrimSpace(extra),
		createdAt: createdAt,
	}, nil
}

func (c Card) ID() uuid.UUID { return c.id }
func (c Card) Kind() CardKind { return c.kind }
func (c Card) Text() string { return c.text }
func (c Card) Extra() string { return c.extra }
func (c Card) CreatedAt() time.Time { return c.createdAt }
func (c Card) IsZero() bool { return c.id == uuid.Nil }

// WithExtra returns a copy carrying the given secondary text. Blank input
// leaves the card unchanged.
func (c Card) WithExtra(extra string) Card {
	if trimmed := strings.TrimSpace(extra); trimmed != "" {
		c.extra = trimmed
	}
	return c
}

// PlayableBy reports whether a player holding role may play this card.
func (c Card) PlayableBy(role Role) bool {
	switch c.kind {
	case KindPrompt:
		return role == RoleJudge
	case KindResponse:
		return role == RolePlayer
	default:
		return false
	}
}

func (c Card) DisplayText() string {
	if c.extra == "" {
		return c.text
	}
	if c.kind == KindPrompt {
		return c.text + "\n(" + c.extra + ")"
	}
	return c.text + "\n" + c.extra
}

func (c Card) String() string {
	return c.kind.String() + " card: " + c.text
}
