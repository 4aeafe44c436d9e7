package game

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Round is one judging cycle: a prompt card, one response card per non-judge
// submitter and, once complete, the winning submission.
type Round struct {
	id           uuid.UUID
	gameID       uuid.UUID
	number       int
	judgeID      uuid.UUID
	prompt       Card
	submissions  map[uuid.UUID]Card
	winnerID     uuid.UUID
	startedAt    time.Time
	endedAt      time.Time
	allSubmitted bool
}

func NewRound(gameID uuid.UUID, number int, judgeID uuid.UUID, prompt Card, at time.Time) (*Round, error) {
	if number <= 0 {
		return nil, failf(ErrInvalidArgument, "round number must be positive (got %d)", number)
	}
	if prompt.IsZero() || prompt.kind != KindPrompt {
		return nil, failf(ErrInvalidArgument, "round requires a prompt card")
	}
	if judgeID == uuid.Nil {
		return nil, failf(ErrInvalidArgument, "round requires a judge")
	}
	return &Round{
		id:          uuid.New(),
		gameID:      gameID,
		number:      number,
		judgeID:     judgeID,
		prompt:      prompt,
		submissions: make(map[uuid.UUID]Card),
		startedAt:   at,
	}, nil
}

func (r *Round) ID() uuid.UUID { return r.id }
func (r *Round) GameID() uuid.UUID { return r.gameID }
func (r *Round) Number() int { return r.number }
func (r *Round) JudgeID() uuid.UUID { return r.judgeID }
func (r *Round) Prompt() Card { return r.prompt }
func (r *Round) StartedAt() time.Time { return r.startedAt }
func (r *Round) EndedAt() time.Time { return r.endedAt }

// IsAllSubmitted reports the flag set once every non-judge player submitted.
func (r *Round) IsAllSubmitted() bool { return r.allSubmitted }

// IsComplete reports whether a winner was selected.
func (r *Round) IsComplete() bool {
	return r.winnerID != uuid.Nil && !r.endedAt.IsZero()
}

func (r *Round) Submit(playerID uuid.UUID, card Card) error {
	if r.IsComplete() {
		return failf(ErrIllegalState, "round %d is already complete", r.number)
	}
	if playerID == r.judgeID {
		return failf(ErrRoleDenied, "the judge cannot submit a card")
	}
	if card.kind != KindResponse {
		return failf(ErrInvalidArgument, "only response cards can be submitted")
	}
	if r.HasSubmitted(playerID) {
		return failf(ErrConflict, "player %s already submitted in round %d", playerID, r.number)
	}
	r.submissions[playerID] = card
	return nil
}

func (r *Round) HasSubmitted(playerID uuid.UUID) bool {
	_, ok := r.submissions[playerID]
	return ok
}

func (r *Round) Submission(playerID uuid.UUID) (Card, bool) {
	card, ok := r.submissions[playerID]
	return card, ok
}

// Submissions returns a copy of the submitter to card mapping.
func (r *Round) Submissions() map[uuid.UUID]Card {
	out := make(map[uuid.UUID]Card, len(r.submissions))
	for id, card := range r.submissions {
		out[id] = card
	}
	return out
}

func (r *Round) SubmissionCount() int {
	return len(r.submissions)
}

// ShuffledSubmissions returns the submitted cards in shuffler order so the
// judge cannot tell who played what. A nil shuffler uses math/rand.
func (r *Round) ShuffledSubmissions(shuffler Shuffler) []Card {
	if shuffler == nil {
		shuffler = defaultShuffler{}
	}
	cards := make([]Card, 0, len(r.submissions))
	for _, card := range r.submissions {
		cards = append(cards, card)
	}
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].id.String() < cards[j].id.String()
	})
	shuffler.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}

// AllSubmitted reports whether everyone but the judge has submitted, given
// the number of players in the game.
func (r *Round) AllSubmitted(totalPlayers int) bool {
	return len(r.submissions) >= totalPlayers-1
}

func (r *Round) markAllSubmitted(value bool) {
	r.allSubmitted = value
}

func (r *Round) SelectWinner(winnerID, actingJudgeID uuid.UUID, at time.Time) error {
	if r.IsComplete() {
		return failf(ErrIllegalState, "winner already selected for round %d", r.number)
	}
	if actingJudgeID != r.judgeID {
		return failf(ErrRoleDenied, "only the judge can select a winner")
	}
	if winnerID == r.judgeID {
		return failf(ErrInvalidArgument, "the judge cannot select themselves")
	}
	if !r.HasSubmitted(winnerID) {
		return failf(ErrNotFound, "player %s did not submit in round %d", winnerID, r.number)
	}
	r.winnerID = winnerID
	r.endedAt = at
	return nil
}

// Winner returns the winning player id once the round is complete.
func (r *Round) Winner() (uuid.UUID, bool) {
	if !r.IsComplete() {
		return uuid.Nil, false
	}
	return r.winnerID, true
}

func (r *Round) WinningCard() (Card, bool) {
	if !r.IsComplete() {
		return Card{}, false
	}
	card, ok := r.submissions[r.winnerID]
	return card, ok
}

// RetractSubmission removes a player's card and clears the all-submitted
// flag. The aggregate decides whether the round is complete again.
func (r *Round) RetractSubmission(playerID uuid.UUID) (Card, bool, error) {
	if r.IsComplete() {
		return Card{}, false, failf(ErrIllegalState, "cannot retract from completed round %d", r.number)
	}
	card, ok := r.submissions[playerID]
	delete(r.submissions, playerID)
	r.allSubmitted = false
	return card, ok, nil
}

// Duration is the time since the round started, or its full length once ended.
func (r *Round) Duration(now time.Time) time.Duration {
	if !r.endedAt.IsZero() {
		return r.endedAt.Sub(r.startedAt)
	}
	return now.Sub(r.startedAt)
}

func (r *Round) reassignJudge(judgeID uuid.UUID) {
	r.judgeID = judgeID
}

func (r *Round) clone() *Round {
	cp := *r
	cp.submissions = r.Submissions()
	return &cp
}
