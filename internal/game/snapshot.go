package game

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is the complete persisted shape of a game. Restore(g.Snapshot())
// yields a game that behaves identically to g.
type Snapshot struct {
	ID             uuid.UUID
	Code           Code
	Phase          Phase
	WinningScore   int
	WinnerID       uuid.UUID
	CreatedAt      time.Time
	StartedAt      time.Time
	EndedAt        time.Time
	JudgeSeat      int
	ResponseDeck   []Card
	PromptDeck     []Card
	Players        []PlayerSnapshot
	Rounds         []RoundSnapshot
	CurrentRoundID uuid.UUID
}

type PlayerSnapshot struct {
	ID           uuid.UUID
	Nickname     string
	Score        int
	Role         Role
	Hand         []Card
	Connected    bool
	Host         bool
	JoinedAt     time.Time
	LastActiveAt time.Time
}

type RoundSnapshot struct {
	ID           uuid.UUID
	Number       int
	JudgeID      uuid.UUID
	Prompt       Card
	Submissions  map[uuid.UUID]Card
	WinnerID     uuid.UUID
	StartedAt    time.Time
	EndedAt      time.Time
	AllSubmitted bool
}

func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		ID:           g.id,
		Code:         g.code,
		Phase:        g.phase,
		WinningScore: g.winningScore,
		WinnerID:     g.winnerID,
		CreatedAt:    g.createdAt,
		StartedAt:    g.startedAt,
		EndedAt:      g.endedAt,
		JudgeSeat:    g.judgeSeat,
		ResponseDeck: append(make([]Card, 0, len(g.responseDeck)), g.responseDeck...),
		PromptDeck:   append(make([]Card, 0, len(g.promptDeck)), g.promptDeck...),
		Players:      make([]PlayerSnapshot, 0, len(g.players)),
		Rounds:       make([]RoundSnapshot, 0, len(g.rounds)),
	}
	for _, player := range g.players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:           player.id,
			Nickname:     player.nickname,
			Score:        player.score.Value(),
			Role:         player.role,
			Hand:         append(make([]Card, 0, player.hand.Len()), player.hand.cards...),
			Connected:    player.connected,
			Host:         player.host,
			JoinedAt:     player.joinedAt,
			LastActiveAt: player.lastActiveAt,
		})
	}
	for _, round := range g.rounds {
		snap.Rounds = append(snap.Rounds, RoundSnapshot{
			ID:           round.id,
			Number:       round.number,
			JudgeID:      round.judgeID,
			Prompt:       round.prompt,
			Submissions:  round.Submissions(),
			WinnerID:     round.winnerID,
			StartedAt:    round.startedAt,
			EndedAt:      round.endedAt,
			AllSubmitted: round.allSubmitted,
		})
	}
	if g.current != nil {
		snap.CurrentRoundID = g.current.id
	}
	return snap
}

// Restore rebuilds a game from a snapshot, checking the invariants a live
// game maintains.
func Restore(snap Snapshot, opts ...Option) (*Game, error) {
	if snap.ID == uuid.Nil {
		return nil, failf(ErrInvalidArgument, "game id is required")
	}
	code, err := ParseCode(string(snap.Code))
	if err != nil {
		return nil, err
	}
	if err := validateWinningScore(snap.WinningScore); err != nil {
		return nil, err
	}
	if _, ok := phaseNames[snap.Phase]; !ok {
		return nil, failf(ErrInvalidArgument, "unknown phase %d", snap.Phase)
	}
	if len(snap.Players) > MaxPlayers {
		return nil, failf(ErrCapacityExceeded, "game holds %d players (max %d)", len(snap.Players), MaxPlayers)
	}

	g := newGame(opts...)
	g.id = snap.ID
	g.code = code
	g.phase = snap.Phase
	g.winningScore = snap.WinningScore
	g.winnerID = snap.WinnerID
	g.createdAt = normalizeTime(snap.CreatedAt)
	g.startedAt = normalizeTime(snap.StartedAt)
	g.endedAt = normalizeTime(snap.EndedAt)
	g.judgeSeat = snap.JudgeSeat
	if g.judgeSeat < -1 {
		g.judgeSeat = -1
	}

	if err := checkDeck(snap.ResponseDeck, KindResponse); err != nil {
		return nil, err
	}
	if err := checkDeck(snap.PromptDeck, KindPrompt); err != nil {
		return nil, err
	}
	g.responseDeck = append([]Card(nil), snap.ResponseDeck...)
	g.promptDeck = append([]Card(nil), snap.PromptDeck...)

	judges := 0
	for _, ps := range snap.Players {
		player, err := restorePlayer(ps)
		if err != nil {
			return nil, err
		}
		if g.nicknameTaken(player.nickname, uuid.Nil) || g.playerIndex(player.id) >= 0 {
			return nil, failf(ErrConflict, "player %q appears twice", player.nickname)
		}
		if player.IsJudge() {
			judges++
		}
		g.players = append(g.players, player)
	}
	if judges > 1 {
		return nil, failf(ErrConflict, "game has %d judges", judges)
	}

	for i, rs := range snap.Rounds {
		if rs.Number != i+1 {
			return nil, failf(ErrInvalidArgument, "round %d stored at position %d", rs.Number, i+1)
		}
		round, err := restoreRound(g.id, rs)
		if err != nil {
			return nil, err
		}
		g.rounds = append(g.rounds, round)
		if round.id == snap.CurrentRoundID {
			g.current = round
		}
	}
	if snap.CurrentRoundID != uuid.Nil && g.current == nil {
		return nil, failf(ErrNotFound, "current round %s not in history", snap.CurrentRoundID)
	}
	return g, nil
}

func restorePlayer(ps PlayerSnapshot) (*Player, error) {
	if ps.ID == uuid.Nil {
		return nil, failf(ErrInvalidArgument, "player id is required")
	}
	name, err := ValidateNickname(ps.Nickname)
	if err != nil {
		return nil, err
	}
	score, err := NewScore(ps.Score)
	if err != nil {
		return nil, err
	}
	if _, err := ParseRole(ps.Role.String()); err != nil {
		return nil, err
	}
	player := &Player{
		id:           ps.ID,
		nickname:     name,
		score:        score,
		role:         ps.Role,
		connected:    ps.Connected,
		host:         ps.Host,
		joinedAt:     normalizeTime(ps.JoinedAt),
		lastActiveAt: normalizeTime(ps.LastActiveAt),
	}
	if err := player.hand.AddAll(ps.Hand); err != nil {
		return nil, err
	}
	return player, nil
}

func restoreRound(gameID uuid.UUID, rs RoundSnapshot) (*Round, error) {
	round, err := NewRound(gameID, rs.Number, rs.JudgeID, rs.Prompt, normalizeTime(rs.StartedAt))
	if err != nil {
		return nil, err
	}
	if rs.ID == uuid.Nil {
		return nil, failf(ErrInvalidArgument, "round id is required")
	}
	round.id = rs.ID
	for playerID, card := range rs.Submissions {
		if err := round.Submit(playerID, card); err != nil {
			return nil, err
		}
	}
	if rs.WinnerID != uuid.Nil {
		if !round.HasSubmitted(rs.WinnerID) {
			return nil, failf(ErrNotFound, "round %d winner %s has no submission", rs.Number, rs.WinnerID)
		}
		round.winnerID = rs.WinnerID
	}
	round.endedAt = normalizeTime(rs.EndedAt)
	round.allSubmitted = rs.AllSubmitted
	return round, nil
}

func checkDeck(deck []Card, kind CardKind) error {
	for _, card := range deck {
		if card.IsZero() || card.kind != kind {
			return failf(ErrInvalidArgument, "%s deck holds a %s card", kind, card.kind)
		}
	}
	return nil
}
