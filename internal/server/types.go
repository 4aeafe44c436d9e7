package server

import (
	"time"

	"pears2pears/internal/game"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type cardView struct {
	ID      uuid.UUID `json:"id"`
	Kind    string    `json:"kind"`
	Text    string    `json:"text"`
	Extra   string    `json:"extra,omitempty"`
	Display string    `json:"display"`
}

type playerView struct {
	ID        uuid.UUID `json:"id"`
	Nickname  string    `json:"nickname"`
	Score     int       `json:"score"`
	Role      string    `json:"role"`
	Connected bool      `json:"connected"`
	Host      bool      `json:"host"`
	HandSize  int       `json:"hand_size"`
	Submitted bool      `json:"submitted"`
	Idle      bool      `json:"idle"`
}

type submissionView struct {
	Card     cardView  `json:"card"`
	PlayerID uuid.UUID `json:"player_id,omitzero"`
}

type roundView struct {
	ID          uuid.UUID        `json:"id"`
	Number      int              `json:"number"`
	JudgeID     uuid.UUID        `json:"judge_id"`
	Prompt      cardView         `json:"prompt"`
	Submitted   int              `json:"submitted"`
	Needed      int              `json:"needed"`
	Submissions []submissionView `json:"submissions,omitempty"`
	WinnerID    uuid.UUID        `json:"winner_id,omitzero"`
	WinningCard *cardView        `json:"winning_card,omitempty"`
	StartedAt   time.Time        `json:"started_at"`
	EndedAt     time.Time        `json:"ended_at,omitzero"`
}

type gameView struct {
	ID           uuid.UUID    `json:"id"`
	Code         string       `json:"code"`
	Phase        string       `json:"phase"`
	Status       string       `json:"status"`
	WinningScore int          `json:"winning_score"`
	HostID       uuid.UUID    `json:"host_id,omitzero"`
	JudgeID      uuid.UUID    `json:"judge_id,omitzero"`
	WinnerID     uuid.UUID    `json:"winner_id,omitzero"`
	Players      []playerView `json:"players"`
	Round        *roundView   `json:"round,omitempty"`
	RoundsPlayed int          `json:"rounds_played"`
	ResponseDeck int          `json:"response_deck"`
	PromptDeck   int          `json:"prompt_deck"`
	CreatedAt    time.Time    `json:"created_at"`
	StartedAt    time.Time    `json:"started_at,omitzero"`
	EndedAt      time.Time    `json:"ended_at,omitzero"`
}

type summaryView struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Phase     string    `json:"phase"`
	Status    string    `json:"status"`
	Players   int       `json:"players"`
	CreatedAt time.Time `json:"created_at"`
}

type leaderboardEntry struct {
	Rank     int       `json:"rank"`
	PlayerID uuid.UUID `json:"player_id"`
	Nickname string    `json:"nickname"`
	Score    int       `json:"score"`
}

func buildCardView(card game.Card) cardView {
	return cardView{
		ID:      card.ID(),
		Kind:    card.Kind().String(),
		Text:    card.Text(),
		Extra:   card.Extra(),
		Display: card.DisplayText(),
	}
}

func buildCardViews(cards []game.Card) []cardView {
	return lo.Map(cards, func(card game.Card, _ int) cardView {
		return buildCardView(card)
	})
}

func buildGameView(g *game.Game, inactive time.Duration) gameView {
	now := time.Now().UTC()
	round := g.CurrentRound()
	view := gameView{
		ID:           g.ID(),
		Code:         g.Code().String(),
		Phase:        g.Phase().String(),
		Status:       string(g.Status()),
		WinningScore: g.WinningScore(),
		RoundsPlayed: len(g.Rounds()),
		ResponseDeck: g.ResponseDeckSize(),
		PromptDeck:   g.PromptDeckSize(),
		CreatedAt:    g.CreatedAt(),
		StartedAt:    g.StartedAt(),
		EndedAt:      g.EndedAt(),
	}
	if host := g.Host(); host != nil {
		view.HostID = host.ID()
	}
	if judge := g.CurrentJudge(); judge != nil {
		view.JudgeID = judge.ID()
	}
	if winner := g.Winner(); winner != nil {
		view.WinnerID = winner.ID()
	}
	view.Players = lo.Map(g.Players(), func(player *game.Player, _ int) playerView {
		return playerView{
			ID:        player.ID(),
			Nickname:  player.Nickname(),
			Score:     player.Score().Value(),
			Role:      player.Role().String(),
			Connected: player.IsConnected(),
			Host:      player.IsHost(),
			HandSize:  player.HandSize(),
			Submitted: round != nil && round.HasSubmitted(player.ID()),
			Idle:      inactive > 0 && player.IsInactive(now, inactive),
		}
	})
	if round != nil {
		view.Round = buildRoundView(g, round)
	}
	return view
}

// buildRoundView hides submissions while cards are still being played and
// hides who played what until the round is complete.
func buildRoundView(g *game.Game, round *game.Round) *roundView {
	view := &roundView{
		ID:        round.ID(),
		Number:    round.Number(),
		JudgeID:   round.JudgeID(),
		Prompt:    buildCardView(round.Prompt()),
		Submitted: round.SubmissionCount(),
		Needed:    max(g.PlayerCount()-1, 0),
		StartedAt: round.StartedAt(),
		EndedAt:   round.EndedAt(),
	}
	switch {
	case round.IsComplete():
		for playerID, card := range round.Submissions() {
			view.Submissions = append(view.Submissions, submissionView{Card: buildCardView(card), PlayerID: playerID})
		}
		if winner, ok := round.Winner(); ok {
			view.WinnerID = winner
		}
		if card, ok := round.WinningCard(); ok {
			winning := buildCardView(card)
			view.WinningCard = &winning
		}
	case g.Phase() == game.PhaseJudging && isCurrentRound(g, round):
		for _, card := range g.ShuffledSubmissions() {
			view.Submissions = append(view.Submissions, submissionView{Card: buildCardView(card)})
		}
	}
	return view
}

func isCurrentRound(g *game.Game, round *game.Round) bool {
	current := g.CurrentRound()
	return current != nil && current.ID() == round.ID()
}

func buildLeaderboard(g *game.Game) []leaderboardEntry {
	board := g.Leaderboard()
	entries := make([]leaderboardEntry, 0, len(board))
	for i, player := range board {
		rank := i + 1
		if i > 0 && player.Score().Value() == board[i-1].Score().Value() {
			rank = entries[i-1].Rank
		}
		entries = append(entries, leaderboardEntry{
			Rank:     rank,
			PlayerID: player.ID(),
			Nickname: player.Nickname(),
			Score:    player.Score().Value(),
		})
	}
	return entries
}

func buildSummaryViews(summaries []GameSummary) []summaryView {
	return lo.Map(summaries, func(summary GameSummary, _ int) summaryView {
		return summaryView{
			ID:        summary.ID,
			Code:      summary.Code.String(),
			Phase:     summary.Phase.String(),
			Status:    string(summary.Status),
			Players:   summary.Players,
			CreatedAt: summary.CreatedAt,
		}
	})
}

func (s *Server) inactiveTimeout() time.Duration {
	return time.Duration(s.cfg.InactiveSeconds) * time.Second
}
