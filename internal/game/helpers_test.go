package game

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeClock struct {
	at time.Time
}

func (c *fakeClock) Now() time.Time {
	c.at = c.at.Add(time.Second)
	return c.at
}

func testOptions() []Option {
	clock := &fakeClock{at: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return []Option{
		WithClock(clock.Now),
		WithShuffler(rand.New(rand.NewPCG(7, 11))),
	}
}

func responseCards(t *testing.T, n int) []Card {
	t.Helper()
	cards := make([]Card, 0, n)
	for i := range n {
		card, err := NewResponseCard(fmt.Sprintf("response %d", i+1), "")
		if err != nil {
			t.Fatalf("new response card: %v", err)
		}
		cards = append(cards, card)
	}
	return cards
}

func promptCards(t *testing.T, n int) []Card {
	t.Helper()
	cards := make([]Card, 0, n)
	for i := range n {
		card, err := NewPromptCard(fmt.Sprintf("prompt %d", i+1), "")
		if err != nil {
			t.Fatalf("new prompt card: %v", err)
		}
		cards = append(cards, card)
	}
	return cards
}

// newLobby returns a waiting game with the host plus extra players named
// Ben, Cam, Dee, ... and decks of the given sizes.
func newLobby(t *testing.T, players, responses, prompts int) *Game {
	t.Helper()
	g, err := New("Ada", DefaultWinningScore, testOptions()...)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	names := []string{"Ben", "Cam", "Dee", "Eve", "Fin", "Gus", "Hal"}
	for i := 0; i < players-1; i++ {
		if _, err := g.AddPlayer(names[i]); err != nil {
			t.Fatalf("add player %s: %v", names[i], err)
		}
	}
	if err := g.InitializeDecks(responseCards(t, responses), promptCards(t, prompts)); err != nil {
		t.Fatalf("initialize decks: %v", err)
	}
	return g
}

func newStartedGame(t *testing.T, players int) *Game {
	t.Helper()
	g := newLobby(t, players, 50, 20)
	if err := g.StartGame(); err != nil {
		t.Fatalf("start game: %v", err)
	}
	return g
}

func playerByName(t *testing.T, g *Game, name string) *Player {
	t.Helper()
	for _, player := range g.Players() {
		if player.Nickname() == name {
			return player
		}
	}
	t.Fatalf("player %s not found", name)
	return nil
}

func judgeID(t *testing.T, g *Game) uuid.UUID {
	t.Helper()
	judge := g.CurrentJudge()
	if judge == nil {
		t.Fatalf("expected a judge")
	}
	return judge.ID()
}

// playAll submits the first card of every non-judge player still to play.
func playAll(t *testing.T, g *Game) {
	t.Helper()
	round := g.CurrentRound()
	for _, player := range g.Players() {
		if player.IsJudge() || (round != nil && round.HasSubmitted(player.ID())) {
			continue
		}
		hand := player.Hand()
		if len(hand) == 0 {
			t.Fatalf("player %s has no cards", player.Nickname())
		}
		if err := g.PlayCard(player.ID(), hand[0].ID()); err != nil {
			t.Fatalf("play card for %s: %v", player.Nickname(), err)
		}
	}
}
