package game

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
)

// finishRound plays every hand and crowns the named player, or the first
// non-judge submitter when name is empty.
func finishRound(t *testing.T, g *Game, name string) {
	t.Helper()
	playAll(t, g)
	if g.Phase() != PhaseJudging {
		t.Fatalf("expected judging after all plays, got %s", g.Phase())
	}
	judge := judgeID(t, g)
	var winner uuid.UUID
	for _, player := range g.Players() {
		if player.ID() == judge {
			continue
		}
		if name == "" || player.Nickname() == name {
			winner = player.ID()
			break
		}
	}
	if winner == uuid.Nil {
		t.Fatalf("no winner candidate named %q", name)
	}
	if err := g.SelectWinner(judge, winner); err != nil {
		t.Fatalf("select winner: %v", err)
	}
}

func TestNewGameValidates(t *testing.T) {
	if _, err := New("  ", DefaultWinningScore); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected blank host rejected, got %v", err)
	}
	for _, score := range []int{0, 21} {
		if _, err := New("Ada", score); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected winning score %d rejected, got %v", score, err)
		}
	}
	g, err := New("Ada", DefaultWinningScore, WithCode("QWERTY"))
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if g.Phase() != PhaseWaitingForPlayers || g.Code() != "QWERTY" {
		t.Fatalf("unexpected phase %s or code %s", g.Phase(), g.Code())
	}
	host := g.Host()
	if host == nil || host.Nickname() != "Ada" || g.PlayerCount() != 1 {
		t.Fatalf("expected Ada to host")
	}
	if _, err := New("Ada", DefaultWinningScore, WithCode("bad")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected bad code rejected, got %v", err)
	}
}

func TestAddPlayerRejectsNinthPlayer(t *testing.T) {
	g := newLobby(t, MaxPlayers, 10, 5)
	if _, err := g.AddPlayer("Ivy"); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected capacity exceeded, got %v", err)
	}
	if g.PlayerCount() != MaxPlayers {
		t.Fatalf("expected %d players, got %d", MaxPlayers, g.PlayerCount())
	}
}

func TestAddPlayerRejectsNicknameCollision(t *testing.T) {
	g := newLobby(t, 2, 10, 5)
	if _, err := g.AddPlayer(" ada "); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := g.RenamePlayer(playerByName(t, g, "Ben").ID(), "ADA"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected rename conflict, got %v", err)
	}
	ada := playerByName(t, g, "Ada")
	if err := g.RenamePlayer(ada.ID(), "ADA"); err != nil {
		t.Fatalf("renaming to own name in another case: %v", err)
	}
	if ada.Nickname() != "ADA" {
		t.Fatalf("expected rename to apply, got %q", ada.Nickname())
	}
}

func TestStartGamePreconditions(t *testing.T) {
	g := newLobby(t, 3, 50, 20)
	if err := g.StartGame(); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected too few players rejected, got %v", err)
	}

	g, err := New("Ada", DefaultWinningScore, testOptions()...)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	for _, name := range []string{"Ben", "Cam", "Dee"} {
		if _, err := g.AddPlayer(name); err != nil {
			t.Fatalf("add player: %v", err)
		}
	}
	if err := g.StartGame(); !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("expected empty decks rejected, got %v", err)
	}
	if g.Phase() != PhaseWaitingForPlayers {
		t.Fatalf("failed start changed phase to %s", g.Phase())
	}
}

func TestStartGameDealsHands(t *testing.T) {
	g := newStartedGame(t, 4)
	for _, player := range g.Players() {
		if player.HandSize() != HandSize {
			t.Fatalf("%s holds %d cards, want %d", player.Nickname(), player.HandSize(), HandSize)
		}
	}
	if g.ResponseDeckSize() != 50-4*HandSize {
		t.Fatalf("expected %d response cards left, got %d", 50-4*HandSize, g.ResponseDeckSize())
	}
	if g.PromptDeckSize() != 19 {
		t.Fatalf("expected 19 prompt cards left, got %d", g.PromptDeckSize())
	}
	if g.Phase() != PhasePlayingCards || g.Status() != StatusInProgress {
		t.Fatalf("unexpected phase %s", g.Phase())
	}
	round := g.CurrentRound()
	if round == nil || round.Number() != 1 {
		t.Fatalf("expected round 1 to be running")
	}
	if judge := g.CurrentJudge(); judge == nil || judge.Nickname() != "Ada" || round.JudgeID() != judge.ID() {
		t.Fatalf("expected Ada to judge the first round")
	}
	if err := g.StartGame(); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected second start rejected, got %v", err)
	}
}

func TestStartGameDealsWhatIsLeft(t *testing.T) {
	g := newLobby(t, 4, 10, 3)
	if err := g.StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}
	total := 0
	for _, player := range g.Players() {
		total += player.HandSize()
	}
	if total != 10 || g.ResponseDeckSize() != 0 {
		t.Fatalf("expected the whole deck dealt, dealt %d left %d", total, g.ResponseDeckSize())
	}
}

func TestJudgeRotatesInJoinOrder(t *testing.T) {
	g := newStartedGame(t, 4)
	want := []string{"Ada", "Ben", "Cam", "Dee", "Ada"}
	for i, name := range want {
		judge := g.CurrentJudge()
		if judge == nil || judge.Nickname() != name {
			t.Fatalf("round %d: expected %s to judge, got %v", i+1, name, judge)
		}
		judges := 0
		for _, player := range g.Players() {
			if player.IsJudge() {
				judges++
			}
		}
		if judges != 1 {
			t.Fatalf("round %d: expected one judge, found %d", i+1, judges)
		}
		if i == len(want)-1 {
			break
		}
		finishRound(t, g, "")
		if g.Phase() != PhaseRoundEnd {
			t.Fatalf("expected round end, got %s", g.Phase())
		}
		if err := g.StartNewRound(); err != nil {
			t.Fatalf("start round %d: %v", i+2, err)
		}
	}
	if got := len(g.Rounds()); got != len(want) {
		t.Fatalf("expected %d rounds, got %d", len(want), got)
	}
	for i, round := range g.Rounds() {
		if round.Number() != i+1 {
			t.Fatalf("round at %d numbered %d", i, round.Number())
		}
	}
}

func TestPlayCardRules(t *testing.T) {
	g := newStartedGame(t, 4)
	judge := g.CurrentJudge()
	if err := g.PlayCard(judge.ID(), judge.Hand()[0].ID()); !errors.Is(err, ErrRoleDenied) {
		t.Fatalf("expected judge denied, got %v", err)
	}
	if !errors.Is(ErrRoleDenied, ErrIllegalState) {
		t.Fatalf("role denied should be an illegal state")
	}

	ben := playerByName(t, g, "Ben")
	if err := g.PlayCard(ben.ID(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown card rejected, got %v", err)
	}
	if err := g.PlayCard(uuid.New(), ben.Hand()[0].ID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown player rejected, got %v", err)
	}
	card := ben.Hand()[0]
	if err := g.PlayCard(ben.ID(), card.ID()); err != nil {
		t.Fatalf("play: %v", err)
	}
	if ben.HasCard(card.ID()) || ben.HandSize() != HandSize-1 {
		t.Fatalf("played card should leave the hand")
	}
	if err := g.PlayCard(ben.ID(), ben.Hand()[0].ID()); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected second play rejected, got %v", err)
	}
	if g.Phase() != PhasePlayingCards {
		t.Fatalf("expected to keep playing, got %s", g.Phase())
	}

	for _, name := range []string{"Cam", "Dee"} {
		player := playerByName(t, g, name)
		if err := g.PlayCard(player.ID(), player.Hand()[0].ID()); err != nil {
			t.Fatalf("play %s: %v", name, err)
		}
	}
	if g.Phase() != PhaseJudging || !g.CurrentRound().IsAllSubmitted() {
		t.Fatalf("expected judging once every non-judge played, got %s", g.Phase())
	}
	if err := g.PlayCard(ben.ID(), ben.Hand()[0].ID()); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected play during judging rejected, got %v", err)
	}
}

func TestDisconnectedPlayerCannotPlay(t *testing.T) {
	g := newStartedGame(t, 4)
	ben := playerByName(t, g, "Ben")
	if err := g.SetConnected(ben.ID(), false); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if err := g.PlayCard(ben.ID(), ben.Hand()[0].ID()); !errors.Is(err, ErrRoleDenied) {
		t.Fatalf("expected disconnected player denied, got %v", err)
	}
	if err := g.SetConnected(ben.ID(), true); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	if err := g.PlayCard(ben.ID(), ben.Hand()[0].ID()); err != nil {
		t.Fatalf("play after reconnect: %v", err)
	}
	if err := g.SetConnected(uuid.New(), true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown player, got %v", err)
	}
}

func TestSelectWinnerRules(t *testing.T) {
	g := newStartedGame(t, 4)
	judge := g.CurrentJudge()
	ben := playerByName(t, g, "Ben")
	if err := g.SelectWinner(judge.ID(), ben.ID()); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected selection before judging rejected, got %v", err)
	}
	playAll(t, g)

	if err := g.SelectWinner(ben.ID(), playerByName(t, g, "Cam").ID()); !errors.Is(err, ErrRoleDenied) {
		t.Fatalf("expected non-judge denied, got %v", err)
	}
	if err := g.SelectWinner(judge.ID(), judge.ID()); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected judge self-selection rejected, got %v", err)
	}
	if err := g.SelectWinner(judge.ID(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown winner rejected, got %v", err)
	}
	if err := g.SelectWinner(judge.ID(), ben.ID()); err != nil {
		t.Fatalf("select winner: %v", err)
	}
	if g.Phase() != PhaseRoundEnd {
		t.Fatalf("expected round end, got %s", g.Phase())
	}
	if ben.Score().Value() != 1 || ben.HandSize() != HandSize {
		t.Fatalf("winner should score and refill, score %d hand %d", ben.Score().Value(), ben.HandSize())
	}
	if cam := playerByName(t, g, "Cam"); cam.HandSize() != HandSize-1 {
		t.Fatalf("other players refill at the next round, Cam holds %d", cam.HandSize())
	}
	round := g.CurrentRound()
	if winner, ok := round.Winner(); !ok || winner != ben.ID() {
		t.Fatalf("round should record Ben as winner")
	}
	if err := g.SelectWinner(judge.ID(), ben.ID()); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected second selection rejected, got %v", err)
	}

	if err := g.StartNewRound(); err != nil {
		t.Fatalf("start new round: %v", err)
	}
	for _, player := range g.Players() {
		if player.HandSize() != HandSize {
			t.Fatalf("%s holds %d cards at round start", player.Nickname(), player.HandSize())
		}
	}
}

func TestReachingWinningScoreEndsGame(t *testing.T) {
	g, err := New("Ada", 3, testOptions()...)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	for _, name := range []string{"Ben", "Cam", "Dee"} {
		if _, err := g.AddPlayer(name); err != nil {
			t.Fatalf("add player: %v", err)
		}
	}
	if err := g.InitializeDecks(responseCards(t, 60), promptCards(t, 20)); err != nil {
		t.Fatalf("decks: %v", err)
	}
	if err := g.StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}

	for g.Phase() != PhaseGameOver {
		if g.CurrentJudge().Nickname() == "Ben" {
			finishRound(t, g, "")
		} else {
			finishRound(t, g, "Ben")
		}
		if g.Phase() == PhaseRoundEnd {
			if err := g.StartNewRound(); err != nil {
				t.Fatalf("start new round: %v", err)
			}
		}
		if len(g.Rounds()) > 10 {
			t.Fatalf("game did not end")
		}
	}

	winner := g.Winner()
	if winner == nil || winner.Nickname() != "Ben" || winner.Score().Value() != 3 {
		t.Fatalf("expected Ben to win with 3 points, got %v", winner)
	}
	if len(g.Rounds()) != 4 {
		t.Fatalf("expected the game to end after round 4, got %d", len(g.Rounds()))
	}
	if g.EndedAt().IsZero() || g.Status() != StatusCompleted {
		t.Fatalf("expected ended game")
	}
	if board := g.Leaderboard(); board[0].ID() != winner.ID() {
		t.Fatalf("winner should top the leaderboard")
	}
	if err := g.StartNewRound(); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected no new round after game over, got %v", err)
	}
	if _, err := g.AddPlayer("Eve"); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected no joins after game over, got %v", err)
	}
	if err := g.RemovePlayer(playerByName(t, g, "Cam").ID()); err != nil {
		t.Fatalf("leaving a finished game: %v", err)
	}
}

func TestStartNewRoundWithoutPromptsFails(t *testing.T) {
	g := newLobby(t, 4, 50, 1)
	if err := g.StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}
	finishRound(t, g, "")
	if err := g.StartNewRound(); !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("expected resource exhausted, got %v", err)
	}
	if g.Phase() != PhaseRoundEnd || len(g.Rounds()) != 1 {
		t.Fatalf("failed round start must not change the game")
	}
	if g.CurrentJudge().Nickname() != "Ada" {
		t.Fatalf("failed round start must not rotate the judge")
	}
}

func TestStartNewRoundOnlyAfterRoundEnd(t *testing.T) {
	g := newStartedGame(t, 4)
	if err := g.StartNewRound(); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected new round while playing rejected, got %v", err)
	}
	lobby := newLobby(t, 4, 10, 5)
	if err := lobby.StartNewRound(); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected new round in lobby rejected, got %v", err)
	}
}

func TestRemovePlayerRetractsSubmission(t *testing.T) {
	g := newStartedGame(t, 6)
	ben := playerByName(t, g, "Ben")
	cam := playerByName(t, g, "Cam")
	for _, player := range []*Player{ben, cam} {
		if err := g.PlayCard(player.ID(), player.Hand()[0].ID()); err != nil {
			t.Fatalf("play: %v", err)
		}
	}
	if err := g.RemovePlayer(ben.ID()); err != nil {
		t.Fatalf("remove: %v", err)
	}
	round := g.CurrentRound()
	if round.HasSubmitted(ben.ID()) || round.SubmissionCount() != 1 {
		t.Fatalf("expected Ben's card retracted, %d submissions left", round.SubmissionCount())
	}
	if round.IsAllSubmitted() || g.Phase() != PhasePlayingCards {
		t.Fatalf("retracting must not complete the round")
	}
	if g.Player(ben.ID()) != nil {
		t.Fatalf("Ben should be gone")
	}

	for _, name := range []string{"Dee", "Eve"} {
		player := playerByName(t, g, name)
		if err := g.PlayCard(player.ID(), player.Hand()[0].ID()); err != nil {
			t.Fatalf("play %s: %v", name, err)
		}
	}
	if g.Phase() != PhasePlayingCards {
		t.Fatalf("Fin has not played yet, got %s", g.Phase())
	}
	// Completeness follows the live roster, so Fin leaving closes the round.
	if err := g.RemovePlayer(playerByName(t, g, "Fin").ID()); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if g.Phase() != PhaseJudging || !g.CurrentRound().IsAllSubmitted() {
		t.Fatalf("expected judging once the remaining players had all played, got %s", g.Phase())
	}
	if err := g.RemovePlayer(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown player, got %v", err)
	}
}

func TestJudgeLeavingHandsOverRound(t *testing.T) {
	g := newStartedGame(t, 5)
	ada := g.CurrentJudge()
	playAll(t, g)
	ben := playerByName(t, g, "Ben")
	held := ben.HandSize()

	if err := g.RemovePlayer(ada.ID()); err != nil {
		t.Fatalf("remove judge: %v", err)
	}
	judge := g.CurrentJudge()
	if judge == nil || judge.ID() != ben.ID() {
		t.Fatalf("expected Ben to take over judging, got %v", judge)
	}
	if !ben.IsHost() {
		t.Fatalf("expected Ben to inherit the host seat")
	}
	if ben.HandSize() != held+1 {
		t.Fatalf("new judge should get their card back")
	}
	round := g.CurrentRound()
	if round.JudgeID() != ben.ID() || round.HasSubmitted(ben.ID()) {
		t.Fatalf("round should belong to Ben with no card from him")
	}
	if g.Phase() != PhaseJudging {
		t.Fatalf("three cards from four players is still complete, got %s", g.Phase())
	}
	cam := playerByName(t, g, "Cam")
	if err := g.SelectWinner(ben.ID(), cam.ID()); err != nil {
		t.Fatalf("new judge selects: %v", err)
	}
	if err := g.StartNewRound(); err != nil {
		t.Fatalf("next round: %v", err)
	}
	if g.CurrentJudge().ID() != cam.ID() {
		t.Fatalf("rotation should continue after Ben, got %s", g.CurrentJudge().Nickname())
	}
}

func TestJudgeLeavingBetweenRounds(t *testing.T) {
	g := newStartedGame(t, 5)
	finishRound(t, g, "Ben")
	if err := g.RemovePlayer(playerByName(t, g, "Ada").ID()); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if g.CurrentJudge() != nil {
		t.Fatalf("nobody should judge until the next round")
	}
	if err := g.StartNewRound(); err != nil {
		t.Fatalf("start new round: %v", err)
	}
	if judge := g.CurrentJudge(); judge.Nickname() != "Ben" {
		t.Fatalf("expected the seat after Ada to judge, got %s", judge.Nickname())
	}
}

func TestRosterBelowMinimumEndsGame(t *testing.T) {
	g := newStartedGame(t, 4)
	if err := g.RemovePlayer(playerByName(t, g, "Dee").ID()); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if g.Phase() != PhaseGameOver {
		t.Fatalf("expected game over, got %s", g.Phase())
	}
	if g.Winner() != nil {
		t.Fatalf("abandoned game should have no winner")
	}
}

func TestLateJoinerIsDealtIn(t *testing.T) {
	g := newStartedGame(t, 4)
	eve, err := g.AddPlayer("Eve")
	if err != nil {
		t.Fatalf("late join: %v", err)
	}
	if eve.HandSize() != HandSize {
		t.Fatalf("late joiner holds %d cards", eve.HandSize())
	}
	if err := g.PlayCard(eve.ID(), eve.Hand()[0].ID()); err != nil {
		t.Fatalf("late joiner plays: %v", err)
	}
}

func TestInitializeDecks(t *testing.T) {
	g, err := New("Ada", DefaultWinningScore, testOptions()...)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	responses := responseCards(t, 50)
	prompts := promptCards(t, 20)
	if err := g.InitializeDecks(prompts, responses); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected swapped decks rejected, got %v", err)
	}
	if err := g.InitializeDecks(append(responses, responses[0]), prompts); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected duplicate card rejected, got %v", err)
	}
	if err := g.InitializeDecks(responses, prompts); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	snap := g.Snapshot()
	moved := 0
	seen := map[uuid.UUID]bool{}
	for i, card := range snap.ResponseDeck {
		seen[card.ID()] = true
		if card.ID() != responses[i].ID() {
			moved++
		}
	}
	if len(seen) != len(responses) {
		t.Fatalf("shuffle lost cards: %d of %d", len(seen), len(responses))
	}
	if moved == 0 {
		t.Fatalf("expected the shuffle to reorder the deck")
	}
}

func TestShuffleIsDeterministicForSeed(t *testing.T) {
	responses := responseCards(t, 30)
	prompts := promptCards(t, 10)
	order := func() []uuid.UUID {
		g, err := New("Ada", DefaultWinningScore, WithShuffler(rand.New(rand.NewPCG(1, 2))))
		if err != nil {
			t.Fatalf("new game: %v", err)
		}
		if err := g.InitializeDecks(responses, prompts); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		var ids []uuid.UUID
		for _, card := range g.Snapshot().ResponseDeck {
			ids = append(ids, card.ID())
		}
		return ids
	}
	first, second := order(), order()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed produced different orders at %d", i)
		}
	}
}

func TestInitializeDecksOnlyBeforeStart(t *testing.T) {
	g := newStartedGame(t, 4)
	if err := g.InitializeDecks(responseCards(t, 5), promptCards(t, 5)); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected decks locked once started, got %v", err)
	}
}

func TestLeaderboardSortsByScore(t *testing.T) {
	g := newStartedGame(t, 4)
	finishRound(t, g, "Cam")
	if err := g.StartNewRound(); err != nil {
		t.Fatalf("start: %v", err)
	}
	finishRound(t, g, "Cam")
	board := g.Leaderboard()
	if board[0].Nickname() != "Cam" || board[0].Score().Value() != 2 {
		t.Fatalf("expected Cam first with 2, got %s with %d", board[0].Nickname(), board[0].Score().Value())
	}
	// Ties keep join order.
	if board[1].Nickname() != "Ada" || board[2].Nickname() != "Ben" || board[3].Nickname() != "Dee" {
		t.Fatalf("unexpected tie order %s %s %s", board[1].Nickname(), board[2].Nickname(), board[3].Nickname())
	}
}

func TestEventsAreDrained(t *testing.T) {
	g := newStartedGame(t, 4)
	events := g.DrainEvents()
	var sawStart, sawRound bool
	for _, event := range events {
		if event.At.IsZero() {
			t.Fatalf("event %s has no timestamp", event.Type)
		}
		switch {
		case event.Type == EventPhaseChanged && event.To == PhasePlayingCards.String():
			sawStart = true
		case event.Type == EventRoundStarted && event.RoundNumber == 1:
			sawRound = true
		}
	}
	if !sawStart || !sawRound {
		t.Fatalf("expected phase change and round start events, got %+v", events)
	}
	if len(g.DrainEvents()) != 0 {
		t.Fatalf("events should be drained")
	}
}

func TestJoinerBecomesHostOfEmptyGame(t *testing.T) {
	g, err := New("Ada", DefaultWinningScore, testOptions()...)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if err := g.RemovePlayer(g.Host().ID()); err != nil {
		t.Fatalf("remove host: %v", err)
	}
	if g.Host() != nil || g.PlayerCount() != 0 {
		t.Fatalf("expected empty game without host")
	}
	zed, err := g.AddPlayer("Zed")
	if err != nil {
		t.Fatalf("add player: %v", err)
	}
	if !zed.IsHost() {
		t.Fatalf("first joiner of an empty game should host it")
	}
	amy, err := g.AddPlayer("Amy")
	if err != nil {
		t.Fatalf("add player: %v", err)
	}
	if amy.IsHost() {
		t.Fatalf("only one player may host")
	}
}

func TestJudgingOrderFollowsShuffler(t *testing.T) {
	g := newStartedGame(t, 5)
	playAll(t, g)
	snap := g.Snapshot()

	first, err := Restore(snap, WithShuffler(rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	second, err := Restore(snap, WithShuffler(rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	a, b := first.ShuffledSubmissions(), second.ShuffledSubmissions()
	if len(a) != 4 || len(b) != 4 {
		t.Fatalf("expected 4 cards each, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID() != b[i].ID() {
			t.Fatalf("same seed gave different judging order at %d", i)
		}
	}
}
