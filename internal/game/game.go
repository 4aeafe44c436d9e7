package game

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	MinPlayers = 4
	MaxPlayers = 8
)

// Shuffler reorders n elements with swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type defaultShuffler struct{}

func (defaultShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

type Option func(*Game)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		if now != nil {
			g.clock = now
		}
	}
}

// WithShuffler replaces the deck shuffler.
func WithShuffler(shuffler Shuffler) Option {
	return func(g *Game) {
		if shuffler != nil {
			g.shuffler = shuffler
		}
	}
}

// WithCode fixes the join code instead of generating one.
func WithCode(code Code) Option {
	return func(g *Game) {
		g.code = code
	}
}

// Game is the aggregate root. It owns the players, the round history and both
// decks, and is the only writer of any of them. A Game is not safe for
// concurrent use; callers serialize access per game.
type Game struct {
	id           uuid.UUID
	code         Code
	phase        Phase
	players      []*Player
	rounds       []*Round
	current      *Round
	responseDeck []Card
	promptDeck   []Card
	winningScore int
	winnerID     uuid.UUID
	createdAt    time.Time
	startedAt    time.Time
	endedAt      time.Time

	// judgeSeat is the seat the next rotation starts from when the judge
	// left between rounds. -1 when unused.
	judgeSeat int

	clock    func() time.Time
	shuffler Shuffler
	events   []Event
}

// New creates a game waiting for players with the host seated first.
func New(hostNickname string, winningScore int, opts ...Option) (*Game, error) {
	if err := validateWinningScore(winningScore); err != nil {
		return nil, err
	}
	g := newGame(opts...)
	if g.code == "" {
		g.code = GenerateCode()
	} else if _, err := ParseCode(string(g.code)); err != nil {
		return nil, err
	}
	g.id = uuid.New()
	g.winningScore = winningScore
	g.createdAt = g.now()

	host, err := newPlayer(hostNickname, true, g.createdAt)
	if err != nil {
		return nil, err
	}
	g.players = append(g.players, host)
	g.record(Event{Type: EventGameCreated, PlayerID: host.id, Nickname: host.nickname})
	return g, nil
}

func newGame(opts ...Option) *Game {
	g := &Game{
		phase:     PhaseWaitingForPlayers,
		judgeSeat: -1,
		clock:     nowUTC,
		shuffler:  defaultShuffler{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Game) now() time.Time {
	return normalizeTime(g.clock())
}

func (g *Game) ID() uuid.UUID { return g.id }
func (g *Game) Code() Code { return g.code }
func (g *Game) Phase() Phase { return g.phase }
func (g *Game) Status() Status { return g.phase.Status() }
func (g *Game) WinningScore() int { return g.winningScore }
func (g *Game) CreatedAt() time.Time { return g.createdAt }
func (g *Game) StartedAt() time.Time { return g.startedAt }
func (g *Game) EndedAt() time.Time { return g.endedAt }
func (g *Game) PlayerCount() int { return len(g.players) }
func (g *Game) ResponseDeckSize() int { return len(g.responseDeck) }
func (g *Game) PromptDeckSize() int { return len(g.promptDeck) }

// Players returns the roster in join order.
func (g *Game) Players() []*Player {
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}

// Player returns nil when no player has the id.
func (g *Game) Player(id uuid.UUID) *Player {
	if index := g.playerIndex(id); index >= 0 {
		return g.players[index]
	}
	return nil
}

func (g *Game) Host() *Player {
	for _, player := range g.players {
		if player.host {
			return player
		}
	}
	return nil
}

func (g *Game) CurrentJudge() *Player {
	if index := g.judgeIndex(); index >= 0 {
		return g.players[index]
	}
	return nil
}

// Winner returns nil until the game is won.
func (g *Game) Winner() *Player {
	if g.winnerID == uuid.Nil {
		return nil
	}
	return g.Player(g.winnerID)
}

// Leaderboard sorts players by score, highest first. Ties keep join order.
func (g *Game) Leaderboard() []*Player {
	board := g.Players()
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].score.IsHigherThan(board[j].score)
	})
	return board
}

// CurrentRound returns a copy of the latest round, or nil before the first.
func (g *Game) CurrentRound() *Round {
	if g.current == nil {
		return nil
	}
	return g.current.clone()
}

// ShuffledSubmissions returns the current round's cards in an order drawn from
// the game's shuffler.
func (g *Game) ShuffledSubmissions() []Card {
	if g.current == nil {
		return nil
	}
	return g.current.ShuffledSubmissions(g.shuffler)
}

// Rounds returns copies of every round in order.
func (g *Game) Rounds() []*Round {
	out := make([]*Round, 0, len(g.rounds))
	for _, round := range g.rounds {
		out = append(out, round.clone())
	}
	return out
}

func (g *Game) AddPlayer(nickname string) (*Player, error) {
	if !g.phase.CanJoin() {
		return nil, failf(ErrIllegalState, "cannot join game in %s phase", g.phase)
	}
	if len(g.players) >= MaxPlayers {
		return nil, failf(ErrCapacityExceeded, "game is full (max %d players)", MaxPlayers)
	}
	name, err := ValidateNickname(nickname)
	if err != nil {
		return nil, err
	}
	if g.nicknameTaken(name, uuid.Nil) {
		return nil, failf(ErrConflict, "nickname %q is already taken", name)
	}
	at := g.now()
	// A game left without a host hands hosting to whoever joins next.
	player, err := newPlayer(name, g.Host() == nil, at)
	if err != nil {
		return nil, err
	}
	// Late joiners get a hand so they can take part in the next submission.
	if g.phase.IsInProgress() {
		if err := player.draw(g.drawResponses(HandSize), at); err != nil {
			return nil, err
		}
	}
	g.players = append(g.players, player)
	g.record(Event{Type: EventPlayerJoined, PlayerID: player.id, Nickname: player.nickname, Count: len(g.players)})
	return player, nil
}

// RenamePlayer changes a nickname under the same rules as joining.
func (g *Game) RenamePlayer(playerID uuid.UUID, nickname string) error {
	player := g.Player(playerID)
	if player == nil {
		return failf(ErrNotFound, "player %s not found", playerID)
	}
	name, err := ValidateNickname(nickname)
	if err != nil {
		return err
	}
	if g.nicknameTaken(name, playerID) {
		return failf(ErrConflict, "nickname %q is already taken", name)
	}
	player.nickname = name
	player.touch(g.now())
	g.record(Event{Type: EventPlayerRenamed, PlayerID: playerID, Nickname: name})
	return nil
}

func (g *Game) RemovePlayer(playerID uuid.UUID) error {
	if !g.phase.CanLeave() {
		return failf(ErrIllegalState, "cannot leave game in %s phase", g.phase)
	}
	index := g.playerIndex(playerID)
	if index < 0 {
		return failf(ErrNotFound, "player %s not found", playerID)
	}
	at := g.now()
	leaving := g.players[index]
	g.players = append(g.players[:index:index], g.players[index+1:]...)
	g.record(Event{Type: EventPlayerLeft, PlayerID: leaving.id, Nickname: leaving.nickname, Count: len(g.players)})

	if leaving.host && len(g.players) > 0 {
		g.players[0].host = true
		g.record(Event{Type: EventHostChanged, PlayerID: g.players[0].id, Nickname: g.players[0].nickname})
	}

	round := g.activeRound()
	if round != nil {
		if _, had, _ := round.RetractSubmission(leaving.id); had {
			g.record(Event{Type: EventCardRetracted, PlayerID: leaving.id, Reason: "player_left"})
		}
	}
	if leaving.IsJudge() && len(g.players) > 0 && g.phase.IsInProgress() {
		if round != nil {
			g.handOverRound(round, index, at)
		} else {
			g.judgeSeat = index % len(g.players)
		}
	}

	if g.phase.IsInProgress() && len(g.players) < MinPlayers {
		g.finish(uuid.Nil, "not_enough_players", at)
		return nil
	}
	if round != nil {
		g.recomputeSubmissions(round)
	}
	return nil
}

// handOverRound gives an unfinished round to the player seated after the
// departed judge. Their own submission, if any, goes back to their hand.
func (g *Game) handOverRound(round *Round, seat int, at time.Time) {
	next := g.nextEligibleSeat(seat % len(g.players))
	if next < 0 {
		return
	}
	successor := g.players[next]
	if card, had, _ := round.RetractSubmission(successor.id); had {
		_ = successor.hand.Add(card)
		g.record(Event{Type: EventCardRetracted, PlayerID: successor.id, Reason: "became_judge"})
	}
	if err := successor.becomeJudge(at); err != nil {
		return
	}
	round.reassignJudge(successor.id)
	g.record(Event{Type: EventJudgeChanged, PlayerID: successor.id, Nickname: successor.nickname, Reason: "judge_left"})
}

// SetConnected flips a player's connection flag. Disconnected players cannot
// play cards or judge until they reconnect.
func (g *Game) SetConnected(playerID uuid.UUID, connected bool) error {
	player := g.Player(playerID)
	if player == nil {
		return failf(ErrNotFound, "player %s not found", playerID)
	}
	if player.connected == connected {
		return nil
	}
	player.setConnected(connected, g.now())
	reason := "disconnected"
	if connected {
		reason = "connected"
	}
	g.record(Event{Type: EventPlayerConnection, PlayerID: playerID, Reason: reason})
	return nil
}

// InitializeDecks replaces both decks and shuffles them in place.
func (g *Game) InitializeDecks(responses, prompts []Card) error {
	if !g.phase.CanStartGame() {
		return failf(ErrIllegalState, "cannot replace decks in %s phase", g.phase)
	}
	seen := make(map[uuid.UUID]struct{}, len(responses)+len(prompts))
	for _, card := range responses {
		if card.IsZero() || card.kind != KindResponse {
			return failf(ErrInvalidArgument, "response deck may only hold response cards")
		}
		if _, dup := seen[card.id]; dup {
			return failf(ErrConflict, "card %s appears twice in the decks", card.id)
		}
		seen[card.id] = struct{}{}
	}
	for _, card := range prompts {
		if card.IsZero() || card.kind != KindPrompt {
			return failf(ErrInvalidArgument, "prompt deck may only hold prompt cards")
		}
		if _, dup := seen[card.id]; dup {
			return failf(ErrConflict, "card %s appears twice in the decks", card.id)
		}
		seen[card.id] = struct{}{}
	}
	g.responseDeck = append([]Card(nil), responses...)
	g.promptDeck = append([]Card(nil), prompts...)
	g.shuffleDeck(g.responseDeck)
	g.shuffleDeck(g.promptDeck)
	g.record(Event{Type: EventDecksInitialized, Count: len(g.responseDeck) + len(g.promptDeck)})
	return nil
}

func (g *Game) shuffleDeck(deck []Card) {
	g.shuffler.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

func (g *Game) StartGame() error {
	if !g.phase.CanStartGame() {
		return failf(ErrIllegalState, "cannot start game in %s phase", g.phase)
	}
	if len(g.players) < MinPlayers {
		return failf(ErrIllegalState, "need at least %d players to start (have %d)", MinPlayers, len(g.players))
	}
	if len(g.responseDeck) == 0 || len(g.promptDeck) == 0 {
		return failf(ErrResourceExhausted, "card decks must be initialized before starting")
	}
	if g.nextEligibleSeat(0) < 0 {
		return failf(ErrIllegalState, "no player can act as judge")
	}
	at := g.now()
	for _, player := range g.players {
		_ = player.draw(g.drawResponses(player.hand.CardsNeededToFill()), at)
	}
	g.startedAt = at
	g.transition(PhasePlayingCards, "game_started")
	return g.startRound(at)
}

// StartNewRound begins the next round after a round has ended.
func (g *Game) StartNewRound() error {
	if !g.phase.CanStartNewRound() {
		return failf(ErrIllegalState, "cannot start new round in %s phase", g.phase)
	}
	return g.startRound(g.now())
}

func (g *Game) startRound(at time.Time) error {
	if len(g.promptDeck) == 0 {
		return failf(ErrResourceExhausted, "no prompt cards left to start round %d", len(g.rounds)+1)
	}
	current := g.judgeIndex()
	next := g.nextJudgeSeat(current)
	if next < 0 {
		return failf(ErrIllegalState, "no player can act as judge")
	}

	for _, player := range g.players {
		if need := player.hand.CardsNeededToFill(); need > 0 {
			_ = player.draw(g.drawResponses(need), at)
		}
	}
	if current >= 0 {
		g.players[current].becomePlayer(at)
	}
	judge := g.players[next]
	_ = judge.becomeJudge(at)
	g.judgeSeat = -1

	prompt := g.promptDeck[0]
	g.promptDeck = g.promptDeck[1:]
	round, err := NewRound(g.id, len(g.rounds)+1, judge.id, prompt, at)
	if err != nil {
		return err
	}
	g.rounds = append(g.rounds, round)
	g.current = round
	if g.phase != PhasePlayingCards {
		g.transition(PhasePlayingCards, "round_started")
	}
	g.record(Event{Type: EventRoundStarted, PlayerID: judge.id, Nickname: judge.nickname, RoundNumber: round.number})
	return nil
}

func (g *Game) PlayCard(playerID, cardID uuid.UUID) error {
	if !g.phase.CanPlayCard() {
		return failf(ErrIllegalState, "cannot play cards in %s phase", g.phase)
	}
	round := g.activeRound()
	if round == nil {
		return failf(ErrIllegalState, "no active round")
	}
	player := g.Player(playerID)
	if player == nil {
		return failf(ErrNotFound, "player %s not found", playerID)
	}
	if !player.CanPlayCards() {
		return failf(ErrRoleDenied, "player %q cannot play cards (role %s, connected %t)", player.nickname, player.role, player.connected)
	}
	if round.HasSubmitted(playerID) {
		return failf(ErrConflict, "player %q already played a card in round %d", player.nickname, round.number)
	}
	card, ok := player.hand.Get(cardID)
	if !ok {
		return failf(ErrNotFound, "card %s not in hand of %q", cardID, player.nickname)
	}
	if err := round.Submit(playerID, card); err != nil {
		return err
	}
	player.hand.Remove(cardID)
	player.touch(g.now())
	g.record(Event{Type: EventCardPlayed, PlayerID: playerID, Count: round.SubmissionCount()})
	g.recomputeSubmissions(round)
	return nil
}

// recomputeSubmissions keeps the all-submitted flag and the
// PlayingCards/Judging phase in line with the current roster.
func (g *Game) recomputeSubmissions(round *Round) {
	if round.IsComplete() {
		return
	}
	complete := round.SubmissionCount() > 0 && round.AllSubmitted(len(g.players))
	round.markAllSubmitted(complete)
	switch {
	case complete && g.phase == PhasePlayingCards:
		g.transition(PhaseJudging, "all_cards_played")
	case !complete && g.phase == PhaseJudging:
		g.transition(PhasePlayingCards, "submissions_reopened")
	}
}

func (g *Game) SelectWinner(judgeID, winnerID uuid.UUID) error {
	if !g.phase.CanSelectWinner() {
		return failf(ErrIllegalState, "cannot select winner in %s phase", g.phase)
	}
	round := g.activeRound()
	if round == nil {
		return failf(ErrIllegalState, "no active round")
	}
	judge := g.Player(judgeID)
	if judge == nil {
		return failf(ErrNotFound, "player %s not found", judgeID)
	}
	if !judge.CanSelectWinner() || round.judgeID != judgeID {
		return failf(ErrRoleDenied, "only the judge can select a winner")
	}
	winner := g.Player(winnerID)
	if winner == nil {
		return failf(ErrNotFound, "player %s not found", winnerID)
	}
	at := g.now()
	if err := round.SelectWinner(winnerID, judgeID, at); err != nil {
		return err
	}
	winner.awardPoint(at)
	judge.touch(at)
	g.record(Event{Type: EventWinnerSelected, PlayerID: winnerID, Nickname: winner.nickname, Count: winner.score.Value()})

	if winner.HasWon(g.winningScore) {
		g.finish(winnerID, "winning_score_reached", at)
		return nil
	}
	g.transition(PhaseRoundEnd, "winner_selected")
	_ = winner.draw(g.drawResponses(winner.hand.CardsNeededToFill()), at)
	return nil
}

func (g *Game) finish(winnerID uuid.UUID, reason string, at time.Time) {
	g.winnerID = winnerID
	g.endedAt = at
	g.transition(PhaseGameOver, reason)
	g.record(Event{Type: EventGameOver, PlayerID: winnerID, Reason: reason})
}

func (g *Game) transition(next Phase, reason string) {
	if !g.phase.CanTransitionTo(next) {
		return
	}
	from := g.phase
	g.phase = next
	g.record(Event{Type: EventPhaseChanged, From: from.String(), To: next.String(), Reason: reason})
}

// drawResponses takes up to n cards from the front of the response deck.
func (g *Game) drawResponses(n int) []Card {
	if n <= 0 || len(g.responseDeck) == 0 {
		return nil
	}
	if n > len(g.responseDeck) {
		n = len(g.responseDeck)
	}
	drawn := append([]Card(nil), g.responseDeck[:n]...)
	g.responseDeck = g.responseDeck[n:]
	return drawn
}

// activeRound is the current round while it still takes submissions or
// awaits a winner.
func (g *Game) activeRound() *Round {
	if g.current == nil || g.current.IsComplete() || g.phase.IsTerminal() {
		return nil
	}
	return g.current
}

func (g *Game) playerIndex(id uuid.UUID) int {
	for i, player := range g.players {
		if player.id == id {
			return i
		}
	}
	return -1
}

func (g *Game) judgeIndex() int {
	for i, player := range g.players {
		if player.IsJudge() {
			return i
		}
	}
	return -1
}

// nextJudgeSeat picks the seat after the current judge, or the first seat
// (or the departed judge's seat) when nobody is judging.
func (g *Game) nextJudgeSeat(current int) int {
	if len(g.players) == 0 {
		return -1
	}
	start := 0
	switch {
	case current >= 0:
		start = (current + 1) % len(g.players)
	case g.judgeSeat >= 0:
		start = g.judgeSeat % len(g.players)
	}
	return g.nextEligibleSeat(start)
}

func (g *Game) nextEligibleSeat(start int) int {
	for offset := range len(g.players) {
		seat := (start + offset) % len(g.players)
		if g.players[seat].role != RoleSpectator {
			return seat
		}
	}
	return -1
}

func (g *Game) nicknameTaken(nickname string, except uuid.UUID) bool {
	for _, player := range g.players {
		if player.id != except && player.matchesNickname(nickname) {
			return true
		}
	}
	return false
}
