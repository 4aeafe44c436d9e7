package server

import (
	"fmt"
	"log"
	"net/http"

	"pears2pears/internal/db"
	"pears2pears/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type gameURI struct {
	Code string `uri:"code" binding:"required,code"`
}

type playerURI struct {
	Code     string `uri:"code" binding:"required,code"`
	PlayerID string `uri:"player_id" binding:"required,uuid"`
}

type createGameRequest struct {
	Nickname     string `json:"nickname" binding:"required,nickname"`
	WinningScore int    `json:"winning_score" binding:"omitempty,min=1,max=20"`
}

type joinRequest struct {
	Nickname string `json:"nickname" binding:"required,nickname"`
}

type hostRequest struct {
	PlayerID string `json:"player_id" binding:"required,uuid"`
}

type playRequest struct {
	PlayerID string `json:"player_id" binding:"required,uuid"`
	CardID   string `json:"card_id" binding:"required,uuid"`
}

type winnerRequest struct {
	JudgeID  string `json:"judge_id" binding:"required,uuid"`
	WinnerID string `json:"winner_id" binding:"required_without=CardID,omitempty,uuid"`
	CardID   string `json:"card_id" binding:"required_without=WinnerID,omitempty,uuid"`
}

type listGamesQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=waiting in_progress completed"`
}

var nicknameMessages = bindMessages{
	"Nickname": {
		"required": "nickname is required",
		"nickname": fmt.Sprintf("nickname must be 1 to %d characters", game.MaxNicknameLength),
	},
}

var createGameMessages = bindMessages{
	"Nickname": nicknameMessages["Nickname"],
	"WinningScore": {
		"min": fmt.Sprintf("winning score must be between %d and %d", game.MinWinningScore, game.MaxWinningScore),
		"max": fmt.Sprintf("winning score must be between %d and %d", game.MinWinningScore, game.MaxWinningScore),
	},
}

const maxCodeAttempts = 10

func (s *Server) handleCreateGame(c *gin.Context) {
	var req createGameRequest
	if !bindJSON(c, &req, createGameMessages, "invalid game request") {
		return
	}
	winningScore := req.WinningScore
	if winningScore == 0 {
		winningScore = s.cfg.WinningScore
	}

	code, err := s.newGameCode()
	if err != nil {
		writeError(c, err)
		return
	}
	opts := append([]game.Option{game.WithCode(code)}, s.gameOpts...)
	g, err := game.New(req.Nickname, winningScore, opts...)
	if err != nil {
		writeError(c, err)
		return
	}
	events := g.DrainEvents()
	if err := s.persistGame(g, events); err != nil {
		if db.IsUniqueViolation(err) {
			writeError(c, fmt.Errorf("%w: join code %s already in use", game.ErrConflict, code))
			return
		}
		writeError(c, fmt.Errorf("%w: %v", errPersist, err))
		return
	}
	if err := s.store.AddGame(g); err != nil {
		writeError(c, err)
		return
	}
	host := g.Host()
	log.Printf("game created game_id=%s code=%s host_id=%s winning_score=%d", g.ID(), g.Code(), host.ID(), g.WinningScore())
	logEvents(g.ID(), g.Code(), events)
	view, err := s.viewGame(g.ID())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"game_id":   g.ID(),
		"code":      g.Code(),
		"player_id": host.ID(),
		"game":      view,
	})
	s.broadcastHomeUpdate()
}

// newGameCode generates a join code unused in memory and in the database.
func (s *Server) newGameCode() (game.Code, error) {
	for range maxCodeAttempts {
		code := game.GenerateCode()
		if s.store.HasCode(code) {
			continue
		}
		if s.db != nil {
			var count int64
			if err := s.db.Model(&db.Game{}).Where("code = ?", code.String()).Count(&count).Error; err != nil {
				return "", err
			}
			if count > 0 {
				continue
			}
		}
		return code, nil
	}
	return "", fmt.Errorf("%w: no free join code after %d attempts", game.ErrResourceExhausted, maxCodeAttempts)
}

func (s *Server) handleListGames(c *gin.Context) {
	var query listGamesQuery
	if !bindQuery(c, &query) {
		return
	}
	summaries := s.store.ListGameSummaries()
	if query.Status != "" {
		filtered := summaries[:0]
		for _, summary := range summaries {
			if string(summary.Status) == query.Status {
				filtered = append(filtered, summary)
			}
		}
		summaries = filtered
	}
	c.JSON(http.StatusOK, gin.H{"games": buildSummaryViews(summaries)})
}

func (s *Server) handleGetGame(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	id, err := s.lookupGame(uri.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := s.viewGame(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleJoinGame(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	var req joinRequest
	if !bindJSON(c, &req, nicknameMessages, "invalid join request") {
		return
	}
	id, err := s.lookupGame(uri.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	var playerID uuid.UUID
	result, err := s.mutateGame(id, func(g *game.Game) error {
		player, err := g.AddPlayer(req.Nickname)
		if err != nil {
			return err
		}
		playerID = player.ID()
		return nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"player_id": playerID, "game": result.view})
}

func (s *Server) handleRenamePlayer(c *gin.Context) {
	var uri playerURI
	if !bindURI(c, &uri) {
		return
	}
	var req joinRequest
	if !bindJSON(c, &req, nicknameMessages, "invalid rename request") {
		return
	}
	s.respondMutation(c, uri.Code, func(g *game.Game) error {
		return g.RenamePlayer(parseID(uri.PlayerID), req.Nickname)
	})
}

func (s *Server) handleLeaveGame(c *gin.Context) {
	var uri playerURI
	if !bindURI(c, &uri) {
		return
	}
	id, err := s.lookupGame(uri.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := s.mutateGame(id, func(g *game.Game) error {
		return g.RemovePlayer(parseID(uri.PlayerID))
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if len(result.view.Players) == 0 {
		s.closeEmptyGame(id, result.code)
	}
	c.JSON(http.StatusOK, result.view)
}

func (s *Server) handleStartGame(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	var req hostRequest
	if !bindJSON(c, &req, nil, "player_id is required") {
		return
	}
	s.respondMutation(c, uri.Code, func(g *game.Game) error {
		if err := requireHost(g, parseID(req.PlayerID)); err != nil {
			return err
		}
		if !g.Phase().CanStartGame() {
			return fmt.Errorf("%w: cannot start game in %s phase", game.ErrIllegalState, g.Phase())
		}
		responses, prompts, err := s.buildDecks()
		if err != nil {
			return err
		}
		if err := g.InitializeDecks(responses, prompts); err != nil {
			return err
		}
		return g.StartGame()
	})
}

func (s *Server) handleStartRound(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	var req hostRequest
	if !bindJSON(c, &req, nil, "player_id is required") {
		return
	}
	s.respondMutation(c, uri.Code, func(g *game.Game) error {
		if err := requireHost(g, parseID(req.PlayerID)); err != nil {
			return err
		}
		return g.StartNewRound()
	})
}

func (s *Server) handlePlayCard(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	var req playRequest
	if !bindJSON(c, &req, nil, "player_id and card_id are required") {
		return
	}
	s.respondMutation(c, uri.Code, func(g *game.Game) error {
		return g.PlayCard(parseID(req.PlayerID), parseID(req.CardID))
	})
}

func (s *Server) handleSelectWinner(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	var req winnerRequest
	if !bindJSON(c, &req, nil, "judge_id and winner_id or card_id are required") {
		return
	}
	s.respondMutation(c, uri.Code, func(g *game.Game) error {
		winnerID := parseID(req.WinnerID)
		if winnerID == uuid.Nil {
			var err error
			if winnerID, err = submitterOf(g, parseID(req.CardID)); err != nil {
				return err
			}
		}
		return g.SelectWinner(parseID(req.JudgeID), winnerID)
	})
}

func (s *Server) handleLeaderboard(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	id, err := s.lookupGame(uri.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	var entries []leaderboardEntry
	if err := s.store.ViewGame(id, func(g *game.Game) error {
		entries = buildLeaderboard(g)
		return nil
	}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func (s *Server) handleHand(c *gin.Context) {
	var uri playerURI
	if !bindURI(c, &uri) {
		return
	}
	id, err := s.lookupGame(uri.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	var hand []cardView
	var role string
	err = s.store.ViewGame(id, func(g *game.Game) error {
		player := g.Player(parseID(uri.PlayerID))
		if player == nil {
			return fmt.Errorf("%w: player %s", game.ErrNotFound, uri.PlayerID)
		}
		hand = buildCardViews(player.Hand())
		role = player.Role().String()
		return nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"player_id": uri.PlayerID, "role": role, "cards": hand})
}

func (s *Server) handleRounds(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	id, err := s.lookupGame(uri.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	var rounds []*roundView
	err = s.store.ViewGame(id, func(g *game.Game) error {
		for _, round := range g.Rounds() {
			if !round.IsComplete() {
				continue
			}
			rounds = append(rounds, buildRoundView(g, round))
		}
		return nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rounds": rounds})
}

// closeEmptyGame drops a game nobody is left in, from memory and storage.
// A join that got in first keeps the game open.
func (s *Server) closeEmptyGame(id uuid.UUID, code game.Code) {
	closed := s.store.RemoveGameIf(id, func(g *game.Game) bool {
		if g.PlayerCount() > 0 {
			return false
		}
		if err := s.deleteGame(id); err != nil {
			log.Printf("game delete failed game_id=%s error=%v", id, err)
			return false
		}
		return true
	})
	if !closed {
		return
	}
	s.cancelRoundTimer(id)
	log.Printf("game closed game_id=%s code=%s reason=empty", id, code)
	s.broadcastHomeUpdate()
}

// respondMutation resolves the game, applies op and writes the new view.
func (s *Server) respondMutation(c *gin.Context, code string, op func(g *game.Game) error) {
	id, err := s.lookupGame(code)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := s.mutateGame(id, op)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.view)
}

func requireHost(g *game.Game, playerID uuid.UUID) error {
	player := g.Player(playerID)
	if player == nil {
		return fmt.Errorf("%w: player %s", game.ErrNotFound, playerID)
	}
	if !player.IsHost() {
		return fmt.Errorf("%w: only the host can do that", game.ErrRoleDenied)
	}
	return nil
}

// submitterOf finds who played cardID in the current round.
func submitterOf(g *game.Game, cardID uuid.UUID) (uuid.UUID, error) {
	round := g.CurrentRound()
	if round == nil {
		return uuid.Nil, fmt.Errorf("%w: no active round", game.ErrIllegalState)
	}
	for playerID, card := range round.Submissions() {
		if card.ID() == cardID {
			return playerID, nil
		}
	}
	return uuid.Nil, fmt.Errorf("%w: card %s was not played this round", game.ErrNotFound, cardID)
}
