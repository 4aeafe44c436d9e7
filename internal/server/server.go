package server

import (
	"net/http"
	"sync"
	"time"

	"pears2pears/internal/config"
	"pears2pears/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Server struct {
	store    *Store
	db       *gorm.DB
	ws       *wsHub
	homeWS   *homeHub
	cfg      config.Config
	cards    CardSource
	gameOpts []game.Option
	timersMu sync.Mutex
	timers   map[uuid.UUID]*time.Timer
}

type Option func(*Server)

// WithCards sets where new games draw their decks from.
func WithCards(source CardSource) Option {
	return func(s *Server) {
		s.cards = source
	}
}

// WithGameOptions is applied to every game the server creates or restores.
func WithGameOptions(opts ...game.Option) Option {
	return func(s *Server) {
		s.gameOpts = append(s.gameOpts, opts...)
	}
}

func New(conn *gorm.DB, cfg config.Config, opts ...Option) *Server {
	registerValidators()
	s := &Server{
		store:  NewStore(),
		db:     conn,
		ws:     newWSHub(),
		homeWS: newHomeHub(),
		cfg:    cfg,
		timers: make(map[uuid.UUID]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cards == nil {
		s.cards = defaultCardSource(conn, cfg)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.POST("/games", s.handleCreateGame)
	api.GET("/games", s.handleListGames)
	api.GET("/games/:code", s.handleGetGame)
	api.POST("/games/:code/players", s.handleJoinGame)
	api.PATCH("/games/:code/players/:player_id", s.handleRenamePlayer)
	api.DELETE("/games/:code/players/:player_id", s.handleLeaveGame)
	api.GET("/games/:code/players/:player_id/hand", s.handleHand)
	api.POST("/games/:code/start", s.handleStartGame)
	api.POST("/games/:code/rounds", s.handleStartRound)
	api.GET("/games/:code/rounds", s.handleRounds)
	api.POST("/games/:code/plays", s.handlePlayCard)
	api.POST("/games/:code/winner", s.handleSelectWinner)
	api.GET("/games/:code/leaderboard", s.handleLeaderboard)

	router.GET("/ws/games/:code", s.handleWebsocket)
	router.GET("/ws/home", s.handleHomeWebsocket)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

// Close stops pending round timers.
func (s *Server) Close() {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
