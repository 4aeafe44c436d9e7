package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"pears2pears/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsMessage struct {
	Type   string        `json:"type"`
	Game   *gameView     `json:"game,omitempty"`
	Events []game.Event  `json:"events,omitempty"`
	Games  []summaryView `json:"games,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// wsClient serializes writes to one connection.
type wsClient struct {
	conn     *websocket.Conn
	playerID uuid.UUID
	mu       sync.Mutex
}

func (c *wsClient) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

type wsHub struct {
	mu     sync.Mutex
	groups map[uuid.UUID]map[*wsClient]struct{}
}

type homeHub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		groups: make(map[uuid.UUID]map[*wsClient]struct{}),
	}
}

func newHomeHub() *homeHub {
	return &homeHub{
		clients: make(map[*wsClient]struct{}),
	}
}

func (h *wsHub) Add(gameID uuid.UUID, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[gameID]
	if group == nil {
		group = make(map[*wsClient]struct{})
		h.groups[gameID] = group
	}
	group[client] = struct{}{}
}

// Remove drops the client and reports whether its player still has another
// connection open.
func (h *wsHub) Remove(gameID uuid.UUID, client *wsClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_ = client.conn.Close()
	group := h.groups[gameID]
	if group == nil {
		return false
	}
	delete(group, client)
	if len(group) == 0 {
		delete(h.groups, gameID)
	}
	if client.playerID == uuid.Nil {
		return false
	}
	for other := range group {
		if other.playerID == client.playerID {
			return true
		}
	}
	return false
}

func (h *wsHub) Broadcast(gameID uuid.UUID, payload any) {
	h.mu.Lock()
	group := h.groups[gameID]
	clients := make([]*wsClient, 0, len(group))
	for client := range group {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, client := range clients {
		if err := client.send(data); err != nil {
			_ = client.conn.Close()
		}
	}
}

func (h *homeHub) Add(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *homeHub) Remove(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
	_ = client.conn.Close()
}

func (h *homeHub) Broadcast(payload any) {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, client := range clients {
		if err := client.send(data); err != nil {
			h.Remove(client)
		}
	}
}

func sendJSON(client *wsClient, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = client.send(data)
}

// handleWebsocket streams game updates. A player_id query parameter marks
// that player connected for as long as the socket stays open.
func (s *Server) handleWebsocket(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	gameID, err := s.lookupGame(uri.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	playerID := uuid.Nil
	if raw := c.Query("player_id"); raw != "" {
		if playerID, err = uuid.Parse(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player_id", "kind": "invalid_argument"})
			return
		}
		found := false
		_ = s.store.ViewGame(gameID, func(g *game.Game) error {
			found = g.Player(playerID) != nil
			return nil
		})
		if !found {
			writeError(c, fmt.Errorf("%w: player %s", game.ErrNotFound, playerID))
			return
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := &wsClient{conn: conn, playerID: playerID}
	log.Printf("ws connected game_id=%s player_id=%s remote=%s", gameID, playerID, c.Request.RemoteAddr)
	s.ws.Add(gameID, client)
	if view, err := s.viewGame(gameID); err == nil {
		sendJSON(client, wsMessage{Type: "game", Game: &view})
	}
	if playerID != uuid.Nil {
		s.setConnected(gameID, playerID, true)
	}
	go s.readWS(gameID, client)
}

func (s *Server) readWS(gameID uuid.UUID, client *wsClient) {
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			log.Printf("ws disconnected game_id=%s player_id=%s error=%v", gameID, client.playerID, err)
			break
		}
	}
	stillConnected := s.ws.Remove(gameID, client)
	if client.playerID != uuid.Nil && !stillConnected {
		s.setConnected(gameID, client.playerID, false)
	}
}

func (s *Server) setConnected(gameID, playerID uuid.UUID, connected bool) {
	_, err := s.mutateGame(gameID, func(g *game.Game) error {
		if g.Player(playerID) == nil {
			return errPlayerGone
		}
		return g.SetConnected(playerID, connected)
	})
	if err != nil && !errors.Is(err, errPlayerGone) && !errors.Is(err, errGameNotFound) {
		log.Printf("player connection update failed game_id=%s player_id=%s error=%v", gameID, playerID, err)
	}
}

var errPlayerGone = errors.New("player left the game")

func (s *Server) handleHomeWebsocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := &wsClient{conn: conn}
	log.Printf("ws connected home remote=%s", c.Request.RemoteAddr)
	s.homeWS.Add(client)
	sendJSON(client, wsMessage{Type: "games", Games: s.activeSummaries()})
	go s.readHomeWS(client)
}

func (s *Server) readHomeWS(client *wsClient) {
	defer s.homeWS.Remove(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			log.Printf("home ws disconnected error=%v", err)
			return
		}
	}
}

func (s *Server) broadcastGameUpdate(m mutation) {
	if s.ws != nil {
		view := m.view
		s.ws.Broadcast(m.gameID, wsMessage{Type: "game", Game: &view, Events: m.events})
	}
	s.broadcastHomeUpdate()
}

func (s *Server) broadcastError(gameID uuid.UUID, err error) {
	if s.ws == nil {
		return
	}
	s.ws.Broadcast(gameID, wsMessage{Type: "error", Error: err.Error()})
}

func (s *Server) broadcastHomeUpdate() {
	if s.homeWS == nil {
		return
	}
	s.homeWS.Broadcast(wsMessage{Type: "games", Games: s.activeSummaries()})
}

func (s *Server) activeSummaries() []summaryView {
	summaries := s.store.ListGameSummaries()
	active := summaries[:0]
	for _, summary := range summaries {
		if summary.Status != game.StatusCompleted {
			active = append(active, summary)
		}
	}
	return buildSummaryViews(active)
}
