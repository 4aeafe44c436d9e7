package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pears2pears/internal/config"
	"pears2pears/internal/db"
	"pears2pears/internal/game"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func testCards(t *testing.T) cardSet {
	t.Helper()
	var cards []game.Card
	for i := range 60 {
		card, err := game.NewResponseCard(fmt.Sprintf("Response %d", i+1), "")
		if err != nil {
			t.Fatalf("response card: %v", err)
		}
		cards = append(cards, card)
	}
	for i := range 20 {
		card, err := game.NewPromptCard(fmt.Sprintf("Prompt %d", i+1), "")
		if err != nil {
			t.Fatalf("prompt card: %v", err)
		}
		cards = append(cards, card)
	}
	return newCardSet(cards)
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.RoundEndSeconds = 0
	return cfg
}

func newAppServer(t *testing.T, conn *gorm.DB, cfg config.Config) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(conn, cfg, WithCards(testCards(t)))
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(srv.Close)
	return srv, ts
}

func doJSON(t *testing.T, method, url string, body any, dest any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

type createResponse struct {
	GameID   string   `json:"game_id"`
	Code     string   `json:"code"`
	PlayerID string   `json:"player_id"`
	Game     gameView `json:"game"`
}

type joinResponse struct {
	PlayerID string   `json:"player_id"`
	Game     gameView `json:"game"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type handResponse struct {
	Role  string     `json:"role"`
	Cards []cardView `json:"cards"`
}

// lobby creates a game hosted by Ada and seats the other names.
func lobby(t *testing.T, ts *httptest.Server, names ...string) (string, map[string]string) {
	t.Helper()
	var created createResponse
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/games", map[string]any{"nickname": "Ada"}, &created); status != http.StatusCreated {
		t.Fatalf("create game: status %d", status)
	}
	players := map[string]string{"Ada": created.PlayerID}
	for _, name := range names {
		var joined joinResponse
		if status := doJSON(t, http.MethodPost, ts.URL+"/api/games/"+created.Code+"/players", map[string]any{"nickname": name}, &joined); status != http.StatusCreated {
			t.Fatalf("join %s: status %d", name, status)
		}
		players[name] = joined.PlayerID
	}
	return created.Code, players
}

func startGame(t *testing.T, ts *httptest.Server, code, hostID string) gameView {
	t.Helper()
	var view gameView
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/games/"+code+"/start", map[string]any{"player_id": hostID}, &view); status != http.StatusOK {
		t.Fatalf("start game: status %d", status)
	}
	return view
}

func handOf(t *testing.T, ts *httptest.Server, code, playerID string) handResponse {
	t.Helper()
	var hand handResponse
	if status := doJSON(t, http.MethodGet, ts.URL+"/api/games/"+code+"/players/"+playerID+"/hand", nil, &hand); status != http.StatusOK {
		t.Fatalf("hand: status %d", status)
	}
	return hand
}

// playRound has every non-judge play their first card and returns the view
// after the last play.
func playRound(t *testing.T, ts *httptest.Server, code string, players map[string]string, judgeID string) gameView {
	t.Helper()
	var view gameView
	for _, id := range players {
		if id == judgeID {
			continue
		}
		hand := handOf(t, ts, code, id)
		body := map[string]any{"player_id": id, "card_id": hand.Cards[0].ID}
		if status := doJSON(t, http.MethodPost, ts.URL+"/api/games/"+code+"/plays", body, &view); status != http.StatusOK {
			t.Fatalf("play card: status %d", status)
		}
	}
	return view
}
