package server

import (
	"errors"
	"sort"
	"sync"
	"time"

	"pears2pears/internal/game"

	"github.com/google/uuid"
)

var (
	errGameNotFound = errors.New("game not found")
	errGameRunning  = errors.New("game already running")
)

// Store keeps running games in memory. Each game has its own lock so
// operations on one game never wait on another.
type Store struct {
	mu    sync.Mutex
	games map[uuid.UUID]*storeEntry
	codes map[game.Code]uuid.UUID
}

type storeEntry struct {
	mu   sync.Mutex
	game *game.Game
}

type GameSummary struct {
	ID        uuid.UUID
	Code      game.Code
	Phase     game.Phase
	Status    game.Status
	Players   int
	CreatedAt time.Time
}

func NewStore() *Store {
	return &Store{
		games: make(map[uuid.UUID]*storeEntry),
		codes: make(map[game.Code]uuid.UUID),
	}
}

// AddGame registers a game. It fails when the id or join code is in use.
func (s *Store) AddGame(g *game.Game) error {
	if g == nil {
		return errors.New("game is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[g.ID()]; ok {
		return errGameRunning
	}
	if _, ok := s.codes[g.Code()]; ok {
		return errGameRunning
	}
	s.games[g.ID()] = &storeEntry{game: g}
	s.codes[g.Code()] = g.ID()
	return nil
}

// RemoveGameIf drops the game when check, run under the game's lock,
// returns true. Callers waiting on the lock see the game as gone.
func (s *Store) RemoveGameIf(id uuid.UUID, check func(g *game.Game) bool) bool {
	entry, ok := s.entry(id)
	if !ok {
		return false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if !check(entry.game) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.games[id] == entry {
		delete(s.codes, entry.game.Code())
		delete(s.games, id)
	}
	return true
}

func (s *Store) HasCode(code game.Code) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.codes[code]
	return ok
}

// FindGameIDByCode resolves a join code to a running game id.
func (s *Store) FindGameIDByCode(code game.Code) (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.codes[code]
	return id, ok
}

func (s *Store) entry(id uuid.UUID) (*storeEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.games[id]
	return entry, ok
}

// holds reports whether entry is still the stored game for id.
func (s *Store) holds(id uuid.UUID, entry *storeEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.games[id] == entry
}

// ViewGame runs read under the game's lock.
func (s *Store) ViewGame(id uuid.UUID, read func(g *game.Game) error) error {
	entry, ok := s.entry(id)
	if !ok {
		return errGameNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if !s.holds(id, entry) {
		return errGameNotFound
	}
	return read(entry.game)
}

// UpdateGame runs update under the game's lock. The game update returns
// replaces the stored one, which lets callers roll back to a restored copy.
func (s *Store) UpdateGame(id uuid.UUID, update func(g *game.Game) (*game.Game, error)) error {
	entry, ok := s.entry(id)
	if !ok {
		return errGameNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if !s.holds(id, entry) {
		return errGameNotFound
	}
	next, err := update(entry.game)
	if next != nil {
		entry.game = next
	}
	return err
}

func (s *Store) ListGameSummaries() []GameSummary {
	s.mu.Lock()
	entries := make([]*storeEntry, 0, len(s.games))
	for _, entry := range s.games {
		entries = append(entries, entry)
	}
	s.mu.Unlock()

	list := make([]GameSummary, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		g := entry.game
		list = append(list, GameSummary{
			ID:        g.ID(),
			Code:      g.Code(),
			Phase:     g.Phase(),
			Status:    g.Status(),
			Players:   g.PlayerCount(),
			CreatedAt: g.CreatedAt(),
		})
		entry.mu.Unlock()
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Code < list[j].Code
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}
