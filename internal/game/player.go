package game

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxNicknameLength = 20

type Role int

const (
	RolePlayer Role = iota
	RoleJudge
	RoleSpectator
)

func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "player"
	case RoleJudge:
		return "judge"
	case RoleSpectator:
		return "spectator"
	default:
		return "unknown"
	}
}

func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "player":
		return RolePlayer, nil
	case "judge":
		return RoleJudge, nil
	case "spectator":
		return RoleSpectator, nil
	default:
		return 0, failf(ErrInvalidArgument, "unknown role %q", raw)
	}
}

// Player is owned by a Game. Its state changes only through Game operations.
type Player struct {
	id           uuid.UUID
	nickname     string
	score        Score
	role         Role
	hand         Hand
	connected    bool
	host         bool
	joinedAt     time.Time
	lastActiveAt time.Time
}

// ValidateNickname trims the nickname and checks its length.
func ValidateNickname(nickname string) (string, error) {
	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" {
		return "", failf(ErrInvalidArgument, "nickname cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxNicknameLength {
		return "", failf(ErrInvalidArgument, "nickname must be %d characters or fewer", MaxNicknameLength)
	}
	return trimmed, nil
}

func newPlayer(nickname string, host bool, at time.Time) (*Player, error) {
	name, err := ValidateNickname(nickname)
	if err != nil {
		return nil, err
	}
	return &Player{
		id:           uuid.New(),
		nickname:     name,
		role:         RolePlayer,
		connected:    true,
		host:         host,
		joinedAt:     at,
		lastActiveAt: at,
	}, nil
}

func (p *Player) ID() uuid.UUID { return p.id }
func (p *Player) Nickname() string { return p.nickname }
func (p *Player) Score() Score { return p.score }
func (p *Player) Role() Role { return p.role }
func (p *Player) IsConnected() bool { return p.connected }
func (p *Player) IsHost() bool { return p.host }
func (p *Player) JoinedAt() time.Time { return p.joinedAt }
func (p *Player) LastActiveAt() time.Time { return p.lastActiveAt }
func (p *Player) IsJudge() bool { return p.role == RoleJudge }

// Hand returns a copy of the held cards in order.
func (p *Player) Hand() []Card { return p.hand.Cards() }
func (p *Player) HandSize() int { return p.hand.Len() }

func (p *Player) HasCard(id uuid.UUID) bool {
	return p.hand.Has(id)
}

func (p *Player) CanPlayCards() bool {
	return p.role == RolePlayer && p.connected
}

func (p *Player) CanSelectWinner() bool {
	return p.role == RoleJudge && p.connected
}

func (p *Player) HasWon(winningScore int) bool {
	return p.score.HasReached(winningScore)
}

func (p *Player) IsInactive(now time.Time, timeout time.Duration) bool {
	return now.Sub(p.lastActiveAt) > timeout
}

func (p *Player) matchesNickname(nickname string) bool {
	return strings.EqualFold(p.nickname, strings.TrimSpace(nickname))
}

func (p *Player) touch(at time.Time) {
	p.lastActiveAt = at
}

func (p *Player) becomeJudge(at time.Time) error {
	if p.role == RoleSpectator {
		return failf(ErrRoleDenied, "spectator %q cannot become judge", p.nickname)
	}
	p.role = RoleJudge
	p.touch(at)
	return nil
}

func (p *Player) becomePlayer(at time.Time) {
	if p.role == RoleSpectator {
		return
	}
	p.role = RolePlayer
	p.touch(at)
}

func (p *Player) draw(cards []Card, at time.Time) error {
	if err := p.hand.AddAll(cards); err != nil {
		return err
	}
	p.touch(at)
	return nil
}

func (p *Player) awardPoint(at time.Time) {
	p.score = p.score.Increment()
	p.touch(at)
}

func (p *Player) setConnected(connected bool, at time.Time) {
	p.connected = connected
	p.touch(at)
}
