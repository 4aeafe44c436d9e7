package game

import (
	"crypto/rand"
	"strings"
)

// CodeLength is the number of symbols in a join code.
const CodeLength = 6

// I, O, 0 and 1 are left out so codes can be read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Code is the short join code players type to find a game.
type Code string

// GenerateCode returns a uniformly random code. The alphabet has 32 symbols,
// so reducing a random byte modulo its length carries no bias.
func GenerateCode() Code {
	buf := make([]byte, CodeLength)
	// Read never returns an error; it crashes the program if the system
	// source fails.
	_, _ = rand.Read(buf)
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return Code(buf)
}

// ParseCode normalizes case and surrounding space and validates the result.
func ParseCode(raw string) (Code, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "" {
		return "", failf(ErrInvalidArgument, "game code cannot be empty")
	}
	if len(normalized) != CodeLength {
		return "", failf(ErrInvalidArgument, "game code must be exactly %d characters", CodeLength)
	}
	for _, r := range normalized {
		if !strings.ContainsRune(codeAlphabet, r) {
			return "", failf(ErrInvalidArgument, "game code contains invalid character %q", r)
		}
	}
	return Code(normalized), nil
}

func IsValidCode(raw string) bool {
	_, err := ParseCode(raw)
	return err == nil
}

func (c Code) String() string {
	return string(c)
}
