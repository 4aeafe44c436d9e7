package game

import "strconv"

const (
	DefaultWinningScore = 7
	FastWinningScore    = 4
	MinWinningScore     = 1
	MaxWinningScore     = 20
)

// Score is a non-negative point total. Operations return new values.
type Score struct {
	value int
}

func NewScore(value int) (Score, error) {
	if value < 0 {
		return Score{}, failf(ErrInvalidArgument, "score cannot be negative (got %d)", value)
	}
	return Score{value: value}, nil
}

func (s Score) Value() int {
	return s.value
}

func (s Score) Increment() Score {
	return Score{value: s.value + 1}
}

func (s Score) Add(points int) (Score, error) {
	if points < 0 {
		return s, failf(ErrInvalidArgument, "cannot add negative points (got %d)", points)
	}
	return Score{value: s.value + points}, nil
}

func (s Score) HasReached(threshold int) bool {
	return s.value >= threshold
}

func (s Score) IsHigherThan(other Score) bool {
	return s.value > other.value
}

func (s Score) String() string {
	return strconv.Itoa(s.value)
}

func validateWinningScore(score int) error {
	if score < MinWinningScore || score > MaxWinningScore {
		return failf(ErrInvalidArgument, "winning score must be between %d and %d (got %d)", MinWinningScore, MaxWinningScore, score)
	}
	return nil
}
