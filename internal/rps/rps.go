package rps

import (
	"errors"
	"fmt"
	"strings"
)

type Choice int

const (
	Rock Choice = iota
	Paper
	Scissors
)

var choices = [...]Choice{Rock, Paper, Scissors}

// Choices returns every choice in declaration order.
func Choices() []Choice {
	return []Choice{Rock, Paper, Scissors}
}

func (c Choice) String() string {
	switch c {
	case Rock:
		return "Rock"
	case Paper:
		return "Paper"
	case Scissors:
		return "Scissors"
	}
	return fmt.Sprintf("Choice(%d)", int(c))
}

// Token is the lowercase word a player types for c.
func (c Choice) Token() string {
	return strings.ToLower(c.String())
}

// defeats reports the choice that c wins against. Out of range values
// defeat nothing.
func (c Choice) defeats() Choice {
	switch c {
	case Rock:
		return Scissors
	case Paper:
		return Rock
	case Scissors:
		return Paper
	}
	return -1
}

// Beats classifies c against other from c's side.
func (c Choice) Beats(other Choice) Outcome {
	if c == other {
		return Draw
	}
	if c.defeats() == other {
		return Win
	}
	return Lose
}

// Compare is Beats spelled as a function.
func Compare(a, b Choice) Outcome {
	return a.Beats(b)
}

type Outcome int

const (
	Win Outcome = iota
	Lose
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "Win"
	case Lose:
		return "Lose"
	case Draw:
		return "Draw"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

var ErrInvalidChoice = errors.New("invalid choice")

// ParseChoice matches s against the choice tokens. Matching is case-sensitive.
func ParseChoice(s string) (Choice, error) {
	tokens := make([]string, 0, len(choices))
	for _, c := range choices {
		if s == c.Token() {
			return c, nil
		}
		tokens = append(tokens, c.Token())
	}
	return 0, fmt.Errorf("%w %q, expected one of: %s", ErrInvalidChoice, s, strings.Join(tokens, ", "))
}

// Round is the result of a single game.
type Round struct {
	Player   Choice
	Opponent Choice
	Outcome  Outcome
}
