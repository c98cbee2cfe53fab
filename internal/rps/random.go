package rps

import "math/rand/v2"

// Source yields random ints in [0, n). Implementations shared between
// goroutines must be safe for concurrent use.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}

type Picker struct {
	src Source
}

// NewPicker returns a Picker drawing from src, or from the process-wide
// generator when src is nil.
func NewPicker(src Source) *Picker {
	if src == nil {
		src = globalSource{}
	}
	return &Picker{src: src}
}

var defaultPicker = NewPicker(nil)

func (p *Picker) Choice() Choice {
	return choices[p.src.IntN(len(choices))]
}

// Play draws an opponent for player and scores the round.
func (p *Picker) Play(player Choice) Round {
	opponent := p.Choice()
	return Round{
		Player:   player,
		Opponent: opponent,
		Outcome:  player.Beats(opponent),
	}
}

func RandomChoice() Choice {
	return defaultPicker.Choice()
}
