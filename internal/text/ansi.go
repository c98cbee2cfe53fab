package text

import "strings"

const ansiReset = "\x1b[0m"

var ansiColors = map[Color]string{
	Black:       "\x1b[30m",
	DarkBlue:    "\x1b[34m",
	DarkGreen:   "\x1b[32m",
	DarkAqua:    "\x1b[36m",
	DarkRed:     "\x1b[31m",
	DarkPurple:  "\x1b[35m",
	Gold:        "\x1b[33m",
	Gray:        "\x1b[37m",
	DarkGray:    "\x1b[90m",
	Blue:        "\x1b[94m",
	Green:       "\x1b[92m",
	Aqua:        "\x1b[96m",
	Red:         "\x1b[91m",
	LightPurple: "\x1b[95m",
	Yellow:      "\x1b[93m",
	White:       "\x1b[97m",
}

// ANSI renders c with terminal escape sequences.
func (c Component) ANSI() string {
	var b strings.Builder
	c.writeANSI(&b, "")
	return b.String()
}

func (c Component) writeANSI(b *strings.Builder, color Color) {
	if c.Color != "" {
		color = c.Color
	}

	if c.Text != "" {
		if seq, ok := ansiColors[color]; ok {
			b.WriteString(seq)
			b.WriteString(c.Text)
			b.WriteString(ansiReset)
		} else {
			b.WriteString(c.Text)
		}
	}
	for _, e := range c.Extra {
		e.writeANSI(b, color)
	}
}
