package text

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Color is a Minecraft named chat color.
type Color string

const (
	Black       Color = "black"
	DarkBlue    Color = "dark_blue"
	DarkGreen   Color = "dark_green"
	DarkAqua    Color = "dark_aqua"
	DarkRed     Color = "dark_red"
	DarkPurple  Color = "dark_purple"
	Gold        Color = "gold"
	Gray        Color = "gray"
	DarkGray    Color = "dark_gray"
	Blue        Color = "blue"
	Green       Color = "green"
	Aqua        Color = "aqua"
	Red         Color = "red"
	LightPurple Color = "light_purple"
	Yellow      Color = "yellow"
	White       Color = "white"
)

// Component is a chat text node. Children inherit the parent's color unless
// they set their own.
type Component struct {
	Text  string      `json:"text"`
	Color Color       `json:"color,omitempty"`
	Extra []Component `json:"extra,omitempty"`
}

func Text(s string) Component {
	return Component{Text: s}
}

// Add appends children and returns the result.
func (c Component) Add(children ...Component) Component {
	c.Extra = append(append([]Component(nil), c.Extra...), children...)
	return c
}

// AddText appends a plain child.
func (c Component) AddText(s string) Component {
	return c.Add(Text(s))
}

func (c Component) Colored(color Color) Component {
	c.Color = color
	return c
}

// Plain drops all styling.
func (c Component) Plain() string {
	var b strings.Builder
	c.writePlain(&b)
	return b.String()
}

func (c Component) writePlain(b *strings.Builder) {
	b.WriteString(c.Text)
	for _, e := range c.Extra {
		e.writePlain(b)
	}
}

// JSON encodes c in the form accepted by tellraw.
func (c Component) JSON() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// PlainLines joins the plain form of each line with newlines.
func PlainLines(lines []Component) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Plain()
	}
	return strings.Join(parts, "\n")
}
