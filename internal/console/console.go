// Package console runs commands typed on a terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/awfufu/rpsbot/internal/cmds"
	"github.com/awfufu/rpsbot/internal/text"
)

type Options struct {
	UserID uint64 // identity of the console user
	Master bool   // skip permission checks
	Color  bool   // render ANSI colors
	Prompt string
}

type writerSender struct {
	w     io.Writer
	color bool
}

func (ws writerSender) Send(_ uint64, lines ...text.Component) {
	for _, l := range lines {
		if ws.color {
			fmt.Fprintln(ws.w, l.ANSI())
		} else {
			fmt.Fprintln(ws.w, l.Plain())
		}
	}
}

// Run reads one command per line from in until EOF or ctx is done.
func Run(ctx context.Context, h *cmds.Handler, in io.Reader, out io.Writer, opts Options) error {
	s := writerSender{w: out, color: opts.Color}
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		if opts.Prompt != "" {
			fmt.Fprint(out, opts.Prompt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			handle := h.HandleText
			if opts.Master {
				handle = h.HandleMasterText
			}
			if !handle(s, opts.UserID, 0, line) {
				s.Send(0, text.Text("unknown command: "+line).Colored(text.Gray))
			}
		}
	}
}
