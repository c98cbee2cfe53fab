// Package qq connects the command handler to a NapCat OneBot bridge.
package qq

import (
	"context"
	"log"
	"strings"

	"github.com/awfufu/qbot"
	"github.com/awfufu/rpsbot/internal/cmds"
	"github.com/awfufu/rpsbot/internal/text"
)

type GroupSender struct {
	sender *qbot.Sender
}

func NewGroupSender(sender *qbot.Sender) *GroupSender {
	return &GroupSender{sender: sender}
}

// Send joins lines into one group message. Colors are dropped.
func (g *GroupSender) Send(groupID uint64, lines ...text.Component) {
	if len(lines) == 0 {
		return
	}
	g.sender.SendGroupMsg(qbot.GroupID(groupID), text.PlainLines(lines))
}

type UserStore interface {
	SaveUser(userID uint64, name string) error
}

type Bot struct {
	Handler *cmds.Handler
	Sender  cmds.Sender
	Users   UserStore
	BotID   uint64
}

// Run handles group messages until ctx is done or messages is closed.
func (b *Bot) Run(ctx context.Context, messages <-chan *qbot.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			go b.handle(msg)
		}
	}
}

// incoming is the part of a message the bot acts on.
type incoming struct {
	group   bool
	userID  uint64
	groupID uint64
	name    string
	content string
}

func fromMessage(msg *qbot.Message) incoming {
	return incoming{
		group:   msg.ChatType == qbot.Group,
		userID:  uint64(msg.UserID),
		groupID: uint64(msg.GroupID),
		name:    msg.Name,
		content: messageText(msg.Array),
	}
}

func (b *Bot) handle(msg *qbot.Message) {
	b.dispatch(fromMessage(msg))
}

func (b *Bot) dispatch(in incoming) {
	if !in.group || in.userID == b.BotID {
		return
	}
	if b.Users != nil {
		if err := b.Users.SaveUser(in.userID, in.name); err != nil {
			log.Printf("save user %d: %v", in.userID, err)
		}
	}

	if in.content != "" {
		b.Handler.HandleText(b.Sender, in.userID, in.groupID, in.content)
	}
}

// messageText concatenates the text items of a message. Messages not
// starting with text are never commands.
func messageText(items []qbot.MsgItem) string {
	if len(items) == 0 || items[0].Type() != qbot.TextType {
		return ""
	}
	var b strings.Builder
	for _, item := range items {
		if item.Type() == qbot.TextType {
			b.WriteString(item.Text())
		}
	}
	return b.String()
}
