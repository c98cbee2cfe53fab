// Package mc shows chat replies on a Minecraft server linked over RCON.
package mc

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/awfufu/rpsbot/internal/db"
	"github.com/awfufu/rpsbot/internal/text"
	"github.com/gorcon/rcon"
)

// Sender is the chat side of a mirror.
type Sender interface {
	Send(groupID uint64, lines ...text.Component)
}

type ConfigStore interface {
	GetRconConfig(groupID uint64) (*db.RconConfig, error)
}

// Executor runs console commands on a server.
type Executor interface {
	Execute(command string) (string, error)
	Close() error
}

type DialFunc func(address, password string) (Executor, error)

type Mirror struct {
	next   Sender
	store  ConfigStore
	dial   DialFunc
	target string
}

type Option func(*Mirror)

// WithTarget sets the tellraw selector. The default is @a.
func WithTarget(target string) Option {
	return func(m *Mirror) {
		m.target = target
	}
}

func WithDialer(dial DialFunc) Option {
	return func(m *Mirror) {
		m.dial = dial
	}
}

// RconDialer connects with gorcon, giving up after timeout.
func RconDialer(timeout time.Duration) DialFunc {
	return func(address, password string) (Executor, error) {
		conn, err := rcon.Dial(address, password, rcon.SetDialTimeout(timeout))
		if err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}
		return conn, nil
	}
}

func NewMirror(next Sender, store ConfigStore, opts ...Option) *Mirror {
	m := &Mirror{
		next:   next,
		store:  store,
		dial:   RconDialer(5 * time.Second),
		target: "@a",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send delivers lines to the chat, then to the group's server when one is
// linked and enabled.
func (m *Mirror) Send(groupID uint64, lines ...text.Component) {
	m.next.Send(groupID, lines...)

	if groupID == 0 || len(lines) == 0 {
		return
	}
	cfg, err := m.store.GetRconConfig(groupID)
	if err != nil {
		if !errors.Is(err, db.ErrNoRconConfig) {
			log.Printf("mc: group %d: load rcon config: %v", groupID, err)
		}
		return
	}
	if !cfg.Enabled {
		return
	}

	if err := m.tellraw(cfg.Address, cfg.Password, lines); err != nil {
		log.Printf("mc: group %d: %v", groupID, err)
	}
}

func (m *Mirror) tellraw(address, password string, lines []text.Component) error {
	conn, err := m.dial(address, password)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, line := range lines {
		cmd, err := TellrawCommand(m.target, line)
		if err != nil {
			return err
		}
		if _, err := conn.Execute(cmd); err != nil {
			return fmt.Errorf("failed: %w", err)
		}
	}
	return nil
}

func TellrawCommand(target string, c text.Component) (string, error) {
	js, err := c.JSON()
	if err != nil {
		return "", err
	}
	return "tellraw " + target + " " + js, nil
}
