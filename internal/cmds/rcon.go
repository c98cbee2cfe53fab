package cmds

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/awfufu/rpsbot/internal/config"
	"github.com/awfufu/rpsbot/internal/db"
	"github.com/awfufu/rpsbot/internal/text"
)

const rconHelpMsg string = `Link this group to a Minecraft server. Game results are shown in-game.
Usage: /rcon [status | set <address> <password> | enable | disable]
Examples:
  /rcon status
  /rcon set 127.0.0.1:25575 password
  /rcon enable
  /rcon disable`

type RconStore interface {
	GetRconConfig(groupID uint64) (*db.RconConfig, error)
	SetRconAddress(groupID uint64, address, password string) error
	SetRconEnabled(groupID uint64, enabled bool) error
}

func NewRconCommand(store RconStore) *Command {
	groupOnly := func(exec ExecFunc) ExecFunc {
		return func(s Sender, req *Request) {
			if req.GroupID == 0 {
				s.Send(req.GroupID, text.Text("RCON can only be configured in a group"))
				return
			}
			exec(s, req)
		}
	}
	return &Command{
		Name:       "rcon",
		HelpMsg:    rconHelpMsg,
		Permission: config.Admin,
		MinArgs:    2,
		MaxArgs:    4,
		Subcommands: map[string]ExecFunc{
			"status": groupOnly(func(s Sender, req *Request) {
				showRconStatus(s, req, store)
			}),
			"set": groupOnly(func(s Sender, req *Request) {
				if len(req.Args) != 4 {
					s.Send(req.GroupID, text.Text(rconHelpMsg))
					return
				}
				setRconConfig(s, req, store, req.Args[2], req.Args[3])
			}),
			"enable": groupOnly(func(s Sender, req *Request) {
				toggleRcon(s, req, store, true)
			}),
			"disable": groupOnly(func(s Sender, req *Request) {
				toggleRcon(s, req, store, false)
			}),
		},
	}
}

func showRconStatus(s Sender, req *Request, store RconStore) {
	cfg, err := store.GetRconConfig(req.GroupID)
	if errors.Is(err, db.ErrNoRconConfig) {
		s.Send(req.GroupID, text.Text("RCON not configured for this group"))
		return
	}
	if err != nil {
		s.Send(req.GroupID, text.Text("Database error: "+err.Error()))
		return
	}

	status := "disabled"
	if cfg.Enabled {
		status = "enabled"
	}
	s.Send(req.GroupID, text.Text(fmt.Sprintf("RCON Status: %s\nAddress: %s\nPassword: %s",
		status, cfg.Address, strings.Repeat("*", len(cfg.Password)))))
}

func setRconConfig(s Sender, req *Request, store RconStore, address, password string) {
	_, portStr, err := net.SplitHostPort(address)
	if err != nil {
		s.Send(req.GroupID, text.Text("Invalid address format. Use host:port (e.g., 127.0.0.1:25575)"))
		return
	}
	if port, err := strconv.Atoi(portStr); err != nil || port < 1 || port > 65535 {
		s.Send(req.GroupID, text.Text("Invalid port number"))
		return
	}

	if err := store.SetRconAddress(req.GroupID, address, password); err != nil {
		s.Send(req.GroupID, text.Text("Database error: "+err.Error()))
		return
	}
	s.Send(req.GroupID, text.Text("RCON configuration updated: "+address))
}

func toggleRcon(s Sender, req *Request, store RconStore, enabled bool) {
	err := store.SetRconEnabled(req.GroupID, enabled)
	if errors.Is(err, db.ErrNoRconConfig) {
		s.Send(req.GroupID, text.Text("RCON not configured for this group. Use 'rcon set' first."))
		return
	}
	if err != nil {
		s.Send(req.GroupID, text.Text("Database error: "+err.Error()))
		return
	}

	status := "disabled"
	if enabled {
		status = "enabled"
	}
	s.Send(req.GroupID, text.Text(fmt.Sprintf("RCON %s for this group", status)))
}
