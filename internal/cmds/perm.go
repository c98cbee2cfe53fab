package cmds

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/awfufu/rpsbot/internal/config"
	"github.com/awfufu/rpsbot/internal/db"
	"github.com/awfufu/rpsbot/internal/text"
)

const permHelpMsg string = `Manage command permissions.
Usage: perm <subcommand> [args...]
Subcommands:
  set <cmd> <key> <value>
    Keys: user_allow (0-2/guest/admin/master), whitelist_user (0-1), whitelist_group (0-1)
  special <cmd> <user|group> <add|rm|list> [ids...]
  user <id> <guest|admin|master>
Examples:
  /perm set rps user_allow 0
  /perm special rps user add 12345
  /perm special rps group list
  /perm user 12345 admin`

type PermStore interface {
	PermissionStore
	UpdateUserPerm(userID uint64, perm int) error
}

type permCommand struct {
	h     *Handler
	store PermStore
}

// NewPermCommand manages permissions of the commands registered on h.
func NewPermCommand(h *Handler, store PermStore) *Command {
	pc := &permCommand{h: h, store: store}
	return &Command{
		Name:       "perm",
		HelpMsg:    permHelpMsg,
		Permission: config.Master,
		MinArgs:    2,
		Subcommands: map[string]ExecFunc{
			"set":     pc.handleSet,
			"special": pc.handleSpecial,
			"user":    pc.handleUser,
		},
		Exec: func(s Sender, req *Request) {
			s.Send(req.GroupID, text.Text("Unknown subcommand: "+req.Args[1]))
		},
	}
}

func (pc *permCommand) loadPerm(name string) (*db.DbPermissions, bool) {
	cmd, ok := pc.h.Lookup(name)
	if !ok {
		return nil, false
	}
	perm := pc.store.GetCommandPermission(cmd.Name)
	if perm == nil {
		perm = &db.DbPermissions{
			Command:   cmd.Name,
			UserAllow: permToDB(cmd.Permission),
		}
	}
	return perm, true
}

func parseLevel(value string) (int, bool) {
	switch value {
	case "0", "guest":
		return 0, true
	case "1", "admin":
		return 1, true
	case "2", "master":
		return 2, true
	}
	return 0, false
}

func parseFlag(value string) int {
	if value == "1" || value == "enable" || value == "true" {
		return 1
	}
	return 0
}

// perm set <cmd> <key> <value>
func (pc *permCommand) handleSet(s Sender, req *Request) {
	if len(req.Args) != 5 {
		s.Send(req.GroupID, text.Text("Usage: perm set <cmd> <key> <value>"))
		return
	}
	cmdName, key, value := req.Args[2], req.Args[3], req.Args[4]

	perm, ok := pc.loadPerm(cmdName)
	if !ok {
		s.Send(req.GroupID, text.Text("Unknown command: "+cmdName))
		return
	}

	switch key {
	case "user_allow":
		level, ok := parseLevel(value)
		if !ok {
			s.Send(req.GroupID, text.Text("Invalid user_allow. Use 0/guest, 1/admin, 2/master"))
			return
		}
		perm.UserAllow = level
	case "whitelist_user":
		perm.IsWhitelistUsers = parseFlag(value)
	case "whitelist_group":
		perm.IsWhitelistGroups = parseFlag(value)
	default:
		s.Send(req.GroupID, text.Text("Unknown key: "+key))
		return
	}

	if err := pc.store.SaveCommandPermission(perm); err != nil {
		s.Send(req.GroupID, text.Text("Failed to save permission: "+err.Error()))
		return
	}
	s.Send(req.GroupID, text.Text(fmt.Sprintf("Updated %s %s to %s", cmdName, key, value)))
}

// perm special <cmd> <user|group> <add|rm|list> [ids...]
func (pc *permCommand) handleSpecial(s Sender, req *Request) {
	if len(req.Args) < 5 {
		s.Send(req.GroupID, text.Text("Usage: perm special <cmd> <user|group> <add|rm|list> [ids...]"))
		return
	}
	cmdName, targetType, action := req.Args[2], req.Args[3], req.Args[4]

	if targetType != "user" && targetType != "group" {
		s.Send(req.GroupID, text.Text("Invalid target type. Must be user or group."))
		return
	}

	perm, ok := pc.loadPerm(cmdName)
	if !ok {
		s.Send(req.GroupID, text.Text("Unknown command: "+cmdName))
		return
	}

	var currentList []uint64
	var reply string
	if targetType == "user" {
		currentList = perm.ParseSpecialUsers()
	} else {
		currentList = perm.ParseSpecialGroups()
	}

	switch action {
	case "add":
		targets := parseIDs(req.Args[5:])
		if len(targets) == 0 {
			s.Send(req.GroupID, text.Text(fmt.Sprintf("No %ss specified.", targetType)))
			return
		}
		count := 0
		for _, t := range targets {
			if !slices.Contains(currentList, t) {
				currentList = append(currentList, t)
				count++
			}
		}
		reply = fmt.Sprintf("Added %d %ss.", count, targetType)

	case "rm":
		targets := parseIDs(req.Args[5:])
		if len(targets) == 0 {
			s.Send(req.GroupID, text.Text(fmt.Sprintf("No %ss specified.", targetType)))
			return
		}
		count := 0
		for _, t := range targets {
			if idx := slices.Index(currentList, t); idx != -1 {
				currentList = slices.Delete(currentList, idx, idx+1)
				count++
			}
		}
		reply = fmt.Sprintf("Removed %d %ss.", count, targetType)

	case "list":
		if len(currentList) == 0 {
			s.Send(req.GroupID, text.Text("List is empty."))
		} else {
			strs := make([]string, len(currentList))
			for i, v := range currentList {
				strs[i] = strconv.FormatUint(v, 10)
			}
			s.Send(req.GroupID, text.Text(strings.Join(strs, ", ")))
		}
		return

	default:
		s.Send(req.GroupID, text.Text("Unknown action: "+action))
		return
	}

	if targetType == "user" {
		perm.SpecialUsers = db.JoinIDList(currentList)
	} else {
		perm.SpecialGroups = db.JoinIDList(currentList)
	}

	if err := pc.store.SaveCommandPermission(perm); err != nil {
		s.Send(req.GroupID, text.Text("Failed to save: "+err.Error()))
		return
	}
	s.Send(req.GroupID, text.Text(reply))
}

// perm user <id> <level>
func (pc *permCommand) handleUser(s Sender, req *Request) {
	if len(req.Args) != 4 {
		s.Send(req.GroupID, text.Text("Usage: perm user <id> <guest|admin|master>"))
		return
	}
	userID, err := strconv.ParseUint(req.Args[2], 10, 64)
	if err != nil {
		s.Send(req.GroupID, text.Text("Invalid user id: "+req.Args[2]))
		return
	}
	level, ok := parseLevel(req.Args[3])
	if !ok {
		s.Send(req.GroupID, text.Text("Invalid level. Use guest, admin or master"))
		return
	}
	if err := pc.store.UpdateUserPerm(userID, level); err != nil {
		s.Send(req.GroupID, text.Text("Failed to save: "+err.Error()))
		return
	}
	s.Send(req.GroupID, text.Text(fmt.Sprintf("User %d is now %s", userID, permFromDB(level))))
}

func parseIDs(args []string) []uint64 {
	var ids []uint64
	for _, arg := range args {
		if id, err := strconv.ParseUint(arg, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
