package cmds

import (
	"log"
	"slices"
	"strings"

	"github.com/awfufu/rpsbot/internal/config"
	"github.com/awfufu/rpsbot/internal/db"
	"github.com/awfufu/rpsbot/internal/text"
	"github.com/google/shlex"
)

// Sender delivers reply lines to the chat a request came from.
type Sender interface {
	Send(groupID uint64, lines ...text.Component)
}

type Request struct {
	UserID  uint64
	GroupID uint64
	Args    []string // Args[0] is the command name as typed
}

type ExecFunc func(s Sender, req *Request)

type Command struct {
	Name        string              // Command name
	Aliases     []string            // Alternative names
	HelpMsg     string              // Help message
	Permission  config.Permission   // Permission requirement
	MaxArgs     int                 // Maximum number of arguments
	MinArgs     int                 // Minimum number of arguments
	Subcommands map[string]ExecFunc // Literal first arguments
	Exec        ExecFunc            // Execute function
}

type PermissionStore interface {
	GetUserPerm(userID uint64) int
	GetCommandPermission(cmd string) *db.DbPermissions
	SaveCommandPermission(perm *db.DbPermissions) error
}

type Handler struct {
	cmdMap   map[string]*Command
	commands []*Command
	store    PermissionStore
	masterID uint64
}

const commandPrefix = '/'

// NewHandler builds a dispatcher. store may be nil, in which case only the
// master id and each command's static level are consulted.
func NewHandler(store PermissionStore, masterID uint64, commands ...*Command) *Handler {
	h := &Handler{
		cmdMap:   make(map[string]*Command),
		store:    store,
		masterID: masterID,
	}
	for _, cmd := range commands {
		h.Register(cmd)
	}
	return h
}

func (h *Handler) Register(cmd *Command) {
	h.commands = append(h.commands, cmd)
	h.cmdMap[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		h.cmdMap[alias] = cmd
	}
}

// Lookup resolves a name or alias.
func (h *Handler) Lookup(name string) (*Command, bool) {
	cmd, ok := h.cmdMap[name]
	return cmd, ok
}

// InitPermissions stores a permission row for every command lacking one.
func (h *Handler) InitPermissions() {
	if h.store == nil {
		return
	}
	for _, cmd := range h.commands {
		if h.store.GetCommandPermission(cmd.Name) != nil {
			continue
		}
		userAllow := permToDB(cmd.Permission)
		newPerm := &db.DbPermissions{
			Command:   cmd.Name,
			UserAllow: userAllow,
		}
		if err := h.store.SaveCommandPermission(newPerm); err != nil {
			log.Printf("Failed to init permission for %s: %v", cmd.Name, err)
		} else {
			log.Printf("Initialized permission for command: %s (user_allow: %d)", cmd.Name, userAllow)
		}
	}
}

// HandleText runs content as a command. It reports false when content is not
// a known command.
func (h *Handler) HandleText(s Sender, userID, groupID uint64, content string) bool {
	return h.handle(s, userID, groupID, content, false)
}

// HandleMasterText is HandleText with every permission check passing, for
// hosts whose operator owns the bot.
func (h *Handler) HandleMasterText(s Sender, userID, groupID uint64, content string) bool {
	return h.handle(s, userID, groupID, content, true)
}

func (h *Handler) handle(s Sender, userID, groupID uint64, content string, master bool) bool {
	cmdName, raw, ok := parseCmd(content)
	if !ok {
		return false
	}

	cmd, exists := h.cmdMap[cmdName]
	if !exists {
		return false
	}

	if !master && !h.checkCmdPermission(cmd, userID, groupID) {
		s.Send(groupID, text.Text(cmdName+": Permission denied"))
		return true
	}

	parts, err := shlex.Split(raw)
	if err != nil {
		s.Send(groupID, text.Text(cmd.HelpMsg))
		return true
	}
	args := append([]string{cmdName}, parts...)

	argCount := len(args)
	if (cmd.MinArgs > 0 && argCount < cmd.MinArgs) || (cmd.MaxArgs > 0 && argCount > cmd.MaxArgs) {
		s.Send(groupID, text.Text(cmd.HelpMsg))
		return true
	}

	if isHelpRequest(args) {
		s.Send(groupID, text.Text(cmd.HelpMsg))
		return true
	}

	req := &Request{
		UserID:  userID,
		GroupID: groupID,
		Args:    args,
	}
	log.Printf("exec %s for user %d in group %d", cmd.Name, userID, groupID)

	if len(args) > 1 {
		if sub, ok := cmd.Subcommands[args[1]]; ok {
			sub(s, req)
			return true
		}
	}
	if cmd.Exec == nil {
		s.Send(groupID, text.Text(cmd.HelpMsg))
		return true
	}
	cmd.Exec(s, req)
	return true
}

// parseCmd splits "/name rest" into its name and the raw remainder.
func parseCmd(content string) (string, string, bool) {
	content = strings.TrimLeft(content, " ")
	if content == "" || content[0] != commandPrefix {
		return "", "", false
	}
	content = content[1:]

	name, raw, _ := strings.Cut(content, " ")
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(raw), true
}

// checks if it is a help request
func isHelpRequest(args []string) bool {
	if len(args) < 2 {
		return false
	}
	return args[1] == "-h" || args[1] == "-?" || args[1] == "--help"
}

func (h *Handler) checkCmdPermission(cmd *Command, userID, groupID uint64) bool {
	// 1. Master bypass
	if h.masterID != 0 && userID == h.masterID {
		return true
	}

	required := cmd.Permission
	if h.store == nil {
		return h.userPermission(userID) >= required
	}

	// 2. Load permissions from DB
	var specialUsers, specialGroups []uint64
	isWhitelistUsers, isWhitelistGroups := 0, 0
	if perm := h.store.GetCommandPermission(cmd.Name); perm != nil {
		required = permFromDB(perm.UserAllow)
		specialUsers = perm.ParseSpecialUsers()
		isWhitelistUsers = perm.IsWhitelistUsers
		specialGroups = perm.ParseSpecialGroups()
		isWhitelistGroups = perm.IsWhitelistGroups
	}

	// 3. User special list: whitelist allows, blacklist blocks
	if slices.Contains(specialUsers, userID) {
		return isWhitelistUsers == 1
	}

	// 4. Role
	if h.userPermission(userID) < required {
		return false
	}

	// 5. Group special list
	if slices.Contains(specialGroups, groupID) {
		return isWhitelistGroups == 1
	}
	return true
}

func (h *Handler) userPermission(userID uint64) config.Permission {
	if h.masterID != 0 && userID == h.masterID {
		return config.Master
	}
	if h.store == nil {
		return config.Guest
	}
	switch h.store.GetUserPerm(userID) {
	case 1:
		return config.Admin
	case 2:
		return config.Master
	default:
		return config.Guest
	}
}

// 0:guest, 1:admin, 2:master
func permFromDB(v int) config.Permission {
	switch v {
	case 0:
		return config.Guest
	case 1:
		return config.Admin
	default:
		return config.Master
	}
}

func permToDB(p config.Permission) int {
	switch p {
	case config.Guest:
		return 0
	case config.Admin:
		return 1
	default:
		return 2
	}
}
