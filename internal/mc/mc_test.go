package mc

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/awfufu/rpsbot/internal/db"
	"github.com/awfufu/rpsbot/internal/text"
)

type chatSender struct {
	calls int
}

func (c *chatSender) Send(groupID uint64, lines ...text.Component) {
	c.calls++
}

type mapStore map[uint64]*db.RconConfig

func (m mapStore) GetRconConfig(groupID uint64) (*db.RconConfig, error) {
	cfg, ok := m[groupID]
	if !ok {
		return nil, db.ErrNoRconConfig
	}
	return cfg, nil
}

type fakeConn struct {
	commands []string
	closed   bool
	fail     error
}

func (f *fakeConn) Execute(command string) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	f.commands = append(f.commands, command)
	return "", nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func TestTellrawCommand(t *testing.T) {
	got, err := TellrawCommand("@a", text.Text("You win!").Colored(text.Green))
	if err != nil {
		t.Fatal(err)
	}
	if want := `tellraw @a {"text":"You win!","color":"green"}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestMirrorSendsToLinkedServer(t *testing.T) {
	chat := &chatSender{}
	conn := &fakeConn{}
	var dialed string
	store := mapStore{
		1: {GroupID: 1, Address: "mc:25575", Password: "pw", Enabled: true},
	}
	m := NewMirror(chat, store, WithTarget("@p"), WithDialer(func(address, password string) (Executor, error) {
		dialed = address + "/" + password
		return conn, nil
	}))

	m.Send(1, text.Text("a"), text.Text("b").Colored(text.Red))

	if chat.calls != 1 {
		t.Errorf("chat sends = %d", chat.calls)
	}
	if dialed != "mc:25575/pw" {
		t.Errorf("dialed %q", dialed)
	}
	want := []string{
		`tellraw @p {"text":"a"}`,
		`tellraw @p {"text":"b","color":"red"}`,
	}
	if len(conn.commands) != len(want) {
		t.Fatalf("commands = %v", conn.commands)
	}
	for i := range want {
		if conn.commands[i] != want[i] {
			t.Errorf("command %d = %s, want %s", i, conn.commands[i], want[i])
		}
	}
	if !conn.closed {
		t.Error("connection left open")
	}
}

func TestMirrorSkips(t *testing.T) {
	store := mapStore{
		2: {GroupID: 2, Address: "mc:25575", Enabled: false},
	}
	dials := 0
	chat := &chatSender{}
	m := NewMirror(chat, store, WithDialer(func(string, string) (Executor, error) {
		dials++
		return &fakeConn{}, nil
	}))

	m.Send(0, text.Text("private"))
	m.Send(2, text.Text("disabled"))
	m.Send(3, text.Text("unlinked"))
	m.Send(2)

	if dials != 0 {
		t.Errorf("dialed %d times", dials)
	}
	if chat.calls != 4 {
		t.Errorf("chat sends = %d", chat.calls)
	}
}

func TestMirrorErrorsDoNotBlockChat(t *testing.T) {
	store := mapStore{1: {GroupID: 1, Address: "mc:25575", Enabled: true}}
	chat := &chatSender{}

	m := NewMirror(chat, store, WithDialer(func(string, string) (Executor, error) {
		return nil, errors.New("refused")
	}))
	m.Send(1, text.Text("x"))

	conn := &fakeConn{fail: errors.New("broken pipe")}
	m = NewMirror(chat, store, WithDialer(func(string, string) (Executor, error) {
		return conn, nil
	}))
	m.Send(1, text.Text("y"))

	if chat.calls != 2 {
		t.Errorf("chat sends = %d", chat.calls)
	}
	if !conn.closed {
		t.Error("connection left open after failure")
	}
}

type brokenStore struct{}

func (brokenStore) GetRconConfig(uint64) (*db.RconConfig, error) {
	return nil, errors.New("database is locked")
}

func TestMirrorLogsStoreErrors(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	chat := &chatSender{}
	NewMirror(chat, mapStore{}).Send(3, text.Text("unlinked"))
	if buf.Len() != 0 {
		t.Errorf("unlinked group logged %q", buf.String())
	}

	NewMirror(chat, brokenStore{}).Send(3, text.Text("x"))
	if !strings.Contains(buf.String(), "database is locked") {
		t.Errorf("store error not logged: %q", buf.String())
	}
	if chat.calls != 2 {
		t.Errorf("chat sends = %d", chat.calls)
	}
}
