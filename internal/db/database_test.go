package db

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "x"); err == nil {
		t.Error("unknown driver accepted")
	}
}

func TestOpenFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bot.db")
	s, err := Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.SaveUser(1, "alice"); err != nil {
		t.Fatal(err)
	}
}

func TestLookupMissesAreQuiet(t *testing.T) {
	var buf bytes.Buffer
	old := logOutput
	logOutput = &buf
	defer func() { logOutput = old }()

	s := openTestStore(t)
	if _, err := s.GetRconConfig(12345); !errors.Is(err, ErrNoRconConfig) {
		t.Fatalf("err = %v", err)
	}
	s.GetUserPerm(12345)
	s.GetCommandPermission("nothing")

	if strings.Contains(buf.String(), "record not found") {
		t.Errorf("misses logged:\n%s", buf.String())
	}
}

func TestUsers(t *testing.T) {
	s := openTestStore(t)

	if got := s.GetUserPerm(7); got != 0 {
		t.Errorf("unknown user perm = %d", got)
	}
	if err := s.SaveUser(7, "alice"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateUserPerm(7, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveUser(7, "alice2"); err != nil {
		t.Fatal(err)
	}

	var user dbUsers
	if err := s.db.First(&user, "user_id = ?", 7).Error; err != nil {
		t.Fatal(err)
	}
	if user.Name != "alice2" {
		t.Errorf("name = %q", user.Name)
	}
	if got := s.GetUserPerm(7); got != 1 {
		t.Errorf("perm = %d, renaming must keep it", got)
	}
}

func TestCommandPermissions(t *testing.T) {
	s := openTestStore(t)

	if s.GetCommandPermission("rps") != nil {
		t.Fatal("unexpected permission row")
	}
	perm := &DbPermissions{Command: "rps", UserAllow: 0, SpecialUsers: JoinIDList([]uint64{3, 4})}
	if err := s.SaveCommandPermission(perm); err != nil {
		t.Fatal(err)
	}
	if perm.Command != "cmd_rps" {
		t.Errorf("stored key %q", perm.Command)
	}

	got := s.GetCommandPermission("rps")
	if got == nil {
		t.Fatal("permission not found")
	}
	if got.UserAllow != 0 || !slices.Equal(got.ParseSpecialUsers(), []uint64{3, 4}) {
		t.Errorf("got %+v", got)
	}
	if s.GetCommandPermission("cmd_rps") == nil {
		t.Error("prefixed lookup failed")
	}
}

func TestRconConfig(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetRconConfig(10); !errors.Is(err, ErrNoRconConfig) {
		t.Fatalf("err = %v", err)
	}
	if err := s.SetRconEnabled(10, true); !errors.Is(err, ErrNoRconConfig) {
		t.Fatalf("enable without config: %v", err)
	}

	if err := s.SetRconAddress(10, "127.0.0.1:25575", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetRconEnabled(10, false); err != nil {
		t.Fatal(err)
	}
	if err := s.SetRconAddress(10, "mc:25575", "pw2"); err != nil {
		t.Fatal(err)
	}

	cfg, err := s.GetRconConfig(10)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Address != "mc:25575" || cfg.Password != "pw2" || cfg.Enabled {
		t.Errorf("got %+v", cfg)
	}
}

func TestIDList(t *testing.T) {
	if got := ParseIDList("1,,2,x,3"); !slices.Equal(got, []uint64{1, 2, 3}) {
		t.Errorf("ParseIDList = %v", got)
	}
	if ParseIDList("") != nil || JoinIDList(nil) != "" {
		t.Error("empty list round trip")
	}
	if got := JoinIDList([]uint64{5, 6}); got != "5,6" {
		t.Errorf("JoinIDList = %q", got)
	}
}
