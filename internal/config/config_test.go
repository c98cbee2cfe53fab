package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "permissions:\n  master_id: 42\n")
	if err := LoadConfig(path); err != nil {
		t.Fatal(err)
	}

	if Cfg.HttpRemote != "http://127.0.0.1:3000" || Cfg.HttpListen != "0.0.0.0:3001" {
		t.Errorf("http defaults: %q %q", Cfg.HttpRemote, Cfg.HttpListen)
	}
	if Cfg.Database.Driver != "sqlite" || Cfg.Database.Path != "db/bot.db" {
		t.Errorf("database defaults: %+v", Cfg.Database)
	}
	if Cfg.Minecraft.TellrawTarget != "@a" || Cfg.Minecraft.DialTimeout != 5*time.Second {
		t.Errorf("minecraft defaults: %+v", Cfg.Minecraft)
	}
	if Cfg.Permissions.MasterID != 42 {
		t.Errorf("master_id = %d", Cfg.Permissions.MasterID)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := writeConfig(t, `
http_remote: http://napcat:3000
database:
  driver: postgres
  dsn: host=db user=bot
minecraft:
  tellraw_target: "@p"
  dial_timeout: 2s
`)
	if err := LoadConfig(path); err != nil {
		t.Fatal(err)
	}
	if Cfg.HttpRemote != "http://napcat:3000" {
		t.Errorf("http_remote = %q", Cfg.HttpRemote)
	}
	if Cfg.Database.Driver != "postgres" || Cfg.Database.DSN != "host=db user=bot" {
		t.Errorf("database = %+v", Cfg.Database)
	}
	if Cfg.Minecraft.TellrawTarget != "@p" || Cfg.Minecraft.DialTimeout != 2*time.Second {
		t.Errorf("minecraft = %+v", Cfg.Minecraft)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "http_listen: 127.0.0.1:9000\npermissions:\n  bot_id: 1\n")
	t.Setenv("RPSBOT_HTTP_LISTEN", "0.0.0.0:7000")
	t.Setenv("RPSBOT_BOT_ID", "99")
	t.Setenv("RPSBOT_RCON_TIMEOUT", "750ms")

	if err := LoadConfig(path); err != nil {
		t.Fatal(err)
	}
	if Cfg.HttpListen != "0.0.0.0:7000" {
		t.Errorf("http_listen = %q", Cfg.HttpListen)
	}
	if Cfg.Permissions.BotID != 99 {
		t.Errorf("bot_id = %d", Cfg.Permissions.BotID)
	}
	if Cfg.Minecraft.DialTimeout != 750*time.Millisecond {
		t.Errorf("dial_timeout = %v", Cfg.Minecraft.DialTimeout)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file loaded")
	}
	if err := LoadConfig(writeConfig(t, "http_listen: [")); err == nil {
		t.Error("broken yaml loaded")
	}
}

func TestPermissionOrder(t *testing.T) {
	if !(Guest < Admin && Admin < Master) {
		t.Error("permission levels out of order")
	}
	if Admin.String() != "admin" {
		t.Errorf("Admin.String() = %q", Admin.String())
	}
}
