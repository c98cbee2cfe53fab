package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type yamlConfig struct {
	// NapCat
	HttpRemote string `yaml:"http_remote" env:"RPSBOT_HTTP_REMOTE"` // forward HTTP address
	HttpListen string `yaml:"http_listen" env:"RPSBOT_HTTP_LISTEN"` // reverse HTTP listen address

	Database struct {
		Driver string `yaml:"driver" env:"RPSBOT_DB_DRIVER"` // sqlite or postgres
		Path   string `yaml:"path" env:"RPSBOT_DB_PATH"`
		DSN    string `yaml:"dsn,omitempty" env:"RPSBOT_DB_DSN"`
	} `yaml:"database"`

	Permissions struct {
		MasterID uint64 `yaml:"master_id" env:"RPSBOT_MASTER_ID"`
		BotID    uint64 `yaml:"bot_id" env:"RPSBOT_BOT_ID"`
	} `yaml:"permissions"`

	Minecraft struct {
		TellrawTarget string        `yaml:"tellraw_target" env:"RPSBOT_TELLRAW_TARGET"`
		DialTimeout   time.Duration `yaml:"dial_timeout" env:"RPSBOT_RCON_TIMEOUT"`
	} `yaml:"minecraft"`
}

type Permission int

const (
	Guest  Permission = 0 // everyone
	Admin  Permission = 3 // admins and above
	Master Permission = 4 // master only
)

func (p Permission) String() string {
	switch p {
	case Guest:
		return "guest"
	case Admin:
		return "admin"
	case Master:
		return "master"
	}
	return fmt.Sprintf("Permission(%d)", int(p))
}

var Cfg yamlConfig

var (
	configPath string
	console    bool
)

func LoadConfig(path string) error {
	var cfg yamlConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	applyDefaults(&cfg)
	Cfg = cfg
	return nil
}

func applyDefaults(cfg *yamlConfig) {
	if cfg.HttpRemote == "" {
		cfg.HttpRemote = "http://127.0.0.1:3000"
	}
	if cfg.HttpListen == "" {
		cfg.HttpListen = "0.0.0.0:3001"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "db/bot.db"
	}

	if cfg.Minecraft.TellrawTarget == "" {
		cfg.Minecraft.TellrawTarget = "@a"
	}
	if cfg.Minecraft.DialTimeout <= 0 {
		cfg.Minecraft.DialTimeout = 5 * time.Second
	}
}

func LoadConfigFile() {
	configPathPtr := flag.String("c", "config.yaml", "config file path")
	consolePtr := flag.Bool("console", false, "read commands from stdin instead of NapCat")
	flag.Parse()

	configPath = *configPathPtr
	console = *consolePtr
	if err := LoadConfig(configPath); err != nil {
		log.Fatalf("load config: %v", err)
	}
}

// ConsoleMode reports whether -console was given.
func ConsoleMode() bool {
	return console
}
