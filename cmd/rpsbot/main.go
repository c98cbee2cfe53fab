package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/awfufu/qbot"
	"github.com/awfufu/rpsbot/internal/cmds"
	"github.com/awfufu/rpsbot/internal/config"
	"github.com/awfufu/rpsbot/internal/console"
	"github.com/awfufu/rpsbot/internal/db"
	"github.com/awfufu/rpsbot/internal/mc"
	"github.com/awfufu/rpsbot/internal/qq"
	"github.com/awfufu/rpsbot/internal/rps"
	"github.com/mattn/go-isatty"
)

func main() {
	config.LoadConfigFile()
	cfg := config.Cfg

	dsn := cfg.Database.Path
	if cfg.Database.Driver == "postgres" {
		dsn = cfg.Database.DSN
	}
	store, err := db.Open(cfg.Database.Driver, dsn)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer store.Close()

	h := cmds.NewHandler(store, cfg.Permissions.MasterID,
		cmds.NewRpsCommand(rps.NewPicker(nil)),
		cmds.NewRconCommand(store),
	)
	h.Register(cmds.NewPermCommand(h, store))
	h.InitPermissions()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.ConsoleMode() {
		err := console.Run(ctx, h, os.Stdin, os.Stdout, console.Options{
			UserID: cfg.Permissions.MasterID,
			Master: true,
			Color:  isatty.IsTerminal(os.Stdout.Fd()),
			Prompt: "> ",
		})
		if err != nil && err != context.Canceled {
			log.Fatalf("console: %v", err)
		}
		return
	}

	receiver := qbot.HttpServer(cfg.HttpListen)
	sender := qbot.HttpClient(cfg.HttpRemote)

	bot := &qq.Bot{
		Handler: h,
		Sender: mc.NewMirror(qq.NewGroupSender(sender), store,
			mc.WithTarget(cfg.Minecraft.TellrawTarget),
			mc.WithDialer(mc.RconDialer(cfg.Minecraft.DialTimeout)),
		),
		Users: store,
		BotID: cfg.Permissions.BotID,
	}
	log.Printf("listening on %s, sending to %s", cfg.HttpListen, cfg.HttpRemote)
	bot.Run(ctx, receiver.OnMessage())
}
