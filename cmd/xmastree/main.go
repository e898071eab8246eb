// Command xmastree draws an animated spiral Christmas tree.
//
// Usage:
//
//	xmastree [config.toml|config.yaml]
//
// Without an argument the file named by $XMASTREE_CONFIG is used, if set.
package main

import (
	"log/slog"
	"os"

	"xmastree/internal/config"
	"xmastree/internal/game"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(config.PathFromEnv(os.Args[1:]))
	if err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := game.RunDesktop(cfg, log); err != nil {
		log.Error("xmastree", "err", err)
		os.Exit(1)
	}
}
