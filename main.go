package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"stepsync/internal/client"
)

func main() {
	defaults := client.DefaultAppConfig()

	configPath := flag.String("config", "configs/client.json", "path to client config JSON")
	serverURL := flag.String("server", defaults.ServerURL, "websocket server URL")
	autoConnect := flag.Bool("autoconnect", defaults.AutoConnect, "connect to the server on startup")
	delay := flag.Int("delay-input", defaults.DelayInputCount, "ticks to hold local input before applying it")
	syncMode := flag.String("sync", "", "sync strategy: interpolate, extrapolate, frameSync or reflect (required unless the config file sets syncOptions.sync)")
	codec := flag.String("codec", defaults.Codec, "world update codec: json or proto")
	tickHz := flag.Float64("tick-hz", defaults.TickHz, "logical simulation rate")
	frameHz := flag.Float64("frame-hz", defaults.FrameHz, "frame callback rate")
	driftThreshold := flag.Int64("drift-threshold", defaults.DriftThreshold, "step drift tolerated before correction")
	logPath := flag.String("log", defaults.LogPath, "log file path")
	passive := flag.Bool("passive", false, "spectate: never apply local input")
	flag.Parse()

	cfg, err := client.LoadAppConfig(*configPath, defaults)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server":
			cfg.ServerURL = *serverURL
		case "autoconnect":
			cfg.AutoConnect = *autoConnect
		case "delay-input":
			cfg.DelayInputCount = *delay
		case "sync":
			cfg.SyncMode = *syncMode
		case "codec":
			cfg.Codec = *codec
		case "tick-hz":
			cfg.TickHz = *tickHz
		case "frame-hz":
			cfg.FrameHz = *frameHz
		case "drift-threshold":
			cfg.DriftThreshold = *driftThreshold
		case "log":
			cfg.LogPath = *logPath
		case "passive":
			cfg.Passive = *passive
		}
	})
	if cfg.SyncMode == "" {
		log.Fatal("config: sync mode is required; set syncOptions.sync in the config file or pass -sync")
	}
	cfg = client.SanitizeAppConfig(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := client.StartApp(ctx, cfg); err != nil {
		log.Fatalf("client: %v", err)
	}
}
