package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pitchpong/pitchpong-server/app"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the config file")
	flag.Parse()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	config, err := app.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := app.NewApp(config).Boot(ctx); err != nil && err != context.Canceled {
		log.Fatalf("boot: %v", err)
	}
}
