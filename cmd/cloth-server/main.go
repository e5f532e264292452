package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lixenwraith/lra-cloth/cloth"
	"github.com/lixenwraith/lra-cloth/config"
	"github.com/lixenwraith/lra-cloth/stream"
)

func main() {
	configPath := flag.String("config", "cloth.toml", "path to TOML configuration")
	addr := flag.String("addr", "", "listen address, overrides config")
	release := flag.Bool("release", false, "run gin in release mode")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Stream.Addr = *addr
	}
	if *release {
		gin.SetMode(gin.ReleaseMode)
	}

	world := cloth.NewWorld(cfg.ClothParams(), cfg.WorldOptions()...)
	log.Printf("[SIM] %dx%d cloth, %s", cfg.Cloth.Width, cfg.Cloth.Height, world.Status())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := stream.NewHub(world, cfg.Stream.TickHz, cfg.Stream.BroadcastHz)
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Stream.Addr,
		Handler:           stream.Router(hub),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("[STREAM] listening on %s (tick %d Hz, broadcast %d Hz)", cfg.Stream.Addr, cfg.Stream.TickHz, cfg.Stream.BroadcastHz)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[STREAM] server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[STREAM] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[STREAM] shutdown: %v", err)
	}
	<-hub.Done()
	log.Printf("[SIM] stopped at tick %d", hub.Ticks())
}
