package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zaireen_import/internal/config"
	"zaireen_import/internal/handlers"
	"zaireen_import/internal/repository"
	"zaireen_import/internal/server"
	"zaireen_import/internal/transport/auth"
)

func main() {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := config.Init(setupCtx)

	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("❌ Storage setup failed: %v", err)
	}
	if err := cfg.CheckConnections(setupCtx); err != nil {
		log.Fatalf("❌ Connection check failed: %v", err)
	}
	fmt.Println("🟢 Storage and connections OK")

	h := handlers.New(cfg)

	var authMW func(http.Handler) http.Handler
	if cfg.Postgres != nil {
		authMW = auth.TokenMiddleware(repository.NewAccessTokenRepository(cfg.Postgres))
		fmt.Println("🔐 Token auth enabled")
	}

	srv := server.NewServer(cfg.Port, h, authMW)

	if err := srv.Run(runCtx); err != nil {
		log.Fatal(err)
	}
}
