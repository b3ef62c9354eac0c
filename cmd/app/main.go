package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Seweryn1777/Image/internal/config"
	"github.com/Seweryn1777/Image/internal/server"
	"github.com/Seweryn1777/Image/pkg/logger"
)

func main() {
	log, err := logger.New()
	if err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	sugar := log.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatal("Failed to load config: ", err)
	}

	srv, err := server.New(cfg, log)
	if err != nil {
		sugar.Fatal("Failed to create server: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatal("Server failed: ", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Error("Server forced to shutdown: ", err)
	}

	sugar.Info("Server exited")
}
