package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itthad/dairy-bill/internal/api"
	"github.com/itthad/dairy-bill/internal/assets"
	"github.com/itthad/dairy-bill/internal/config"
	"github.com/itthad/dairy-bill/internal/renderer"
	"github.com/itthad/dairy-bill/internal/slip"
)

// Version is set during build via ldflags
var Version = "dev"

func main() {
	cfg := config.Load(".env")
	if port := portFlag(); port != "" {
		cfg.Server.Port = port
	}

	gin.SetMode(cfg.Server.GinMode)

	provider := assets.New(cfg.Assets.LogoURL, cfg.Assets.TemplateURL, cfg.Assets.Timeout)
	generator := slip.New(slip.Config{
		Assets:  provider,
		Options: cfg.LayoutOptions(),
		Image:   renderer.NewImage(cfg.Render.ImageScale, cfg.Render.ImagePageGap),
	})

	server := api.NewServer(generator, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Dairy bill server %s listening on %s", Version, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// portFlag returns the value of --port when given
func portFlag() string {
	for i, arg := range os.Args {
		if arg == "--port" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
	}
	return ""
}
