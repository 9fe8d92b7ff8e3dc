package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kegliz/qplay/internal/app"
	"github.com/kegliz/qplay/internal/config"
)

// version is set by the build, matching the teacher's plain -ldflags
// version stamping convention (no build-info package in this stack).
var version = "dev"

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	srv, err := app.NewServer(app.ServerOptions{C: cfg, Version: version})
	if err != nil {
		fmt.Fprintf(os.Stderr, "building server: %v\n", err)
		os.Exit(1)
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Listen(cfg.Port(), false) }()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		fmt.Fprintf(os.Stderr, "server stopped: %v\n", err)
		os.Exit(1)
	case <-sigc:
		if err := srv.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
			os.Exit(1)
		}
	}
}
