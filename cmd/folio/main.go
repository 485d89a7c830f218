package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/amezcua/folio/internal/api"
	"github.com/amezcua/folio/internal/config"
	"github.com/amezcua/folio/internal/favorites"
	"github.com/amezcua/folio/internal/logging"
	"github.com/amezcua/folio/internal/session"
	"github.com/amezcua/folio/internal/storage"
	"github.com/amezcua/folio/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to a folio config file")
	serverURL := flag.String("server", "", "backend base URL (overrides config)")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	flag.Parse()

	// A local .env is optional; missing files are fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
	}

	logger := logging.New(cfg.Client.LogFile)
	defer logger.Sync()

	stateDir := cfg.Client.StateDir
	if stateDir == "" {
		stateDir, err = storage.DefaultDir()
		if err != nil {
			fatal(fmt.Errorf("resolve state dir: %w", err))
		}
	}
	store, err := storage.New(stateDir)
	if err != nil {
		fatal(fmt.Errorf("open state dir: %w", err))
	}

	client := api.New(api.Config{
		BaseURL:   cfg.Server.URL,
		Timeout:   cfg.Server.Timeout,
		RateLimit: cfg.Server.RateLimit,
		Burst:     cfg.Server.Burst,
		Logger:    logger,
	})
	sessions := session.New(client, store, logger)
	favs := favorites.New(store, logger)

	opts := []tea.ProgramOption{}
	if !*noAltScreen && !cfg.UI.NoAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			API:       client,
			Session:   sessions,
			Favorites: favs,
			Storage:   store,
			ExportDir: cfg.Client.ExportDir,
			Logger:    logger,
		}),
		opts...,
	)

	logger.Info("starting", zap.String("server", cfg.Server.URL), zap.String("state_dir", stateDir))
	if _, err := program.Run(); err != nil {
		logger.Error("program exited", zap.Error(err))
		fatal(err)
	}
}

func fatal(err error) {
	color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "folio:", err)
	os.Exit(1)
}
