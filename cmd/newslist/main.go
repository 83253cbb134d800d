package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/ywebstudio/newslist/internal/auth"
	"github.com/ywebstudio/newslist/internal/config"
	"github.com/ywebstudio/newslist/internal/docstore"
	"github.com/ywebstudio/newslist/internal/export"
	"github.com/ywebstudio/newslist/internal/feed"
	"github.com/ywebstudio/newslist/internal/interest"
	"github.com/ywebstudio/newslist/internal/push"
	"github.com/ywebstudio/newslist/internal/tui"
	"github.com/ywebstudio/newslist/pkg/models"
)

func main() {
	email := flag.String("email", "", "sign in with this account email")
	register := flag.Bool("register", false, "create an account before starting")
	flag.Parse()

	if err := run(*email, *register); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(email string, register bool) error {
	// A .env file is optional; environment variables win either way.
	godotenv.Load()

	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Local.LogPath()), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	logFile, err := os.OpenFile(cfg.Local.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo}))

	interval, err := cfg.Feed.GetPollInterval()
	if err != nil {
		return fmt.Errorf("invalid poll interval: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := docstore.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return fmt.Errorf("connecting to document store: %w", err)
	}
	defer store.Close(context.Background())

	var user *models.User
	if email != "" || register {
		user, err = signIn(ctx, auth.NewService(store), os.Stdin, os.Stdout, terminalPassword, email, register)
		if err != nil {
			return fmt.Errorf("signing in: %w", err)
		}
		registerDevice(ctx, push.NewClient(cfg.Push.GatewayURL), store, logger, user.ID)
	}

	local, err := interest.OpenLocal(cfg.Local.Path)
	if err != nil {
		return fmt.Errorf("opening local store: %w", err)
	}
	defer local.Close()

	interests := interest.NewManager(interestStorage(store, user, local))
	cache := feed.NewCache()
	exporter := export.New(cfg.Share.ExportDir, cfg.Share.BaseURL)

	var program *tea.Program
	syncer := feed.NewSyncer(cache, store, interval, logger, func(items []models.NewsItem) {
		if program != nil {
			program.Send(tui.NewsUpdatedMsg{Items: items})
		}
	})

	model := tui.New(store, cache, syncer, interests, exporter)
	program = tea.NewProgram(model)

	syncer.Start(ctx)

	_, err = program.Run()

	cancel()
	syncer.Wait()

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
