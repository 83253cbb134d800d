// Command newslist-ingest pulls partner RSS feeds into the news
// collection once and exits. It is meant to run from cron.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/ywebstudio/newslist/internal/config"
	"github.com/ywebstudio/newslist/internal/docstore"
	"github.com/ywebstudio/newslist/internal/ingest"
	"github.com/ywebstudio/newslist/internal/push"
)

func main() {
	workers := flag.Int("workers", 4, "concurrent feed fetches")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	configPath := flag.String("config", config.DefaultConfigPath(), "config file path")
	notify := flag.Bool("notify", false, "send a push notification when new articles arrive")
	flag.Parse()

	if err := run(*configPath, *workers, *timeout, *notify); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, workers int, timeout time.Duration, notify bool) error {
	godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store, err := docstore.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return fmt.Errorf("connecting to document store: %w", err)
	}
	defer store.Close(context.Background())

	in := ingest.New(store, logger, workers)
	count, err := in.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingesting feeds: %w", err)
	}

	logger.Info("ingest finished", "new", count)

	if notify && count > 0 {
		notifyUsers(ctx, store, push.NewClient(cfg.Push.GatewayURL), logger, count)
	}
	return nil
}

// notifyUsers pushes a new-articles notice to every user with a
// registered device token. Delivery failures are logged per user.
func notifyUsers(ctx context.Context, store docstore.Store, client *push.Client, logger *slog.Logger, count int) {
	records, err := store.FetchCollection(ctx, docstore.CollectionUsers)
	if err != nil {
		logger.Error("fetching users for push", "error", err)
		return
	}

	body := fmt.Sprintf("%d new articles are waiting for you", count)
	sent := 0
	for _, rec := range records {
		user := docstore.ToUser(rec)
		if user.PushToken == "" {
			continue
		}
		msg := push.Message{To: user.PushToken, Title: "NewsList", Body: body}
		if err := client.Send(ctx, msg); err != nil {
			logger.Warn("push failed", "user", user.ID, "error", err)
			continue
		}
		sent++
	}
	logger.Info("push notifications sent", "count", sent)
}
