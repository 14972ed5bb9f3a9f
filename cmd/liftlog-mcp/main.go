package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/mcp"
	"github.com/meltforce/liftlog/internal/service"
	"github.com/meltforce/liftlog/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	serverURL := flag.String("server", "", "LiftLog server URL (remote mode)")
	token := flag.String("token", "", "access token for remote mode")
	user := flag.String("user", "", "user email or UUID to scope queries (local mode)")
	flag.Parse()

	// Logs go to stderr: stdout is the MCP transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	userID := uuid.Nil

	if *serverURL != "" {
		if *token == "" {
			fmt.Fprintf(os.Stderr, "Usage: liftlog-mcp -server https://liftlog.example -token <access token>\n")
			fmt.Fprintf(os.Stderr, "   or: liftlog-mcp -config config.yaml -user <email or uuid>\n")
			flag.PrintDefaults()
			os.Exit(1)
		}
		ds = mcp.NewHTTPClient(*serverURL, *token)
		log.Info("remote mode", "server", *serverURL)
	} else {
		if *user == "" {
			fmt.Fprintf(os.Stderr, "Usage: liftlog-mcp -config config.yaml -user <email or uuid>\n")
			fmt.Fprintf(os.Stderr, "   or: liftlog-mcp -server https://liftlog.example -token <access token>\n")
			flag.PrintDefaults()
			os.Exit(1)
		}

		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		ctx := context.Background()
		db, err := storage.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		userID, err = resolveUser(ctx, db, *user)
		if err != nil {
			log.Error("failed to resolve user", "user", *user, "error", err)
			os.Exit(1)
		}

		ds = service.New(db, log)
		log.Info("local mode", "user_id", userID)
	}

	s := mcp.New(ds, Version, log)

	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return mcp.WithUserID(ctx, userID)
	}))
	if err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

// resolveUser accepts either a user UUID or an email address.
func resolveUser(ctx context.Context, db *storage.DB, ref string) (uuid.UUID, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if _, err := db.GetUserByID(ctx, id); err != nil {
			return uuid.Nil, err
		}
		return id, nil
	}
	u, err := db.GetUserByEmail(ctx, ref)
	if err != nil {
		return uuid.Nil, err
	}
	return u.ID, nil
}
