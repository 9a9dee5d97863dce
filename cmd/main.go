package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gennadis/chatwidget/internal/client"
	"github.com/gennadis/chatwidget/internal/config"
	"github.com/gennadis/chatwidget/internal/server"
	"github.com/gennadis/chatwidget/internal/ui"
	"github.com/gennadis/chatwidget/internal/widget"
	"github.com/gennadis/chatwidget/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "chatwidget",
		Short:        "Terminal chat widget for a chat HTTP endpoint",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWidget(cmd.Context(), cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "chat endpoint URL")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout, 0 waits forever")
	flags.BoolVar(&cfg.StrictStatus, "strict-status", cfg.StrictStatus, "treat non-2xx replies as failures")
	flags.BoolVar(&cfg.OrderedReplies, "ordered-replies", cfg.OrderedReplies, "show replies in send order")
	flags.BoolVar(&cfg.StartVisible, "visible", cfg.StartVisible, "start with the chat panel open")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "file to write logs to")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	rootCmd.AddCommand(newServeCmd(cfg))
	return rootCmd
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local chat backend for the widget",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), cfg)
		},
	}
	serveCmd.Flags().StringVar(&cfg.ServerAddr, "addr", cfg.ServerAddr, "listen address")
	serveCmd.Flags().StringVar(&cfg.DBFile, "db", cfg.DBFile, "sqlite file for the chat log")
	serveCmd.Flags().StringVar(&cfg.DocsDir, "docs", cfg.DocsDir, "directory of .txt and .md files for /doc-chat")
	serveCmd.Flags().StringVar(&cfg.AI.Model, "model", cfg.AI.Model, "model used when an API key is set")
	return serveCmd
}

func runWidget(ctx context.Context, cfg *config.Config) error {
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	display := widget.DisplayNone
	if cfg.StartVisible {
		display = widget.DisplayFlex
	}
	chatWidget := widget.New(client.NewClient(*cfg),
		widget.WithDisplay(display),
		widget.WithOrderedReplies(cfg.OrderedReplies),
	)
	slog.Info("chat widget started",
		slog.String("session_id", chatWidget.SessionID()),
		slog.Time("session_created_at", time.Unix(chatWidget.Session().CreatedAt, 0)),
		slog.String("endpoint", cfg.Endpoint),
	)

	program := tea.NewProgram(ui.NewModel(ctx, chatWidget), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		slog.Error("Chat widget failed", "error", err)
		return err
	}
	return nil
}

func runServer(ctx context.Context, cfg *config.Config) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.NewSqliteDB(cfg.DBFile)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	sessions, err := storage.NewSessions(db)
	if err != nil {
		return err
	}
	logs, err := storage.NewChatLogs(db)
	if err != nil {
		return err
	}

	var docs server.DocSearcher
	if cfg.DocsDir != "" {
		index, err := server.LoadDocIndex(cfg.DocsDir)
		if err != nil {
			slog.Warn("Document search disabled", "dir", cfg.DocsDir, "error", err)
		} else {
			defer index.Close()
			docs = index
		}
	}

	srv := server.New(newResponder(ctx, cfg), docs, sessions, logs)
	return server.Run(ctx, cfg.ServerAddr, srv.Router())
}

func newResponder(ctx context.Context, cfg *config.Config) server.Responder {
	if !cfg.AI.Enabled() {
		slog.Info("No model configured, echoing queries")
		return server.NewEchoResponder()
	}
	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		slog.Warn("Failed to create chat model, echoing queries", "model", cfg.AI.Model, "error", err)
		return server.NewEchoResponder()
	}
	slog.Info("answering with chat model", "model", cfg.AI.Model)
	return server.NewLLMResponder(chatModel)
}
