// ABOUTME: agentdeck CLI entry point: chat with remote agents and browse local history
// ABOUTME: Wires config, identity, storage, session store, and the event stream client

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/identity"
	"github.com/agentdeck/agentdeck/internal/session"
	"github.com/agentdeck/agentdeck/internal/storage"
	"github.com/agentdeck/agentdeck/internal/stream"
)

// app bundles the wired components the subcommands operate on.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	sessions *session.Store
	client   *stream.Client
	identity identity.Provider
	kv       storage.KV
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var a app

	root := &cobra.Command{
		Use:   "agentdeck",
		Short: "Chat with remote agents and keep conversation history locally",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(configPath)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	root.AddCommand(newChatCmd(&a))
	root.AddCommand(newSessionsCmd(&a))

	return root
}

// init loads configuration and wires the component graph.
func (a *app) init(configPath string) error {
	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}
	a.cfg = cfg

	a.logger = newLogger(cfg.Logging)
	slog.SetDefault(a.logger)

	ident, err := newIdentity(cfg)
	if err != nil {
		return err
	}
	a.identity = ident

	// Storage being unavailable degrades persistence to a no-op; the chat
	// itself keeps working in memory.
	if cfg.Database.Path != "" {
		kv, err := storage.NewSQLiteKV(cfg.Database.Path)
		if err != nil {
			a.logger.Warn("history storage unavailable, continuing without persistence",
				"path", cfg.Database.Path,
				"error", err)
		} else {
			a.kv = kv
		}
	}

	a.sessions = session.NewStore(a.kv, ident, a.logger)
	a.client = stream.NewClient(cfg.Backend.URL, cfg.Auth.Token, a.logger)
	return nil
}

func (a *app) close() {
	if a.kv != nil {
		a.kv.Close()
	}
}

// newIdentity picks the user id source: the login JWT when configured,
// otherwise the static user id from config.
func newIdentity(cfg *config.Config) (identity.Provider, error) {
	if cfg.Auth.Token != "" {
		p, err := identity.NewJWTProvider(cfg.Auth.Token, []byte(cfg.Auth.JWTSecret))
		if err != nil {
			return nil, fmt.Errorf("resolving user from token: %w", err)
		}
		return p, nil
	}
	return identity.Static(cfg.Auth.UserID), nil
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// resolveAgent picks the agent id from the flag or config default.
func (a *app) resolveAgent(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if a.cfg.Backend.DefaultAgent != "" {
		return a.cfg.Backend.DefaultAgent, nil
	}
	return "", fmt.Errorf("no agent specified: pass --agent or set backend.default_agent")
}
