// ABOUTME: Root cobra command, global flags, and shared app wiring
// ABOUTME: Builds the engine once per invocation for commands that need it
package commands

import (
	"fmt"
	"os"
	"os/user"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pacify-defy/pacify-defy/internal/config"
	"github.com/pacify-defy/pacify-defy/internal/engine"
	"github.com/pacify-defy/pacify-defy/internal/llm"
	"github.com/pacify-defy/pacify-defy/internal/logging"
	"github.com/pacify-defy/pacify-defy/internal/memory"
	"github.com/pacify-defy/pacify-defy/internal/persona"
)

// Version is set at build time.
var Version = "dev"

var (
	flagUser  string
	flagDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "pacify-defy",
	Short: "A conversational assistant with two temperaments",
	Long: `pacify-defy is a terminal conversational assistant that speaks through
four personas across two modes: pacify (warm, supportive) and defy
(contrarian, challenging). It remembers conversations, learns
preferences, and forms opinions, all isolated per user.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return chatCmd.RunE(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "user id (defaults to the OS username)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(chatCmd, historyCmd, searchCmd, opinionsCmd,
		statsCmd, exportCmd, serveCmd, versionCmd)
}

// app bundles everything a command needs.
type app struct {
	cfg    *config.Config
	store  *memory.Store
	engine *engine.Engine
	logger *zap.Logger
}

func (a *app) close() {
	if a.engine != nil {
		if err := a.engine.Close(); err != nil {
			a.logger.Warn("session save failed", zap.Error(err))
		}
	}
	if a.store != nil {
		a.store.Close()
	}
}

// newApp loads config, opens the store, and builds the engine.
func newApp() (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagDebug {
		cfg.DebugMode = true
	}
	logger := logging.New(cfg.DebugMode)

	registry, err := persona.LoadRegistry(cfg.PersonasDir)
	if err != nil {
		return nil, err
	}

	store, err := memory.Open(cfg.DBPath())
	if err != nil {
		return nil, err
	}

	pool := llm.NewPool(cfg.APIKeys, cfg.RateLimitPerWindow, cfg.RateWindow)
	client := llm.NewClient(cfg, pool, logger)

	e, err := engine.New(cfg, store, registry, client, logger, userID())
	if err != nil {
		store.Close()
		return nil, err
	}

	return &app{cfg: cfg, store: store, engine: e, logger: logger}, nil
}

func userID() string {
	if flagUser != "" {
		return flagUser
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "default"
}
