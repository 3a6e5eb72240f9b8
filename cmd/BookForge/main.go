// BookForge is a Discord bot that surveys a user about the book they want,
// hands the answers to an external workflow, and returns the generated book
// as a document in the requested format.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bookforge/BookForge/internal/discord"
	"github.com/bookforge/BookForge/internal/document"
	"github.com/bookforge/BookForge/internal/lockfile"
	"github.com/bookforge/BookForge/internal/store"
	"github.com/bookforge/BookForge/internal/survey"
	"github.com/bookforge/BookForge/internal/util"
	"github.com/bookforge/BookForge/internal/webhook"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	slog.Info("Bootstrapping BookForge")
	if err := run(config, flags); err != nil {
		slog.Error("BookForge failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("BookForge exited successfully")
}

// Config holds environment configuration.
type Config struct {
	BotToken    string
	WebhookURL  string
	GuildID     string
	ConvertPath string
	RuntimeDir  string
}

// Flags holds command line flag values.
type Flags struct {
	webhookURL  *string
	guildID     *string
	convertPath *string
	runtimeDir  *string
}

// initializeLogger sets up structured logging with the level from $LOG_LEVEL.
func initializeLogger() {
	level := util.ParseLogLevelEnv("LOG_LEVEL", slog.LevelInfo)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and a
// .env file. A missing webhook URL is not an error here: the contract is to
// surface it to the user at submit time, not at startup.
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		WebhookURL:  os.Getenv("WEBHOOK_URL"),
		GuildID:     os.Getenv("BOOKFORGE_GUILD_ID"),
		ConvertPath: os.Getenv("EBOOK_CONVERT_PATH"),
		RuntimeDir:  os.Getenv("BOOKFORGE_RUNTIME_DIR"),
	}
	if config.RuntimeDir == "" {
		config.RuntimeDir = filepath.Join(os.TempDir(), "bookforge")
		slog.Debug("No BOOKFORGE_RUNTIME_DIR set, using default", "runtime_dir", config.RuntimeDir)
	}

	slog.Debug("environment variables loaded",
		"BOT_TOKEN_SET", config.BotToken != "",
		"WEBHOOK_URL_SET", config.WebhookURL != "",
		"BOOKFORGE_GUILD_ID", config.GuildID,
		"EBOOK_CONVERT_PATH", config.ConvertPath,
		"BOOKFORGE_RUNTIME_DIR", config.RuntimeDir)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults.
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		webhookURL:  flag.String("webhook-url", config.WebhookURL, "workflow webhook URL (overrides $WEBHOOK_URL)"),
		guildID:     flag.String("guild-id", config.GuildID, "guild to register commands in, empty for global (overrides $BOOKFORGE_GUILD_ID)"),
		convertPath: flag.String("ebook-convert", config.ConvertPath, "path to the ebook-convert executable for MOBI output (overrides $EBOOK_CONVERT_PATH)"),
		runtimeDir:  flag.String("runtime-dir", config.RuntimeDir, "directory for the instance lock and MOBI scratch files (overrides $BOOKFORGE_RUNTIME_DIR)"),
	}
	flag.Parse()

	slog.Debug("flags parsed",
		"webhookURL_set", *flags.webhookURL != "",
		"guildID", *flags.guildID,
		"convertPath", *flags.convertPath,
		"runtimeDir", *flags.runtimeDir)

	return flags
}

// buildWebhookOptions constructs submission gateway options.
func buildWebhookOptions(flags Flags) []webhook.Option {
	var opts []webhook.Option
	if *flags.webhookURL != "" {
		opts = append(opts, webhook.WithEndpoint(*flags.webhookURL))
	}
	return opts
}

// buildAssemblerOptions constructs document assembler options.
func buildAssemblerOptions(flags Flags) []document.Option {
	var opts []document.Option
	if *flags.convertPath != "" {
		opts = append(opts, document.WithConvertPath(*flags.convertPath))
	}
	if *flags.runtimeDir != "" {
		opts = append(opts, document.WithTempDir(*flags.runtimeDir))
	}
	return opts
}

// buildDiscordOptions constructs Discord gateway options.
func buildDiscordOptions(config Config, flags Flags) []discord.Option {
	opts := []discord.Option{discord.WithToken(config.BotToken)}
	if *flags.guildID != "" {
		opts = append(opts, discord.WithGuildID(*flags.guildID))
	}
	return opts
}

// run wires the modules together and serves until interrupted.
func run(config Config, flags Flags) error {
	lock, err := lockfile.Acquire(*flags.runtimeDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			slog.Error("releasing instance lock", "error", err)
		}
	}()

	sessions := store.NewInMemoryStore()
	flow := survey.NewFlow(sessions)
	gateway := webhook.NewClient(buildWebhookOptions(flags)...)
	defer func() {
		if err := gateway.Close(); err != nil {
			slog.Error("closing webhook client", "error", err)
		}
	}()
	assembler := document.NewAssembler(buildAssemblerOptions(flags)...)
	dispatcher := discord.NewDispatcher(flow, sessions, gateway, assembler)

	service, err := discord.NewService(dispatcher, buildDiscordOptions(config, flags)...)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := service.Start(ctx); err != nil {
		return err
	}
	slog.Info("BookForge running, press Ctrl+C to exit")

	<-ctx.Done()
	return service.Stop()
}
