package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Opts holds configuration for the Discord gateway service.
type Opts struct {
	// Token is the bot authentication token (without the "Bot " prefix).
	Token string
	// GuildID optionally scopes slash-command registration to one guild,
	// which makes the commands visible immediately during development.
	// Empty registers them globally.
	GuildID string
}

// Option configures the Discord gateway service.
type Option func(*Opts)

// WithToken sets the bot token.
func WithToken(token string) Option {
	return func(o *Opts) { o.Token = token }
}

// WithGuildID scopes command registration to a single guild.
func WithGuildID(guildID string) Option {
	return func(o *Opts) { o.GuildID = guildID }
}

// Service owns the Discord gateway session: it registers the slash commands
// and feeds every interaction event into the dispatcher.
type Service struct {
	session    *discordgo.Session
	dispatcher *Dispatcher
	guildID    string
}

// NewService creates the gateway service. The session is configured but not
// opened; Start connects.
func NewService(dispatcher *Dispatcher, opts ...Option) (*Service, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("bot token not set")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	// The bot only consumes interaction events; guild state is enough.
	session.Identify.Intents = discordgo.IntentsGuilds

	slog.Debug("Discord Service created", "guild_scoped", cfg.GuildID != "")
	return &Service{session: session, dispatcher: dispatcher, guildID: cfg.GuildID}, nil
}

// Start opens the gateway connection, wires the interaction handler and
// registers the slash commands.
func (s *Service) Start(ctx context.Context) error {
	s.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		s.dispatcher.HandleInteraction(ctx, s.session, i)
	})

	if err := s.session.Open(); err != nil {
		return fmt.Errorf("opening discord gateway: %w", err)
	}
	slog.Info("Discord gateway connected", "bot_user", s.session.State.User.Username)

	if err := s.registerCommands(); err != nil {
		if closeErr := s.session.Close(); closeErr != nil {
			slog.Error("Discord Service close after failed registration", "error", closeErr)
		}
		return err
	}
	return nil
}

// Stop closes the gateway connection.
func (s *Service) Stop() error {
	slog.Info("Discord Service stopping")
	return s.session.Close()
}

// registerCommands registers the bot's slash commands, guild-scoped when a
// guild ID is configured.
func (s *Service) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{Name: "ping", Description: "Check that the bot is alive"},
		{Name: "begin", Description: "Start the book survey"},
	}
	appID := s.session.State.User.ID
	for _, cmd := range commands {
		if _, err := s.session.ApplicationCommandCreate(appID, s.guildID, cmd); err != nil {
			return fmt.Errorf("registering command %s: %w", cmd.Name, err)
		}
		slog.Debug("Discord command registered", "command", cmd.Name, "guild_id", s.guildID)
	}
	return nil
}
