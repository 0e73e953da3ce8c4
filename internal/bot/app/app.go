// Package app wires the bot together: settings loading, the dispatcher and
// its command registry, the shared state observers, the chat transport, and
// the optional dispatch audit log.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wstrother/ahp-twitch-bot/internal/bot/chatlog"
	"github.com/wstrother/ahp-twitch-bot/internal/bot/command"
	"github.com/wstrother/ahp-twitch-bot/internal/bot/dispatch"
	"github.com/wstrother/ahp-twitch-bot/internal/bot/httpapi"
	"github.com/wstrother/ahp-twitch-bot/internal/bot/loader"
	"github.com/wstrother/ahp-twitch-bot/internal/bot/state"
	"github.com/wstrother/ahp-twitch-bot/internal/bot/twitch"
)

// Config holds application configuration.
type Config struct {
	// UserName is the bot's Twitch login name.
	UserName string
	// Token is the Twitch OAuth token.
	Token string
	// Channel is the chat channel to join, without the leading '#'.
	Channel string
	// JoinMessage, when non-empty, is announced after connecting.
	JoinMessage string
	// SettingsPath is the declarative bot-settings document.
	SettingsPath string
	// Prefix overrides the "!" command prefix.
	Prefix string
	// ChatLogPath is the optional SQLite dispatch audit log. Empty disables
	// the log.
	ChatLogPath string
	// HTTPTimeout bounds outbound requests made by Http-family commands.
	// Defaults to httpapi.DefaultTimeout when zero.
	HTTPTimeout time.Duration
	// Extensions is an optional supplementary class registry merged over the
	// built-in command variants.
	Extensions map[string]command.Constructor
}

// App is the assembled bot application.
type App struct {
	config *Config
	bot    *dispatch.Bot
	chat   *twitch.Client
	log    *chatlog.Store
}

// New loads the settings document and assembles the application. A settings
// document that fails to load aborts startup; no partial registry is ever
// produced.
func New(config *Config) (*App, error) {
	data, err := os.ReadFile(config.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	ldr := loader.New(config.Extensions)
	settings, err := ldr.Load(data)
	if err != nil {
		return nil, err
	}

	var logStore *chatlog.Store
	if config.ChatLogPath != "" {
		slog.Info("opening dispatch log", "path", config.ChatLogPath)
		logStore, err = chatlog.New(config.ChatLogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize dispatch log: %w", err)
		}
	}

	chat := twitch.New(twitch.Config{
		UserName:    config.UserName,
		Token:       config.Token,
		Channel:     config.Channel,
		JoinMessage: config.JoinMessage,
	})

	bot := dispatch.New(dispatch.Options{
		Prefix:   config.Prefix,
		UserName: config.UserName,
		Sender:   chat,
		State:    state.New(nil),
		HTTP:     httpapi.NewWithTimeout(config.HTTPTimeout),
		Log:      logStore,
	})

	// The channel owner can always use restricted commands.
	bot.ApproveUsers(config.Channel)

	if err := ldr.Configure(bot, settings); err != nil {
		if logStore != nil {
			logStore.Close()
		}
		return nil, err
	}

	wireStateObservers(bot)

	return &App{config: config, bot: bot, chat: chat, log: logStore}, nil
}

// Bot returns the dispatcher, exposed for host applications that register
// listeners or observers of their own.
func (a *App) Bot() *dispatch.Bot { return a.bot }

// Run connects to chat and dispatches messages until an interrupt signal or
// a fatal transport error.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.bot.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.chat.Start(ctx, a.bot.HandleMessage)
	}()

	slog.Info("bot is running; press Ctrl+C to stop",
		"channel", a.config.Channel, "user", a.config.UserName)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		slog.Info("shutting down")
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("chat connection lost: %w", err)
		}
		return nil
	}
}

// Stop disconnects from chat and closes the dispatch log.
func (a *App) Stop() {
	slog.Info("stopping chat client")
	a.chat.Stop()
	if a.log != nil {
		slog.Info("closing dispatch log")
		a.log.Close()
	}
}
