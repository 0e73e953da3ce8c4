// Package twitch wraps the Twitch IRC connection. It joins a single channel,
// delivers chat messages to a registered handler in arrival order, and sends
// outbound lines; framing, keep-alive, and the authentication handshake are
// handled by the underlying IRC client.
package twitch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	irc "github.com/gempir/go-twitch-irc/v4"

	"github.com/wstrother/ahp-twitch-bot/common/retry"
)

// Config holds the chat connection configuration.
type Config struct {
	// UserName is the bot's Twitch login name.
	UserName string
	// Token is the OAuth token, with or without the "oauth:" prefix.
	Token string
	// Channel is the channel to join, without the leading '#'.
	Channel string
	// JoinMessage, when non-empty, is sent to the channel after connecting.
	JoinMessage string
}

// MessageHandler receives one chat message from another user.
type MessageHandler func(user, message string)

// Client wraps the IRC connection.
type Client struct {
	irc     *irc.Client
	config  Config
	handler MessageHandler
}

// New creates a Client. Start must be called to connect.
func New(config Config) *Client {
	token := config.Token
	if token != "" && !hasOAuthPrefix(token) {
		token = "oauth:" + token
	}
	c := &Client{
		irc:    irc.NewClient(config.UserName, token),
		config: config,
	}

	c.irc.OnPrivateMessage(func(m irc.PrivateMessage) {
		// Ignore our own messages
		if strings.EqualFold(m.User.Name, c.config.UserName) {
			return
		}
		if c.handler != nil {
			c.handler(m.User.Name, m.Message)
		}
	})

	c.irc.OnConnect(func() {
		slog.Info("connected to Twitch chat", "channel", c.config.Channel)
		if c.config.JoinMessage != "" {
			c.irc.Say(c.config.Channel, c.config.JoinMessage)
		}
	})

	c.irc.Join(config.Channel)
	return c
}

// Start connects to the chat server and blocks until the connection is
// closed or ctx is cancelled. Transient connection failures are retried
// with exponential back-off; without retries a chat-server hiccup would
// leave the bot deaf to all new messages.
func (c *Client) Start(ctx context.Context, handler MessageHandler) error {
	c.handler = handler

	return retry.Do(ctx, retry.Config{
		MaxAttempts:  8,
		InitialDelay: 2 * time.Second,
		MaxDelay:     5 * time.Minute,
	}, func() error {
		err := c.irc.Connect()
		if errors.Is(err, irc.ErrClientDisconnected) {
			// Clean Stop() — not a failure.
			return nil
		}
		return err
	})
}

// Stop disconnects from chat.
func (c *Client) Stop() {
	if err := c.irc.Disconnect(); err != nil {
		slog.Warn("twitch disconnect", "err", err)
	}
}

// SendLine sends one chat line to the joined channel.
func (c *Client) SendLine(text string) {
	c.irc.Say(c.config.Channel, text)
}

func hasOAuthPrefix(token string) bool {
	return strings.HasPrefix(token, "oauth:")
}
