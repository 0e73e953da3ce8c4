package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/wstrother/ahp-twitch-bot/common/environment"
	"github.com/wstrother/ahp-twitch-bot/common/version"
	"github.com/wstrother/ahp-twitch-bot/internal/bot/app"
)

func main() {
	fmt.Printf("AHP Twitch Bot\n")
	fmt.Printf("Version: %s\n", version.Version)
	fmt.Printf("Commit: %s\n", version.GitCommit)
	fmt.Printf("Build Time: %s\n", version.BuildTime)
	fmt.Println()

	config, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	application, err := app.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer application.Stop()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads application configuration from the environment. The OAuth
// token comes from TWITCH_TOKEN directly or from the file named by
// TWITCH_TOKEN_FILE.
func loadConfig() (*app.Config, error) {
	userName, err := environment.RequiredString("TWITCH_USERNAME")
	if err != nil {
		return nil, err
	}
	channel, err := environment.RequiredString("TWITCH_CHANNEL")
	if err != nil {
		return nil, err
	}
	channel = strings.TrimPrefix(channel, "#")

	token := os.Getenv("TWITCH_TOKEN")
	if token == "" {
		tokenFile := os.Getenv("TWITCH_TOKEN_FILE")
		if tokenFile == "" {
			return nil, fmt.Errorf("set TWITCH_TOKEN or TWITCH_TOKEN_FILE")
		}
		data, err := os.ReadFile(tokenFile)
		if err != nil {
			return nil, fmt.Errorf("read token file: %w", err)
		}
		token = strings.TrimSpace(string(data))
	}

	return &app.Config{
		UserName:     userName,
		Token:        token,
		Channel:      channel,
		JoinMessage:  environment.StringOr("BOT_JOIN_MESSAGE", ""),
		SettingsPath: environment.StringOr("BOT_SETTINGS", "bot_settings.yaml"),
		Prefix:       environment.StringOr("BOT_PREFIX", "!"),
		ChatLogPath:  environment.StringOr("BOT_CHATLOG_PATH", ""),
		HTTPTimeout:  environment.DurationOr("BOT_HTTP_TIMEOUT", 15*time.Second),
	}, nil
}
