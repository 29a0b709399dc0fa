package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/soundtable/soundtable/internal/services"
	"github.com/soundtable/soundtable/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Registry: buildRegistry(config, logger),
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "soundtable",
		Usage:    "Aggregate music collections into Tabletop Simulator music players",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// buildRegistry registers an adapter for every service whose credentials are
// present. A service with missing credentials is skipped, not an error.
func buildRegistry(config *shared.Config, logger *log.Logger) *services.Registry {
	registry := services.NewRegistry()

	if c := config.Credentials.LastFM; c.APIKey != "" && c.Username != "" {
		svc, err := services.NewLastFMService(map[string]string{
			"api_key":    c.APIKey,
			"api_secret": c.APISecret,
			"username":   c.Username,
		})
		if err != nil {
			logger.Warn("skipping Last.fm", "error", err)
		} else {
			registry.Register(svc)
		}
	}

	if c := config.Credentials.Spotify; c.ClientID != "" && c.ClientSecret != "" {
		svc, err := services.NewSpotifyService(map[string]string{
			"client_id":     c.ClientID,
			"client_secret": c.ClientSecret,
			"user_id":       c.UserID,
		})
		if err != nil {
			logger.Warn("skipping Spotify", "error", err)
		} else {
			registry.Register(svc)
		}
	}

	if c := config.Credentials.YouTube; c.APIKey != "" {
		svc, err := services.NewYouTubeService(map[string]string{
			"api_key":    c.APIKey,
			"channel_id": c.ChannelID,
		})
		if err != nil {
			logger.Warn("skipping YouTube", "error", err)
		} else {
			registry.Register(svc)
		}
	}

	return registry
}
