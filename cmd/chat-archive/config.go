package main

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"github.com/nrfta/chat-paging-go/rest"
	"github.com/nrfta/chat-paging-go/snowflake"
)

type Config struct {
	Token          string        `env:"CHAT_TOKEN,required=true"`
	ChannelID      string        `env:"CHAT_CHANNEL_ID,required=true"`
	DatabaseURL    string        `env:"DATABASE_URL,required=true"`
	CheckpointPath string        `env:"CHECKPOINT_PATH,default=./checkpoints"`
	LogLevel       string        `env:"LOG_LEVEL,default=INFO"`
	Limit          *int          `env:"ARCHIVE_LIMIT"`
	BatchSize      int           `env:"ARCHIVE_BATCH_SIZE,default=100"`
	APIURL         string        `env:"CHAT_API_URL,default=https://discord.com/api/v10"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT,default=30s"`

	channel snowflake.ID
}

// loadConfig reads an optional .env file, then the environment.
func loadConfig() (Config, error) {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return config, err
	}

	channel, err := snowflake.Parse(config.ChannelID)
	if err != nil {
		return config, fmt.Errorf("CHAT_CHANNEL_ID: %w", err)
	}
	config.channel = channel

	if config.BatchSize < 1 {
		return config, fmt.Errorf("ARCHIVE_BATCH_SIZE must be positive, got %d", config.BatchSize)
	}
	if config.Limit != nil && *config.Limit < 1 {
		return config, fmt.Errorf("ARCHIVE_LIMIT must be positive, got %d", *config.Limit)
	}
	if config.APIURL == "" {
		config.APIURL = rest.DefaultBaseURL
	}
	return config, nil
}
