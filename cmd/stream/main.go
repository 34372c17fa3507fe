// Command stream tails the realtime update feed for a few stocks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/sentimentinvestor/sentigo"
	"github.com/sentimentinvestor/sentigo/pkg/types"
)

type config struct {
	Token   string   `envconfig:"SENTIMENTINVESTOR_TOKEN" required:"true"`
	Key     string   `envconfig:"SENTIMENTINVESTOR_KEY" required:"true"`
	Symbols []string `envconfig:"SENTIMENTINVESTOR_SYMBOLS"`
}

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Fatal().Err(err).Msg("missing credentials")
	}

	stream, err := sentigo.NewStream(&sentigo.StreamConfig{
		Token:   cfg.Token,
		Key:     cfg.Key,
		Symbols: cfg.Symbols,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create stream")
	}

	stream.OnUpdate(func(update *types.StockUpdate) {
		fmt.Printf("%s @ %.0f: %v\n", update.Symbol, update.Timestamp, update.Fields)
	})
	stream.OnError(func(err error) {
		logger.Error().Err(err).Msg("stream error")
	})
	stream.OnDisconnect(func() {
		logger.Warn().Msg("stream disconnected")
	})

	ctx := context.Background()
	if err := stream.Connect(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect")
	}
	defer stream.Close()

	if len(cfg.Symbols) > 0 {
		logger.Info().Str("symbols", strings.Join(cfg.Symbols, ",")).Msg("listening")
	} else {
		logger.Info().Msg("listening for all stocks")
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
}
