// Command example exercises the REST client against the live API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/sentimentinvestor/sentigo"
)

type credentials struct {
	Token string `envconfig:"SENTIMENTINVESTOR_TOKEN" required:"true"`
	Key   string `envconfig:"SENTIMENTINVESTOR_KEY" required:"true"`
}

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	var creds credentials
	if err := envconfig.Process("", &creds); err != nil {
		logger.Fatal().Err(err).Msg("missing credentials")
	}

	client, err := sentigo.New(&sentigo.Config{
		Token:  creds.Token,
		Key:    creds.Key,
		Logger: &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create client")
	}

	ctx := context.Background()

	parsed, err := client.Parsed(ctx, "AAPL")
	if err != nil {
		logger.Fatal().Err(err).Msg("parsed request failed")
	}
	if parsed == nil {
		fmt.Println("no data for AAPL")
	} else {
		fmt.Printf("AAPL core metrics:\n")
		printMetric("sentiment", parsed.Sentiment)
		printMetric("AHI", parsed.AHI)
		printMetric("RHI", parsed.RHI)
		printMetric("SGP", parsed.SGP)
	}

	quote, err := client.Quote(ctx, "TSLA", true)
	if err != nil {
		logger.Fatal().Err(err).Msg("quote request failed")
	}
	if quote != nil {
		fmt.Printf("\nTSLA enriched quote:\n")
		if quote.Tweets.Mentions != nil {
			fmt.Printf("  tweet mentions: %d\n", *quote.Tweets.Mentions)
		}
		if quote.Reddit.Comments.Mentions != nil {
			fmt.Printf("  reddit comment mentions: %d\n", *quote.Reddit.Comments.Mentions)
		}
		for name, sub := range quote.Reddit.Subreddits {
			fmt.Printf("  r/%s: %d mentions, sentiment %.2f\n", name, sub.Mentions, sub.Sentiment)
		}
	}

	ranked, err := client.Sort(ctx, "AHI", 5)
	if err != nil {
		logger.Fatal().Err(err).Msg("sort request failed")
	}
	fmt.Printf("\nTop %d stocks by AHI:\n", len(ranked))
	for i, stock := range ranked {
		fmt.Printf("  %d. %s", i+1, stock.Symbol)
		if stock.AHI != nil {
			fmt.Printf(" (%.4f)", *stock.AHI)
		}
		fmt.Println()
	}

	for _, symbol := range []string{"AAPL", "SNTPY"} {
		supported, err := client.Supported(ctx, symbol)
		if err != nil {
			logger.Fatal().Err(err).Msg("supported request failed")
		}
		verb := "is not"
		if supported {
			verb = "is"
		}
		fmt.Printf("%s %s supported\n", symbol, verb)
	}
}

func printMetric(name string, value *float64) {
	if value == nil {
		fmt.Printf("  %s: n/a\n", name)
		return
	}
	fmt.Printf("  %s: %.4f\n", name, *value)
}
