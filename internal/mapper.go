package internal

import (
	"github.com/sentimentinvestor/sentigo/pkg/types"
)

// Mapper reshapes the flat, prefix-keyed field mappings returned by the
// SentimentInvestor API into the typed records in pkg/types. It performs
// no I/O and holds no state; every method is a pure function of its input.
//
// Missing keys are never an error: the corresponding field is left nil.
type Mapper struct{}

// NewMapper creates a new mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// SocialData extracts the three platform-prefixed metrics for the given
// platform, e.g. "tweet" reads tweet_mentions, tweet_sentiment and
// tweet_relative_hype.
func (m *Mapper) SocialData(fields map[string]any, platform string) types.SocialData {
	return types.SocialData{
		Mentions:     intField(fields, platform+"_mentions"),
		Sentiment:    floatField(fields, platform+"_sentiment"),
		RelativeHype: floatField(fields, platform+"_relative_hype"),
	}
}

// Subreddits builds the per-subreddit breakdown from an enriched response.
// It returns nil when the mapping has no "subreddits" key. A subreddit is
// included only when it appears in both the mentions and sentiment
// sub-mappings; a name present in just one is silently dropped.
func (m *Mapper) Subreddits(fields map[string]any) map[string]types.Subreddit {
	raw, ok := fields["subreddits"].(map[string]any)
	if !ok {
		return nil
	}

	mentions, ok := raw["reddit_subreddit_mentions"].(map[string]any)
	if !ok {
		return nil
	}
	sentiment, ok := raw["reddit_subreddit_sentiment"].(map[string]any)
	if !ok {
		return nil
	}

	subreddits := make(map[string]types.Subreddit)
	for name, mv := range mentions {
		sv, ok := sentiment[name]
		if !ok {
			continue
		}
		subreddits[name] = types.Subreddit{
			Mentions:  int64(toFloat(mv)),
			Sentiment: toFloat(sv),
		}
	}
	return subreddits
}

// TickerData builds the base summary record from the four core metric
// fields.
func (m *Mapper) TickerData(symbol string, fields map[string]any) types.TickerData {
	return types.TickerData{
		Symbol:    symbol,
		Sentiment: floatField(fields, "sentiment"),
		AHI:       floatField(fields, "AHI"),
		RHI:       floatField(fields, "RHI"),
		SGP:       floatField(fields, "SGP"),
	}
}

// QuoteData builds the full quote record: the base summary plus the
// per-platform social data and the Reddit breakdown.
func (m *Mapper) QuoteData(symbol string, fields map[string]any) types.QuoteData {
	return types.QuoteData{
		TickerData: m.TickerData(symbol, fields),
		Reddit: types.RedditBreakdown{
			Posts:      m.SocialData(fields, "reddit_post"),
			Comments:   m.SocialData(fields, "reddit_comment"),
			Subreddits: m.Subreddits(fields),
		},
		Tweets:               m.SocialData(fields, "tweet"),
		StocktwitsPosts:      m.SocialData(fields, "stocktwits_post"),
		YahooFinanceComments: m.SocialData(fields, "yahoo_finance_comment"),
	}
}

// floatField reads a numeric field by name, nil when absent or non-numeric.
func floatField(fields map[string]any, key string) *float64 {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

// intField reads a numeric field by name as an integer count.
func intField(fields map[string]any, key string) *int64 {
	f := floatField(fields, key)
	if f == nil {
		return nil
	}
	n := int64(*f)
	return &n
}

func toFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}
