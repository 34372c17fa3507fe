package internal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentimentinvestor/sentigo/pkg/types"
)

// decodeFields round-trips a JSON document the way the transport does, so
// numeric values carry the same dynamic types the mapper sees in production.
func decodeFields(t *testing.T, doc string) map[string]any {
	t.Helper()
	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &fields))
	return fields
}

func TestMapperSocialData(t *testing.T) {
	mapper := NewMapper()

	tests := []struct {
		name     string
		doc      string
		platform string
		want     types.SocialData
	}{
		{
			name:     "all fields present",
			doc:      `{"tweet_mentions": 149, "tweet_sentiment": 0.82, "tweet_relative_hype": 1.3}`,
			platform: "tweet",
			want: types.SocialData{
				Mentions:     int64Ptr(149),
				Sentiment:    floatPtr(0.82),
				RelativeHype: floatPtr(1.3),
			},
		},
		{
			name:     "relative hype absent",
			doc:      `{"stocktwits_post_mentions": 508, "stocktwits_post_sentiment": 0.92}`,
			platform: "stocktwits_post",
			want: types.SocialData{
				Mentions:  int64Ptr(508),
				Sentiment: floatPtr(0.92),
			},
		},
		{
			name:     "all fields absent",
			doc:      `{"tweet_mentions": 20}`,
			platform: "yahoo_finance_comment",
			want:     types.SocialData{},
		},
		{
			name:     "wrong platform prefix reads nothing",
			doc:      `{"reddit_post_mentions": 5, "reddit_post_sentiment": 0.5}`,
			platform: "reddit_comment",
			want:     types.SocialData{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapper.SocialData(decodeFields(t, tt.doc), tt.platform)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapperSubreddits(t *testing.T) {
	mapper := NewMapper()

	t.Run("intersection of mentions and sentiment keys", func(t *testing.T) {
		fields := decodeFields(t, `{
			"subreddits": {
				"reddit_subreddit_mentions": {"a": 1, "b": 2},
				"reddit_subreddit_sentiment": {"b": 0.5, "c": 0.1}
			}
		}`)

		got := mapper.Subreddits(fields)
		require.Len(t, got, 1)
		assert.Equal(t, types.Subreddit{Mentions: 2, Sentiment: 0.5}, got["b"])
	})

	t.Run("no subreddits key", func(t *testing.T) {
		got := mapper.Subreddits(decodeFields(t, `{"tweet_mentions": 1}`))
		assert.Nil(t, got)
	})

	t.Run("sentiment mapping missing", func(t *testing.T) {
		fields := decodeFields(t, `{
			"subreddits": {"reddit_subreddit_mentions": {"a": 1}}
		}`)
		assert.Nil(t, mapper.Subreddits(fields))
	})

	t.Run("disjoint key sets yield empty breakdown", func(t *testing.T) {
		fields := decodeFields(t, `{
			"subreddits": {
				"reddit_subreddit_mentions": {"a": 1},
				"reddit_subreddit_sentiment": {"b": 0.5}
			}
		}`)
		got := mapper.Subreddits(fields)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestMapperTickerData(t *testing.T) {
	mapper := NewMapper()

	t.Run("all metrics present", func(t *testing.T) {
		fields := decodeFields(t, `{"sentiment": 0.71, "AHI": 1.92, "RHI": 1.25, "SGP": 0.4}`)
		got := mapper.TickerData("AMC", fields)

		assert.Equal(t, "AMC", got.Symbol)
		require.NotNil(t, got.Sentiment)
		assert.Equal(t, 0.71, *got.Sentiment)
		require.NotNil(t, got.AHI)
		assert.Equal(t, 1.92, *got.AHI)
		require.NotNil(t, got.RHI)
		assert.Equal(t, 1.25, *got.RHI)
		require.NotNil(t, got.SGP)
		assert.Equal(t, 0.4, *got.SGP)
	})

	t.Run("missing metrics stay nil", func(t *testing.T) {
		got := mapper.TickerData("AAPL", decodeFields(t, `{"sentiment": 0.7}`))

		require.NotNil(t, got.Sentiment)
		assert.Nil(t, got.AHI)
		assert.Nil(t, got.RHI)
		assert.Nil(t, got.SGP)
	})
}

const quoteDoc = `{
	"sentiment": 0.75,
	"AHI": 0.81,
	"RHI": 1.48,
	"SGP": 0.9,
	"tweet_mentions": 20,
	"tweet_sentiment": 0.6,
	"tweet_relative_hype": 1.1,
	"stocktwits_post_mentions": 113,
	"stocktwits_post_sentiment": 0.77,
	"yahoo_finance_comment_mentions": 13,
	"yahoo_finance_comment_sentiment": 0.41,
	"reddit_post_mentions": 0,
	"reddit_post_sentiment": 0,
	"reddit_comment_mentions": 62,
	"reddit_comment_sentiment": 0.69,
	"subreddits": {
		"reddit_subreddit_mentions": {"stocks": 10, "wallstreetbets": 7},
		"reddit_subreddit_sentiment": {"stocks": 0.8, "wallstreetbets": 0.5, "investing": 0}
	}
}`

func TestMapperQuoteData(t *testing.T) {
	mapper := NewMapper()
	fields := decodeFields(t, quoteDoc)

	got := mapper.QuoteData("AAPL", fields)

	assert.Equal(t, "AAPL", got.Symbol)
	require.NotNil(t, got.AHI)
	assert.Equal(t, 0.81, *got.AHI)

	require.NotNil(t, got.Tweets.Mentions)
	assert.Equal(t, int64(20), *got.Tweets.Mentions)
	require.NotNil(t, got.StocktwitsPosts.Sentiment)
	assert.Equal(t, 0.77, *got.StocktwitsPosts.Sentiment)
	require.NotNil(t, got.YahooFinanceComments.Mentions)
	assert.Equal(t, int64(13), *got.YahooFinanceComments.Mentions)

	require.NotNil(t, got.Reddit.Posts.Mentions)
	assert.Equal(t, int64(0), *got.Reddit.Posts.Mentions)
	require.NotNil(t, got.Reddit.Comments.Mentions)
	assert.Equal(t, int64(62), *got.Reddit.Comments.Mentions)

	require.Len(t, got.Reddit.Subreddits, 2)
	assert.Equal(t, types.Subreddit{Mentions: 10, Sentiment: 0.8}, got.Reddit.Subreddits["stocks"])
	assert.Equal(t, types.Subreddit{Mentions: 7, Sentiment: 0.5}, got.Reddit.Subreddits["wallstreetbets"])
}

func TestMapperIsIdempotent(t *testing.T) {
	mapper := NewMapper()
	fields := decodeFields(t, quoteDoc)

	first := mapper.QuoteData("AAPL", fields)
	second := mapper.QuoteData("AAPL", fields)

	assert.Equal(t, first, second)
}

func int64Ptr(n int64) *int64     { return &n }
func floatPtr(f float64) *float64 { return &f }
