// Package types contains the result records returned by the SentimentInvestor client.
//
// Records are built once from a decoded API response and are not mutated
// afterwards. Optional metrics are pointers: the service freely omits
// fields, and a missing field decodes to nil rather than an error.
package types

// SocialData holds the per-platform metrics for a stock on a single social
// platform (Twitter, Stocktwits, Reddit posts, and so on).
type SocialData struct {
	// Mentions is the number of times the stock was mentioned on the platform.
	Mentions *int64
	// Sentiment is the average sentiment score of remarks mentioning the stock.
	Sentiment *float64
	// RelativeHype is how many times more frequently the stock was mentioned
	// than other stocks.
	RelativeHype *float64
}

// Subreddit holds the mention count and sentiment for a stock within a
// single subreddit.
type Subreddit struct {
	Mentions  int64
	Sentiment float64
}

// RedditBreakdown groups the Reddit analysis for a stock: posts, comments,
// and the optional per-subreddit breakdown.
type RedditBreakdown struct {
	// Posts is the analysis for Reddit posts mentioning the stock.
	Posts SocialData
	// Comments is the analysis for Reddit comments mentioning the stock.
	Comments SocialData
	// Subreddits maps subreddit name to its breakdown. It is nil unless the
	// response was enriched with subreddit data.
	Subreddits map[string]Subreddit
}

// TickerData is the basic data item for a ticker: the four core metrics.
type TickerData struct {
	// Symbol is the ticker symbol.
	Symbol string
	// Sentiment is the positive sentiment (%).
	Sentiment *float64
	// AHI is the Average Hype Index.
	AHI *float64
	// RHI is the Relative Hype Index.
	RHI *float64
	// SGP is the Standard General Perception.
	SGP *float64
}

// QuoteData extends TickerData with the per-platform social breakdowns.
type QuoteData struct {
	TickerData

	// Reddit is the analysis for Reddit data.
	Reddit RedditBreakdown
	// Tweets is the analysis for Twitter.
	Tweets SocialData
	// StocktwitsPosts is the analysis for Stocktwits posts.
	StocktwitsPosts SocialData
	// YahooFinanceComments is the analysis for Yahoo! Finance comments.
	YahooFinanceComments SocialData
}

// StockUpdate is a single realtime update delivered over the streaming
// socket. The update payload varies by feed, so beyond the symbol and
// timestamp the fields are exposed as a raw mapping.
type StockUpdate struct {
	// Symbol is the ticker symbol the update refers to.
	Symbol string
	// Timestamp is the server time of the update, Unix milliseconds.
	Timestamp float64
	// Fields holds the full decoded update payload.
	Fields map[string]any
}
