// Package sentigo is a Go client for the SentimentInvestor API.
//
// # Overview
//
// SentimentInvestor measures social-media chatter about stocks across
// Twitter, Reddit, Stocktwits and Yahoo! Finance, and exposes the results
// through a small REST API plus a realtime websocket feed. This package
// wraps both: the Client performs authenticated GET requests against the
// REST endpoints and reshapes the JSON responses into typed records, and
// the Stream delivers realtime stock updates over the socket.
//
// # Quick start
//
// Requests are authenticated with the token and key from your
// SentimentInvestor developer dashboard:
//
//	client, err := sentigo.New(&sentigo.Config{
//		Token: os.Getenv("SENTIMENTINVESTOR_TOKEN"),
//		Key:   os.Getenv("SENTIMENTINVESTOR_KEY"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	parsed, err := client.Parsed(ctx, "AAPL")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if parsed != nil && parsed.AHI != nil {
//		fmt.Println(*parsed.AHI)
//	}
//
// # No-data responses
//
// When the service has no data for a request it answers with a successful
// envelope whose success flag is false. That outcome is not an error: the
// operation returns its zero value (nil record, nil slice, empty set) with
// a nil error. Check both before using a result.
//
// # Optional fields
//
// The service omits metrics it did not compute for a window, so numeric
// fields on the result records are pointers and may be nil. This mirrors
// the wire format rather than guessing at defaults.
//
// # Errors
//
// Failures are typed, see pkg/errors: ConfigError for missing credentials
// at construction, AuthError when the service rejects the token or key,
// ProtocolError when a response body is not JSON, and RequestError for
// HTTP-level failures. No operation retries; every failure is surfaced
// synchronously to the caller.
//
// # Streaming
//
// For realtime updates, open a Stream with the same credentials:
//
//	stream, err := sentigo.NewStream(&sentigo.StreamConfig{
//		Token:   token,
//		Key:     key,
//		Symbols: []string{"AAPL", "TSLA"},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	stream.OnUpdate(func(u *types.StockUpdate) {
//		fmt.Println(u.Symbol, u.Fields)
//	})
//	if err := stream.Connect(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer stream.Close()
//
// The stream reconnects automatically if the socket drops; the REST client
// never does.
package sentigo
