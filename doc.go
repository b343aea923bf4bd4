// Package applemusic provides a Go client for the Apple Music API.
//
// A client authenticates with a developer token, either supplied directly or
// signed locally from a MusicKit private key (ES256 JWT, cached and renewed
// shortly before expiry). Endpoints that touch a user's library also need a
// Music-User-Token, which can be set and cleared at any time.
//
// Every request goes through one pipeline: auth headers are attached, each
// attempt gets its own timeout, and rate limits (429), server errors (5xx)
// and network failures are retried with exponential backoff and jitter,
// honoring the server's Retry-After hint.
//
// Basic usage:
//
//	cfg, err := applemusic.NewConfig(os.Getenv("APPLE_MUSIC_DEVELOPER_TOKEN"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg, err = cfg.WithStorefront("gb")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := applemusic.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := client.Search(ctx, "daft punk", applemusic.SearchOptions{Limit: 5})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Signing tokens locally:
//
//	cfg, err := applemusic.NewJWTConfig(teamID, keyID, pemBytes)
//
// Errors are typed ([ConfigError], [AuthError], [APIError], [RateLimitError],
// [ServerError], [TransportError], [DecodeError]) and match the package
// sentinels with errors.Is. Cancelling the context returns ctx.Err() as is.
package applemusic
