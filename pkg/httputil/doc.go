// Package httputil fetches remote map assets.
//
// # Fetching
//
// [Fetcher] downloads land masks and base maps given as http(s) URLs.
// Responses are cached by URL when a cache is configured, transient
// failures are retried, and every request is reported to the registered
// observability.HTTPHooks.
//
//	f := httputil.NewFetcher(c, time.Hour)
//	data, err := f.Fetch(ctx, "https://example.com/land-mask.png")
//
// # Retry
//
// [Retry] repeats an operation under a [Policy] while it fails with a
// transient error. Whether an error is transient follows its code:
//
//	err := httputil.Retry(ctx, httputil.DefaultPolicy, func() error {
//	    _, err := fetchTile(ctx) // NETWORK_ERROR and TIMEOUT are retried
//	    return err
//	})
//
// Coded errors such as INVALID_INPUT, NOT_FOUND or MASK_DECODE fail on the
// first try. Wrap an uncoded error with [Transient] to retry it anyway.
package httputil
