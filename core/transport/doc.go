// Package transport is the HTTP layer shared by the source feed and catalog clients.
//
// Every call goes through a Policy: retriable failures (timeouts, aborted
// connections, 5xx) are retried with backoff up to MaxAttempts, everything else
// (4xx, encoding problems) is returned at once as a *NonRetriableError. When the
// ceiling is hit the last error is wrapped in a *RetryExhaustedError.
//
//	client := transport.NewClient(cfg, log, transport.WithBasicAuth(key, secret))
//	resp, err := client.Send(ctx, transport.Request{Method: http.MethodGet, URL: u})
//
// FetchAllPages walks a paginated listing until the first empty page.
package transport
