package gdssdk

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// quota is the vendor SDK's advertised remaining-calls window, read off
// response headers the way a GDS client library would surface it to a
// caller deciding whether to keep polling.
type quota struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

var resetHeaderFormats = []string{
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 MST",
}

// parseQuota reads the Ratelimit-* response headers a GDS gateway
// returns on every call, so the adapter can react to an imminent quota
// exhaustion before the token bucket alone would catch it.
func parseQuota(resp *http.Response) (*quota, error) {
	q := &quota{}

	limit, err := strconv.Atoi(resp.Header.Get("Ratelimit-Limit"))
	if err != nil {
		return nil, fmt.Errorf("parse Ratelimit-Limit: %w", err)
	}
	q.Limit = limit

	remaining, err := strconv.Atoi(resp.Header.Get("Ratelimit-Remaining"))
	if err != nil {
		return nil, fmt.Errorf("parse Ratelimit-Remaining: %w", err)
	}
	q.Remaining = remaining

	resetHeader := resp.Header.Get("Ratelimit-Reset")
	for _, format := range resetHeaderFormats {
		if resetAt, err := time.Parse(format, resetHeader); err == nil {
			q.ResetAt = resetAt
			break
		}
	}
	return q, nil
}
