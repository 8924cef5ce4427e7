// Package aggregator implements the aggregator-api variant of §4.1:
// REST + API key, rate-limited to 5 req/s via a per-source token
// bucket.
package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/adapter"
)

const ProviderName = "fareport-agg"

type Adapter struct {
	baseURL string
}

func NewAdapter(baseURL string) *Adapter {
	return &Adapter{baseURL: baseURL}
}

func (a *Adapter) SourceID() string { return ProviderName }

type searchRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Cabin       string `json:"cabin"`
	Currency    string `json:"currency"`
	Adults      int    `json:"adults"`
}

func (a *Adapter) Search(ctx context.Context, actx *adapter.AdapterContext, q core.Query) ([]*core.RawOffer, error) {
	body, err := json.Marshal(searchRequest{
		Origin:      q.Origin,
		Destination: q.Destination,
		Date:        q.DepartureDate.Format("2006-01-02"),
		Cabin:       string(q.Cabin),
		Currency:    q.Currency,
		Adults:      q.Passengers.Adults,
	})
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureUnknown, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/search", bytes.NewReader(body))
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+actx.Credential.APIKey)

	resp, err := actx.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, core.NewSourceError(a.SourceID(), core.FailureCancelled, ctx.Err())
		}
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return nil, core.NewSourceError(a.SourceID(), core.FailureRateLimited, fmt.Errorf("upstream 429"))
	case http.StatusUnauthorized:
		return nil, core.NewSourceError(a.SourceID(), core.FailureAuthExpired, fmt.Errorf("upstream 401"))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var out SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureParseUnusable, err)
	}

	if len(out.Offers) == 0 {
		return nil, nil
	}

	fetchedAt := time.Now()
	offers := make([]*core.RawOffer, 0, len(out.Offers))
	for _, o := range out.Offers {
		offers = append(offers, &core.RawOffer{SourceID: a.SourceID(), FetchedAt: fetchedAt, Payload: o})
	}
	return offers, nil
}

func (a *Adapter) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/v1/health", nil)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check status %d", resp.StatusCode)
	}
	return nil
}

func (a *Adapter) ClassifyFailure(err error) core.FailureKind {
	if se, ok := core.AsSourceError(err); ok {
		return se.Kind
	}
	return core.FailureUnknown
}
