// Package sharedtenant implements the shared-tenant-key variant of
// §4.1: one booking-platform endpoint serving several airlines behind a
// single tenant credential, rather than one endpoint per carrier.
package sharedtenant

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

const ProviderName = "wholesaler-x"

type Adapter struct {
	baseURL string
}

func NewAdapter(baseURL string) *Adapter {
	return &Adapter{baseURL: baseURL}
}

func (a *Adapter) SourceID() string { return ProviderName }

func (a *Adapter) Search(ctx context.Context, actx *adapter.AdapterContext, q core.Query) ([]*core.RawOffer, error) {
	if actx.Credential.TenantID == "" {
		return nil, core.NewSourceError(a.SourceID(), core.FailureAuthExpired, fmt.Errorf("missing tenant id"))
	}

	body, err := json.Marshal(searchRequest{
		TenantID:    actx.Credential.TenantID,
		Origin:      q.Origin,
		Destination: q.Destination,
		DepartDate:  q.DepartureDate.Format("2006-01-02"),
		CabinClass:  string(q.Cabin),
		PaxAdults:   q.Passengers.Adults,
		PaxChildren: q.Passengers.Children,
	})
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureUnknown, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/wholesale/quote", bytes.NewReader(body))
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", actx.Credential.TenantID)

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
	case http.StatusForbidden:
		return nil, core.NewSourceError(a.SourceID(), core.FailureBotChallenge, fmt.Errorf("upstream 403"))
	case http.StatusUnauthorized:
		return nil, core.NewSourceError(a.SourceID(), core.FailureAuthExpired, fmt.Errorf("upstream 401"))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureParseUnusable, err)
	}
	if len(out.Quotes) == 0 {
		return nil, nil
	}

	fetchedAt := time.Now()
	offers := make([]*core.RawOffer, 0, len(out.Quotes))
	for _, quote := range out.Quotes {
		offers = append(offers, &core.RawOffer{SourceID: a.SourceID(), FetchedAt: fetchedAt, Payload: quote})
	}
	return offers, nil
}

func (a *Adapter) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/wholesale/status", nil)
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
