// Package gdssdk implements the gds-sdk variant of §4.1: an OAuth2
// client-credentials flow against a global distribution system gateway,
// rate-limited both locally (token bucket) and by the vendor's own
// advertised quota headers.
package gdssdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/adapter"
)

const ProviderName = "globalink-gds"

// tokenExchangeRetries bounds how many times FetchToken retries a
// failed OAuth2 client-credentials exchange (§7 AUTH_EXPIRED).
const tokenExchangeRetries = 3

type Adapter struct {
	baseURL string
}

func NewAdapter(baseURL string) *Adapter {
	return &Adapter{baseURL: baseURL}
}

func (a *Adapter) SourceID() string { return ProviderName }

func (a *Adapter) Search(ctx context.Context, actx *adapter.AdapterContext, q core.Query) ([]*core.RawOffer, error) {
	if actx.Credential.Expired(time.Now()) {
		return nil, core.NewSourceError(a.SourceID(), core.FailureAuthExpired, fmt.Errorf("oauth token expired or expiring within refresh margin"))
	}
	body, err := json.Marshal(availabilityRequest{
		Origin:      q.Origin,
		Destination: q.Destination,
		TravelDate:  q.DepartureDate.Format("2006-01-02"),
		BookingCode: string(q.Cabin)[:1],
		PaxCount:    q.Passengers.Total(),
	})
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureUnknown, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/gds/v2/availability", bytes.NewReader(body))
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+actx.Credential.OAuthToken)

	resp, err := actx.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, core.NewSourceError(a.SourceID(), core.FailureCancelled, ctx.Err())
		}
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, err)
	}
	defer resp.Body.Close()

	if quo, err := parseQuota(resp); err == nil && quo.Remaining == 0 {
		return nil, core.NewSourceError(a.SourceID(), core.FailureRateLimited, fmt.Errorf("vendor quota exhausted, resets %s", quo.ResetAt))
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, core.NewSourceError(a.SourceID(), core.FailureAuthExpired, fmt.Errorf("upstream 401"))
	case http.StatusTooManyRequests:
		return nil, core.NewSourceError(a.SourceID(), core.FailureRateLimited, fmt.Errorf("upstream 429"))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var out availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureParseUnusable, err)
	}
	if len(out.PricedItineraries) == 0 {
		return nil, nil
	}

	fetchedAt := time.Now()
	offers := make([]*core.RawOffer, 0, len(out.PricedItineraries))
	for _, it := range out.PricedItineraries {
		offers = append(offers, &core.RawOffer{SourceID: a.SourceID(), FetchedAt: fetchedAt, Payload: it})
	}
	return offers, nil
}

// FetchToken performs the OAuth2 client-credentials exchange. The
// Executor calls this ahead of Search whenever Credential.Expired
// reports true, then injects the refreshed Credential into the next
// AdapterContext.
func (a *Adapter) FetchToken(ctx context.Context, clientID, clientSecret string) (adapter.Credential, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	form := fmt.Sprintf("grant_type=client_credentials&client_id=%s&client_secret=%s", clientID, clientSecret)

	var tok tokenResponse
	exchange := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/gds/v2/oauth/token", bytes.NewReader([]byte(form)))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("token exchange status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("token exchange status %d", resp.StatusCode))
		}
		return json.NewDecoder(resp.Body).Decode(&tok)
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), tokenExchangeRetries)
	if err := backoff.Retry(exchange, backoff.WithContext(policy, ctx)); err != nil {
		return adapter.Credential{}, err
	}

	return adapter.Credential{
		OAuthToken: tok.AccessToken,
		ExpiresAt:  time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second),
	}, nil
}

func (a *Adapter) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/gds/v2/status", nil)
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
