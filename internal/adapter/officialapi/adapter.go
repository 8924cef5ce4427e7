// Package officialapi implements the official-api variant of §4.1: a
// documented, first-party OAuth2 client-credentials API. The access
// token is cached for up to 36 hours and refreshed 60 seconds before
// it actually expires, the most generous credential lifetime of any
// variant since the carrier controls both ends of the contract.
package officialapi

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

// tokenExchangeRetries bounds how many times FetchToken retries a
// failed OAuth2 client-credentials exchange (§7 AUTH_EXPIRED) before
// giving up and surfacing the error to the Executor.
const tokenExchangeRetries = 3

const ProviderName = "carrierhub-official"

// MaxTokenLifetime caps a cached token's lifetime regardless of what
// expires_in claims, guarding against a misbehaving token endpoint
// handing out an unreasonably long-lived credential.
const MaxTokenLifetime = 36 * time.Hour

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
	if err := validateToken(actx.Credential.OAuthToken); err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureAuthExpired, err)
	}
	var returnDate string
	if q.ReturnDate != nil {
		returnDate = q.ReturnDate.Format("2006-01-02")
	}
	body, err := json.Marshal(offersRequest{
		Origin:      q.Origin,
		Destination: q.Destination,
		DepartDate:  q.DepartureDate.Format("2006-01-02"),
		ReturnDate:  returnDate,
		CabinClass:  string(q.Cabin),
		AdultCount:  q.Passengers.Adults,
		ChildCount:  q.Passengers.Children,
		InfantCount: q.Passengers.InfantsInSeat + q.Passengers.InfantsOnLap,
	})
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureUnknown, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/public/v1/offers", bytes.NewReader(body))
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

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, core.NewSourceError(a.SourceID(), core.FailureAuthExpired, fmt.Errorf("upstream 401"))
	case http.StatusTooManyRequests:
		return nil, core.NewSourceError(a.SourceID(), core.FailureRateLimited, fmt.Errorf("upstream 429"))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var out offersResponse
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

// FetchToken performs the client-credentials exchange and caps the
// resulting credential's lifetime at MaxTokenLifetime.
func (a *Adapter) FetchToken(ctx context.Context, clientID, clientSecret string) (adapter.Credential, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	form := fmt.Sprintf("grant_type=client_credentials&client_id=%s&client_secret=%s", clientID, clientSecret)

	var tok tokenResponse
	exchange := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/public/v1/oauth/token", bytes.NewReader([]byte(form)))
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

	fallback := time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	expiresAt := expiryFromAccessToken(tok.AccessToken, fallback)
	if ceiling := time.Now().Add(MaxTokenLifetime); expiresAt.After(ceiling) {
		expiresAt = ceiling
	}

	return adapter.Credential{OAuthToken: tok.AccessToken, ExpiresAt: expiresAt}, nil
}

func (a *Adapter) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/public/v1/status", nil)
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
