// Package binarymeta implements the binary-metasearch adapter variant
// of §4.1: a base64-encoded binary message fetched over HTTP GET behind
// a TLS-fingerprint-masking client, with EU consent cookies pre-seeded.
package binarymeta

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/adapter"
)

const ProviderName = "skyscan-meta"

// euConsentCookie is pre-seeded on every request: this metasearch
// endpoint 403s EU-geolocated clients that omit it.
const euConsentCookie = "eu_consent=1; euconsent-v2=accepted"

// Adapter implements adapter.Adapter for the binary-metasearch variant.
type Adapter struct {
	baseURL string
}

// NewAdapter builds a binary-metasearch Adapter against baseURL.
func NewAdapter(baseURL string) *Adapter {
	return &Adapter{baseURL: baseURL}
}

func (a *Adapter) SourceID() string { return ProviderName }

// Search issues the single GET this variant's wire protocol supports,
// decodes the base64 envelope and returns one RawOffer per record.
func (a *Adapter) Search(ctx context.Context, actx *adapter.AdapterContext, q core.Query) ([]*core.RawOffer, error) {
	reqURL := a.buildURL(q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, err)
	}
	req.Header.Set("Cookie", euConsentCookie)
	req.Header.Set("User-Agent", tlsMaskedUserAgent)

	resp, err := actx.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, core.NewSourceError(a.SourceID(), core.FailureCancelled, ctx.Err())
		}
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, core.NewSourceError(a.SourceID(), core.FailureRateLimited, fmt.Errorf("upstream 429"))
	}
	if resp.StatusCode == http.StatusForbidden {
		return nil, core.NewSourceError(a.SourceID(), core.FailureBotChallenge, fmt.Errorf("upstream 403"))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, err)
	}

	decoded, err := base64.StdEncoding.DecodeString(string(body))
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureParseUnusable, err)
	}

	var env Envelope
	if err := json.Unmarshal(decoded, &env); err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureParseUnusable, err)
	}

	if len(env.Records) == 0 {
		return nil, nil
	}

	fetchedAt := time.Now()
	offers := make([]*core.RawOffer, 0, len(env.Records))
	for _, rec := range env.Records {
		offers = append(offers, &core.RawOffer{
			SourceID:  a.SourceID(),
			FetchedAt: fetchedAt,
			Payload:   rec,
		})
	}
	return offers, nil
}

func (a *Adapter) buildURL(q core.Query) string {
	v := url.Values{}
	v.Set("o", q.Origin)
	v.Set("d", q.Destination)
	v.Set("dd", q.DepartureDate.Format("2006-01-02"))
	v.Set("cb", string(q.Cabin))
	return a.baseURL + "/m?" + v.Encode()
}

func (a *Adapter) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/ping", nil)
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

const tlsMaskedUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
