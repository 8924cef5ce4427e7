// Package perairline implements the per-airline-reverse variant of
// §4.1: an undocumented JSON endpoint reverse-engineered from an
// airline's own mobile app, guarded by a channel-code header and a
// warm-up session request that must succeed before the real query.
package perairline

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

const ProviderName = "nusantara-air-direct"

// strategies is the escalation ladder (§4.1): each level adds one more
// layer of channel disguise after a BOT_CHALLENGE classification.
var strategies = []string{"default-channel", "mobile-app-channel", "mobile-hmac-signed"}

type Adapter struct {
	baseURL string
}

func NewAdapter(baseURL string) *Adapter {
	return &Adapter{baseURL: baseURL}
}

func (a *Adapter) SourceID() string { return ProviderName }

func (a *Adapter) Strategies() []string { return strategies }

func (a *Adapter) Search(ctx context.Context, actx *adapter.AdapterContext, q core.Query) ([]*core.RawOffer, error) {
	if err := a.warmUp(ctx, actx); err != nil {
		return nil, err
	}

	channel := "default-channel"
	if actx.Escalation != nil {
		channel = actx.Escalation.Current()
	}

	body, err := json.Marshal(fareQuery{
		From:       q.Origin,
		To:         q.Destination,
		When:       q.DepartureDate.Format("2006-01-02"),
		CabinHint:  string(q.Cabin),
		PaxCount:   q.Passengers.Total(),
		ChannelTag: channel,
	})
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureUnknown, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/mobile/v3/fares", bytes.NewReader(body))
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Channel-Code", channel)

	resp, err := actx.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, core.NewSourceError(a.SourceID(), core.FailureCancelled, ctx.Err())
		}
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusForbidden, http.StatusConflict:
		return nil, core.NewSourceError(a.SourceID(), core.FailureBotChallenge, fmt.Errorf("channel %s rejected, status %d", channel, resp.StatusCode))
	case http.StatusTooManyRequests:
		return nil, core.NewSourceError(a.SourceID(), core.FailureRateLimited, fmt.Errorf("upstream 429"))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var out fareResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureParseUnusable, err)
	}
	if !out.OK {
		return nil, core.NewSourceError(a.SourceID(), core.FailureUpstreamEmpty, fmt.Errorf("upstream reported not ok"))
	}
	if len(out.Trips) == 0 {
		return nil, nil
	}

	fetchedAt := time.Now()
	offers := make([]*core.RawOffer, 0, len(out.Trips))
	for _, trip := range out.Trips {
		offers = append(offers, &core.RawOffer{SourceID: a.SourceID(), FetchedAt: fetchedAt, Payload: trip})
	}
	return offers, nil
}

// warmUp requests /mobile/v3/session, mirroring the app's own load
// sequence before it ever calls /fares, and fails as BOT_CHALLENGE on a
// non-200 status. Any session cookie it returns reaches /fares only if
// actx.HTTPClient has a cookie jar; the client bootstrap.Build creates
// has none.
func (a *Adapter) warmUp(ctx context.Context, actx *adapter.AdapterContext) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/mobile/v3/session", nil)
	if err != nil {
		return core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, err)
	}
	resp, err := actx.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return core.NewSourceError(a.SourceID(), core.FailureCancelled, ctx.Err())
		}
		return core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return core.NewSourceError(a.SourceID(), core.FailureBotChallenge, fmt.Errorf("warm-up status %d", resp.StatusCode))
	}
	return nil
}

func (a *Adapter) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/mobile/v3/session", nil)
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
