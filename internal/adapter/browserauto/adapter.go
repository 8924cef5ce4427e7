// Package browserauto implements the browser-automation variant of
// §4.1: a system-installed browser (never bundled) driven over the
// Chrome DevTools Protocol, with a real-profile cookie overlay so the
// calendar widget never shows its consent banner, and a bounded lease
// pool since every request holds an entire browser session for the
// 60-90s it takes to render.
package browserauto

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/adapter"
)

const ProviderName = "legacy-air-browser"

type Adapter struct {
	debuggerURL string // ws://127.0.0.1:<port>/devtools/page/<id>, resolved by the caller's browser launcher
	searchURL   string // the calendar widget's landing page
	domain      string
	pool        *Pool
}

func NewAdapter(debuggerURL, searchURL, domain string, pool *Pool) *Adapter {
	return &Adapter{debuggerURL: debuggerURL, searchURL: searchURL, domain: domain, pool: pool}
}

func (a *Adapter) SourceID() string { return ProviderName }

func (a *Adapter) Search(ctx context.Context, actx *adapter.AdapterContext, q core.Query) ([]*core.RawOffer, error) {
	lease, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureCancelled, err)
	}
	defer lease.Release()

	cookies, err := consentCookies(ctx, a.domain)
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureBotChallenge, fmt.Errorf("cookie overlay not neutralized: %w", err))
	}

	conn, err := dialCDP(ctx, a.debuggerURL)
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, err)
	}
	defer conn.Close()

	if err := conn.setCookies(cookies, a.domain); err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureBotChallenge, err)
	}

	if err := conn.navigate(a.searchLandingURL(q)); err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureTransientNetwork, err)
	}

	raw, err := conn.evaluate(calendarExtractionScript)
	if err != nil {
		if ctx.Err() != nil {
			return nil, core.NewSourceError(a.SourceID(), core.FailureCancelled, ctx.Err())
		}
		return nil, core.NewSourceError(a.SourceID(), core.FailureBotChallenge, err)
	}

	page, err := decodeScrapedPage(raw)
	if err != nil {
		return nil, core.NewSourceError(a.SourceID(), core.FailureParseUnusable, err)
	}
	if len(page.Rows) == 0 {
		return nil, nil
	}

	fetchedAt := time.Now()
	offers := make([]*core.RawOffer, 0, len(page.Rows))
	for _, row := range page.Rows {
		row.Origin, row.Destination = q.Origin, q.Destination
		offers = append(offers, &core.RawOffer{SourceID: a.SourceID(), FetchedAt: fetchedAt, Payload: row})
	}
	return offers, nil
}

func (a *Adapter) searchLandingURL(q core.Query) string {
	u, err := url.Parse(a.searchURL)
	if err != nil {
		return a.searchURL
	}
	query := u.Query()
	query.Set("from", q.Origin)
	query.Set("to", q.Destination)
	query.Set("date", q.DepartureDate.Format("2006-01-02"))
	u.RawQuery = query.Encode()
	return u.String()
}

// calendarExtractionScript reads the rendered result cards off the
// page. The real script is widget-specific DOM scraping; only its
// JSON-serializable return contract matters to this adapter.
const calendarExtractionScript = `JSON.stringify(window.__flightResults || {rows: []})`

func (a *Adapter) HealthCheck(ctx context.Context) error {
	conn, err := dialCDP(ctx, a.debuggerURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	return conn.navigate(a.searchURL)
}

func (a *Adapter) ClassifyFailure(err error) core.FailureKind {
	if se, ok := core.AsSourceError(err); ok {
		return se.Kind
	}
	return core.FailureUnknown
}
