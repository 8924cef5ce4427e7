package browserauto

import (
	"context"
	"fmt"
	"net/http"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/chrome" // registers the Chrome cookie store finder
)

// consentCookies harvests the host's real browser session cookies for
// domain so the automated session presents an already-consented
// profile instead of tripping the calendar widget's cookie overlay on
// a fresh context (§4.1 "cookie overlay neutralized via real browser
// profile cookie import").
func consentCookies(ctx context.Context, domain string) ([]*http.Cookie, error) {
	stores := kooky.FindAllCookieStores(ctx)
	defer func() {
		for _, s := range stores {
			_ = s.Close()
		}
	}()

	var out []*http.Cookie
	for _, store := range stores {
		cookies, err := store.ReadCookies(ctx, kooky.DomainHasSuffix(domain))
		if err != nil {
			continue
		}
		for _, c := range cookies {
			out = append(out, c.HTTPCookie())
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no browser cookie store yielded cookies for domain %s", domain)
	}
	return out, nil
}
