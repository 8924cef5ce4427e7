// Package bootstrap builds the shared search-core pipeline — adapters,
// router, breakers, rate limiters, executor, cache, scheduler — from a
// loaded config.Config, following the teacher's
// internal/api.SetupDependencies pattern but generalized so both
// cmd/core (no HTTP surface) and cmd/api (the echo collaborator) start
// from the same wiring instead of duplicating it.
package bootstrap

import (
	"net/http"
	"time"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/adapter"
	"github.com/flightcore/crawl/internal/adapter/aggregator"
	"github.com/flightcore/crawl/internal/adapter/binarymeta"
	"github.com/flightcore/crawl/internal/adapter/browserauto"
	"github.com/flightcore/crawl/internal/adapter/gdssdk"
	"github.com/flightcore/crawl/internal/adapter/officialapi"
	"github.com/flightcore/crawl/internal/adapter/perairline"
	"github.com/flightcore/crawl/internal/adapter/sharedtenant"
	"github.com/flightcore/crawl/internal/breaker"
	"github.com/flightcore/crawl/internal/cache"
	"github.com/flightcore/crawl/internal/config"
	"github.com/flightcore/crawl/internal/executor"
	"github.com/flightcore/crawl/internal/history"
	"github.com/flightcore/crawl/internal/normalize"
	"github.com/flightcore/crawl/internal/ratelimit"
	"github.com/flightcore/crawl/internal/router"
	"github.com/flightcore/crawl/internal/scheduler"
	"github.com/flightcore/crawl/internal/service"
)

// Pipeline bundles everything a process needs to either serve search
// requests or run the background refresh sweep.
type Pipeline struct {
	Service   *service.Service
	Scheduler *scheduler.Scheduler
	Health    *core.HealthRegistry
}

// anti-bot escalation ladder for perairline's undocumented-JSON
// variant, the only adapter variant that implements EscalatingAdapter.
const decayAfterN = 5

// Build wires every collaborator named in SPEC_FULL.md's module layout
// from cfg. Adapter base URLs are not part of spec.md's scope (no real
// upstream endpoints were specified), so each adapter is pointed at a
// placeholder host derived from its source ID. These URLs are fixed
// here; no config field overrides them.
func Build(cfg *config.Config) *Pipeline {
	health := core.NewHealthRegistry()
	breakers := breaker.NewRegistry(health)
	limiters := ratelimit.NewRegistry(cfg.Adapters)
	normalizer := normalize.NewRegistry()
	normalizer.Register(binarymeta.ProviderName, binarymeta.Normalize)
	normalizer.Register(aggregator.ProviderName, aggregator.Normalize)
	normalizer.Register(sharedtenant.ProviderName, sharedtenant.Normalize)
	normalizer.Register(perairline.ProviderName, perairline.Normalize)
	normalizer.Register(gdssdk.ProviderName, gdssdk.Normalize)
	normalizer.Register(officialapi.ProviderName, officialapi.Normalize)
	normalizer.Register(browserauto.ProviderName, browserauto.Normalize)

	browserPool := browserauto.NewPool(cfg.Browser)

	rawAdapters := map[string]adapter.Adapter{
		binarymeta.ProviderName:   binarymeta.NewAdapter("https://" + binarymeta.ProviderName + ".upstream.example"),
		aggregator.ProviderName:   aggregator.NewAdapter("https://" + aggregator.ProviderName + ".upstream.example"),
		sharedtenant.ProviderName: sharedtenant.NewAdapter("https://" + sharedtenant.ProviderName + ".upstream.example"),
		perairline.ProviderName:   perairline.NewAdapter("https://" + perairline.ProviderName + ".upstream.example"),
		gdssdk.ProviderName:       gdssdk.NewAdapter("https://" + gdssdk.ProviderName + ".upstream.example"),
		officialapi.ProviderName:  officialapi.NewAdapter("https://" + officialapi.ProviderName + ".upstream.example"),
		browserauto.ProviderName: browserauto.NewAdapter(
			"ws://127.0.0.1:9222/devtools/browser",
			"https://"+browserauto.ProviderName+".upstream.example/search",
			browserauto.ProviderName+".upstream.example",
			browserPool,
		),
	}

	sources := make(map[string]executor.Source, len(rawAdapters))
	for id, a := range rawAdapters {
		acfg := cfg.Adapters[id]

		breakers.Add(id, breaker.Settings{
			FailureThreshold: uint32(cfg.Circuit.FailureThreshold),
			Window:           cfg.Circuit.Window,
			Cooldown:         cfg.Circuit.Cooldown,
		})

		var escalation *adapter.EscalationState
		if ea, ok := a.(adapter.EscalatingAdapter); ok {
			escalation = adapter.NewEscalationState(ea.Strategies(), decayAfterN)
		}

		sources[id] = executor.Source{
			Adapter: a,
			Context: &adapter.AdapterContext{
				HTTPClient: &http.Client{Timeout: acfg.Timeout},
				Limiter:    limiters.Get(id),
				Escalation: escalation,
				Credential: credentialFor(acfg),
			},
		}
	}

	rtr := router.New(router.DefaultCoverageTable(), health)
	exec := executor.New(sources, normalizer, rtr, breakers, health, cfg.Adapters, cfg.Executor)

	mem := cache.NewMemStore(cfg.Cache.MemCacheSize)
	var shared cache.Store
	if cfg.Cache.RedisAddr != "" {
		shared = cache.NewRedisStore(cfg.Cache.RedisAddr, "flightcore:cache:", 24*time.Hour)
	}
	c := cache.New(mem, shared, cfg.Cache)

	recorder := history.NewRecorder(500)
	popularity := scheduler.NewPopularityTracker()

	// No live exchange-rate feed is named anywhere in spec.md or the
	// corpus; rates stays nil, which internal/merger treats as "every
	// offer is already in the query's target currency" (a fixed,
	// stamped table would be a config addition, not a dependency this
	// module is missing).
	svc := service.New(exec, c, recorder, popularity, cfg.Cache, nil)
	sched := scheduler.New(popularity, svc.Refresh, 50, 5, time.Minute)

	return &Pipeline{Service: svc, Scheduler: sched, Health: health}
}

// credentialFor builds the AdapterContext.Credential an adapter needs
// from its configured CredentialKind. Real API keys/OAuth tokens are an
// operator secret, not something this wiring can fabricate, so it
// leaves the material empty and relies on the adapter's own
// AUTH_EXPIRED classification to surface a misconfigured deployment.
func credentialFor(acfg config.AdapterConfig) adapter.Credential {
	switch acfg.Credential {
	case config.CredentialOAuth:
		return adapter.Credential{OAuthToken: "", ExpiresAt: time.Time{}}
	case config.CredentialAPIKey:
		return adapter.Credential{APIKey: ""}
	default:
		return adapter.Credential{}
	}
}
