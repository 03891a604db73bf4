package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adhyaya/adhyaya/internal/cache"
	"github.com/adhyaya/adhyaya/internal/client"
	"github.com/adhyaya/adhyaya/internal/llm"
	"github.com/adhyaya/adhyaya/internal/questiongen"
	"github.com/adhyaya/adhyaya/internal/revision"
	"github.com/adhyaya/adhyaya/internal/store"
	"github.com/adhyaya/adhyaya/internal/tracker"
)

var errRemoteOnly = errors.New("this command needs the local database; unset api_url")

// env is the set of dependencies a command runs against. tracker and store
// are nil when the CLI talks to a remote server.
type env struct {
	backend tracker.Backend
	tracker *tracker.Tracker
	store   *store.Store
	engine  *revision.Engine
	closers []func() error
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			lg.Warn("close failed", "error", err)
		}
	}
}

// events returns the local event log, or nil for a remote backend.
func (e *env) events() store.EventRepo {
	if e.store == nil {
		return nil
	}
	return e.store.EventRepo()
}

func newEngine() *revision.Engine {
	return revision.NewEngine(revision.WithGracePeriod(cfg.GracePeriod))
}

// openEnv builds a remote backend when api_url is set and the local
// SQLite tracker otherwise.
func openEnv(ctx context.Context) (*env, error) {
	if cfg.APIURL != "" {
		return openRemote(ctx)
	}
	return openLocal()
}

func openLocal() (*env, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		dbPath = p
	} else if err := store.EnsureDir(dbPath); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	e := &env{store: st, engine: newEngine(), closers: []func() error{st.Close}}

	sc := summaryCache()
	e.closers = append(e.closers, sc.Close)

	e.tracker = tracker.New(e.engine, tracker.Deps{
		Reviews:   st.ReviewRepo(),
		Results:   st.QuizResultRepo(),
		Events:    st.EventRepo(),
		Snapshots: st.SnapshotRepo(),
		Cache:     sc,
		Log:       lg,
	}, tracker.WithPassThreshold(cfg.PassThreshold))
	e.backend = e.tracker
	lg.Debug("opened local database", "path", dbPath)
	return e, nil
}

func openRemote(ctx context.Context) (*env, error) {
	remote, err := client.New(client.Options{BaseURL: cfg.APIURL, MaxRetries: 2})
	if err != nil {
		return nil, err
	}

	cachePath := cfg.CachePath
	if cachePath == "" {
		if cachePath, err = client.DefaultCachePath(); err != nil {
			return nil, fmt.Errorf("resolve cache path: %w", err)
		}
	}
	lc, err := client.OpenLocalCache(cachePath)
	if err != nil {
		return nil, fmt.Errorf("open local cache: %w", err)
	}

	engine := newEngine()
	synced := client.NewSynced(remote, lc, engine, lg)
	if err := synced.Reconcile(ctx, cfg.Learner); err != nil {
		lg.Warn("reconcile with server failed, using cached items", "url", remote.BaseURL(), "error", err)
	}
	return &env{backend: synced, engine: engine, closers: []func() error{lc.Save}}, nil
}

// summaryCache returns a Redis cache when configured and reachable, and an
// in-process cache otherwise.
func summaryCache() cache.SummaryCache {
	if cfg.RedisEnabled() {
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.Redis.TTL,
		}, lg)
		if err == nil {
			return rc
		}
		lg.Warn("redis unavailable, using memory cache", "addr", cfg.Redis.Addr, "error", err)
	}
	return cache.NewMemoryCache(cfg.Redis.TTL)
}

// llmConfig prefers explicit ADHYAYA_LLM_PROVIDER settings and falls back
// to whichever vendor key is present.
func llmConfig() (llm.Config, bool) {
	c := llm.ConfigFromEnv()
	if c.Validate() == nil {
		return c, true
	}
	return llm.DiscoverConfig()
}

// newGenerator returns an LLM question generator backed by self-graded
// recall cards, or recall cards alone when no provider is configured.
func newGenerator(ctx context.Context, events store.EventRepo) questiongen.Generator {
	recall := questiongen.RecallGenerator{}
	c, ok := llmConfig()
	if !ok {
		lg.Info("no LLM provider configured, quizzes use recall cards")
		return recall
	}
	provider, err := llm.NewProvider(ctx, c, events, lg)
	if err != nil {
		lg.Warn("LLM provider unavailable, quizzes use recall cards", "error", err)
		return recall
	}
	return questiongen.Fallback{
		Primary:   questiongen.New(provider, questiongen.DefaultConfig(), lg),
		Secondary: recall,
	}
}

// withTimeout bounds one-shot CLI operations.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 30*time.Second)
}
