// Package workspace bundles everything one signed-in person's requests share:
// the session, an API client bound to it, the query cache and the notice
// feed. Nothing in here is global; sign-out drops the whole bundle.
package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"lifelessons/internal/apiclient"
	"lifelessons/internal/cache"
	"lifelessons/internal/notify"
	"lifelessons/internal/session"
)

const ginKey = "workspace"

type Workspace struct {
	Session *session.Session
	API     *apiclient.Client
	Cache   *cache.Cache
	Notices *notify.Feed

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	slots map[string]any
}

func newWorkspace(sess *session.Session, api *apiclient.Client, c *cache.Cache) *Workspace {
	ctx, cancel := context.WithCancel(context.Background())
	return &Workspace{
		Session: sess,
		API:     api,
		Cache:   c,
		Notices: notify.NewFeed(0),
		ctx:     ctx,
		cancel:  cancel,
		slots:   make(map[string]any),
	}
}

// Anonymous reports whether nobody is signed in.
func (w *Workspace) Anonymous() bool { return w.Session == nil }

// Email of the signed-in person, or "".
func (w *Workspace) Email() string {
	if w.Session == nil {
		return ""
	}
	return w.Session.Email()
}

// Context is cancelled when the workspace is dropped. Background work tied
// to the session (pollers, live feeds) should stop on it.
func (w *Workspace) Context() context.Context { return w.ctx }

// Slot returns the value stored under name, creating it with init on first
// use.
func (w *Workspace) Slot(name string, init func() any) any {
	w.mu.Lock()
	defer w.mu.Unlock()

	if v, ok := w.slots[name]; ok {
		return v
	}
	v := init()
	w.slots[name] = v
	return v
}

// SlotOf is the typed form of Slot.
func SlotOf[T any](w *Workspace, name string, init func() T) T {
	return w.Slot(name, func() any { return init() }).(T)
}

func (w *Workspace) close() { w.cancel() }

// Forgetter releases per-session state kept outside the workspace, such as
// the outbound rate-limit bucket.
type Forgetter interface {
	Forget(key string)
}

// Config holds what the registry needs to build a workspace.
type Config struct {
	API      apiclient.Config
	CacheTTL time.Duration
	// Limiter, when set, is told to forget a session once its workspace is dropped.
	Limiter Forgetter
}

// Registry keeps one workspace per live session.
type Registry struct {
	cfg     Config
	tokens  apiclient.TokenMinter
	logger  *slog.Logger
	options []apiclient.Option

	mu    sync.Mutex
	items map[string]*Workspace

	anonAPI   *apiclient.Client
	anonCache *cache.Cache
}

func NewRegistry(cfg Config, tokens apiclient.TokenMinter, logger *slog.Logger, opts ...apiclient.Option) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		cfg:       cfg,
		tokens:    tokens,
		logger:    logger,
		options:   opts,
		items:     make(map[string]*Workspace),
		anonAPI:   apiclient.New(cfg.API, nil, tokens, logger, opts...),
		anonCache: cache.New(cfg.CacheTTL),
	}
}

// Get returns the workspace of sess, creating it on first use.
func (r *Registry) Get(sess *session.Session) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ws, ok := r.items[sess.ID()]; ok {
		return ws
	}
	api := apiclient.New(r.cfg.API, sess, r.tokens, r.logger.With("session_id", sess.ID()), r.options...)
	ws := newWorkspace(sess, api, cache.New(r.cfg.CacheTTL))
	r.items[sess.ID()] = ws
	r.logger.Debug("workspace created", "session_id", sess.ID(), "email", sess.Email())
	return ws
}

// Anonymous returns a throwaway workspace sharing one client and cache
// across all signed-out requests. Its slots and notices are per call.
func (r *Registry) Anonymous() *Workspace {
	return newWorkspace(nil, r.anonAPI, r.anonCache)
}

// Drop forgets the workspace of sessionID and stops its background work.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	ws, ok := r.items[sessionID]
	delete(r.items, sessionID)
	r.mu.Unlock()

	if ok {
		r.release(sessionID, ws)
		r.logger.Debug("workspace dropped", "session_id", sessionID)
	}
}

// Sweep drops every workspace whose session has expired at now and returns
// how many went away.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	expired := make(map[string]*Workspace)
	for id, ws := range r.items {
		if ws.Session.Expired(now) {
			expired[id] = ws
			delete(r.items, id)
		}
	}
	r.mu.Unlock()

	for id, ws := range expired {
		r.release(id, ws)
	}
	if len(expired) > 0 {
		r.logger.Info("expired workspaces swept", "count", len(expired))
	}
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}

func (r *Registry) release(sessionID string, ws *Workspace) {
	ws.close()
	if r.cfg.Limiter != nil {
		r.cfg.Limiter.Forget(sessionID)
	}
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Set attaches ws to the request.
func Set(c *gin.Context, ws *Workspace) {
	c.Set(ginKey, ws)
}

// FromGin returns the workspace attached by the auth middleware, or nil.
func FromGin(c *gin.Context) *Workspace {
	v, ok := c.Get(ginKey)
	if !ok {
		return nil
	}
	ws, _ := v.(*Workspace)
	return ws
}
