// Package session provides server-side HTTP sessions stored in a cache.Store.
//
// The cookie carries only a signed token naming the session ID; the data
// lives under "session:<id>" in the store. The middleware saves a changed
// session just before the response headers go out, so handlers never call
// Save themselves:
//
//	r.Use(session.Middleware(manager))
//
//	sess := session.FromCtx(r)
//	sess.Set("user_id", user.ID)
//	sess.AddFlash(session.FlashSuccess, "Welcome back")
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Flash categories.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
)

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		CookieName: "storefront_session",
		TTL:        2 * time.Hour,
		HTTPOnly:   true,
		Secure:     false,
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// Flash is a one-shot message shown on the next rendered view.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type record struct {
	Values  map[string]any `json:"values"`
	Flashes []Flash        `json:"flashes,omitempty"`
}

// Manager loads and persists sessions.
type Manager struct {
	store  cache.Store
	signer *auth.Signer
	opts   Options
}

func NewManager(store cache.Store, signer *auth.Signer, opts Options) *Manager {
	return &Manager{store: store, signer: signer, opts: opts}
}

// Session is an in-request session handle.
//
// Besides the full record it remembers what this request changed, so Save
// can merge those changes into a record another request on the same session
// stored in the meantime.
type Session struct {
	mu      sync.Mutex
	id      string
	staleID string // previous ID to delete on save after Regenerate
	rec     record
	changed bool

	stored   bool // rec was loaded from the store
	loaded   int  // flashes present at load
	consumed int  // of those, how many this request consumed
	added    []Flash
	sets     map[string]any
	deletes  map[string]bool
}

func newID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("session: entropy: %v", err))
	}
	return hex.EncodeToString(b)
}

func storeKey(id string) string { return "session:" + id }

func fresh() *Session {
	return &Session{id: newID(), rec: record{Values: map[string]any{}}}
}

// ID returns the session ID.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.Values[key] = value
	s.track(key, value, false)
	s.changed = true
}

func (s *Session) track(key string, value any, deleted bool) {
	if s.sets == nil {
		s.sets, s.deletes = map[string]any{}, map[string]bool{}
	}
	if deleted {
		delete(s.sets, key)
		s.deletes[key] = true
		return
	}
	delete(s.deletes, key)
	s.sets[key] = value
}

func (s *Session) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.rec.Values[key]
	return v, ok
}

func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// GetUint reads a numeric value. JSON round-trips numbers as float64.
func (s *Session) GetUint(key string) (uint, bool) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case uint:
		return n, true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	}
	return 0, false
}

func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rec.Values, key)
	s.track(key, nil, true)
	s.changed = true
}

// AddFlash queues a message for the next view.
func (s *Session) AddFlash(category, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := Flash{Category: category, Message: message}
	s.rec.Flashes = append(s.rec.Flashes, f)
	s.added = append(s.added, f)
	s.changed = true
}

// Flashes returns and clears the pending flash messages.
func (s *Session) Flashes() []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.rec.Flashes
	if len(out) > 0 {
		s.rec.Flashes = nil
		s.consumed = s.loaded
		s.added = nil
		s.changed = true
	}
	return out
}

// Regenerate moves the session to a fresh ID, keeping its data.
// Call it on privilege changes such as login.
func (s *Session) Regenerate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staleID == "" {
		s.staleID = s.id
	}
	s.id = newID()
	s.changed = true
}

// Invalidate drops all data and moves to a fresh ID. Queued flashes survive
// so the logout message still reaches the next view.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staleID == "" {
		s.staleID = s.id
	}
	s.id = newID()
	s.rec.Values = map[string]any{}
	s.changed = true
}

// Load returns the session named by the request cookie, or a fresh one.
func (m *Manager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil {
		return fresh()
	}

	id, err := m.signer.Verify(cookie.Value)
	if err != nil {
		return fresh()
	}

	var rec record
	hit, err := m.store.Get(r.Context(), storeKey(id), &rec)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("session: load failed", "error", err)
		return fresh()
	}
	if !hit {
		return fresh()
	}
	if rec.Values == nil {
		rec.Values = map[string]any{}
	}
	return &Session{id: id, rec: rec, stored: true, loaded: len(rec.Flashes)}
}

// Save persists a changed session and writes its cookie.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.changed {
		return nil
	}

	if s.staleID != "" {
		if err := m.store.Delete(ctx, storeKey(s.staleID)); err != nil {
			return fmt.Errorf("session: delete stale: %w", err)
		}
		s.staleID = ""
	} else if s.stored {
		m.merge(ctx, s)
	}

	if err := m.store.Set(ctx, storeKey(s.id), s.rec, m.opts.TTL); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}

	token, err := m.signer.Sign(s.id, m.opts.TTL)
	if err != nil {
		return fmt.Errorf("session: sign: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    token,
		Path:     m.opts.Path,
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: m.opts.HTTPOnly,
		Secure:   m.opts.Secure,
		SameSite: m.opts.SameSite,
	})

	s.changed = false
	s.stored, s.loaded, s.consumed = true, len(s.rec.Flashes), 0
	s.added, s.sets, s.deletes = nil, nil, nil
	return nil
}

// merge rebuilds s.rec from the currently stored record plus this request's
// own changes: key writes and deletes, consumed flashes dropped from the
// front, new flashes appended. On a read failure s.rec is saved as is.
func (m *Manager) merge(ctx context.Context, s *Session) {
	var cur record
	hit, err := m.store.Get(ctx, storeKey(s.id), &cur)
	if err != nil || !hit {
		return
	}

	values := cur.Values
	if values == nil {
		values = map[string]any{}
	}
	for k, v := range s.sets {
		values[k] = v
	}
	for k := range s.deletes {
		delete(values, k)
	}

	flashes := cur.Flashes
	if s.consumed > 0 && len(flashes) >= s.consumed {
		flashes = flashes[s.consumed:]
	}
	flashes = append(append([]Flash(nil), flashes...), s.added...)
	if len(flashes) == 0 {
		flashes = nil
	}

	s.rec = record{Values: values, Flashes: flashes}
}

type ctxKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request session, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// FromCtx returns the request session. Outside the middleware it returns a
// detached empty session that is never saved.
func FromCtx(r *http.Request) *Session {
	if s := FromContext(r.Context()); s != nil {
		return s
	}
	return fresh()
}

// saveOnWrite persists the session right before the first header write.
type saveOnWrite struct {
	http.ResponseWriter
	save    func()
	flushed bool
}

func (w *saveOnWrite) flush() {
	if !w.flushed {
		w.flushed = true
		w.save()
	}
}

func (w *saveOnWrite) WriteHeader(code int) {
	w.flush()
	w.ResponseWriter.WriteHeader(code)
}

func (w *saveOnWrite) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

// Middleware loads the session into the request context and saves it when
// the handler responds.
func Middleware(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := m.Load(r)
			ctx := WithSession(r.Context(), sess)

			sw := &saveOnWrite{ResponseWriter: w}
			sw.save = func() {
				if err := m.Save(ctx, w, sess); err != nil {
					logger.WithCtx(ctx).Error("session: save failed", "error", err)
				}
			}

			next.ServeHTTP(sw, r.WithContext(ctx))
			sw.flush()
		})
	}
}
