// Package ctx provides the request context handed to controllers.
//
// A handler receives one *Context instead of (w, r):
//
//	func (h *CartController) Remove(c *ctx.Context) {
//	    idx, ok := c.ParamInt("index")
//	    ...
//	    c.Flash(session.FlashSuccess, "Removed")
//	    c.RedirectTo("/cart/view")
//	}
//
//	r.Get("/cart/remove/{index}", "cart.remove", ctx.Wrap(h.Remove))
package ctx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/session"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	mu     sync.RWMutex
	store  map[string]any
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a path parameter as an ID.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// ParamInt parses a path parameter as a (possibly negative) integer.
func (c *Context) ParamInt(key string) (int, bool) {
	n, err := strconv.Atoi(c.Param(key))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// PostForm returns a form field from the request body.
func (c *Context) PostForm(key string) string {
	return c.R.PostFormValue(key)
}

func (c *Context) Method() string { return c.R.Method }

func (c *Context) IsPost() bool { return c.R.Method == http.MethodPost }

// ClientIP returns the client IP, respecting X-Forwarded-For.
func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	ip := c.R.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Logger returns the request-scoped logger.
func (c *Context) Logger() *slog.Logger { return logger.WithCtx(c.Context()) }

// Session returns the request session.
func (c *Context) Session() *session.Session { return session.FromCtx(c.R) }

// Identity returns the logged-in principal, if any.
func (c *Context) Identity() (middleware.Identity, bool) {
	return middleware.IdentityFromCtx(c.R)
}

// Flash queues a message for the next view.
func (c *Context) Flash(category, message string) {
	c.Session().AddFlash(category, message)
}

// ─── Per-request store ────────────────────────────────────────────────────────

func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindForm decodes and validates the form into dest. On failure it writes a
// 400 (malformed body) or 422 (field errors) and returns false.
func (c *Context) BindForm(dest any) bool {
	errs, err := bind.Form(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v with the given status code.
func (c *Context) JSON(code int, v any) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	c.status = code
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

// ViewUser is the principal summary embedded in every view.
type ViewUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// View is the document a renderer consumes: page data plus the flashes
// consumed from the session and the current user.
type View struct {
	Status  int             `json:"status"`
	Page    string          `json:"page"`
	Data    any             `json:"data,omitempty"`
	Flashes []session.Flash `json:"flashes"`
	User    *ViewUser       `json:"user,omitempty"`
}

// Render sends the view model for page with a 200.
func (c *Context) Render(page string, data any) {
	c.RenderStatus(http.StatusOK, page, data)
}

// RenderStatus sends the view model with an explicit status.
func (c *Context) RenderStatus(code int, page string, data any) {
	v := View{Status: code, Page: page, Data: data, Flashes: c.Session().Flashes()}
	if v.Flashes == nil {
		v.Flashes = []session.Flash{}
	}
	if id, ok := c.Identity(); ok {
		v.User = &ViewUser{ID: id.UserID, Username: id.Username, Role: id.Role}
	}
	c.JSON(code, v)
}

// Success sends a 200 envelope.
func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, response.Envelope{Status: http.StatusOK, Data: data})
}

// Error sends an error envelope.
func (c *Context) Error(code int, message string) {
	c.JSON(code, response.Envelope{Status: code, Message: message})
}

// ServerError logs err and sends a generic 500.
func (c *Context) ServerError(msg string, err error) {
	logger.WithCtx(c.Context()).Error(msg, "error", err)
	c.Error(http.StatusInternalServerError, "Internal Server Error")
}

// ValidationError sends a 422 with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, response.Envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

func (c *Context) Forbidden() { c.Error(http.StatusForbidden, "Forbidden") }

func (c *Context) NotFound(message ...string) {
	msg := "Not found"
	if len(message) > 0 {
		msg = message[0]
	}
	c.Error(http.StatusNotFound, msg)
}

// Redirect sends an HTTP redirect with an explicit code.
func (c *Context) Redirect(code int, url string) {
	c.status = code
	http.Redirect(c.W, c.R, url, code)
}

// RedirectTo sends a 303 See Other, the post-mutation redirect.
func (c *Context) RedirectTo(url string) {
	c.Redirect(http.StatusSeeOther, url)
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
