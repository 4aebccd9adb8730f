package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/session"
)

// SessionUserKey is the session key holding the logged-in user's ID.
const SessionUserKey = "user_id"

// ErrUnknownIdentity tells Identify that the session points at a user that
// no longer exists.
var ErrUnknownIdentity = errors.New("middleware: unknown identity")

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID   uint
	Username string
	Role     string
}

// IdentityResolver loads the identity for a user ID.
type IdentityResolver func(ctx context.Context, userID uint) (Identity, error)

type identityKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromCtx returns the request's identity, if logged in.
func IdentityFromCtx(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey{}).(Identity)
	return id, ok
}

func RoleFromCtx(r *http.Request) (string, bool) {
	id, ok := IdentityFromCtx(r)
	return id.Role, ok
}

// Identify resolves the session's user into the request context. Must run
// after session.Middleware.
func Identify(resolve IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromCtx(r)
			uid, ok := sess.GetUint(SessionUserKey)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			id, err := resolve(r.Context(), uid)
			switch {
			case errors.Is(err, ErrUnknownIdentity):
				sess.Delete(SessionUserKey)
				next.ServeHTTP(w, r)
				return
			case err != nil:
				logger.WithCtx(r.Context()).Error("identify: resolve user", "user_id", uid, "error", err)
				response.Error(w, http.StatusInternalServerError, "Internal Server Error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireLogin redirects anonymous requests to /login, remembering the
// requested path in ?next=.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromCtx(r); !ok {
			target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
