package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/session"
)

func withSession(r *http.Request, s *session.Session) *http.Request {
	return r.WithContext(session.WithSession(r.Context(), s))
}

func TestRequireLoginRedirectsAnonymous(t *testing.T) {
	h := RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart/view", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fcart%2Fview", rec.Header().Get("Location"))
}

func TestIdentifyAttachesIdentity(t *testing.T) {
	sess := session.FromCtx(httptest.NewRequest(http.MethodGet, "/", nil))
	sess.Set(SessionUserKey, float64(3))

	resolve := func(_ context.Context, id uint) (Identity, error) {
		return Identity{UserID: id, Username: "olive", Role: "CUSTOMER"}, nil
	}

	var got Identity
	h := Identify(resolve)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromCtx(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), withSession(httptest.NewRequest(http.MethodGet, "/", nil), sess))

	assert.Equal(t, Identity{UserID: 3, Username: "olive", Role: "CUSTOMER"}, got)
}

func TestIdentifyDropsUnknownUser(t *testing.T) {
	sess := session.FromCtx(httptest.NewRequest(http.MethodGet, "/", nil))
	sess.Set(SessionUserKey, float64(99))

	resolve := func(context.Context, uint) (Identity, error) { return Identity{}, ErrUnknownIdentity }

	h := Identify(resolve)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := IdentityFromCtx(r)
		assert.False(t, ok)
	}))
	h.ServeHTTP(httptest.NewRecorder(), withSession(httptest.NewRequest(http.MethodGet, "/", nil), sess))

	_, ok := sess.GetUint(SessionUserKey)
	assert.False(t, ok)
}

func TestIdentifyStoreFailureIs500(t *testing.T) {
	sess := session.FromCtx(httptest.NewRequest(http.MethodGet, "/", nil))
	sess.Set(SessionUserKey, float64(1))

	resolve := func(context.Context, uint) (Identity, error) { return Identity{}, errors.New("db down") }

	rec := httptest.NewRecorder()
	Identify(resolve)(http.NotFoundHandler()).ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/", nil), sess))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(2, time.Minute)
	defer l.Stop()

	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	other := httptest.NewRequest(http.MethodPost, "/login", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
