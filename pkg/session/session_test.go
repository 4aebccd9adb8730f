package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/cache"
)

func newManager() (*Manager, *cache.Memory) {
	store := cache.NewMemory()
	return NewManager(store, auth.NewSigner("test-key"), DefaultOptions()), store
}

// serve runs h behind the middleware, replaying cookies from the previous response.
func serve(m *Manager, prev *httptest.ResponseRecorder, h http.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if prev != nil {
		for _, c := range prev.Result().Cookies() {
			req.AddCookie(c)
		}
	}
	rec := httptest.NewRecorder()
	Middleware(m)(h).ServeHTTP(rec, req)
	return rec
}

func TestValuesPersistAcrossRequests(t *testing.T) {
	m, _ := newManager()

	first := serve(m, nil, func(w http.ResponseWriter, r *http.Request) {
		FromCtx(r).Set("user_id", uint(7))
		w.WriteHeader(http.StatusNoContent)
	})
	require.Len(t, first.Result().Cookies(), 1)

	serve(m, first, func(w http.ResponseWriter, r *http.Request) {
		id, ok := FromCtx(r).GetUint("user_id")
		assert.True(t, ok)
		assert.Equal(t, uint(7), id)
	})
}

func TestUnchangedSessionSetsNoCookie(t *testing.T) {
	m, _ := newManager()
	rec := serve(m, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	assert.Empty(t, rec.Result().Cookies())
}

func TestFlashesAreConsumedOnce(t *testing.T) {
	m, _ := newManager()

	first := serve(m, nil, func(w http.ResponseWriter, r *http.Request) {
		FromCtx(r).AddFlash(FlashSuccess, "Cart Cleared")
	})

	var got []Flash
	second := serve(m, first, func(w http.ResponseWriter, r *http.Request) {
		got = FromCtx(r).Flashes()
		w.WriteHeader(http.StatusOK)
	})
	assert.Equal(t, []Flash{{Category: FlashSuccess, Message: "Cart Cleared"}}, got)

	serve(m, second, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, FromCtx(r).Flashes())
	})
}

func TestRegenerateDropsOldRecord(t *testing.T) {
	m, store := newManager()

	var oldID, newID string
	first := serve(m, nil, func(w http.ResponseWriter, r *http.Request) {
		s := FromCtx(r)
		s.Set("k", "v")
		oldID = s.ID()
	})
	serve(m, first, func(w http.ResponseWriter, r *http.Request) {
		s := FromCtx(r)
		s.Regenerate()
		newID = s.ID()
	})

	require.NotEqual(t, oldID, newID)

	var rec record
	hit, err := store.Get(context.Background(), storeKey(oldID), &rec)
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = store.Get(context.Background(), storeKey(newID), &rec)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", rec.Values["k"])
}

func TestInvalidateClearsValuesKeepsFlashes(t *testing.T) {
	m, _ := newManager()

	first := serve(m, nil, func(w http.ResponseWriter, r *http.Request) {
		FromCtx(r).Set("user_id", uint(1))
	})
	second := serve(m, first, func(w http.ResponseWriter, r *http.Request) {
		s := FromCtx(r)
		s.Invalidate()
		s.AddFlash(FlashSuccess, "You have been logged out.")
	})
	serve(m, second, func(w http.ResponseWriter, r *http.Request) {
		s := FromCtx(r)
		_, ok := s.GetUint("user_id")
		assert.False(t, ok)
		assert.Len(t, s.Flashes(), 1)
	})
}

func TestTamperedCookieStartsFreshSession(t *testing.T) {
	m, _ := newManager()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultOptions().CookieName, Value: "not-a-token"})

	s := m.Load(req)
	_, ok := s.Get("user_id")
	assert.False(t, ok)
}

func requestWith(prev *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range prev.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestConcurrentRequestsMergeOnSave(t *testing.T) {
	m, _ := newManager()
	ctx := context.Background()
	first := serve(m, nil, func(w http.ResponseWriter, r *http.Request) {
		FromCtx(r).Set("user_id", uint(1))
		w.WriteHeader(http.StatusNoContent)
	})

	a := m.Load(requestWith(first))
	b := m.Load(requestWith(first))
	require.Equal(t, a.ID(), b.ID())

	a.Set("last_product", "4")
	a.AddFlash(FlashSuccess, "Hat has been successfully added to your cart.")
	b.AddFlash(FlashSuccess, "Cart Cleared")

	require.NoError(t, m.Save(ctx, httptest.NewRecorder(), a))
	require.NoError(t, m.Save(ctx, httptest.NewRecorder(), b))

	got := m.Load(requestWith(first))
	uid, ok := got.GetUint("user_id")
	assert.True(t, ok)
	assert.Equal(t, uint(1), uid)
	v, _ := got.GetString("last_product")
	assert.Equal(t, "4", v)
	assert.Equal(t, []Flash{
		{Category: FlashSuccess, Message: "Hat has been successfully added to your cart."},
		{Category: FlashSuccess, Message: "Cart Cleared"},
	}, got.Flashes())
}

func TestMergeDropsOnlyConsumedFlashes(t *testing.T) {
	m, _ := newManager()
	ctx := context.Background()
	first := serve(m, nil, func(w http.ResponseWriter, r *http.Request) {
		s := FromCtx(r)
		s.Set("user_id", uint(1))
		s.AddFlash(FlashError, "Cart already empty")
		w.WriteHeader(http.StatusNoContent)
	})

	viewer := m.Load(requestWith(first))
	writer := m.Load(requestWith(first))

	assert.Len(t, viewer.Flashes(), 1)
	writer.AddFlash(FlashWarning, "You cannot exceed more than 99 of the same item.")
	writer.Delete("user_id")

	require.NoError(t, m.Save(ctx, httptest.NewRecorder(), writer))
	require.NoError(t, m.Save(ctx, httptest.NewRecorder(), viewer))

	got := m.Load(requestWith(first))
	_, ok := got.GetUint("user_id")
	assert.False(t, ok, "delete from the other request survives")
	assert.Equal(t, []Flash{
		{Category: FlashWarning, Message: "You cannot exceed more than 99 of the same item."},
	}, got.Flashes())
}
