package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestNamedRoutesAndURL(t *testing.T) {
	r := New()
	r.Get("/product/{id}", "product.show", ok)

	path, found := r.Path("product.show")
	require.True(t, found)
	assert.Equal(t, "/product/{id}", path)

	url, err := r.URL("product.show", map[string]string{"id": "4"})
	require.NoError(t, err)
	assert.Equal(t, "/product/4", url)

	_, err = r.URL("product.show", nil)
	assert.Error(t, err)
}

func TestGroupMiddlewareOrder(t *testing.T) {
	var trail []string
	mark := func(tag string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trail = append(trail, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := New()
	admin := r.Group("/product", mark("group"))
	admin.Get("/view_all", "product.index", ok, mark("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/product/view_all", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"group", "route"}, trail)
}

func TestMatchRegistersGetAndPost(t *testing.T) {
	r := New()
	r.Match("/login", "auth.login", ok)

	for _, m := range []string{http.MethodGet, http.MethodPost} {
		rec := httptest.NewRecorder()
		r.Handler().ServeHTTP(rec, httptest.NewRequest(m, "/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code, m)
	}

	assert.Equal(t, []RouteInfo{
		{Method: http.MethodGet, Path: "/login", Name: "auth.login"},
		{Method: http.MethodPost, Path: "/login", Name: "auth.login"},
	}, r.Routes())
}
