package ctx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/session"
)

func TestWrapAndJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.JSON(http.StatusOK, map[string]any{"ok": true})
	})(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestParamHelpers(t *testing.T) {
	r := chi.NewRouter()
	var id uint
	var idx int
	var idOK, idxOK bool
	r.Get("/cart/remove/{index}/{id}", appctx.Wrap(func(c *appctx.Context) {
		idx, idxOK = c.ParamInt("index")
		id, idOK = c.ParamUint("id")
		c.Success(nil)
	}))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart/remove/-1/abc", nil))
	assert.True(t, idxOK)
	assert.Equal(t, -1, idx)
	assert.False(t, idOK)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart/remove/2/7", nil))
	assert.Equal(t, 2, idx)
	assert.Equal(t, uint(7), id)
}

func TestRenderIncludesFlashesAndUser(t *testing.T) {
	sess := session.FromCtx(httptest.NewRequest(http.MethodGet, "/", nil))
	sess.AddFlash(session.FlashSuccess, "Cart Cleared")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	reqCtx := session.WithSession(req.Context(), sess)
	reqCtx = middleware.WithIdentity(reqCtx, middleware.Identity{UserID: 1, Username: "olive", Role: "CUSTOMER"})
	req = req.WithContext(reqCtx)

	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.Render("cart", map[string]int{"count": 0})
	})(rec, req)

	var view appctx.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "cart", view.Page)
	assert.Equal(t, []session.Flash{{Category: "success", Message: "Cart Cleared"}}, view.Flashes)
	require.NotNil(t, view.User)
	assert.Equal(t, "olive", view.User.Username)

	assert.Empty(t, sess.Flashes(), "flashes are consumed by Render")
}

func TestRenderAnonymousHasEmptyFlashes(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.Render("home", nil)
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, rec.Body.String(), `"flashes":[]`)
	assert.NotContains(t, rec.Body.String(), `"user"`)
}

func TestBindFormInvalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(url.Values{"email": {"nope"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	appctx.Wrap(func(c *appctx.Context) {
		var in struct {
			Email string `form:"email" validate:"required,email"`
		}
		assert.False(t, c.BindForm(&in))
	})(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email"`)
}

func TestRedirectTo(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.RedirectTo("/cart/view")
		assert.Equal(t, http.StatusSeeOther, c.WrittenStatus())
	})(rec, httptest.NewRequest(http.MethodPost, "/cart/add/1", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cart/view", rec.Header().Get("Location"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")

	appctx.Wrap(func(c *appctx.Context) {
		assert.Equal(t, "1.2.3.4", c.ClientIP())
	})(httptest.NewRecorder(), req)
}
