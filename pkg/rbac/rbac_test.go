package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/middleware"
)

func TestHasRole(t *testing.T) {
	reached := false
	h := HasRole(RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name     string
		identity *middleware.Identity
		method   string
		want     int
	}{
		{"anonymous", nil, http.MethodGet, http.StatusForbidden},
		{"customer get", &middleware.Identity{UserID: 1, Role: RoleCustomer}, http.MethodGet, http.StatusForbidden},
		{"customer post", &middleware.Identity{UserID: 1, Role: RoleCustomer}, http.MethodPost, http.StatusForbidden},
		{"admin", &middleware.Identity{UserID: 2, Role: RoleAdmin}, http.MethodPost, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(tc.method, "/product/create", nil)
			if tc.identity != nil {
				req = req.WithContext(middleware.WithIdentity(req.Context(), *tc.identity))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
			assert.Equal(t, tc.want == http.StatusOK, reached)
		})
	}
}
