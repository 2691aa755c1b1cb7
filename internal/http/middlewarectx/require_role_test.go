package middlewarectx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"

	"github.com/vrxmike/biodata/internal/lib/authz"
)

func newAuthedRequest(userUID, role, targetUID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/registration/user/"+targetUID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userId", targetUID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, UserUID, userUID)
	ctx = context.WithValue(ctx, Role, role)
	return req.WithContext(ctx)
}

func TestRequireSelfOrAdmin(t *testing.T) {
	tests := []struct {
		name           string
		userUID        string
		role           string
		targetUID      string
		wantStatusCode int
	}{
		{"owner reads own record", "uid-1", authz.RoleStandardUser, "uid-1", http.StatusOK},
		{"admin reads any record", "admin-uid", authz.RoleAdmin, "uid-1", http.StatusOK},
		{"stranger is rejected", "uid-2", authz.RoleStandardUser, "uid-1", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			RequireSelfOrAdmin("userId", newNoopLogger())(next).
				ServeHTTP(rec, newAuthedRequest(tt.userUID, tt.role, tt.targetUID))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		role           string
		requiredRole   string
		wantStatusCode int
	}{
		{"admin passes admin check", authz.RoleAdmin, authz.RoleAdmin, http.StatusOK},
		{"standard user fails admin check", authz.RoleStandardUser, authz.RoleAdmin, http.StatusForbidden},
		{"missing role fails", "", authz.RoleStandardUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.role != "" {
				req = req.WithContext(context.WithValue(req.Context(), Role, tt.role))
			}

			rec := httptest.NewRecorder()
			RequireRole(tt.requiredRole, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
		})
	}
}
