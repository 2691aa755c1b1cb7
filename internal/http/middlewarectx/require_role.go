package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/vrxmike/biodata/internal/http/response"
	"github.com/vrxmike/biodata/internal/lib/authz"
)

// RequireRole пропускает запрос, только если роли субъекта достаточно для
// требуемой роли. Решение принимает authz.Allow, middleware лишь достаёт
// роль из контекста.
func RequireRole(requiredRole string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || !authz.Allow(role, requiredRole) {
				log.Error("insufficient permissions", slog.String("role", role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden: insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSelfOrAdmin пропускает запрос, если субъект — администратор либо
// обращается к собственной записи (сравнение с URL-параметром urlParam).
func RequireSelfOrAdmin(urlParam string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := r.Context().Value(Role).(string)
			userUID, _ := r.Context().Value(UserUID).(string)
			targetUID := chi.URLParam(r, urlParam)

			if !authz.Allow(role, authz.RoleAdmin) && userUID != targetUID {
				log.Error("insufficient permissions",
					slog.String("role", role),
					slog.String("user_uid", userUID),
					slog.String("target_uid", targetUID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden: insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
