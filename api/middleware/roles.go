package middleware

import (
	"net/http"

	"github.com/angelmondragon/studioops-backend/api/responses"
	"github.com/angelmondragon/studioops-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/studioops-backend/pkg/errors"
	"github.com/angelmondragon/studioops-backend/pkg/logger"
)

// RequireDeploymentManager rejects callers whose role cannot issue or close
// deployments.
func RequireDeploymentManager(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := enums.ParseActorRole(RoleFromContext(r.Context()))
			if err != nil || !role.CanManageDeployments() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "deployment manager role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
